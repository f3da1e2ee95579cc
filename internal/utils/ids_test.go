package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedIDs(t *testing.T) {
	txn, err := NewTransactionID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{12}$`), txn)

	tracking, err := NewTrackingID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{10}$`), tracking)
}

func TestToIST(t *testing.T) {
	utc := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)
	ist := ToIST(utc)
	assert.Equal(t, 4, int(ist.Month()))
	assert.Equal(t, 1, ist.Day())
	assert.Equal(t, 1, ist.Hour())
	assert.Equal(t, 30, ist.Minute())
}
