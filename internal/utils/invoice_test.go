package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bazaar_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidOrder() *models.Order {
	txn, tracking := "ABCDEF123456", "TRK0000001"
	paid := models.StatusPaid
	return &models.Order{
		ID:            12,
		UserID:        3,
		TotalPrice:    150,
		PaymentStatus: &paid,
		TransactionID: &txn,
		TrackingID:    &tracking,
		UpdatedAt:     time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2, Price: 50, Product: &models.Product{Name: "Mug <large>"}},
			{ProductID: 2, Quantity: 1, Price: 50},
		},
	}
}

func TestTrackingQRPNG(t *testing.T) {
	png, err := TrackingQRPNG("TRK0000001", 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = TrackingQRPNG("", 128)
	assert.Error(t, err)
}

func TestRenderInvoiceHTML(t *testing.T) {
	data, err := NewInvoiceData(paidOrder(), &models.User{Username: "asha", Email: "asha@example.com"})
	require.NoError(t, err)
	require.Len(t, data.Lines, 2)
	assert.Equal(t, "Product #2", data.Lines[1].Name)
	assert.Equal(t, "01 Feb 2024 15:30 IST", data.IssuedAt)

	html, err := RenderInvoiceHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "Invoice #12")
	assert.Contains(t, html, "ABCDEF123456")
	assert.Contains(t, html, "Mug &lt;large&gt;")
	assert.Contains(t, html, "150.00")
	assert.True(t, strings.Contains(html, `src="data:image/png;base64,`))
}

func TestPaymentConfirmationHTML(t *testing.T) {
	body, err := PaymentConfirmationHTML("asha", paidOrder())
	require.NoError(t, err)
	assert.Contains(t, body, "Hello asha")
	assert.Contains(t, body, "INR 150.00")
	assert.Contains(t, body, "TRK0000001")
}
