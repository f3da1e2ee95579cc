package auth

import (
	"net/http/httptest"
	"testing"

	"bazaar_back_end/internal/config"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderName(t *testing.T) {
	req := httptest.NewRequest("GET", "/auth/google?provider=google", nil)
	name, err := providerName(req)
	require.NoError(t, err)
	assert.Equal(t, "google", name)

	_, err = providerName(httptest.NewRequest("GET", "/auth/", nil))
	assert.Error(t, err)
}

func TestCallbackURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/auth/google/callback", CallbackURL("http://localhost:8000", "google"))
}

func TestNewSessionStore(t *testing.T) {
	store := NewSessionStore("secret", true)
	assert.True(t, store.Options.HttpOnly)
	assert.True(t, store.Options.Secure)
	assert.Equal(t, sessionMaxAge, store.Options.MaxAge)
}

func TestInitProviders(t *testing.T) {
	assert.False(t, InitProviders(&config.Config{}))

	cfg := &config.Config{
		BaseURL:            "http://localhost:8000",
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		SessionSecret:      "session",
	}
	require.True(t, InitProviders(cfg))
	t.Cleanup(goth.ClearProviders)

	p, err := goth.GetProvider("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())
}
