// Package auth configures the social login providers used by gothic.
package auth

import (
	"errors"
	"log"
	"net/http"

	"bazaar_back_end/internal/config"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

const sessionMaxAge = 86400 * 30

// CallbackURL is where a provider sends the user back after consent.
func CallbackURL(baseURL, provider string) string {
	return baseURL + "/auth/" + provider + "/callback"
}

// providerName reads the provider from the query string, where the handlers put the path segment.
func providerName(req *http.Request) (string, error) {
	if provider := req.URL.Query().Get("provider"); provider != "" {
		return provider, nil
	}
	if provider := req.FormValue("provider"); provider != "" {
		return provider, nil
	}
	return "", errors.New("provider not found")
}

// NewSessionStore builds the cookie store gothic keeps its OAuth state in.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(sessionMaxAge)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// InitProviders registers the configured providers. It reports whether social login is enabled.
func InitProviders(cfg *config.Config) bool {
	if !cfg.OAuthEnabled() {
		log.Println("⚠️ No OAuth provider configured, social login disabled")
		return false
	}

	gothic.Store = NewSessionStore(cfg.SessionSecret, cfg.Environment == "production")
	gothic.GetProviderName = providerName

	goth.UseProviders(google.New(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		CallbackURL(cfg.BaseURL, "google"),
		"email", "profile",
	))
	log.Println("✅ Google OAuth enabled")
	return true
}
