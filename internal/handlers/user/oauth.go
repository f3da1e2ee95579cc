package user

import (
	"net/http"

	"bazaar_back_end/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

// withProvider exposes the :provider path segment the way gothic looks it up.
func withProvider(c *gin.Context) bool {
	provider := c.Param("provider")
	if provider == "" {
		handlers.BadRequest(c, "No provider specified")
		return false
	}
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return true
}

// GET /auth/:provider
func (h *Handler) BeginAuth(c *gin.Context) {
	if !withProvider(c) {
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// GET /auth/:provider/callback
func (h *Handler) CallbackAuth(c *gin.Context) {
	if !withProvider(c) {
		return
	}

	account, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Social login failed"})
		return
	}

	name := account.NickName
	if name == "" {
		name = account.Name
	}
	token, err := h.auth.LoginWithProvider(c.Request.Context(), account.Provider, account.Email, name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}
