package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bazaar_back_end/internal/cache"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"
	"bazaar_back_end/internal/testutil"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	claims map[string]*utils.Claims
	err    error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*utils.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("invalid token: %w", services.ErrUnauthorized)
}

func newStubAuth() stubAuth {
	return stubAuth{claims: map[string]*utils.Claims{
		"admin-token":    {UserID: 1, Username: "root", Role: models.RoleAdmin},
		"customer-token": {UserID: 2, Username: "alice", Role: models.RoleCustomer},
	}}
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthRequired(newStubAuth()), func(c *gin.Context) {
		v := CurrentViewer(c)
		c.JSON(http.StatusOK, gin.H{"id": v.UserID, "role": v.Role, "username": CurrentClaims(c).Username})
	})

	w := do(r, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "customer-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"role":"customer","username":"alice"}`, w.Body.String())
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthRequired(newStubAuth()), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token customer-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredFailsClosedWhenStoreIsDown(t *testing.T) {
	auth := stubAuth{err: fmt.Errorf("revocation store: %w", services.ErrUnavailable)}
	r := gin.New()
	r.GET("/me", AuthRequired(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/me", "customer-token", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/products", OptionalAuth(newStubAuth()), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentRole(c))
	})

	w := do(r, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleGuest, w.Body.String())

	w = do(r, http.MethodGet, "/products", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, w.Body.String())

	w = do(r, http.MethodGet, "/products", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthRequired(newStubAuth()), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/catalog", OptionalAuth(newStubAuth()), RequireRoles(models.RoleAdmin, models.RoleVendor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin", "admin-token", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", "customer-token", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/catalog", "", "").Code)
}

func TestLoginRateLimitLocksAfterFailures(t *testing.T) {
	_, client := testutil.NewTestRedis(t)
	limiter := NewRateLimiter(cache.NewStore(client))

	r := gin.New()
	r.POST("/login", limiter.LoginRateLimit(), func(c *gin.Context) {
		var in struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&in)
		if in.Password != "right" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": in.Username})
	})

	for i := 0; i < LoginMaxAttempts; i++ {
		w := do(r, http.MethodPost, "/login", "", `{"username":"bob","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := do(r, http.MethodPost, "/login", "", `{"username":"bob","password":"right"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other users are unaffected and the body still reaches the handler
	w = do(r, http.MethodPost, "/login", "", `{"username":"carol","password":"right"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"carol"}`, w.Body.String())
}

func TestAPIRateLimit(t *testing.T) {
	_, client := testutil.NewTestRedis(t)
	limiter := NewRateLimiter(cache.NewStore(client))

	r := gin.New()
	r.GET("/search", limiter.SearchRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < SearchMaxRequests; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/search", "", "").Code)
	}
	w := do(r, http.MethodGet, "/search", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestSearchRateLimitAllowsSteadyClient(t *testing.T) {
	mr, client := testutil.NewTestRedis(t)
	limiter := NewRateLimiter(cache.NewStore(client))

	r := gin.New()
	r.GET("/search", limiter.SearchRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	// 20 requests a minute for three minutes stays under the limit of 30.
	for i := 0; i < 3*SearchMaxRequests; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/search", "", "").Code, "request %d", i)
		mr.FastForward(3 * time.Second)
	}
}

func TestRateLimitLetsRequestsThroughWhenRedisIsDown(t *testing.T) {
	mr, client := testutil.NewTestRedis(t)
	limiter := NewRateLimiter(cache.NewStore(client))
	mr.Close()

	r := gin.New()
	r.GET("/x", limiter.APIRateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "", "").Code)
}

func TestAuditTrailSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(AuditTrail())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, http.MethodPost, "/x", "", "{}")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestAuditPriceChangesKeepsBody(t *testing.T) {
	r := gin.New()
	r.PUT("/products/:id", AuditPriceChanges(), func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, body)
	})

	w := do(r, http.MethodPut, "/products/3", "", `{"price":12.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"price":12.5}`, w.Body.String())
}
