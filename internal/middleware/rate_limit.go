package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"bazaar_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3
	APIMaxRequests      = 100
	CartMaxAdds         = 20
	SearchMaxRequests   = 30

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
	APIWindow        = 1 * time.Minute
)

// RateLimiter throttles requests with Redis counters. Redis errors let the request through.
type RateLimiter struct {
	store *cache.Store
}

func NewRateLimiter(store *cache.Store) *RateLimiter {
	return &RateLimiter{store: store}
}

func tooMany(c *gin.Context, msg string, retryAfter time.Duration) {
	c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       msg,
		"retry_after": int(retryAfter.Seconds()),
	})
}

// inCooldown aborts the request when key is blocked.
func (r *RateLimiter) inCooldown(c *gin.Context, key, msg string) bool {
	ttl, err := r.store.CooldownRemaining(c.Request.Context(), key)
	if err != nil {
		log.Printf("⚠️ Rate limit check failed: %v", err)
		return false
	}
	if ttl > 0 {
		tooMany(c, fmt.Sprintf(msg, int(ttl.Minutes())+1), ttl)
		return true
	}
	return false
}

// LoginRateLimit counts failed logins per username and blocks after LoginMaxAttempts.
func (r *RateLimiter) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Username == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + input.Username
		cooldownKey := "login_cooldown:" + input.Username

		if r.inCooldown(c, cooldownKey, "Too many failed attempts. Try again in %d minutes") {
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			attempts, err := r.store.IncrementRateLimit(ctx, key, LoginCooldown)
			if err != nil {
				return
			}
			if attempts >= LoginMaxAttempts {
				r.store.SetCooldown(ctx, cooldownKey, LoginCooldown)
				r.store.Reset(ctx, key)
				log.Printf("🔒 Login locked for %s", input.Username)
			}
		case http.StatusOK:
			r.store.Reset(ctx, key, cooldownKey)
		}
	}
}

// RegisterRateLimit caps successful registrations per IP.
func (r *RateLimiter) RegisterRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := "register_attempts:" + ip
		cooldownKey := "register_cooldown:" + ip

		if r.inCooldown(c, cooldownKey, "Too many registrations. Try again in %d minutes") {
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			n, err := r.store.IncrementRateLimit(ctx, key, RegisterCooldown)
			if err == nil && n >= RegisterMaxAttempts {
				r.store.SetCooldown(ctx, cooldownKey, RegisterCooldown)
				r.store.Reset(ctx, key)
			}
		}
	}
}

// window returns a fixed-window limiter keyed by keyFn.
func (r *RateLimiter) window(prefix string, max int64, keyFn func(*gin.Context) string, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := keyFn(c)
		if id == "" {
			c.Next()
			return
		}

		n, err := r.store.IncrementRateLimit(c.Request.Context(), prefix+id, APIWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit check failed: %v", err)
			c.Next()
			return
		}

		remaining := max - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if n > max {
			tooMany(c, msg, APIWindow)
			return
		}
		c.Next()
	}
}

func clientIP(c *gin.Context) string { return c.ClientIP() }

func userKey(c *gin.Context) string {
	if id := CurrentUserID(c); id != 0 {
		return fmt.Sprint(id)
	}
	return ""
}

// APIRateLimit is the general per-IP budget.
func (r *RateLimiter) APIRateLimit() gin.HandlerFunc {
	return r.window("api_requests:", APIMaxRequests, clientIP, "Too many requests. Try again in 1 minute")
}

// CartRateLimit throttles cart additions per user.
func (r *RateLimiter) CartRateLimit() gin.HandlerFunc {
	return r.window("cart_add:", CartMaxAdds, userKey, "Too many cart additions. Slow down a little")
}

// SearchRateLimit throttles product searches per IP.
func (r *RateLimiter) SearchRateLimit() gin.HandlerFunc {
	return r.window("search_requests:", SearchMaxRequests, clientIP, "Too many searches. Try again in 1 minute")
}
