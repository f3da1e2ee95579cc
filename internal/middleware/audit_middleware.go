package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// AuditTrail tags every request with an id and logs state-changing calls.
func AuditTrail() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			return
		}
		log.Printf("📝 [%s] %s %s user=%d role=%s status=%d in %s",
			requestID, c.Request.Method, c.Request.URL.Path,
			CurrentUserID(c), CurrentRole(c), c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

// AuditPriceChanges logs successful price edits on a product.
func AuditPriceChanges() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var requestData map[string]any
		if err := json.Unmarshal(bodyBytes, &requestData); err != nil {
			c.Next()
			return
		}
		_, priceChanged := requestData["price"]
		_, discountChanged := requestData["discount_percentage"]

		c.Next()

		if (priceChanged || discountChanged) && c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			log.Printf("💰 Price change on product %s by user %d: price=%v discount=%v",
				c.Param("id"), CurrentUserID(c), requestData["price"], requestData["discount_percentage"])
		}
	}
}
