package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDContextKey is the gin context key carrying the request ID
const RequestIDContextKey = "request_id"

// TenantIDContextKey is the gin context key carrying the resolved tenant ID
const TenantIDContextKey = "tenant_id"

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDContextKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failure leaves a timestamp-based ID
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(bytes)
}

// Tenant resolves the tenant ID from the X-Tenant-ID header and stores it in
// the gin context. Requests without a valid tenant proceed; handlers decide
// whether the tenant is required for the operation.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-Tenant-ID"); raw != "" {
			if tenantID, err := uuid.Parse(raw); err == nil {
				c.Set(TenantIDContextKey, tenantID.String())
			}
		}
		c.Next()
	}
}

// GetTenantID returns the tenant ID resolved by the Tenant middleware.
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDContextKey)
}

// GetRequestID returns the request ID set by the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

// Timeout aborts requests whose handler chain exceeds the given duration by
// attaching a deadline to the request context. Handlers observe the deadline
// through ctx.Err(); the middleware itself does not write a response.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
