package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adyen-checkout-backend/internal/shared/response"
)

const (
	RequestIDHeader     = "X-Request-ID"
	ContextKeyRequestID = response.RequestIDKey
)

// RequestID propagates the caller's request id or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
