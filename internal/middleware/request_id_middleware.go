package middleware

import (
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader is the correlation header echoed on every response.
const RequestIDHeader = "X-Request-Id"

// RequestID creates a Gin middleware that assigns a correlation id to each
// request. An incoming X-Request-Id is honored so ids can flow through
// upstream proxies.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = utils.NewID()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// SecurityHeaders creates a Gin middleware that sets baseline security
// response headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
