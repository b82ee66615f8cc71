package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the standard hardening headers on every
// response. The API serves JSON only; responses carry session-scoped data,
// hence the blanket no-store.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// Meeting audio/video runs on the meeting origin, never here.
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		h.Set("Pragma", "no-cache")

		c.Next()
	}
}
