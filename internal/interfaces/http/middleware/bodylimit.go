package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodyLimitConfig holds the request body size limits
type BodyLimitConfig struct {
	// MaxBytes is the default limit applied to every request
	MaxBytes int64
	// PrefixOverrides maps a path prefix to its own limit. Upload
	// endpoints accept file payloads well above the JSON budget.
	PrefixOverrides map[string]int64
}

// BodyLimit returns a middleware that rejects requests whose body exceeds
// maxBytes
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig returns a body limit middleware with per-prefix
// overrides
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.limitFor(c.Request.URL.Path)

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REQUEST_TOO_LARGE",
					"message": "Request body exceeds maximum allowed size",
				},
			})
			return
		}

		// Content-Length can lie or be absent, the reader enforces the
		// limit on streaming bodies
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func (cfg BodyLimitConfig) limitFor(path string) int64 {
	for prefix, limit := range cfg.PrefixOverrides {
		if strings.HasPrefix(path, prefix) {
			return limit
		}
	}
	return cfg.MaxBytes
}
