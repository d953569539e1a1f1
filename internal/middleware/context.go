package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/edukita/lms-backend/internal/ssedata"
)

// AttachRequestContext seeds the per-request event buffer the services
// append to.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = ssedata.WithSSEData(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
