package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/flowstack/observability"
)

// RequestID injects a unique X-Request-Id header into every request/response
// and seeds an operation context so downstream spans carry the id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)

		oc := observability.NewOperationContext("flowstack", c.FullPath(), id)
		c.Request = c.Request.WithContext(
			observability.WithOperationContext(c.Request.Context(), oc))

		c.Next()
	}
}
