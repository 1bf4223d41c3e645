package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/flowstack/observability"
)

// Health returns a handler that reports service health including the status
// of each registered dependency checker.
func Health(serviceName, version string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.NewServiceHealth(serviceName, version)
		for _, checker := range checkers {
			sh.AddComponent(checker.CheckHealth(c.Request.Context()))
		}

		httpStatus := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     sh.Status,
			"service":    serviceName,
			"version":    version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}
