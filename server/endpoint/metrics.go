package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the Prometheus registry.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
