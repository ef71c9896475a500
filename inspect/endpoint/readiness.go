package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/wirekit/observability"
)

// Readiness returns a handler for K8s readiness probes. Only a down component
// makes the service not ready; unresolved dependencies still serve.
func Readiness(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK

		sh := observability.NewServiceHealth(serviceName, "").Check(c.Request.Context(), checkers...)
		if sh.Status == observability.HealthStatusDown {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
