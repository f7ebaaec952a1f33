package dropshipserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// SystemAPI serves the service banner and liveness probe.
type SystemAPI struct {
	checks map[string]HealthCheck
}

// NewSystemAPI wires named health checks, e.g. the database ping.
func NewSystemAPI(checks map[string]HealthCheck) SystemAPI {
	return SystemAPI{checks: checks}
}

// Get /
func (api *SystemAPI) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Dropship Nexus Order Service API"})
}

// Get /healthz
func (api *SystemAPI) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(api.checks))
	for name, check := range api.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = "unavailable"
			_ = c.Error(err)
			continue
		}
		results[name] = "ok"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}
