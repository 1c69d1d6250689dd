package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz probes every backing service. Any failed probe turns the overall
// status to 503 so load balancers stop routing here.
func (ctrl *Controller) Healthz(c *gin.Context) {
	ctx := c.Request.Context()

	components := gin.H{}
	healthy := true

	if err := ctrl.Infra.Postgres.Ping(); err != nil {
		components["postgres"] = err.Error()
		healthy = false
	} else {
		components["postgres"] = "ok"
	}

	if err := ctrl.Infra.Redis.Ping(ctx); err != nil {
		components["redis"] = err.Error()
		healthy = false
	} else {
		components["redis"] = "ok"
	}

	if err := ctrl.Infra.Minio.Ping(ctx); err != nil {
		components["minio"] = err.Error()
		healthy = false
	} else {
		components["minio"] = "ok"
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{"status": overall, "components": components})
}
