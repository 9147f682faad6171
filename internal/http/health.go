package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthHealthy   = "healthy"
	healthUnhealthy = "unhealthy"

	pingTimeout = 2 * time.Second
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports liveness and the state of the library database.
type HealthController struct {
	db        Pinger
	version   string
	startedAt time.Time
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version, startedAt: time.Now()}
}

// Status answers 200 while every dependency responds and 503 otherwise.
func (h *HealthController) Status(c *gin.Context) {
	database := h.checkDatabase(c.Request.Context())

	response := HealthResponse{
		Status:  healthHealthy,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Version: h.version,
		Checks:  map[string]string{"database": database},
	}

	code := http.StatusOK
	if database != "ok" && database != "not configured" {
		response.Status = healthUnhealthy
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}

func (h *HealthController) checkDatabase(ctx context.Context) string {
	if h.db == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// Ping is a dependency-free liveness probe.
func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
