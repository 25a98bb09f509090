// Package health provides the readiness endpoint.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/database/database"
)

const checkTimeout = 5 * time.Second

// Probe reports whether an optional dependency is reachable.
type Probe func(ctx context.Context) error

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	probes map[string]Probe
	logger *zap.SugaredLogger
}

// New creates a new health handler instance. The database is always
// probed; extra probes (cache, broker) are reported next to it.
func New(db *gorm.DB, logger *zap.SugaredLogger, probes map[string]Probe) *Handler {
	return &Handler{db: db, probes: probes, logger: logger}
}

// Response represents health check response.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Check handles GET /health request.
// The endpoint answers 503 only when the database is down. Failing optional
// probes mark the response as degraded.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: map[string]string{"database": "ok"}}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "component", "database", "error", err)
		resp.Status = "unhealthy"
		resp.Checks["database"] = "unavailable"
	}

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.probes[name](ctx); err != nil {
			h.logger.Warnw("health check failed", "component", name, "error", err)
			resp.Checks[name] = "unavailable"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
