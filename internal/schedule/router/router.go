// Package router provides schedule module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/schedule/handler"
	"github.com/festy23/consultant_staffing/internal/schedule/service"
)

// RegisterRoutes registers schedule module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.POST("/projects/:projectId/schedules", h.Create)
	r.GET("/projects/:projectId/schedules", h.List)
	r.GET("/schedules/:id", h.Get)
	r.PATCH("/schedules/:id/status", h.ChangeStatus)
	r.DELETE("/schedules/:id", h.Delete)
}
