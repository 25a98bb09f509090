// Package router provides assignment module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/assignment/handler"
	"github.com/festy23/consultant_staffing/internal/assignment/service"
)

// RegisterRoutes registers assignment module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.GET("/schedules/:id/assignments", h.ListBySchedule)
	r.POST("/schedules/:id/assignments", h.Create)
	r.GET("/consultants/:id/assignments", h.ListByConsultant)

	r.PATCH("/assignments/bulk-update", h.BulkUpdateStatus)
	r.DELETE("/assignments/bulk-delete", h.BulkDelete)

	r.GET("/assignments/:id", h.Get)
	r.PATCH("/assignments/:id", h.Update)
	r.DELETE("/assignments/:id", h.Delete)
	r.PATCH("/assignments/:id/status", h.ChangeStatus)
}
