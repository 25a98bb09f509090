// Package router provides document module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/document/handler"
	"github.com/festy23/consultant_staffing/internal/document/service"
)

// RegisterRoutes registers document module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.POST("/consultants/:id/documents", h.Create)
	r.GET("/consultants/:id/documents", h.ListByConsultant)
	r.GET("/documents/expiring", h.Expiring)
	r.GET("/documents/:id", h.Get)
	r.PATCH("/documents/:id/review", h.Review)
	r.POST("/documents/:id/resubmit", h.Resubmit)
}
