// Package router provides consultant module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/consultant/handler"
	"github.com/festy23/consultant_staffing/internal/consultant/service"
)

// RegisterRoutes registers consultant module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.GET("/consultants", h.List)
	r.GET("/consultants/:id", h.Get)
	r.PUT("/consultants/:id", h.Upsert)
}
