// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/team/handler"
	"github.com/festy23/consultant_staffing/internal/team/service"
)

// RegisterRoutes registers team module routes.
func RegisterRoutes(r gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.GET("/team-roles", h.Roles)
	r.GET("/projects/:projectId/team", h.List)
	r.POST("/projects/:projectId/team", h.Add)
	r.GET("/team-assignments/:id", h.Get)
	r.PATCH("/team-assignments/:id", h.Update)
	r.DELETE("/team-assignments/:id", h.Remove)
}
