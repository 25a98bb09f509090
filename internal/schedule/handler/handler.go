// Package handler provides HTTP handlers for schedule endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/request"
	"github.com/festy23/consultant_staffing/internal/response"
	"github.com/festy23/consultant_staffing/internal/schedule/model"
	"github.com/festy23/consultant_staffing/internal/schedule/service"
)

// Handler handles HTTP requests for schedule endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new schedule handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /projects/:projectId/schedules request.
// @Summary Create schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body model.CreateRequest true "Request"
// @Success 201 {object} model.Schedule
// @Failure 400 {object} response.ErrorResponse
// @Router /projects/{projectId}/schedules [post].
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	schedule, err := h.service.Create(c.Request.Context(), c.Param("projectId"), &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, schedule.Version)
	c.JSON(http.StatusCreated, schedule)
}

// List handles GET /projects/:projectId/schedules request.
// @Summary List project schedules
// @Tags Schedules
// @Produce json
// @Param projectId path string true "Project ID"
// @Param status query string false "Status filter"
// @Success 200 {object} model.ListResponse
// @Router /projects/{projectId}/schedules [get].
func (h *Handler) List(c *gin.Context) {
	filter := model.ListFilter{Status: lifecycle.ScheduleStatus(c.Query("status"))}

	resp, err := h.service.ListByProject(c.Request.Context(), c.Param("projectId"), filter)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /schedules/:id request.
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} model.Schedule
// @Failure 404 {object} response.ErrorResponse
// @Router /schedules/{id} [get].
func (h *Handler) Get(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, schedule.Version)
	c.JSON(http.StatusOK, schedule)
}

// ChangeStatus handles PATCH /schedules/:id/status request.
// @Summary Change schedule status
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param If-Match header string false "Expected version"
// @Param request body model.StatusRequest true "Request"
// @Success 200 {object} model.Schedule
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /schedules/{id}/status [patch].
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	version, err := request.Version(c, req.Version)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	schedule, err := h.service.ChangeStatus(c.Request.Context(), id, version, req.Status)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, schedule.Version)
	c.JSON(http.StatusOK, schedule)
}

// Delete handles DELETE /schedules/:id request.
// @Summary Delete schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Param version query int false "Expected version"
// @Success 204
// @Failure 409 {object} response.ErrorResponse
// @Router /schedules/{id} [delete].
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	version, err := request.Version(c, nil)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, version); err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
