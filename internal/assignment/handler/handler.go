// Package handler provides HTTP handlers for assignment endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/assignment/model"
	"github.com/festy23/consultant_staffing/internal/assignment/service"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/request"
	"github.com/festy23/consultant_staffing/internal/response"
)

// Handler handles HTTP requests for assignment endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new assignment handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ListBySchedule handles GET /schedules/:id/assignments request.
// @Summary List schedule assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Schedule ID"
// @Param status query string false "Status filter"
// @Success 200 {object} model.ListResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /schedules/{id}/assignments [get].
func (h *Handler) ListBySchedule(c *gin.Context) {
	scheduleID, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	resp, err := h.service.ListBySchedule(c.Request.Context(), scheduleID, listFilter(c))
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListByConsultant handles GET /consultants/:id/assignments request.
// @Summary List consultant assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Consultant ID"
// @Param status query string false "Status filter"
// @Success 200 {object} model.ListResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /consultants/{id}/assignments [get].
func (h *Handler) ListByConsultant(c *gin.Context) {
	consultantID, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	resp, err := h.service.ListByConsultant(c.Request.Context(), consultantID, listFilter(c))
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create handles POST /schedules/:id/assignments request.
// @Summary Create assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body model.CreateRequest true "Request"
// @Success 201 {object} model.View
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /schedules/{id}/assignments [post].
func (h *Handler) Create(c *gin.Context) {
	scheduleID, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	view, err := h.service.Create(c.Request.Context(), scheduleID, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusCreated, view)
}

// Get handles GET /assignments/:id request.
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} model.View
// @Failure 404 {object} response.ErrorResponse
// @Router /assignments/{id} [get].
func (h *Handler) Get(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusOK, view)
}

// Update handles PATCH /assignments/:id request.
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param If-Match header string false "Expected version"
// @Param request body model.UpdateRequest true "Request"
// @Success 200 {object} model.View
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /assignments/{id} [patch].
func (h *Handler) Update(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	version, err := request.Version(c, req.Version)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	view, err := h.service.Update(c.Request.Context(), id, version, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusOK, view)
}

// ChangeStatus handles PATCH /assignments/:id/status request.
// @Summary Change assignment status
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param If-Match header string false "Expected version"
// @Param request body model.StatusRequest true "Request"
// @Success 200 {object} model.View
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /assignments/{id}/status [patch].
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

	view, err := h.service.ChangeStatus(c.Request.Context(), id, version, req.Status, req.ConfirmationText)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /assignments/:id request. The confirmation text may
// come in the body or as ?confirmationText=.
// @Summary Delete assignment
// @Tags Assignments
// @Param id path string true "Assignment ID"
// @Param If-Match header string false "Expected version"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /assignments/{id} [delete].
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.DeleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.InvalidBody(c, err)
			return
		}
	}
	if req.ConfirmationText == "" {
		req.ConfirmationText = c.Query("confirmationText")
	}

	version, err := request.Version(c, req.Version)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, version, req.ConfirmationText); err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkUpdateStatus handles PATCH /assignments/bulk-update request.
// Item failures are reported in the body; the request itself succeeds.
// @Summary Change the status of many assignments
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body model.BulkStatusRequest true "Request"
// @Success 200 {object} model.BulkResult
// @Failure 400 {object} response.ErrorResponse
// @Router /assignments/bulk-update [patch].
func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req model.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	result, err := h.service.BulkUpdateStatus(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkDelete handles DELETE /assignments/bulk-delete request.
// @Summary Delete many assignments
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body model.BulkDeleteRequest true "Request"
// @Success 200 {object} model.BulkResult
// @Failure 400 {object} response.ErrorResponse
// @Router /assignments/bulk-delete [delete].
func (h *Handler) BulkDelete(c *gin.Context) {
	var req model.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	result, err := h.service.BulkDelete(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func listFilter(c *gin.Context) model.ListFilter {
	return model.ListFilter{Status: lifecycle.AssignmentStatus(c.Query("status"))}
}
