// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/request"
	"github.com/festy23/consultant_staffing/internal/response"
	"github.com/festy23/consultant_staffing/internal/team/model"
	"github.com/festy23/consultant_staffing/internal/team/service"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Roles handles GET /team-roles request.
// @Summary List team roles
// @Tags Team
// @Produce json
// @Success 200 {object} model.RolesResponse
// @Router /team-roles [get].
func (h *Handler) Roles(c *gin.Context) {
	resp, err := h.service.Roles(c.Request.Context())
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /projects/:projectId/team request.
// @Summary List project team
// @Tags Team
// @Produce json
// @Param projectId path string true "Project ID"
// @Param status query string false "Status filter"
// @Param lead query bool false "Only leads"
// @Success 200 {object} model.ListResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /projects/{projectId}/team [get].
func (h *Handler) List(c *gin.Context) {
	filter := model.ListFilter{
		Status:   lifecycle.TeamStatus(c.Query("status")),
		LeadOnly: c.Query("lead") == "true",
	}

	resp, err := h.service.List(c.Request.Context(), c.Param("projectId"), filter)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Add handles POST /projects/:projectId/team request. A lead overlapping
// another active lead is answered with 409 LEAD_CONFLICT unless the request
// acknowledges the warning and the policy allows it.
// @Summary Add team member
// @Tags Team
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body model.AddRequest true "Request"
// @Success 201 {object} model.Result
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /projects/{projectId}/team [post].
func (h *Handler) Add(c *gin.Context) {
	var req model.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	result, err := h.service.Add(c.Request.Context(), c.Param("projectId"), &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, result.Version)
	c.JSON(http.StatusCreated, result)
}

// Get handles GET /team-assignments/:id request.
// @Summary Get team assignment
// @Tags Team
// @Produce json
// @Param id path string true "Team assignment ID"
// @Success 200 {object} model.Member
// @Failure 404 {object} response.ErrorResponse
// @Router /team-assignments/{id} [get].
func (h *Handler) Get(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	member, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, member.Version)
	c.JSON(http.StatusOK, member)
}

// Update handles PATCH /team-assignments/:id request.
// @Summary Update team assignment
// @Tags Team
// @Accept json
// @Produce json
// @Param id path string true "Team assignment ID"
// @Param If-Match header string false "Expected version"
// @Param request body model.UpdateRequest true "Request"
// @Success 200 {object} model.Result
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /team-assignments/{id} [patch].
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

	result, err := h.service.Update(c.Request.Context(), id, version, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, result.Version)
	c.JSON(http.StatusOK, result)
}

// Remove handles DELETE /team-assignments/:id request.
// @Summary Remove team assignment
// @Tags Team
// @Param id path string true "Team assignment ID"
// @Param version query int false "Expected version"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /team-assignments/{id} [delete].
func (h *Handler) Remove(c *gin.Context) {
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

	if err := h.service.Remove(c.Request.Context(), id, version); err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
