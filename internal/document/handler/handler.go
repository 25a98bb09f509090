// Package handler provides HTTP handlers for compliance document endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/document/model"
	"github.com/festy23/consultant_staffing/internal/document/service"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/request"
	"github.com/festy23/consultant_staffing/internal/response"
)

// Handler handles HTTP requests for document endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new document handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /consultants/:id/documents request.
// @Summary Register a compliance document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Consultant ID"
// @Param request body model.CreateRequest true "Request"
// @Success 201 {object} model.View
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /consultants/{id}/documents [post].
func (h *Handler) Create(c *gin.Context) {
	consultantID, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	view, err := h.service.Create(c.Request.Context(), consultantID, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusCreated, view)
}

// ListByConsultant handles GET /consultants/:id/documents request.
// @Summary List consultant documents
// @Tags Documents
// @Produce json
// @Param id path string true "Consultant ID"
// @Param status query string false "Status filter"
// @Success 200 {object} model.ListResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /consultants/{id}/documents [get].
func (h *Handler) ListByConsultant(c *gin.Context) {
	consultantID, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	filter := model.ListFilter{Status: lifecycle.DocumentStatus(c.Query("status"))}
	resp, err := h.service.ListByConsultant(c.Request.Context(), consultantID, filter)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /documents/:id request.
// @Summary Get document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.View
// @Failure 404 {object} response.ErrorResponse
// @Router /documents/{id} [get].
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

// Review handles PATCH /documents/:id/review request.
// @Summary Approve or reject a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param If-Match header string false "Expected version"
// @Param request body model.ReviewRequest true "Request"
// @Success 200 {object} model.View
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /documents/{id}/review [patch].
func (h *Handler) Review(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	version, err := request.Version(c, req.Version)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	view, err := h.service.Review(c.Request.Context(), id, version, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusOK, view)
}

// Resubmit handles POST /documents/:id/resubmit request.
// @Summary Resubmit a rejected document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param If-Match header string false "Expected version"
// @Param request body model.ResubmitRequest false "Request"
// @Success 200 {object} model.View
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /documents/{id}/resubmit [post].
func (h *Handler) Resubmit(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.ResubmitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.InvalidBody(c, err)
			return
		}
	}

	version, err := request.Version(c, req.Version)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	view, err := h.service.Resubmit(c.Request.Context(), id, version, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	request.SetETag(c, view.Version)
	c.JSON(http.StatusOK, view)
}

// Expiring handles GET /documents/expiring request.
// @Summary List documents expiring soon
// @Tags Documents
// @Produce json
// @Param withinDays query int false "Window in days (default 30)"
// @Success 200 {object} model.ExpiringResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /documents/expiring [get].
func (h *Handler) Expiring(c *gin.Context) {
	withinDays := model.DefaultExpiryWindowDays
	if raw := c.Query("withinDays"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.FromError(c, h.logger, apperror.NewValidationError("withinDays", "must be an integer"))
			return
		}
		withinDays = n
	}

	resp, err := h.service.Expiring(c.Request.Context(), withinDays)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
