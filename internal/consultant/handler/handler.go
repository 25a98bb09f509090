// Package handler provides HTTP handlers for consultant endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/consultant/service"
	"github.com/festy23/consultant_staffing/internal/request"
	"github.com/festy23/consultant_staffing/internal/response"
)

// Handler handles HTTP requests for consultant endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new consultant handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// List handles GET /consultants request.
// @Summary List consultants
// @Tags Consultants
// @Produce json
// @Param active query bool false "Only active consultants"
// @Param search query string false "Name or email substring"
// @Success 200 {object} model.ListResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /consultants [get].
func (h *Handler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /consultants/:id request.
// @Summary Get consultant
// @Tags Consultants
// @Produce json
// @Param id path string true "Consultant ID"
// @Success 200 {object} model.Consultant
// @Failure 404 {object} response.ErrorResponse
// @Router /consultants/{id} [get].
func (h *Handler) Get(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	consultant, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, consultant)
}

// Upsert handles PUT /consultants/:id request.
// The directory service calls this to push its records.
// @Summary Sync consultant from the directory
// @Tags Consultants
// @Accept json
// @Produce json
// @Param id path string true "Consultant ID"
// @Param request body model.UpsertRequest true "Request"
// @Success 200 {object} model.Consultant
// @Failure 400 {object} response.ErrorResponse
// @Router /consultants/{id} [put].
func (h *Handler) Upsert(c *gin.Context) {
	id, err := request.UUIDParam(c, "id")
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	var req model.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidBody(c, err)
		return
	}

	consultant, err := h.service.Upsert(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, consultant)
}

func parseFilter(c *gin.Context) (model.ListFilter, error) {
	filter := model.ListFilter{Search: c.Query("search")}
	verr := &apperror.ValidationError{}

	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			verr.Add("active", "must be a boolean")
		}
		filter.ActiveOnly = active
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("limit", "must be an integer")
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("offset", "must be an integer")
		}
		filter.Offset = offset
	}

	return filter, verr.ErrOrNil()
}
