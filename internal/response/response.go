// Package response writes the JSON error envelope shared by every handler:
// {"error":{"code","message","details"}}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

var statusByCode = map[string]int{
	apperror.CodeValidation:           http.StatusBadRequest,
	apperror.CodeInvalidTransition:    http.StatusBadRequest,
	apperror.CodeConfirmationRequired: http.StatusBadRequest,
	apperror.CodeNotFound:             http.StatusNotFound,
	apperror.CodeDateRangeConflict:    http.StatusConflict,
	apperror.CodeVersionConflict:      http.StatusConflict,
	apperror.CodeLeadConflict:         http.StatusConflict,
	apperror.CodeDependencyExists:     http.StatusConflict,
	apperror.CodeUnavailable:          http.StatusServiceUnavailable,
	apperror.CodeInternal:             http.StatusInternalServerError,
}

// Status returns the HTTP status for an error code.
func Status(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error writes an error envelope.
func Error(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, apperror.CodeNotFound, message, nil)
}

// InvalidBody writes a 400 envelope for an undecodable request body.
func InvalidBody(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, apperror.CodeValidation, "invalid request body",
		apperror.NewValidationError("body", err.Error()))
}

// FromError maps err to its envelope. Internal and infrastructure errors are
// logged and their messages hidden from the caller.
func FromError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	code, details := apperror.Describe(err)
	status := Status(code)

	switch code {
	case apperror.CodeInternal:
		logger.Errorw("request failed", "path", c.FullPath(), "method", c.Request.Method, "error", err)
		Error(c, status, code, "internal server error", nil)
	case apperror.CodeUnavailable:
		logger.Errorw("dependency unavailable", "path", c.FullPath(), "method", c.Request.Method, "error", err)
		Error(c, status, code, "service temporarily unavailable", nil)
	default:
		Error(c, status, code, err.Error(), details)
	}
}
