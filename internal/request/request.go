// Package request holds the request parsing helpers shared by handlers.
package request

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

// IfMatchHeader carries the version the caller last read.
const IfMatchHeader = "If-Match"

// UUIDParam returns the path parameter name when it is a valid UUID.
func UUIDParam(c *gin.Context, name string) (string, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperror.NewValidationError(name, "must be a valid UUID")
	}
	return id.String(), nil
}

// Version resolves the expected version of a mutation. The If-Match header
// wins over the body field, which wins over the ?version query parameter.
// A mutation without any version is a validation error.
func Version(c *gin.Context, fromBody *int64) (int64, error) {
	if header := strings.Trim(c.GetHeader(IfMatchHeader), `W/" `); header != "" {
		return parseVersion(header)
	}
	if fromBody != nil {
		if *fromBody < 0 {
			return 0, apperror.NewValidationError("version", "must be greater than or equal to 0")
		}
		return *fromBody, nil
	}
	if query := c.Query("version"); query != "" {
		return parseVersion(query)
	}
	return 0, apperror.NewValidationError("version", "is required (If-Match header, body or query)")
}

func parseVersion(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, apperror.NewValidationError("version", "must be a non-negative integer")
	}
	return v, nil
}

// SetETag exposes the record version so clients can echo it in If-Match.
func SetETag(c *gin.Context, version int64) {
	c.Header("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}
