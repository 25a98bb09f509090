package model

import (
	"errors"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

// ErrInactive indicates the consultant is disabled in the directory.
var ErrInactive = errors.New("consultant is inactive")

// NotFound returns the typed not-found error for a consultant id.
func NotFound(id string) error {
	return &apperror.NotFoundError{Kind: Kind, ID: id}
}
