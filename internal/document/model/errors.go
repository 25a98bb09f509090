package model

import "github.com/festy23/consultant_staffing/internal/apperror"

// NotFound returns the typed not-found error for a document id.
func NotFound(id string) error {
	return &apperror.NotFoundError{Kind: Kind, ID: id}
}
