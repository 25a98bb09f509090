package model

import "github.com/festy23/consultant_staffing/internal/apperror"

// NotFound returns the typed not-found error for a team assignment id.
func NotFound(id string) error {
	return &apperror.NotFoundError{Kind: Kind, ID: id}
}

// RoleNotFound returns the typed not-found error for a team role id.
func RoleNotFound(id string) error {
	return &apperror.NotFoundError{Kind: "team_role", ID: id}
}
