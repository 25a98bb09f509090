package model

import (
	"errors"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

// MaxHoursPerWeek bounds hoursPerWeek.
const MaxHoursPerWeek = 168

var (
	// ErrCompleted indicates the schedule no longer accepts changes to its staffing.
	ErrCompleted = errors.New("schedule is completed")
)

// NotFound returns the typed not-found error for a schedule id.
func NotFound(id string) error {
	return &apperror.NotFoundError{Kind: Kind, ID: id}
}
