package model

import (
	"github.com/shopspring/decimal"

	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// CreateRequest is the body of POST /projects/:projectId/schedules.
type CreateRequest struct {
	Title        string              `json:"title"        validate:"required,max=255"`
	Description  string              `json:"description"  validate:"max=4000"`
	StartDate    daterange.Date      `json:"startDate"    validate:"required"`
	EndDate      daterange.Date      `json:"endDate"      validate:"required"`
	ShiftType    string              `json:"shiftType"    validate:"omitempty,oneof=day night on-call rotating"`
	HoursPerWeek decimal.NullDecimal `json:"hoursPerWeek"`
}

// StatusRequest is the body of PATCH /schedules/:id/status.
type StatusRequest struct {
	Status  lifecycle.ScheduleStatus `json:"status"  validate:"required"`
	Version *int64                   `json:"version"`
}

// ListFilter narrows a project's schedules.
type ListFilter struct {
	Status lifecycle.ScheduleStatus
}

// ListResponse is the body of GET /projects/:projectId/schedules.
type ListResponse struct {
	ProjectID string     `json:"projectId"`
	Schedules []Schedule `json:"schedules"`
	Count     int        `json:"count"`
}
