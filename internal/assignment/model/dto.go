package model

import (
	"github.com/shopspring/decimal"

	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// CreateRequest is the body of POST /schedules/:id/assignments.
type CreateRequest struct {
	ConsultantID string           `json:"consultantId" validate:"required,uuid"`
	StartDate    daterange.Date   `json:"startDate"    validate:"required"`
	EndDate      daterange.Date   `json:"endDate"      validate:"required"`
	Role         string           `json:"role"         validate:"required,max=100"`
	HoursPerDay  *decimal.Decimal `json:"hoursPerDay"`
	Notes        string           `json:"notes"        validate:"max=4000"`
	IsCritical   bool             `json:"isCritical"`
}

// UpdateRequest is the body of PATCH /assignments/:id. Absent fields keep
// their stored value. ConfirmationText must match the configured phrase when
// the patch clears isCritical.
type UpdateRequest struct {
	StartDate        *daterange.Date  `json:"startDate"`
	EndDate          *daterange.Date  `json:"endDate"`
	Role             *string          `json:"role"             validate:"omitempty,min=1,max=100"`
	HoursPerDay      *decimal.Decimal `json:"hoursPerDay"`
	Notes            *string          `json:"notes"            validate:"omitempty,max=4000"`
	IsCritical       *bool            `json:"isCritical"`
	Version          *int64           `json:"version"`
	ConfirmationText string           `json:"confirmationText"`
}

// ClearsCritical reports whether the patch drops the critical flag of an
// assignment that currently has it.
func (r *UpdateRequest) ClearsCritical(current bool) bool {
	return current && r.IsCritical != nil && !*r.IsCritical
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdateRequest) IsEmpty() bool {
	return r.StartDate == nil && r.EndDate == nil && r.Role == nil &&
		r.HoursPerDay == nil && r.Notes == nil && r.IsCritical == nil
}

// StatusRequest is the body of PATCH /assignments/:id/status.
type StatusRequest struct {
	Status           lifecycle.AssignmentStatus `json:"status"           validate:"required"`
	ConfirmationText string                     `json:"confirmationText"`
	Version          *int64                     `json:"version"`
}

// DeleteRequest carries the optional body of DELETE /assignments/:id.
type DeleteRequest struct {
	ConfirmationText string `json:"confirmationText"`
	Version          *int64 `json:"version"`
}

// BulkItem identifies one record of a bulk request with the version the
// caller last read.
type BulkItem struct {
	ID      string `json:"id"      validate:"required,uuid"`
	Version *int64 `json:"version" validate:"required,gte=0"`
}

// BulkStatusRequest is the body of PATCH /assignments/bulk-update.
type BulkStatusRequest struct {
	Items            []BulkItem                 `json:"items"            validate:"required,min=1,dive"`
	Status           lifecycle.AssignmentStatus `json:"status"           validate:"required"`
	ConfirmationText string                     `json:"confirmationText"`
}

// BulkDeleteRequest is the body of DELETE /assignments/bulk-delete.
type BulkDeleteRequest struct {
	Items            []BulkItem `json:"items"            validate:"required,min=1,dive"`
	ConfirmationText string     `json:"confirmationText"`
}

// BulkFailure is one failed item of a bulk operation.
type BulkFailure struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// BulkResult aggregates a bulk operation. Succeeded and Failed keep the
// order of the request items.
type BulkResult struct {
	Succeeded      []string      `json:"succeeded"`
	Failed         []BulkFailure `json:"failed"`
	SucceededCount int           `json:"succeededCount"`
	FailedCount    int           `json:"failedCount"`
}

// ListFilter narrows assignment listings.
type ListFilter struct {
	Status lifecycle.AssignmentStatus
}

// ListResponse is the body of assignment listings.
type ListResponse struct {
	Assignments []View `json:"assignments"`
	Count       int    `json:"count"`
}
