package model

import (
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Expiry window bounds for GET /documents/expiring.
const (
	DefaultExpiryWindowDays = 30
	MaxExpiryWindowDays     = 365
)

// CreateRequest is the body of POST /consultants/:id/documents.
type CreateRequest struct {
	Title        string         `json:"title"        validate:"required,max=255"`
	DocumentType string         `json:"documentType" validate:"required,max=64"`
	FileName     string         `json:"fileName"     validate:"max=255"`
	ExpiresAt    daterange.Date `json:"expiresAt"`
}

// ReviewRequest is the body of PATCH /documents/:id/review.
type ReviewRequest struct {
	Status     lifecycle.DocumentStatus `json:"status"     validate:"required,oneof=approved rejected"`
	Comment    string                   `json:"comment"    validate:"max=2000"`
	ReviewedBy string                   `json:"reviewedBy" validate:"required,max=255"`
	Version    *int64                   `json:"version"`
}

// ResubmitRequest is the body of POST /documents/:id/resubmit. Absent fields
// keep their stored value.
type ResubmitRequest struct {
	FileName  *string         `json:"fileName" validate:"omitempty,max=255"`
	ExpiresAt *daterange.Date `json:"expiresAt"`
	Version   *int64          `json:"version"`
}

// ListFilter narrows a document listing.
type ListFilter struct {
	Status lifecycle.DocumentStatus
}

// ListResponse is a consultant's documents.
type ListResponse struct {
	ConsultantID string `json:"consultantId"`
	Documents    []View `json:"documents"`
	Count        int    `json:"count"`
}

// ExpiringResponse lists documents expiring on or before Until, including
// those already expired.
type ExpiringResponse struct {
	WithinDays int            `json:"withinDays"`
	Until      daterange.Date `json:"until"`
	Documents  []View         `json:"documents"`
	Count      int            `json:"count"`
}
