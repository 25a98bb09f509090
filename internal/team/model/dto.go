package model

import (
	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// AddRequest is the body of POST /projects/:projectId/team.
type AddRequest struct {
	ConsultantID string         `json:"consultantId" validate:"required,uuid"`
	TeamRoleID   string         `json:"teamRoleId"   validate:"required,max=64"`
	StartDate    daterange.Date `json:"startDate"    validate:"required"`
	EndDate      daterange.Date `json:"endDate"`
	IsLead       bool           `json:"isLead"`
	// AcknowledgeLeadWarning persists a lead that overlaps another active
	// lead when the policy allows it.
	AcknowledgeLeadWarning bool `json:"acknowledgeLeadWarning"`
}

// UpdateRequest is the body of PATCH /team-assignments/:id. Absent fields
// keep their stored value; "endDate": "" makes the membership open-ended.
type UpdateRequest struct {
	TeamRoleID             *string               `json:"teamRoleId" validate:"omitempty,min=1,max=64"`
	StartDate              *daterange.Date       `json:"startDate"`
	EndDate                *daterange.Date       `json:"endDate"`
	IsLead                 *bool                 `json:"isLead"`
	Status                 *lifecycle.TeamStatus `json:"status"`
	AcknowledgeLeadWarning bool                  `json:"acknowledgeLeadWarning"`
	Version                *int64                `json:"version"`
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdateRequest) IsEmpty() bool {
	return r.TeamRoleID == nil && r.StartDate == nil && r.EndDate == nil && r.IsLead == nil && r.Status == nil
}

// ListFilter narrows a team listing.
type ListFilter struct {
	Status   lifecycle.TeamStatus
	LeadOnly bool
}

// ListResponse is a project's team.
type ListResponse struct {
	ProjectID string   `json:"projectId"`
	Members   []Member `json:"members"`
	Count     int      `json:"count"`
}

// Result is a persisted team assignment together with the lead warnings the
// caller acknowledged to get it saved.
type Result struct {
	Member
	Warnings []*apperror.LeadUniquenessWarning `json:"warnings,omitempty"`
}

// RolesResponse lists the team roles.
type RolesResponse struct {
	Roles []TeamRole `json:"roles"`
}
