// Package model contains team roles and team assignments.
package model

import (
	"time"

	consultantModel "github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Kind names team assignments in errors, events and metrics.
const Kind = "team_assignment"

// TeamRole is reference data seeded by migration.
type TeamRole struct {
	ID          string   `gorm:"primaryKey;column:id;type:varchar(64)"        json:"id"`
	Name        string   `gorm:"column:name;type:varchar(100);not null"       json:"name"`
	Description string   `gorm:"column:description;type:text;not null"        json:"description"`
	Permissions []string `gorm:"column:permissions;type:text;serializer:json" json:"permissions"`
}

// TableName specifies the table name for GORM.
func (TeamRole) TableName() string {
	return "team_roles"
}

// TeamAssignment binds a consultant to a project team with a role. A zero
// EndDate means the membership is open-ended.
type TeamAssignment struct {
	ID           string               `gorm:"primaryKey;column:id;type:uuid"                json:"id"`
	ProjectID    string               `gorm:"column:project_id;type:varchar(64);not null"   json:"projectId"`
	ConsultantID string               `gorm:"column:consultant_id;type:uuid;not null"       json:"consultantId"`
	TeamRoleID   string               `gorm:"column:team_role_id;type:varchar(64);not null" json:"teamRoleId"`
	StartDate    daterange.Date       `gorm:"column:start_date;type:date;not null"          json:"startDate"`
	EndDate      daterange.Date       `gorm:"column:end_date;type:date"                     json:"endDate"`
	IsLead       bool                 `gorm:"column:is_lead;not null"                       json:"isLead"`
	Status       lifecycle.TeamStatus `gorm:"column:status;type:varchar(16);not null"       json:"status"`
	Version      int64                `gorm:"column:version;not null"                       json:"version"`
	CreatedAt    time.Time            `gorm:"column:created_at;not null"                    json:"createdAt"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;not null"                    json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (TeamAssignment) TableName() string {
	return "team_assignments"
}

// GetID implements concurrency.Versioned.
func (t *TeamAssignment) GetID() string { return t.ID }

// GetVersion implements concurrency.Versioned.
func (t *TeamAssignment) GetVersion() int64 { return t.Version }

// Period returns the membership range, open-ended when EndDate is zero.
func (t *TeamAssignment) Period() daterange.Range {
	return daterange.New(t.StartDate, t.EndDate)
}

// ActiveLead reports whether the record counts towards the one-lead rule.
func (t *TeamAssignment) ActiveLead() bool {
	return t.IsLead && t.Status == lifecycle.TeamActive
}

// Member is a team assignment with its display fields.
type Member struct {
	TeamAssignment
	Consultant *consultantModel.Summary `json:"consultant,omitempty"`
	RoleName   string                   `json:"roleName,omitempty"`
}
