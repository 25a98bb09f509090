// Package model contains schedule domain entities and request types.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Kind names schedules in errors, events and metrics.
const Kind = "schedule"

// Schedule is a staffing plan within a project.
type Schedule struct {
	ID           string                   `gorm:"primaryKey;column:id;type:uuid"               json:"id"`
	ProjectID    string                   `gorm:"column:project_id;type:varchar(64);not null"  json:"projectId"`
	Title        string                   `gorm:"column:title;type:varchar(255);not null"      json:"title"`
	Description  string                   `gorm:"column:description;type:text;not null"        json:"description"`
	StartDate    daterange.Date           `gorm:"column:start_date;type:date;not null"         json:"startDate"`
	EndDate      daterange.Date           `gorm:"column:end_date;type:date;not null"           json:"endDate"`
	Status       lifecycle.ScheduleStatus `gorm:"column:status;type:varchar(16);not null"      json:"status"`
	ShiftType    string                   `gorm:"column:shift_type;type:varchar(32);not null"  json:"shiftType"`
	HoursPerWeek decimal.NullDecimal      `gorm:"column:hours_per_week;type:numeric(5,2)"      json:"hoursPerWeek"`
	Version      int64                    `gorm:"column:version;not null"                      json:"version"`
	CreatedAt    time.Time                `gorm:"column:created_at;not null"                   json:"createdAt"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;not null"                   json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Schedule) TableName() string {
	return "schedules"
}

// GetID implements concurrency.Versioned.
func (s *Schedule) GetID() string { return s.ID }

// GetVersion implements concurrency.Versioned.
func (s *Schedule) GetVersion() int64 { return s.Version }

// Period returns the inclusive date range the schedule covers.
func (s *Schedule) Period() daterange.Range {
	return daterange.New(s.StartDate, s.EndDate)
}

// AcceptsAssignments reports whether new assignments may be added.
func (s *Schedule) AcceptsAssignments() bool {
	return s.Status != lifecycle.ScheduleCompleted
}
