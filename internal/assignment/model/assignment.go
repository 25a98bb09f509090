// Package model contains assignment domain entities and request types.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	consultantModel "github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Kind names assignments in errors, events and metrics.
const Kind = "assignment"

// Assignment binds one consultant to one schedule for a range of days.
type Assignment struct {
	ID           string                     `gorm:"primaryKey;column:id;type:uuid"                 json:"id"`
	ScheduleID   string                     `gorm:"column:schedule_id;type:uuid;not null"          json:"scheduleId"`
	ConsultantID string                     `gorm:"column:consultant_id;type:uuid;not null"        json:"consultantId"`
	StartDate    daterange.Date             `gorm:"column:start_date;type:date;not null"           json:"startDate"`
	EndDate      daterange.Date             `gorm:"column:end_date;type:date;not null"             json:"endDate"`
	Role         string                     `gorm:"column:role;type:varchar(100);not null"         json:"role"`
	HoursPerDay  decimal.Decimal            `gorm:"column:hours_per_day;type:numeric(4,2);not null" json:"hoursPerDay"`
	Status       lifecycle.AssignmentStatus `gorm:"column:status;type:varchar(16);not null"        json:"status"`
	Notes        string                     `gorm:"column:notes;type:text;not null"                json:"notes"`
	IsCritical   bool                       `gorm:"column:is_critical;not null"                    json:"isCritical"`
	Version      int64                      `gorm:"column:version;not null"                        json:"version"`
	CreatedAt    time.Time                  `gorm:"column:created_at;not null"                     json:"createdAt"`
	UpdatedAt    time.Time                  `gorm:"column:updated_at;not null"                     json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Assignment) TableName() string {
	return "assignments"
}

// GetID implements concurrency.Versioned.
func (a *Assignment) GetID() string { return a.ID }

// GetVersion implements concurrency.Versioned.
func (a *Assignment) GetVersion() int64 { return a.Version }

// Period returns the inclusive range of days the assignment covers.
func (a *Assignment) Period() daterange.Range {
	return daterange.New(a.StartDate, a.EndDate)
}

// View is an assignment as returned to callers, with the consultant's
// display fields embedded.
type View struct {
	Assignment
	Consultant *consultantModel.Summary `json:"consultant,omitempty"`
}
