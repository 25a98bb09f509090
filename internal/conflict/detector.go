// Package conflict detects double-booked consultants and overlapping team
// leads. It only reads; callers decide what to do with a conflict.
package conflict

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Candidate is a consultant booking to check.
type Candidate struct {
	ConsultantID string
	Period       daterange.Range
	// ExcludeAssignmentID skips the record being edited.
	ExcludeAssignmentID string
}

// LeadCandidate is a team lead to check.
type LeadCandidate struct {
	ProjectID string
	Period    daterange.Range
	// ExcludeTeamAssignmentID skips the record being edited.
	ExcludeTeamAssignmentID string
}

// Booking is a stored period that may collide with a candidate.
type Booking struct {
	ID        string
	StartDate daterange.Date
	EndDate   daterange.Date
}

// Period returns the booking's range. A zero EndDate is open-ended.
func (b Booking) Period() daterange.Range {
	return daterange.New(b.StartDate, b.EndDate)
}

// Detector runs conflict checks against the store.
type Detector struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewDetector creates a detector reading through db.
func NewDetector(db *gorm.DB, logger *zap.SugaredLogger) *Detector {
	return &Detector{db: db, logger: logger}
}

// WithTx returns a detector reading inside tx.
func (d *Detector) WithTx(tx *gorm.DB) *Detector {
	return &Detector{db: tx, logger: d.logger}
}

// CheckAssignmentConflict returns a *apperror.DateRangeConflictError when the
// consultant already has a non-cancelled assignment overlapping the
// candidate period, nil when the period is free.
func (d *Detector) CheckAssignmentConflict(ctx context.Context, c Candidate) error {
	query := d.db.WithContext(ctx).
		Table("assignments").
		Select("id, start_date, end_date").
		Where("consultant_id = ? AND status <> ?", c.ConsultantID, lifecycle.AssignmentCancelled).
		Where("start_date <= ? AND end_date >= ?", c.Period.End, c.Period.Start)
	if c.ExcludeAssignmentID != "" {
		query = query.Where("id <> ?", c.ExcludeAssignmentID)
	}

	var bookings []Booking
	if err := query.Order("start_date ASC, id ASC").Scan(&bookings).Error; err != nil {
		d.logger.Errorw("assignment conflict scan failed", "consultant_id", c.ConsultantID, "error", err)
		return apperror.Infra("scan consultant assignments", err)
	}

	hit, overlap, found := FindOverlap(c.Period, bookings)
	if !found {
		return nil
	}

	metrics.RecordConflict(metrics.ConflictDateRange)
	d.logger.Warnw("assignment date range conflict",
		"consultant_id", c.ConsultantID,
		"with_assignment_id", hit.ID,
		"overlap", overlap.String(),
	)
	return &apperror.DateRangeConflictError{WithAssignmentID: hit.ID, OverlappingRange: overlap}
}

// CheckLeadUniqueness returns the active lead of the project whose period
// overlaps the candidate, or nil when there is none. The returned warning
// has Overridable unset; the caller applies its policy.
func (d *Detector) CheckLeadUniqueness(ctx context.Context, c LeadCandidate) (*apperror.LeadUniquenessWarning, error) {
	query := d.db.WithContext(ctx).
		Table("team_assignments").
		Select("id, start_date, end_date").
		Where("project_id = ? AND is_lead = ? AND status = ?", c.ProjectID, true, lifecycle.TeamActive).
		Where("(end_date IS NULL OR end_date >= ?)", c.Period.Start)
	if !c.Period.IsOpenEnded() {
		query = query.Where("start_date <= ?", c.Period.End)
	}
	if c.ExcludeTeamAssignmentID != "" {
		query = query.Where("id <> ?", c.ExcludeTeamAssignmentID)
	}

	var leads []Booking
	if err := query.Order("start_date ASC, id ASC").Scan(&leads).Error; err != nil {
		d.logger.Errorw("lead scan failed", "project_id", c.ProjectID, "error", err)
		return nil, apperror.Infra("scan project leads", err)
	}

	hit, overlap, found := FindOverlap(c.Period, leads)
	if !found {
		return nil, nil
	}

	metrics.RecordConflict(metrics.ConflictLead)
	d.logger.Warnw("team lead overlap", "project_id", c.ProjectID, "existing_lead_id", hit.ID)
	return &apperror.LeadUniquenessWarning{ExistingLeadID: hit.ID, OverlappingRange: overlap}, nil
}

// FindOverlap returns the earliest booking sharing at least one day with
// period, together with the shared days.
func FindOverlap(period daterange.Range, bookings []Booking) (Booking, daterange.Range, bool) {
	sorted := make([]Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	for _, b := range sorted {
		if overlap, ok := period.Intersection(b.Period()); ok {
			return b, overlap, true
		}
	}
	return Booking{}, daterange.Range{}, false
}
