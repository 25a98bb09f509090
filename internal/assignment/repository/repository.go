// Package repository provides the assignment store.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/assignment/model"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// exclusionViolation is the SQLSTATE raised by assignments_no_overlap.
const exclusionViolation = "23P01"

// Repository defines the assignment data access operations.
type Repository interface {
	// Create inserts a new assignment.
	Create(ctx context.Context, assignment *model.Assignment) error

	// GetByID finds an assignment by id.
	GetByID(ctx context.Context, id string) (*model.Assignment, error)

	// ListBySchedule returns a schedule's assignments ordered by start date.
	ListBySchedule(ctx context.Context, scheduleID string, filter model.ListFilter) ([]model.Assignment, error)

	// ListByConsultant returns a consultant's assignments across schedules.
	ListByConsultant(ctx context.Context, consultantID string, filter model.ListFilter) ([]model.Assignment, error)

	// Update applies updates if the stored version is still expected.
	// period is the resulting date range, reported on an overlap rejection.
	Update(
		ctx context.Context,
		id string,
		expected int64,
		updates map[string]any,
		period daterange.Range,
	) (*model.Assignment, error)

	// Delete removes the assignment if the stored version is still expected.
	Delete(ctx context.Context, id string, expected int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new assignment repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

func (r *repository) Create(ctx context.Context, assignment *model.Assignment) error {
	r.logger.Debugw("Create called", "consultant_id", assignment.ConsultantID, "schedule_id", assignment.ScheduleID)

	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		if conflict := overlapRejection(err, assignment.Period()); conflict != nil {
			r.logger.Warnw("Create rejected by overlap constraint", "consultant_id", assignment.ConsultantID)
			return conflict
		}
		r.logger.Errorw("Create database error", "consultant_id", assignment.ConsultantID, "error", err)
		return apperror.Infra("create assignment", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	r.logger.Debugw("GetByID called", "assignment_id", id)

	var assignment model.Assignment
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound(id)
		}
		r.logger.Errorw("GetByID database error", "assignment_id", id, "error", err)
		return nil, apperror.Infra("get assignment", err)
	}
	return &assignment, nil
}

func (r *repository) ListBySchedule(
	ctx context.Context,
	scheduleID string,
	filter model.ListFilter,
) ([]model.Assignment, error) {
	return r.list(ctx, "schedule_id", scheduleID, filter)
}

func (r *repository) ListByConsultant(
	ctx context.Context,
	consultantID string,
	filter model.ListFilter,
) ([]model.Assignment, error) {
	return r.list(ctx, "consultant_id", consultantID, filter)
}

func (r *repository) list(ctx context.Context, column, value string, filter model.ListFilter) ([]model.Assignment, error) {
	query := r.db.WithContext(ctx).Where(column+" = ?", value)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	assignments := []model.Assignment{}
	if err := query.Order("start_date ASC, id ASC").Find(&assignments).Error; err != nil {
		r.logger.Errorw("list database error", column, value, "error", err)
		return nil, apperror.Infra("list assignments", err)
	}
	return assignments, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	expected int64,
	updates map[string]any,
	period daterange.Range,
) (*model.Assignment, error) {
	updated, err := concurrency.ApplyIfCurrent[model.Assignment](ctx, r.db, model.Kind, id, expected, updates)
	if err != nil {
		if conflict := overlapRejection(err, period); conflict != nil {
			r.logger.Warnw("Update rejected by overlap constraint", "assignment_id", id)
			return nil, conflict
		}
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id string, expected int64) error {
	return concurrency.DeleteIfCurrent[model.Assignment](ctx, r.db, model.Kind, id, expected)
}

// overlapRejection maps a violation of the no-overlap exclusion constraint to
// a DateRangeConflictError. It returns nil for any other error.
func overlapRejection(err error, period daterange.Range) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != exclusionViolation {
		return nil
	}
	metrics.RecordConflict(metrics.ConflictDateRange)
	return &apperror.DateRangeConflictError{OverlappingRange: period}
}
