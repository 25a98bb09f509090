// Package repository provides data access for schedules.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/schedule/model"
)

// assignmentsTable is read for dependent counts only; the assignment module
// owns the rows.
const assignmentsTable = "assignments"

// foreignKeyViolation is the PostgreSQL SQLSTATE for a broken reference.
const foreignKeyViolation = "23503"

var openAssignmentStatuses = []lifecycle.AssignmentStatus{
	lifecycle.AssignmentPending,
	lifecycle.AssignmentConfirmed,
	lifecycle.AssignmentActive,
}

// Repository defines the schedule data access operations.
type Repository interface {
	// Create inserts a new schedule.
	Create(ctx context.Context, schedule *model.Schedule) error

	// GetByID finds a schedule by id.
	GetByID(ctx context.Context, id string) (*model.Schedule, error)

	// GetForUpdate finds a schedule by id and row-locks it until the
	// surrounding transaction ends. Assignment inserts referencing the
	// schedule wait on the lock.
	GetForUpdate(ctx context.Context, id string) (*model.Schedule, error)

	// ListByProject returns a project's schedules ordered by start date.
	ListByProject(ctx context.Context, projectID string, filter model.ListFilter) ([]model.Schedule, error)

	// UpdateStatus moves the schedule to status if its version is still expected.
	UpdateStatus(ctx context.Context, id string, expected int64, status lifecycle.ScheduleStatus) (*model.Schedule, error)

	// CountOpenAssignments counts the schedule's assignments in a non-terminal status.
	CountOpenAssignments(ctx context.Context, scheduleID string) (int64, error)

	// Delete removes the schedule and its terminal assignments if its
	// version is still expected.
	Delete(ctx context.Context, id string, expected int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new schedule repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

func (r *repository) Create(ctx context.Context, schedule *model.Schedule) error {
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		r.logger.Errorw("Create database error", "project_id", schedule.ProjectID, "error", err)
		return apperror.Infra("create schedule", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	r.logger.Debugw("GetByID called", "schedule_id", id)
	return r.take(r.db.WithContext(ctx), id)
}

func (r *repository) GetForUpdate(ctx context.Context, id string) (*model.Schedule, error) {
	return r.take(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) take(query *gorm.DB, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := query.Where("id = ?", id).Take(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound(id)
		}
		r.logger.Errorw("get schedule database error", "schedule_id", id, "error", err)
		return nil, apperror.Infra("get schedule", err)
	}
	return &schedule, nil
}

func (r *repository) ListByProject(
	ctx context.Context,
	projectID string,
	filter model.ListFilter,
) ([]model.Schedule, error) {
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	schedules := []model.Schedule{}
	if err := query.Order("start_date ASC, id ASC").Find(&schedules).Error; err != nil {
		r.logger.Errorw("ListByProject database error", "project_id", projectID, "error", err)
		return nil, apperror.Infra("list schedules", err)
	}
	return schedules, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	expected int64,
	status lifecycle.ScheduleStatus,
) (*model.Schedule, error) {
	return concurrency.ApplyIfCurrent[model.Schedule](ctx, r.db, model.Kind, id, expected, map[string]any{
		"status": status,
	})
}

func (r *repository) CountOpenAssignments(ctx context.Context, scheduleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(assignmentsTable).
		Where("schedule_id = ? AND status IN ?", scheduleID, openAssignmentStatuses).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("CountOpenAssignments database error", "schedule_id", scheduleID, "error", err)
		return 0, apperror.Infra("count schedule assignments", err)
	}
	return count, nil
}

func (r *repository) Delete(ctx context.Context, id string, expected int64) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM "+assignmentsTable+" WHERE schedule_id = ? AND status NOT IN ?", id, openAssignmentStatuses).
		Error
	if err != nil {
		r.logger.Errorw("Delete assignments database error", "schedule_id", id, "error", err)
		return apperror.Infra("delete schedule assignments", err)
	}

	err = concurrency.DeleteIfCurrent[model.Schedule](ctx, r.db, model.Kind, id, expected)
	if dependents := dependentRejection(err); dependents != nil {
		r.logger.Warnw("schedule delete hit a dependent assignment", "schedule_id", id)
		return dependents
	}
	return err
}

// dependentRejection maps a foreign key violation raised by the schedule
// delete to a DependencyExistsError. It returns nil for any other error.
func dependentRejection(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return nil
	}
	return &apperror.DependencyExistsError{Count: 1, Kind: "assignment"}
}
