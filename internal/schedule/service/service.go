// Package service provides business logic for schedules.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/internal/schedule/model"
	"github.com/festy23/consultant_staffing/internal/schedule/repository"
	"github.com/festy23/consultant_staffing/pkg/retry"
	"github.com/festy23/consultant_staffing/pkg/validation"
)

// Service defines the schedule operations.
type Service interface {
	// Create adds a draft schedule to a project.
	Create(ctx context.Context, projectID string, req *model.CreateRequest) (*model.Schedule, error)

	// Get returns one schedule.
	Get(ctx context.Context, id string) (*model.Schedule, error)

	// ListByProject returns a project's schedules.
	ListByProject(ctx context.Context, projectID string, filter model.ListFilter) (*model.ListResponse, error)

	// ChangeStatus moves a schedule through draft -> active -> completed.
	ChangeStatus(ctx context.Context, id string, expected int64, status lifecycle.ScheduleStatus) (*model.Schedule, error)

	// Delete removes a schedule that has no open assignments.
	Delete(ctx context.Context, id string, expected int64) error
}

type service struct {
	repo    repository.Repository
	db      *gorm.DB
	emitter *events.Emitter
	reads   retry.Config
	logger  *zap.SugaredLogger
}

// New creates a new schedule service instance.
func New(repo repository.Repository, db *gorm.DB, emitter *events.Emitter, logger *zap.SugaredLogger) Service {
	return &service{
		repo:    repo,
		db:      db,
		emitter: emitter,
		reads:   retry.OnceConfig(apperror.IsInfrastructure),
		logger:  logger,
	}
}

func (s *service) Create(ctx context.Context, projectID string, req *model.CreateRequest) (*model.Schedule, error) {
	verr := validation.Struct(req)
	if strings.TrimSpace(projectID) == "" || len(projectID) > 64 {
		verr.Add("projectId", "must be between 1 and 64 characters")
	}
	validation.Period(verr, req.StartDate, req.EndDate, false)
	if req.HoursPerWeek.Valid {
		hours := req.HoursPerWeek.Decimal
		if !hours.IsPositive() || hours.GreaterThan(decimal.NewFromInt(model.MaxHoursPerWeek)) {
			verr.Add("hoursPerWeek", "must be greater than 0 and at most 168")
		}
	}
	if err := verr.ErrOrNil(); err != nil {
		s.logger.Debugw("schedule rejected", "project_id", projectID, "error", err)
		return nil, err
	}

	schedule := &model.Schedule{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       lifecycle.ScheduleDraft,
		ShiftType:    req.ShiftType,
		HoursPerWeek: req.HoursPerWeek,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}

	s.logger.Infow("schedule created", "schedule_id", schedule.ID, "project_id", projectID)
	return schedule, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Schedule, error) {
	return retry.DoWithResult(ctx, s.reads, func() (*model.Schedule, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *service) ListByProject(
	ctx context.Context,
	projectID string,
	filter model.ListFilter,
) (*model.ListResponse, error) {
	if filter.Status != "" && !lifecycle.Schedules.IsValid(filter.Status) {
		return nil, apperror.NewValidationError("status", "must be one of: draft, active, completed")
	}

	schedules, err := retry.DoWithResult(ctx, s.reads, func() ([]model.Schedule, error) {
		return s.repo.ListByProject(ctx, projectID, filter)
	})
	if err != nil {
		return nil, err
	}
	return &model.ListResponse{ProjectID: projectID, Schedules: schedules, Count: len(schedules)}, nil
}

func (s *service) ChangeStatus(
	ctx context.Context,
	id string,
	expected int64,
	status lifecycle.ScheduleStatus,
) (*model.Schedule, error) {
	if !lifecycle.Schedules.IsValid(status) {
		return nil, apperror.NewValidationError("status", "must be one of: draft, active, completed")
	}

	var (
		updated *model.Schedule
		from    lifecycle.ScheduleStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		current, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := concurrency.Check(model.Kind, current, expected); err != nil {
			return err
		}
		if _, err := lifecycle.Schedules.Transition(current.Status, status); err != nil {
			return err
		}
		from = current.Status

		updated, err = txRepo.UpdateStatus(ctx, id, expected, status)
		return err
	})
	if err != nil {
		s.logger.Warnw("schedule status change rejected", "schedule_id", id, "status", status, "error", err)
		return nil, err
	}

	metrics.RecordTransition(model.Kind, string(from), string(status))
	s.emitter.Emit(ctx, events.ScheduleStatusChanged, id, map[string]any{
		"from":    from,
		"to":      status,
		"version": updated.Version,
	})
	s.logger.Infow("schedule status changed", "schedule_id", id, "from", from, "to", status)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string, expected int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		current, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := concurrency.Check(model.Kind, current, expected); err != nil {
			return err
		}

		open, err := txRepo.CountOpenAssignments(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return &apperror.DependencyExistsError{Count: open, Kind: "assignment"}
		}

		return txRepo.Delete(ctx, id, expected)
	})
	if err != nil {
		s.logger.Warnw("schedule delete rejected", "schedule_id", id, "error", err)
		return err
	}

	s.logger.Infow("schedule deleted", "schedule_id", id)
	return nil
}
