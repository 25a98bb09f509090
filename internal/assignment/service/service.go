// Package service is the scheduling façade for assignments. It composes the
// conflict detector, the status machine and the concurrency guard; every
// assignment mutation goes through it.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/assignment/model"
	"github.com/festy23/consultant_staffing/internal/assignment/repository"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/config"
	"github.com/festy23/consultant_staffing/internal/conflict"
	consultantModel "github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	scheduleModel "github.com/festy23/consultant_staffing/internal/schedule/model"
	"github.com/festy23/consultant_staffing/pkg/daterange"
	"github.com/festy23/consultant_staffing/pkg/retry"
	"github.com/festy23/consultant_staffing/pkg/validation"
)

// ScheduleLookup resolves the schedule an assignment belongs to.
type ScheduleLookup interface {
	Get(ctx context.Context, id string) (*scheduleModel.Schedule, error)
}

// ConsultantDirectory resolves consultants and their display fields.
type ConsultantDirectory interface {
	Get(ctx context.Context, id string) (*consultantModel.Consultant, error)
	Summaries(ctx context.Context, ids []string) (map[string]consultantModel.Summary, error)
}

// Service defines the assignment operations.
type Service interface {
	// Create books a consultant on a schedule. The assignment starts pending
	// at version 0.
	Create(ctx context.Context, scheduleID string, req *model.CreateRequest) (*model.View, error)

	// Get returns one assignment.
	Get(ctx context.Context, id string) (*model.View, error)

	// ListBySchedule returns a schedule's assignments.
	ListBySchedule(ctx context.Context, scheduleID string, filter model.ListFilter) (*model.ListResponse, error)

	// ListByConsultant returns a consultant's assignments across schedules.
	ListByConsultant(ctx context.Context, consultantID string, filter model.ListFilter) (*model.ListResponse, error)

	// Update patches dates, role, hours, notes or the critical flag.
	Update(ctx context.Context, id string, expected int64, req *model.UpdateRequest) (*model.View, error)

	// ChangeStatus moves the assignment through its lifecycle.
	ChangeStatus(
		ctx context.Context,
		id string,
		expected int64,
		status lifecycle.AssignmentStatus,
		confirmation string,
	) (*model.View, error)

	// Delete removes the assignment regardless of status.
	Delete(ctx context.Context, id string, expected int64, confirmation string) error

	// BulkUpdateStatus changes the status of each item independently.
	BulkUpdateStatus(ctx context.Context, req *model.BulkStatusRequest) (*model.BulkResult, error)

	// BulkDelete deletes each item independently.
	BulkDelete(ctx context.Context, req *model.BulkDeleteRequest) (*model.BulkResult, error)
}

type service struct {
	repo        repository.Repository
	db          *gorm.DB
	detector    *conflict.Detector
	schedules   ScheduleLookup
	consultants ConsultantDirectory
	emitter     *events.Emitter
	cfg         config.SchedulingConfig
	reads       retry.Config
	logger      *zap.SugaredLogger
}

// Deps groups the collaborators of the assignment service.
type Deps struct {
	Repo        repository.Repository
	DB          *gorm.DB
	Detector    *conflict.Detector
	Schedules   ScheduleLookup
	Consultants ConsultantDirectory
	Emitter     *events.Emitter
	Config      config.SchedulingConfig
	Logger      *zap.SugaredLogger
}

// New creates a new assignment service instance.
func New(deps Deps) Service {
	return &service{
		repo:        deps.Repo,
		db:          deps.DB,
		detector:    deps.Detector,
		schedules:   deps.Schedules,
		consultants: deps.Consultants,
		emitter:     deps.Emitter,
		cfg:         deps.Config,
		reads:       retry.OnceConfig(apperror.IsInfrastructure),
		logger:      deps.Logger,
	}
}

func (s *service) Create(ctx context.Context, scheduleID string, req *model.CreateRequest) (*model.View, error) {
	verr := validation.Struct(req)
	validation.Period(verr, req.StartDate, req.EndDate, false)
	hours := s.cfg.DefaultHoursPerDay
	if req.HoursPerDay != nil {
		hours = *req.HoursPerDay
		checkHours(verr, hours)
	}
	if err := verr.ErrOrNil(); err != nil {
		s.logger.Debugw("assignment rejected", "schedule_id", scheduleID, "error", err)
		return nil, err
	}

	period := daterange.New(req.StartDate, req.EndDate)
	schedule, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	consultant, err := s.consultants.Get(ctx, req.ConsultantID)
	if err != nil {
		return nil, err
	}
	checkPlacement(verr, schedule, period)
	if !consultant.IsActive {
		verr.Add("consultantId", consultantModel.ErrInactive.Error())
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		ID:           uuid.NewString(),
		ScheduleID:   scheduleID,
		ConsultantID: req.ConsultantID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Role:         strings.TrimSpace(req.Role),
		HoursPerDay:  hours,
		Status:       lifecycle.AssignmentPending,
		Notes:        req.Notes,
		IsCritical:   req.IsCritical,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := conflict.Candidate{ConsultantID: assignment.ConsultantID, Period: period}
		if err := s.detector.WithTx(tx).CheckAssignmentConflict(ctx, candidate); err != nil {
			return err
		}
		return repository.New(tx, s.logger).Create(ctx, assignment)
	})
	if err != nil {
		s.logger.Warnw("assignment create rejected",
			"schedule_id", scheduleID, "consultant_id", req.ConsultantID, "error", err)
		return nil, err
	}

	s.logger.Infow("assignment created",
		"assignment_id", assignment.ID, "schedule_id", scheduleID, "consultant_id", assignment.ConsultantID)
	s.emitter.Emit(ctx, events.AssignmentCreated, assignment.ID, assignment)
	return s.view(ctx, assignment), nil
}

func (s *service) Get(ctx context.Context, id string) (*model.View, error) {
	assignment, err := retry.DoWithResult(ctx, s.reads, func() (*model.Assignment, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, assignment), nil
}

func (s *service) ListBySchedule(
	ctx context.Context,
	scheduleID string,
	filter model.ListFilter,
) (*model.ListResponse, error) {
	if err := checkFilter(filter); err != nil {
		return nil, err
	}
	if _, err := s.schedules.Get(ctx, scheduleID); err != nil {
		return nil, err
	}

	assignments, err := retry.DoWithResult(ctx, s.reads, func() ([]model.Assignment, error) {
		return s.repo.ListBySchedule(ctx, scheduleID, filter)
	})
	if err != nil {
		return nil, err
	}
	return s.list(ctx, assignments), nil
}

func (s *service) ListByConsultant(
	ctx context.Context,
	consultantID string,
	filter model.ListFilter,
) (*model.ListResponse, error) {
	if err := checkFilter(filter); err != nil {
		return nil, err
	}
	if _, err := s.consultants.Get(ctx, consultantID); err != nil {
		return nil, err
	}

	assignments, err := retry.DoWithResult(ctx, s.reads, func() ([]model.Assignment, error) {
		return s.repo.ListByConsultant(ctx, consultantID, filter)
	})
	if err != nil {
		return nil, err
	}
	return s.list(ctx, assignments), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	expected int64,
	req *model.UpdateRequest,
) (*model.View, error) {
	verr := validation.Struct(req)
	if req.IsEmpty() {
		verr.Add("body", "at least one field must be provided")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClearsCritical(current.IsCritical) {
		if err := s.confirm(req.ConfirmationText); err != nil {
			return nil, err
		}
	}
	if err := concurrency.Check(model.Kind, current, expected); err != nil {
		s.logger.Warnw("assignment update on stale version", "assignment_id", id, "expected", expected)
		return nil, err
	}
	if lifecycle.Assignments.IsTerminal(current.Status) {
		return nil, apperror.NewValidationError("status", "a "+string(current.Status)+" assignment cannot be edited")
	}

	patched, updates := applyPatch(current, req)
	validation.Period(verr, patched.StartDate, patched.EndDate, false)
	checkHours(verr, patched.HoursPerDay)
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	period := patched.Period()
	if req.StartDate != nil || req.EndDate != nil {
		schedule, err := s.schedules.Get(ctx, current.ScheduleID)
		if err != nil {
			return nil, err
		}
		checkPlacement(verr, schedule, period)
		if err := verr.ErrOrNil(); err != nil {
			return nil, err
		}
	}

	var updated *model.Assignment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !period.Equal(current.Period()) {
			candidate := conflict.Candidate{
				ConsultantID:        current.ConsultantID,
				Period:              period,
				ExcludeAssignmentID: id,
			}
			if err := s.detector.WithTx(tx).CheckAssignmentConflict(ctx, candidate); err != nil {
				return err
			}
		}
		var err error
		updated, err = repository.New(tx, s.logger).Update(ctx, id, expected, updates, period)
		return err
	})
	if err != nil {
		s.logger.Warnw("assignment update rejected", "assignment_id", id, "error", err)
		return nil, err
	}

	s.logger.Infow("assignment updated", "assignment_id", id, "version", updated.Version)
	s.emitter.Emit(ctx, events.AssignmentUpdated, id, updated)
	return s.view(ctx, updated), nil
}

// applyPatch returns current with req applied and the column updates that
// produce it.
func applyPatch(current *model.Assignment, req *model.UpdateRequest) (model.Assignment, map[string]any) {
	patched := *current
	updates := make(map[string]any)

	if req.StartDate != nil {
		patched.StartDate = *req.StartDate
		updates["start_date"] = patched.StartDate
	}
	if req.EndDate != nil {
		patched.EndDate = *req.EndDate
		updates["end_date"] = patched.EndDate
	}
	if req.Role != nil {
		patched.Role = strings.TrimSpace(*req.Role)
		updates["role"] = patched.Role
	}
	if req.HoursPerDay != nil {
		patched.HoursPerDay = *req.HoursPerDay
		updates["hours_per_day"] = patched.HoursPerDay
	}
	if req.Notes != nil {
		patched.Notes = *req.Notes
		updates["notes"] = patched.Notes
	}
	if req.IsCritical != nil {
		patched.IsCritical = *req.IsCritical
		updates["is_critical"] = patched.IsCritical
	}
	return patched, updates
}

func checkHours(verr *apperror.ValidationError, hours decimal.Decimal) {
	if !model.ValidHours(hours) {
		verr.Add("hoursPerDay", "must be greater than 0 and at most 24")
		return
	}
	if !model.HoursFitScale(hours) {
		verr.Add("hoursPerDay", "must have at most 2 decimal places")
	}
}

// checkPlacement adds the schedule rules for period to verr.
func checkPlacement(verr *apperror.ValidationError, schedule *scheduleModel.Schedule, period daterange.Range) {
	if !schedule.AcceptsAssignments() {
		verr.Add("scheduleId", scheduleModel.ErrCompleted.Error())
	}
	if period.Start.Before(schedule.StartDate) {
		verr.Add("startDate", "must not be before the schedule start "+schedule.StartDate.String())
	}
	if period.End.After(schedule.EndDate) {
		verr.Add("endDate", "must not be after the schedule end "+schedule.EndDate.String())
	}
}

func checkFilter(filter model.ListFilter) error {
	if filter.Status != "" && !lifecycle.Assignments.IsValid(filter.Status) {
		return apperror.NewValidationError("status", "must be one of: pending, confirmed, active, completed, cancelled")
	}
	return nil
}

func (s *service) view(ctx context.Context, assignment *model.Assignment) *model.View {
	return &s.list(ctx, []model.Assignment{*assignment}).Assignments[0]
}

// list attaches consultant summaries. A directory failure degrades the
// response to bare ids instead of failing it.
func (s *service) list(ctx context.Context, assignments []model.Assignment) *model.ListResponse {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ConsultantID)
	}

	summaries, err := s.consultants.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warnw("consultant summaries unavailable", "count", len(ids), "error", err)
	}

	views := make([]model.View, 0, len(assignments))
	for _, a := range assignments {
		v := model.View{Assignment: a}
		if summary, ok := summaries[a.ConsultantID]; ok {
			v.Consultant = &summary
		}
		views = append(views, v)
	}
	return &model.ListResponse{Assignments: views, Count: len(views)}
}
