// Package service provides team membership logic, including the one active
// lead per project rule.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/config"
	"github.com/festy23/consultant_staffing/internal/conflict"
	consultantModel "github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/internal/team/model"
	"github.com/festy23/consultant_staffing/internal/team/repository"
	"github.com/festy23/consultant_staffing/pkg/retry"
	"github.com/festy23/consultant_staffing/pkg/validation"
)

// ConsultantDirectory resolves consultants and their display fields.
type ConsultantDirectory interface {
	Get(ctx context.Context, id string) (*consultantModel.Consultant, error)
	Summaries(ctx context.Context, ids []string) (map[string]consultantModel.Summary, error)
}

// Service defines the team operations.
type Service interface {
	// Roles returns the team role reference data.
	Roles(ctx context.Context) (*model.RolesResponse, error)

	// List returns a project's team.
	List(ctx context.Context, projectID string, filter model.ListFilter) (*model.ListResponse, error)

	// Get returns one team assignment.
	Get(ctx context.Context, id string) (*model.Member, error)

	// Add puts a consultant on a project team. Adding a lead that overlaps
	// another active lead is governed by the configured lead policy.
	Add(ctx context.Context, projectID string, req *model.AddRequest) (*model.Result, error)

	// Update patches role, dates, lead flag or status.
	Update(ctx context.Context, id string, expected int64, req *model.UpdateRequest) (*model.Result, error)

	// Remove deletes a team assignment.
	Remove(ctx context.Context, id string, expected int64) error
}

type service struct {
	repo        repository.Repository
	db          *gorm.DB
	detector    *conflict.Detector
	consultants ConsultantDirectory
	emitter     *events.Emitter
	leadPolicy  string
	reads       retry.Config
	logger      *zap.SugaredLogger
}

// Deps groups the collaborators of the team service.
type Deps struct {
	Repo        repository.Repository
	DB          *gorm.DB
	Detector    *conflict.Detector
	Consultants ConsultantDirectory
	Emitter     *events.Emitter
	Config      config.SchedulingConfig
	Logger      *zap.SugaredLogger
}

// New creates a new team service instance.
func New(deps Deps) Service {
	return &service{
		repo:        deps.Repo,
		db:          deps.DB,
		detector:    deps.Detector,
		consultants: deps.Consultants,
		emitter:     deps.Emitter,
		leadPolicy:  deps.Config.LeadPolicy,
		reads:       retry.OnceConfig(apperror.IsInfrastructure),
		logger:      deps.Logger,
	}
}

func (s *service) Roles(ctx context.Context) (*model.RolesResponse, error) {
	roles, err := retry.DoWithResult(ctx, s.reads, func() ([]model.TeamRole, error) {
		return s.repo.ListRoles(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &model.RolesResponse{Roles: roles}, nil
}

func (s *service) List(ctx context.Context, projectID string, filter model.ListFilter) (*model.ListResponse, error) {
	if filter.Status != "" && !lifecycle.TeamAssignments.IsValid(filter.Status) {
		return nil, apperror.NewValidationError("status", "must be one of: active, inactive")
	}

	team, err := retry.DoWithResult(ctx, s.reads, func() ([]model.TeamAssignment, error) {
		return s.repo.ListByProject(ctx, projectID, filter)
	})
	if err != nil {
		return nil, err
	}

	members := s.members(ctx, team)
	return &model.ListResponse{ProjectID: projectID, Members: members, Count: len(members)}, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Member, error) {
	member, err := retry.DoWithResult(ctx, s.reads, func() (*model.TeamAssignment, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &s.members(ctx, []model.TeamAssignment{*member})[0], nil
}

func (s *service) Add(ctx context.Context, projectID string, req *model.AddRequest) (*model.Result, error) {
	verr := validation.Struct(req)
	if strings.TrimSpace(projectID) == "" || len(projectID) > 64 {
		verr.Add("projectId", "must be between 1 and 64 characters")
	}
	validation.Period(verr, req.StartDate, req.EndDate, true)
	if err := verr.ErrOrNil(); err != nil {
		s.logger.Debugw("team assignment rejected", "project_id", projectID, "error", err)
		return nil, err
	}

	consultant, err := s.consultants.Get(ctx, req.ConsultantID)
	if err != nil {
		return nil, err
	}
	if !consultant.IsActive {
		return nil, apperror.NewValidationError("consultantId", consultantModel.ErrInactive.Error())
	}
	if _, err := s.repo.GetRole(ctx, req.TeamRoleID); err != nil {
		return nil, err
	}

	member := &model.TeamAssignment{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		ConsultantID: req.ConsultantID,
		TeamRoleID:   req.TeamRoleID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsLead:       req.IsLead,
		Status:       lifecycle.TeamActive,
	}

	var warnings []*apperror.LeadUniquenessWarning
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if member.ActiveLead() {
			var err error
			if warnings, err = s.checkLead(ctx, tx, member, req.AcknowledgeLeadWarning); err != nil {
				return err
			}
		}
		return repository.New(tx, s.logger).Create(ctx, member)
	})
	if err != nil {
		s.logger.Warnw("team assignment add rejected",
			"project_id", projectID, "consultant_id", req.ConsultantID, "error", err)
		return nil, err
	}

	s.logger.Infow("team assignment added",
		"team_assignment_id", member.ID, "project_id", projectID, "is_lead", member.IsLead)
	s.emitter.Emit(ctx, events.TeamAssignmentAdded, member.ID, member)
	s.emitWarnings(ctx, member, warnings)
	return s.result(ctx, member, warnings), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	expected int64,
	req *model.UpdateRequest,
) (*model.Result, error) {
	verr := validation.Struct(req)
	if req.IsEmpty() {
		verr.Add("body", "at least one field must be provided")
	}
	if req.Status != nil && !lifecycle.TeamAssignments.IsValid(*req.Status) {
		verr.Add("status", "must be one of: active, inactive")
	}
	if req.StartDate != nil && req.StartDate.IsZero() {
		verr.Add("startDate", "is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := concurrency.Check(model.Kind, current, expected); err != nil {
		s.logger.Warnw("team assignment update on stale version", "team_assignment_id", id, "expected", expected)
		return nil, err
	}

	patched, updates := applyPatch(current, req)
	validation.Period(verr, patched.StartDate, patched.EndDate, true)
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	reactivated := false
	if patched.Status != current.Status {
		rule, err := lifecycle.TeamAssignments.Transition(current.Status, patched.Status)
		if err != nil {
			return nil, err
		}
		reactivated = rule.Conditions.Has(lifecycle.RequiresConflictCheck)
	}
	if req.TeamRoleID != nil && *req.TeamRoleID != current.TeamRoleID {
		if _, err := s.repo.GetRole(ctx, patched.TeamRoleID); err != nil {
			return nil, err
		}
	}

	leadCheck := patched.ActiveLead() &&
		(reactivated || !current.ActiveLead() || !patched.Period().Equal(current.Period()))

	var (
		updated  *model.TeamAssignment
		warnings []*apperror.LeadUniquenessWarning
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if leadCheck {
			if warnings, err = s.checkLead(ctx, tx, &patched, req.AcknowledgeLeadWarning); err != nil {
				return err
			}
		}
		updated, err = repository.New(tx, s.logger).Update(ctx, id, expected, updates)
		return err
	})
	if err != nil {
		s.logger.Warnw("team assignment update rejected", "team_assignment_id", id, "error", err)
		return nil, err
	}

	if patched.Status != current.Status {
		metrics.RecordTransition(model.Kind, string(current.Status), string(patched.Status))
	}
	s.logger.Infow("team assignment updated", "team_assignment_id", id, "version", updated.Version)
	s.emitter.Emit(ctx, events.TeamAssignmentUpdated, id, updated)
	s.emitWarnings(ctx, updated, warnings)
	return s.result(ctx, updated, warnings), nil
}

func (s *service) Remove(ctx context.Context, id string, expected int64) error {
	if err := s.repo.Delete(ctx, id, expected); err != nil {
		s.logger.Warnw("team assignment remove rejected", "team_assignment_id", id, "error", err)
		return err
	}

	s.logger.Infow("team assignment removed", "team_assignment_id", id)
	s.emitter.Emit(ctx, events.TeamAssignmentRemoved, id, map[string]any{"version": expected})
	return nil
}

// checkLead applies the lead policy to member. It returns the warnings the
// caller acknowledged, or the warning itself when the write must not go on.
func (s *service) checkLead(
	ctx context.Context,
	tx *gorm.DB,
	member *model.TeamAssignment,
	acknowledged bool,
) ([]*apperror.LeadUniquenessWarning, error) {
	warning, err := s.detector.WithTx(tx).CheckLeadUniqueness(ctx, conflict.LeadCandidate{
		ProjectID:               member.ProjectID,
		Period:                  member.Period(),
		ExcludeTeamAssignmentID: member.ID,
	})
	if err != nil || warning == nil {
		return nil, err
	}

	warning.Overridable = s.leadPolicy != config.LeadPolicyReject
	if !warning.Overridable || !acknowledged {
		return nil, warning
	}
	s.logger.Infow("lead overlap acknowledged",
		"project_id", member.ProjectID, "existing_lead_id", warning.ExistingLeadID)
	return []*apperror.LeadUniquenessWarning{warning}, nil
}

func (s *service) emitWarnings(ctx context.Context, member *model.TeamAssignment, warnings []*apperror.LeadUniquenessWarning) {
	for _, w := range warnings {
		s.emitter.Emit(ctx, events.TeamLeadWarning, member.ID, map[string]any{
			"projectId":        member.ProjectID,
			"existingLeadId":   w.ExistingLeadID,
			"overlappingRange": w.OverlappingRange,
		})
	}
}

// applyPatch returns current with req applied and the column updates that
// produce it.
func applyPatch(current *model.TeamAssignment, req *model.UpdateRequest) (model.TeamAssignment, map[string]any) {
	patched := *current
	updates := make(map[string]any)

	if req.TeamRoleID != nil {
		patched.TeamRoleID = *req.TeamRoleID
		updates["team_role_id"] = patched.TeamRoleID
	}
	if req.StartDate != nil {
		patched.StartDate = *req.StartDate
		updates["start_date"] = patched.StartDate
	}
	if req.EndDate != nil {
		patched.EndDate = *req.EndDate
		updates["end_date"] = patched.EndDate
	}
	if req.IsLead != nil {
		patched.IsLead = *req.IsLead
		updates["is_lead"] = patched.IsLead
	}
	if req.Status != nil {
		patched.Status = *req.Status
		updates["status"] = patched.Status
	}
	return patched, updates
}

func (s *service) result(
	ctx context.Context,
	member *model.TeamAssignment,
	warnings []*apperror.LeadUniquenessWarning,
) *model.Result {
	return &model.Result{Member: s.members(ctx, []model.TeamAssignment{*member})[0], Warnings: warnings}
}

// members attaches consultant summaries and role names. Lookup failures
// degrade the response instead of failing it.
func (s *service) members(ctx context.Context, team []model.TeamAssignment) []model.Member {
	ids := make([]string, 0, len(team))
	for _, m := range team {
		ids = append(ids, m.ConsultantID)
	}

	summaries, err := s.consultants.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warnw("consultant summaries unavailable", "count", len(ids), "error", err)
	}
	roleNames := make(map[string]string)
	if roles, err := s.repo.ListRoles(ctx); err != nil {
		s.logger.Warnw("team roles unavailable", "error", err)
	} else {
		for _, r := range roles {
			roleNames[r.ID] = r.Name
		}
	}

	out := make([]model.Member, 0, len(team))
	for _, m := range team {
		member := model.Member{TeamAssignment: m, RoleName: roleNames[m.TeamRoleID]}
		if summary, ok := summaries[m.ConsultantID]; ok {
			member.Consultant = &summary
		}
		out = append(out, member)
	}
	return out
}
