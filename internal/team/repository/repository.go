// Package repository provides data access for team roles and team
// assignments.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/team/model"
)

// Repository defines the team data access operations.
type Repository interface {
	// ListRoles returns every team role ordered by name.
	ListRoles(ctx context.Context) ([]model.TeamRole, error)

	// GetRole finds a team role by id.
	GetRole(ctx context.Context, id string) (*model.TeamRole, error)

	// Create inserts a team assignment.
	Create(ctx context.Context, member *model.TeamAssignment) error

	// GetByID finds a team assignment by id.
	GetByID(ctx context.Context, id string) (*model.TeamAssignment, error)

	// ListByProject returns the project's team ordered by start date.
	ListByProject(ctx context.Context, projectID string, filter model.ListFilter) ([]model.TeamAssignment, error)

	// Update applies updates if the stored version is still expected.
	Update(ctx context.Context, id string, expected int64, updates map[string]any) (*model.TeamAssignment, error)

	// Delete removes the team assignment if the stored version is still expected.
	Delete(ctx context.Context, id string, expected int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

func (r *repository) ListRoles(ctx context.Context) ([]model.TeamRole, error) {
	roles := []model.TeamRole{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		r.logger.Errorw("ListRoles database error", "error", err)
		return nil, apperror.Infra("list team roles", err)
	}
	return roles, nil
}

func (r *repository) GetRole(ctx context.Context, id string) (*model.TeamRole, error) {
	var role model.TeamRole
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.RoleNotFound(id)
		}
		r.logger.Errorw("GetRole database error", "team_role_id", id, "error", err)
		return nil, apperror.Infra("get team role", err)
	}
	return &role, nil
}

func (r *repository) Create(ctx context.Context, member *model.TeamAssignment) error {
	r.logger.Debugw("Create called", "project_id", member.ProjectID, "consultant_id", member.ConsultantID)

	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		r.logger.Errorw("Create database error", "project_id", member.ProjectID, "error", err)
		return apperror.Infra("create team assignment", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*model.TeamAssignment, error) {
	var member model.TeamAssignment
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound(id)
		}
		r.logger.Errorw("GetByID database error", "team_assignment_id", id, "error", err)
		return nil, apperror.Infra("get team assignment", err)
	}
	return &member, nil
}

func (r *repository) ListByProject(
	ctx context.Context,
	projectID string,
	filter model.ListFilter,
) ([]model.TeamAssignment, error) {
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LeadOnly {
		query = query.Where("is_lead = ?", true)
	}

	members := []model.TeamAssignment{}
	if err := query.Order("start_date ASC, id ASC").Find(&members).Error; err != nil {
		r.logger.Errorw("ListByProject database error", "project_id", projectID, "error", err)
		return nil, apperror.Infra("list team", err)
	}
	return members, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	expected int64,
	updates map[string]any,
) (*model.TeamAssignment, error) {
	return concurrency.ApplyIfCurrent[model.TeamAssignment](ctx, r.db, model.Kind, id, expected, updates)
}

func (r *repository) Delete(ctx context.Context, id string, expected int64) error {
	return concurrency.DeleteIfCurrent[model.TeamAssignment](ctx, r.db, model.Kind, id, expected)
}
