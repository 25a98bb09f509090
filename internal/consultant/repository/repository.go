// Package repository provides data access for the consultant directory replica.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/consultant/model"
)

// Repository defines the consultant data access operations.
type Repository interface {
	// GetByID finds a consultant by id.
	GetByID(ctx context.Context, id string) (*model.Consultant, error)

	// GetByIDs returns the consultants found among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]model.Consultant, error)

	// List returns consultants matching filter, ordered by name.
	List(ctx context.Context, filter model.ListFilter) ([]model.Consultant, error)

	// Upsert inserts or refreshes a consultant.
	Upsert(ctx context.Context, consultant *model.Consultant) (*model.Consultant, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new consultant repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// GetByID finds a consultant by id.
func (r *repository) GetByID(ctx context.Context, id string) (*model.Consultant, error) {
	r.logger.Debugw("GetByID called", "consultant_id", id)

	var consultant model.Consultant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&consultant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound(id)
		}
		r.logger.Errorw("GetByID database error", "consultant_id", id, "error", err)
		return nil, apperror.Infra("get consultant", err)
	}

	return &consultant, nil
}

// GetByIDs returns the consultants found among ids.
func (r *repository) GetByIDs(ctx context.Context, ids []string) (map[string]model.Consultant, error) {
	out := make(map[string]model.Consultant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var consultants []model.Consultant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&consultants).Error; err != nil {
		r.logger.Errorw("GetByIDs database error", "count", len(ids), "error", err)
		return nil, apperror.Infra("get consultants", err)
	}
	for _, c := range consultants {
		out[c.ID] = c
	}
	return out, nil
}

// List returns consultants matching filter.
func (r *repository) List(ctx context.Context, filter model.ListFilter) ([]model.Consultant, error) {
	query := r.db.WithContext(ctx).Model(&model.Consultant{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	consultants := []model.Consultant{}
	if err := query.Order("name ASC, id ASC").Find(&consultants).Error; err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, apperror.Infra("list consultants", err)
	}
	return consultants, nil
}

// Upsert inserts or refreshes a consultant keyed by id.
func (r *repository) Upsert(ctx context.Context, consultant *model.Consultant) (*model.Consultant, error) {
	now := time.Now().UTC()
	if consultant.CreatedAt.IsZero() {
		consultant.CreatedAt = now
	}
	consultant.UpdatedAt = now

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "specialty", "is_active", "updated_at"}),
		}).
		Create(consultant).Error
	if err != nil {
		r.logger.Errorw("Upsert database error", "consultant_id", consultant.ID, "error", err)
		return nil, apperror.Infra("upsert consultant", err)
	}

	r.logger.Infow("consultant upserted", "consultant_id", consultant.ID)
	return r.GetByID(ctx, consultant.ID)
}
