// Package repository provides the compliance document store.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/document/model"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Repository defines the document data access operations.
type Repository interface {
	// Create inserts a document.
	Create(ctx context.Context, document *model.Document) error

	// GetByID finds a document by id.
	GetByID(ctx context.Context, id string) (*model.Document, error)

	// ListByConsultant returns a consultant's documents, newest first.
	ListByConsultant(ctx context.Context, consultantID string, filter model.ListFilter) ([]model.Document, error)

	// ListExpiring returns documents whose expiry date is on or before until.
	ListExpiring(ctx context.Context, until daterange.Date) ([]model.Document, error)

	// Update applies updates if the stored version is still expected.
	Update(ctx context.Context, id string, expected int64, updates map[string]any) (*model.Document, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new document repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

func (r *repository) Create(ctx context.Context, document *model.Document) error {
	now := time.Now().UTC()
	document.CreatedAt = now
	document.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
		r.logger.Errorw("Create database error", "consultant_id", document.ConsultantID, "error", err)
		return apperror.Infra("create document", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var document model.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound(id)
		}
		r.logger.Errorw("GetByID database error", "document_id", id, "error", err)
		return nil, apperror.Infra("get document", err)
	}
	return &document, nil
}

func (r *repository) ListByConsultant(
	ctx context.Context,
	consultantID string,
	filter model.ListFilter,
) ([]model.Document, error) {
	query := r.db.WithContext(ctx).Where("consultant_id = ?", consultantID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	documents := []model.Document{}
	if err := query.Order("created_at DESC, id ASC").Find(&documents).Error; err != nil {
		r.logger.Errorw("ListByConsultant database error", "consultant_id", consultantID, "error", err)
		return nil, apperror.Infra("list documents", err)
	}
	return documents, nil
}

func (r *repository) ListExpiring(ctx context.Context, until daterange.Date) ([]model.Document, error) {
	documents := []model.Document{}
	err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", until).
		Order("expires_at ASC, id ASC").
		Find(&documents).Error
	if err != nil {
		r.logger.Errorw("ListExpiring database error", "until", until.String(), "error", err)
		return nil, apperror.Infra("list expiring documents", err)
	}
	return documents, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	expected int64,
	updates map[string]any,
) (*model.Document, error) {
	return concurrency.ApplyIfCurrent[model.Document](ctx, r.db, model.Kind, id, expected, updates)
}
