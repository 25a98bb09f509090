// Package service provides the review workflow for compliance documents.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	consultantModel "github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/document/model"
	"github.com/festy23/consultant_staffing/internal/document/repository"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/pkg/daterange"
	"github.com/festy23/consultant_staffing/pkg/retry"
	"github.com/festy23/consultant_staffing/pkg/validation"
)

// ConsultantLookup checks that a consultant exists.
type ConsultantLookup interface {
	Get(ctx context.Context, id string) (*consultantModel.Consultant, error)
}

// Service defines the document operations.
type Service interface {
	// Create registers a pending document for a consultant.
	Create(ctx context.Context, consultantID string, req *model.CreateRequest) (*model.View, error)

	// Get returns one document.
	Get(ctx context.Context, id string) (*model.View, error)

	// ListByConsultant returns a consultant's documents.
	ListByConsultant(ctx context.Context, consultantID string, filter model.ListFilter) (*model.ListResponse, error)

	// Review approves or rejects a pending document. Rejections need a comment.
	Review(ctx context.Context, id string, expected int64, req *model.ReviewRequest) (*model.View, error)

	// Resubmit moves a rejected document back to pending.
	Resubmit(ctx context.Context, id string, expected int64, req *model.ResubmitRequest) (*model.View, error)

	// Expiring lists documents expiring within the given number of days,
	// including those already expired.
	Expiring(ctx context.Context, withinDays int) (*model.ExpiringResponse, error)
}

type service struct {
	repo        repository.Repository
	consultants ConsultantLookup
	emitter     *events.Emitter
	now         func() time.Time
	reads       retry.Config
	logger      *zap.SugaredLogger
}

// Option configures the document service.
type Option func(*service)

// WithClock replaces the wall clock used for review timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new document service instance.
func New(
	repo repository.Repository,
	consultants ConsultantLookup,
	emitter *events.Emitter,
	logger *zap.SugaredLogger,
	opts ...Option,
) Service {
	s := &service{
		repo:        repo,
		consultants: consultants,
		emitter:     emitter,
		now:         time.Now,
		reads:       retry.OnceConfig(apperror.IsInfrastructure),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) today() daterange.Date {
	return daterange.DateOf(s.now().UTC())
}

func (s *service) Create(ctx context.Context, consultantID string, req *model.CreateRequest) (*model.View, error) {
	if err := validation.Struct(req).ErrOrNil(); err != nil {
		return nil, err
	}
	if _, err := s.consultants.Get(ctx, consultantID); err != nil {
		return nil, err
	}

	document := &model.Document{
		ID:           uuid.NewString(),
		ConsultantID: consultantID,
		Title:        strings.TrimSpace(req.Title),
		DocumentType: strings.TrimSpace(req.DocumentType),
		FileName:     req.FileName,
		Status:       lifecycle.DocumentPending,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := s.repo.Create(ctx, document); err != nil {
		return nil, err
	}

	s.logger.Infow("document registered", "document_id", document.ID, "consultant_id", consultantID)
	view := model.NewView(*document, s.today())
	return &view, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.View, error) {
	document, err := retry.DoWithResult(ctx, s.reads, func() (*model.Document, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	view := model.NewView(*document, s.today())
	return &view, nil
}

func (s *service) ListByConsultant(
	ctx context.Context,
	consultantID string,
	filter model.ListFilter,
) (*model.ListResponse, error) {
	if filter.Status != "" && !lifecycle.Documents.IsValid(filter.Status) {
		return nil, apperror.NewValidationError("status", "must be one of: pending, approved, rejected")
	}
	if _, err := s.consultants.Get(ctx, consultantID); err != nil {
		return nil, err
	}

	documents, err := retry.DoWithResult(ctx, s.reads, func() ([]model.Document, error) {
		return s.repo.ListByConsultant(ctx, consultantID, filter)
	})
	if err != nil {
		return nil, err
	}

	views := s.views(documents)
	return &model.ListResponse{ConsultantID: consultantID, Documents: views, Count: len(views)}, nil
}

func (s *service) Review(
	ctx context.Context,
	id string,
	expected int64,
	req *model.ReviewRequest,
) (*model.View, error) {
	verr := validation.Struct(req)
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := concurrency.Check(model.Kind, current, expected); err != nil {
		s.logger.Warnw("document review on stale version", "document_id", id, "expected", expected)
		return nil, err
	}
	rule, err := lifecycle.Documents.Transition(current.Status, req.Status)
	if err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(req.Comment)
	if rule.Conditions.Has(lifecycle.RequiresComment) && comment == "" {
		return nil, apperror.NewValidationError("comment", "is required when rejecting a document")
	}

	updated, err := s.repo.Update(ctx, id, expected, map[string]any{
		"status":         req.Status,
		"review_comment": comment,
		"reviewed_by":    strings.TrimSpace(req.ReviewedBy),
		"reviewed_at":    s.now().UTC(),
	})
	if err != nil {
		s.logger.Warnw("document review rejected", "document_id", id, "error", err)
		return nil, err
	}

	metrics.RecordTransition(model.Kind, string(current.Status), string(req.Status))
	s.logger.Infow("document reviewed", "document_id", id, "status", req.Status, "reviewed_by", updated.ReviewedBy)
	s.emitter.Emit(ctx, events.DocumentReviewed, id, map[string]any{
		"consultantId": updated.ConsultantID,
		"status":       updated.Status,
		"comment":      updated.ReviewComment,
		"reviewedBy":   updated.ReviewedBy,
	})
	view := model.NewView(*updated, s.today())
	return &view, nil
}

func (s *service) Resubmit(
	ctx context.Context,
	id string,
	expected int64,
	req *model.ResubmitRequest,
) (*model.View, error) {
	if err := validation.Struct(req).ErrOrNil(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := concurrency.Check(model.Kind, current, expected); err != nil {
		return nil, err
	}
	if _, err := lifecycle.Documents.Transition(current.Status, lifecycle.DocumentPending); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"status":         lifecycle.DocumentPending,
		"review_comment": "",
		"reviewed_by":    "",
		"reviewed_at":    nil,
	}
	if req.FileName != nil {
		updates["file_name"] = *req.FileName
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}

	updated, err := s.repo.Update(ctx, id, expected, updates)
	if err != nil {
		s.logger.Warnw("document resubmit rejected", "document_id", id, "error", err)
		return nil, err
	}

	metrics.RecordTransition(model.Kind, string(current.Status), string(lifecycle.DocumentPending))
	s.logger.Infow("document resubmitted", "document_id", id)
	view := model.NewView(*updated, s.today())
	return &view, nil
}

func (s *service) Expiring(ctx context.Context, withinDays int) (*model.ExpiringResponse, error) {
	if withinDays < 0 || withinDays > model.MaxExpiryWindowDays {
		return nil, apperror.NewValidationError("withinDays", "must be between 0 and 365")
	}

	until := s.today().AddDays(withinDays)
	documents, err := retry.DoWithResult(ctx, s.reads, func() ([]model.Document, error) {
		return s.repo.ListExpiring(ctx, until)
	})
	if err != nil {
		return nil, err
	}

	views := s.views(documents)
	return &model.ExpiringResponse{WithinDays: withinDays, Until: until, Documents: views, Count: len(views)}, nil
}

func (s *service) views(documents []model.Document) []model.View {
	today := s.today()
	views := make([]model.View, 0, len(documents))
	for _, d := range documents {
		views = append(views, model.NewView(d, today))
	}
	return views
}
