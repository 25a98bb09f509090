// Package service provides business logic for the consultant directory replica.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/consultant/repository"
	"github.com/festy23/consultant_staffing/pkg/retry"
	"github.com/festy23/consultant_staffing/pkg/validation"
)

// Service defines the consultant directory operations.
type Service interface {
	// Get returns one consultant.
	Get(ctx context.Context, id string) (*model.Consultant, error)

	// GetActive returns a consultant that may receive new work.
	GetActive(ctx context.Context, id string) (*model.Consultant, error)

	// List returns consultants matching filter.
	List(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error)

	// Summaries returns display summaries for ids. Unknown ids are omitted.
	Summaries(ctx context.Context, ids []string) (map[string]model.Summary, error)

	// Upsert syncs a consultant from the external directory.
	Upsert(ctx context.Context, id string, req *model.UpsertRequest) (*model.Consultant, error)
}

type service struct {
	repo   repository.Repository
	reads  retry.Config
	logger *zap.SugaredLogger
}

// New creates a new consultant service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		reads:  retry.OnceConfig(apperror.IsInfrastructure),
		logger: logger,
	}
}

func (s *service) Get(ctx context.Context, id string) (*model.Consultant, error) {
	return retry.DoWithResult(ctx, s.reads, func() (*model.Consultant, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *service) GetActive(ctx context.Context, id string) (*model.Consultant, error) {
	consultant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !consultant.IsActive {
		return nil, model.ErrInactive
	}
	return consultant, nil
}

func (s *service) List(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		verr := &apperror.ValidationError{}
		if filter.Limit < 0 {
			verr.Add("limit", "must be greater than or equal to 0")
		}
		if filter.Offset < 0 {
			verr.Add("offset", "must be greater than or equal to 0")
		}
		return nil, verr
	}

	consultants, err := retry.DoWithResult(ctx, s.reads, func() ([]model.Consultant, error) {
		return s.repo.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return &model.ListResponse{Consultants: consultants, Count: len(consultants)}, nil
}

func (s *service) Summaries(ctx context.Context, ids []string) (map[string]model.Summary, error) {
	found, err := retry.DoWithResult(ctx, s.reads, func() (map[string]model.Consultant, error) {
		return s.repo.GetByIDs(ctx, dedupe(ids))
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Summary, len(found))
	for id, c := range found {
		out[id] = c.Summary()
	}
	return out, nil
}

func (s *service) Upsert(ctx context.Context, id string, req *model.UpsertRequest) (*model.Consultant, error) {
	if err := validation.Struct(req).ErrOrNil(); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	consultant := &model.Consultant{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Specialty: strings.TrimSpace(req.Specialty),
		IsActive:  active,
	}

	saved, err := s.repo.Upsert(ctx, consultant)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("consultant synced", "consultant_id", id, "is_active", active)
	return saved, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
