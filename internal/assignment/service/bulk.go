package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/assignment/model"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/metrics"
	"github.com/festy23/consultant_staffing/pkg/validation"
)

const (
	bulkStatus = "status"
	bulkDelete = "delete"
)

func (s *service) BulkUpdateStatus(ctx context.Context, req *model.BulkStatusRequest) (*model.BulkResult, error) {
	verr := validation.Struct(req)
	s.checkBulkSize(verr, len(req.Items))
	if req.Status != "" && !lifecycle.Assignments.IsValid(req.Status) {
		verr.Add("status", "must be one of: pending, confirmed, active, completed, cancelled")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return s.fanOut(ctx, bulkStatus, req.Items, func(item model.BulkItem) error {
		_, err := s.ChangeStatus(ctx, item.ID, *item.Version, req.Status, req.ConfirmationText)
		return err
	}), nil
}

func (s *service) BulkDelete(ctx context.Context, req *model.BulkDeleteRequest) (*model.BulkResult, error) {
	verr := validation.Struct(req)
	s.checkBulkSize(verr, len(req.Items))
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return s.fanOut(ctx, bulkDelete, req.Items, func(item model.BulkItem) error {
		return s.Delete(ctx, item.ID, *item.Version, req.ConfirmationText)
	}), nil
}

func (s *service) checkBulkSize(verr *apperror.ValidationError, n int) {
	if n > s.cfg.BulkMaxItems {
		verr.Add("items", fmt.Sprintf("must contain at most %d items", s.cfg.BulkMaxItems))
	}
}

// fanOut runs op for every item with bounded parallelism. A failing item
// never stops the others; results keep the order of items.
func (s *service) fanOut(
	ctx context.Context,
	operation string,
	items []model.BulkItem,
	op func(model.BulkItem) error,
) *model.BulkResult {
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(s.cfg.BulkConcurrency)
	for i, item := range items {
		g.Go(func() error {
			errs[i] = op(item)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.BulkResult{Succeeded: []string{}, Failed: []model.BulkFailure{}}
	for i, item := range items {
		if errs[i] == nil {
			result.Succeeded = append(result.Succeeded, item.ID)
			metrics.RecordBulkItem(operation, metrics.ResultSucceeded)
			continue
		}
		code, details := apperror.Describe(errs[i])
		message := errs[i].Error()
		if code == apperror.CodeInternal || code == apperror.CodeUnavailable {
			s.logger.Errorw("bulk item failed", "operation", operation, "assignment_id", item.ID, "error", errs[i])
			message = "item could not be processed"
		}
		result.Failed = append(result.Failed, model.BulkFailure{
			ID:      item.ID,
			Code:    code,
			Message: message,
			Details: details,
		})
		metrics.RecordBulkItem(operation, metrics.ResultFailed)
	}
	result.SucceededCount = len(result.Succeeded)
	result.FailedCount = len(result.Failed)

	s.logger.Infow("bulk operation finished",
		"operation", operation, "succeeded", result.SucceededCount, "failed", result.FailedCount)
	return result
}
