package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/assignment/model"
	"github.com/festy23/consultant_staffing/internal/assignment/repository"
	"github.com/festy23/consultant_staffing/internal/concurrency"
	"github.com/festy23/consultant_staffing/internal/conflict"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/metrics"
)

func (s *service) ChangeStatus(
	ctx context.Context,
	id string,
	expected int64,
	status lifecycle.AssignmentStatus,
	confirmation string,
) (*model.View, error) {
	if !lifecycle.Assignments.IsValid(status) {
		return nil, apperror.NewValidationError("status",
			"must be one of: pending, confirmed, active, completed, cancelled")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cancelling twice is a successful no-op; the version stays put.
	if current.Status == lifecycle.AssignmentCancelled && status == lifecycle.AssignmentCancelled {
		s.logger.Debugw("assignment already cancelled", "assignment_id", id)
		return s.view(ctx, current), nil
	}

	if current.IsCritical && lifecycle.Assignments.Enters(status, lifecycle.Destructive) {
		if err := s.confirm(confirmation); err != nil {
			return nil, err
		}
	}
	if err := concurrency.Check(model.Kind, current, expected); err != nil {
		s.logger.Warnw("assignment status change on stale version", "assignment_id", id, "expected", expected)
		return nil, err
	}
	rule, err := lifecycle.Assignments.Transition(current.Status, status)
	if err != nil {
		s.logger.Warnw("assignment transition rejected", "assignment_id", id, "from", current.Status, "to", status)
		return nil, err
	}

	var updated *model.Assignment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rule.Conditions.Has(lifecycle.RequiresConflictCheck) {
			candidate := conflict.Candidate{
				ConsultantID:        current.ConsultantID,
				Period:              current.Period(),
				ExcludeAssignmentID: id,
			}
			if err := s.detector.WithTx(tx).CheckAssignmentConflict(ctx, candidate); err != nil {
				return err
			}
		}
		var err error
		updated, err = repository.New(tx, s.logger).
			Update(ctx, id, expected, map[string]any{"status": status}, current.Period())
		return err
	})
	if err != nil {
		s.logger.Warnw("assignment status change rejected", "assignment_id", id, "to", status, "error", err)
		return nil, err
	}

	metrics.RecordTransition(model.Kind, string(current.Status), string(status))
	s.logger.Infow("assignment status changed",
		"assignment_id", id, "from", current.Status, "to", status, "version", updated.Version)
	s.emitter.Emit(ctx, events.AssignmentStatusChanged, id, map[string]any{
		"from":       current.Status,
		"to":         status,
		"version":    updated.Version,
		"assignment": updated,
	})
	return s.view(ctx, updated), nil
}

func (s *service) Delete(ctx context.Context, id string, expected int64, confirmation string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.IsCritical {
		if err := s.confirm(confirmation); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id, expected); err != nil {
		s.logger.Warnw("assignment delete rejected", "assignment_id", id, "error", err)
		return err
	}

	s.logger.Infow("assignment deleted", "assignment_id", id, "status", current.Status)
	s.emitter.Emit(ctx, events.AssignmentDeleted, id, current)
	return nil
}

// confirm checks the typed confirmation for destructive actions on
// critical assignments. The match is exact.
func (s *service) confirm(text string) error {
	if text != s.cfg.ConfirmationPhrase {
		return &apperror.ConfirmationRequiredError{Phrase: s.cfg.ConfirmationPhrase}
	}
	return nil
}
