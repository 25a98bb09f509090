// Package apperror defines the typed errors returned by the scheduling core.
// Every error carries enough structure for a caller to render a precise
// message without parsing strings.
package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every invalid field of a request at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError returns a ValidationError holding a single field.
func NewValidationError(field, reason string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, reason)
	return v
}

// Add appends a failing field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Merge appends the fields of other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Fields = append(e.Fields, other.Fields...)
}

// HasField reports whether field failed validation.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ErrOrNil returns e when it holds at least one field, nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DateRangeConflictError is returned when a consultant is already assigned
// during part of the requested period.
type DateRangeConflictError struct {
	WithAssignmentID string          `json:"withAssignmentId,omitempty"`
	OverlappingRange daterange.Range `json:"overlappingRange"`
}

func (e *DateRangeConflictError) Error() string {
	if e.WithAssignmentID == "" {
		return "consultant already assigned during this period"
	}
	return fmt.Sprintf("consultant already assigned during this period (assignment %s, %s)",
		e.WithAssignmentID, e.OverlappingRange)
}

// LeadUniquenessWarning signals that another active lead already covers part
// of the requested period. Depending on policy the caller may acknowledge it.
type LeadUniquenessWarning struct {
	ExistingLeadID   string          `json:"existingLeadId"`
	OverlappingRange daterange.Range `json:"overlappingRange"`
	Overridable      bool            `json:"overridable"`
}

func (e *LeadUniquenessWarning) Error() string {
	return fmt.Sprintf("project already has an active lead during this period (team assignment %s)", e.ExistingLeadID)
}

// InvalidTransitionError is returned when a status change is not permitted.
type InvalidTransitionError struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// VersionConflictError is returned when the caller's version is stale. The
// current snapshot lets the caller reload without another round trip.
type VersionConflictError struct {
	EntityID        string `json:"entityId"`
	ExpectedVersion int64  `json:"expectedVersion"`
	CurrentVersion  int64  `json:"currentVersion"`
	CurrentSnapshot any    `json:"currentSnapshot,omitempty"`
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("record %s was modified by another user (expected version %d, current %d)",
		e.EntityID, e.ExpectedVersion, e.CurrentVersion)
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// DependencyExistsError blocks a deletion while dependents remain.
type DependencyExistsError struct {
	Count int64  `json:"count"`
	Kind  string `json:"kind"`
}

func (e *DependencyExistsError) Error() string {
	return fmt.Sprintf("cannot delete: %d dependent %s(s) exist", e.Count, e.Kind)
}

// ConfirmationRequiredError is returned when a destructive action on a
// critical entity is attempted without the exact confirmation phrase.
type ConfirmationRequiredError struct {
	Phrase string `json:"requiredPhrase"`
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("confirmation text %q is required for this action", e.Phrase)
}

// InfrastructureError wraps store or transport failures.
type InfrastructureError struct {
	Op  string
	Err error
}

// Infra wraps err as an InfrastructureError. It returns nil for a nil err and
// leaves typed domain errors untouched.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	var infra *InfrastructureError
	if errors.As(err, &infra) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// IsInfrastructure reports whether err is (or wraps) an InfrastructureError.
func IsInfrastructure(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDomain reports whether err is one of the business-rule errors above.
func IsDomain(err error) bool {
	var (
		validation *ValidationError
		dateRange  *DateRangeConflictError
		lead       *LeadUniquenessWarning
		transition *InvalidTransitionError
		version    *VersionConflictError
		notFound   *NotFoundError
		dependency *DependencyExistsError
		confirm    *ConfirmationRequiredError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &dateRange) ||
		errors.As(err, &lead) ||
		errors.As(err, &transition) ||
		errors.As(err, &version) ||
		errors.As(err, &notFound) ||
		errors.As(err, &dependency) ||
		errors.As(err, &confirm)
}
