package apperror

import "errors"

// Machine readable error codes shared by HTTP responses and bulk results.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeNotFound             = "NOT_FOUND"
	CodeDateRangeConflict    = "DATE_RANGE_CONFLICT"
	CodeVersionConflict      = "VERSION_CONFLICT"
	CodeLeadConflict         = "LEAD_CONFLICT"
	CodeDependencyExists     = "DEPENDENCY_EXISTS"
	CodeUnavailable          = "SERVICE_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

// Describe returns the code of err and the structured details a caller
// needs to render it. Unknown errors are CodeInternal with no details.
func Describe(err error) (string, any) {
	var (
		validation *ValidationError
		transition *InvalidTransitionError
		confirm    *ConfirmationRequiredError
		notFound   *NotFoundError
		dateRange  *DateRangeConflictError
		version    *VersionConflictError
		lead       *LeadUniquenessWarning
		dependency *DependencyExistsError
		infra      *InfrastructureError
	)
	switch {
	case errors.As(err, &validation):
		return CodeValidation, validation
	case errors.As(err, &transition):
		return CodeInvalidTransition, transition
	case errors.As(err, &confirm):
		return CodeConfirmationRequired, confirm
	case errors.As(err, &notFound):
		return CodeNotFound, notFound
	case errors.As(err, &dateRange):
		return CodeDateRangeConflict, dateRange
	case errors.As(err, &version):
		return CodeVersionConflict, version
	case errors.As(err, &lead):
		return CodeLeadConflict, lead
	case errors.As(err, &dependency):
		return CodeDependencyExists, dependency
	case errors.As(err, &infra):
		return CodeUnavailable, nil
	}
	return CodeInternal, nil
}
