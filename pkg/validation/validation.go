// Package validation wraps go-playground/validator so that every failing
// field of a request is reported at once, under its JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
		// Dates validate as their string form, so "required" means non-zero.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(daterange.Date)
			if !ok || d.IsZero() {
				return ""
			}
			return d.String()
		}, daterange.Date{})
		instance = v
	})
	return instance
}

// Struct validates s and returns the failing fields. The result is never
// nil so callers can keep adding business-rule failures before calling
// ErrOrNil.
func Struct(s any) *apperror.ValidationError {
	verr := &apperror.ValidationError{}
	err := Validator().Struct(s)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("request", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe), Reason(fe))
	}
	return verr
}

// fieldPath drops the root struct name from the namespace: items[0].id.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Reason renders a human readable reason for a failed tag.
func Reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_if":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "dive":
		return "is invalid"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

// Period adds the date-ordering failures of [start, end] to verr. A zero end
// is accepted when openEnded is true. Missing dates are assumed to be
// reported by the struct tags already.
func Period(verr *apperror.ValidationError, start, end daterange.Date, openEnded bool) {
	if start.IsZero() || verr.HasField("endDate") {
		return
	}
	if end.IsZero() {
		if !openEnded {
			verr.Add("endDate", "is required")
		}
		return
	}
	if !end.After(start) {
		verr.Add("endDate", "must be after start date")
	}
}
