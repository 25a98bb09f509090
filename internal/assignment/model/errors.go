package model

import (
	"github.com/shopspring/decimal"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

// MaxHoursPerDay is the upper bound of hoursPerDay; the lower bound is exclusive zero.
var MaxHoursPerDay = decimal.NewFromInt(24)

// HoursScale is the number of decimal places hours_per_day stores.
const HoursScale = 2

// NotFound returns the typed not-found error for an assignment id.
func NotFound(id string) error {
	return &apperror.NotFoundError{Kind: Kind, ID: id}
}

// ValidHours reports whether h lies in (0, MaxHoursPerDay].
func ValidHours(h decimal.Decimal) bool {
	return h.IsPositive() && h.LessThanOrEqual(MaxHoursPerDay)
}

// HoursFitScale reports whether h is representable in the stored column
// without rounding. Trailing zeros ("8.500") are accepted.
func HoursFitScale(h decimal.Decimal) bool {
	return h.Equal(h.Round(HoursScale))
}
