package daterange

import "fmt"

// Range is an inclusive span of whole days. A zero End means the range is
// open-ended.
type Range struct {
	Start Date `json:"startDate"`
	End   Date `json:"endDate,omitempty"`
}

// New returns the range [start, end].
func New(start, end Date) Range {
	return Range{Start: start, End: end}
}

// OpenEnded returns a range starting at start with no end.
func OpenEnded(start Date) Range {
	return Range{Start: start}
}

// IsOpenEnded reports whether the range has no end date.
func (r Range) IsOpenEnded() bool {
	return r.End.IsZero()
}

// Validate checks that the end, when present, is strictly after the start.
func (r Range) Validate() error {
	if r.Start.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if !r.IsOpenEnded() && !r.End.After(r.Start) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}

// Overlaps reports whether r and other share at least one day:
// s1 <= e2 AND s2 <= e1, with open ends treated as unbounded.
func (r Range) Overlaps(other Range) bool {
	if !other.IsOpenEnded() && r.Start.After(other.End) {
		return false
	}
	if !r.IsOpenEnded() && other.Start.After(r.End) {
		return false
	}
	return true
}

// Intersection returns the shared days of r and other. ok is false when the
// ranges do not overlap.
func (r Range) Intersection(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	var end Date
	switch {
	case r.IsOpenEnded():
		end = other.End
	case other.IsOpenEnded():
		end = r.End
	case r.End.Before(other.End):
		end = r.End
	default:
		end = other.End
	}
	return Range{Start: start, End: end}, true
}

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	if other.Start.Before(r.Start) {
		return false
	}
	if r.IsOpenEnded() {
		return true
	}
	if other.IsOpenEnded() {
		return false
	}
	return !other.End.After(r.End)
}

// Days returns the number of days in the range, counting both ends.
// Open-ended ranges return -1.
func (r Range) Days() int {
	if r.IsOpenEnded() {
		return -1
	}
	return int(r.End.Time().Sub(r.Start.Time()).Hours()/24) + 1
}

// String formats the range as "start..end".
func (r Range) String() string {
	if r.IsOpenEnded() {
		return r.Start.String() + ".."
	}
	return r.Start.String() + ".." + r.End.String()
}

// Equal reports whether r and other cover the same days.
func (r Range) Equal(other Range) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}
