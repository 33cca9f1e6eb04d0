package domain

import "time"

// FilterKind discriminates the optional refinement applied on top of the base
// effective-date range predicate.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterYear
	FilterQuarter
	FilterMonth
	FilterDay
)

// RateFilter is a tagged variant decided once at the service boundary.
// Exactly one of Year/Quarter/Month/Day is meaningful, selected by Kind.
type RateFilter struct {
	Kind    FilterKind
	Year    int
	Quarter int
	Month   int
	Day     time.Time
}

// NoFilter applies the base range predicate only.
var NoFilter = RateFilter{Kind: FilterNone}

// Matches reports whether an effective date passes the refinement. The store
// evaluates the same predicate in SQL; this is the reference semantics.
func (f RateFilter) Matches(effectiveDate time.Time) bool {
	switch f.Kind {
	case FilterYear:
		return effectiveDate.Year() == f.Year
	case FilterQuarter:
		return (int(effectiveDate.Month())-1)/3+1 == f.Quarter
	case FilterMonth:
		return int(effectiveDate.Month()) == f.Month
	case FilterDay:
		return effectiveDate.Format("2006-01-02") == f.Day.Format("2006-01-02")
	default:
		return true
	}
}
