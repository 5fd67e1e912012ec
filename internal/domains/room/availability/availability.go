// Package availability holds the pure interval arithmetic behind the
// no-double-booking guarantee. Stay intervals are half-open [start, end):
// the checkout date itself is not an occupied night, so a stay that begins
// on another stay's checkout date does not conflict.
package availability

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyInterval = errors.New("stay must be at least one night")
)

// Interval is a half-open date range [Start, End) normalized to UTC midnight.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval validates and normalizes a stay interval. Zero-night and
// inverted ranges are rejected before any overlap check.
func NewInterval(start, end time.Time) (Interval, error) {
	s := Date(start)
	e := Date(end)

	if !e.After(s) {
		return Interval{}, ErrEmptyInterval
	}

	return Interval{Start: s, End: e}, nil
}

// Date truncates a timestamp to its UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of calendar nights covered by the interval.
func (i Interval) Nights() int {
	return int(i.End.Sub(i.Start).Hours() / 24)
}

// Overlaps reports whether two half-open intervals share at least one night.
// Abutting intervals (i.End == o.Start or o.End == i.Start) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether the given night falls inside the interval.
func (i Interval) Contains(night time.Time) bool {
	d := Date(night)

	return !d.Before(i.Start) && d.Before(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format("2006-01-02"), i.End.Format("2006-01-02"))
}

// Index is the set of occupied and blocked intervals of one room.
type Index struct {
	intervals []Interval
}

func NewIndex(intervals ...Interval) Index {
	return Index{intervals: intervals}
}

// Add registers another occupied interval.
func (x *Index) Add(i Interval) {
	x.intervals = append(x.intervals, i)
}

// Conflict returns the first registered interval overlapping the candidate.
// Any overlap is a hard rejection; there is no tie-breaking.
func (x Index) Conflict(candidate Interval) (Interval, bool) {
	for _, existing := range x.intervals {
		if existing.Overlaps(candidate) {
			return existing, true
		}
	}

	return Interval{}, false
}

// CanAdmit reports whether the candidate interval can be added without
// violating the pairwise non-overlap invariant.
func (x Index) CanAdmit(candidate Interval) bool {
	_, conflict := x.Conflict(candidate)

	return !conflict
}
