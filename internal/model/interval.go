package model

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned by Validate when an interval's start is not
// strictly before its end. Empty and inverted intervals are both invalid.
var ErrInvalidInterval = errors.New("invalid interval: start must be before end")

// Interval is a half-open time range [Start, End). Two intervals that merely
// touch at an endpoint are adjacent, not overlapping: a booking ending at
// 10:00 and a block starting at 10:00 coexist on the same field.
//
// All operations are pure; intervals are treated as immutable values and are
// always interpreted in UTC.
type Interval struct {
	Start time.Time `json:"start"` // inclusive lower bound
	End   time.Time `json:"end"`   // exclusive upper bound
}

// NewInterval builds a validated interval, normalising both endpoints to UTC.
func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: start.UTC(), End: end.UTC()}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate reports ErrInvalidInterval when Start >= End.
func (iv Interval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether the two half-open intervals share any instant:
// a.Start < b.End && b.Start < a.End. Symmetric by construction.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether the instant falls inside the interval:
// Start <= point < End.
func (iv Interval) Contains(point time.Time) bool {
	return !point.Before(iv.Start) && point.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}
