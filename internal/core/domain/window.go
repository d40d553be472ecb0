package domain

import (
	"fmt"
	"math"
	"time"

	coreerrors "itsync/internal/core/errors"
)

// DefaultWindowDays is the reporting window used when none is configured.
const DefaultWindowDays = 7

// Window is a fixed trailing reporting interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// ValidateWindowDays reports whether days can describe a window: finite,
// positive and representable as a time.Duration.
func ValidateWindowDays(days float64) error {
	if math.IsNaN(days) || math.IsInf(days, 0) || days <= 0 {
		return coreerrors.New(coreerrors.KindInvalidInput, "window days must be a positive number").
			WithField("windowDays")
	}

	if days*float64(24*time.Hour) >= float64(math.MaxInt64) {
		return coreerrors.New(coreerrors.KindInvalidInput,
			fmt.Sprintf("window of %g days is too long", days)).
			WithField("windowDays")
	}

	return nil
}

// NewWindow returns the window of the given length in days ending at now.
func NewWindow(now time.Time, days float64) (Window, error) {
	if err := ValidateWindowDays(days); err != nil {
		return Window{}, err
	}

	span := time.Duration(days * float64(24*time.Hour))
	if span <= 0 {
		return Window{}, coreerrors.New(coreerrors.KindInvalidInput, "window is shorter than one nanosecond").
			WithField("windowDays")
	}

	return Window{Start: now.Add(-span), End: now}, nil
}

// Duration is the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t lies inside [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Clip returns the events that fall inside the window, in their original
// order. The input slice is not modified.
func (w Window) Clip(events []StatusChangeEvent) []StatusChangeEvent {
	clipped := make([]StatusChangeEvent, 0, len(events))
	for _, ev := range events {
		if w.Contains(ev.Timestamp) {
			clipped = append(clipped, ev)
		}
	}

	return clipped
}
