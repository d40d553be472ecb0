package domain

import (
	"fmt"
	"time"

	coreerrors "itsync/internal/core/errors"
)

// UptimeReport is the outcome of reconstructing one device's uptime.
type UptimeReport struct {
	Percentage     float64
	OnlineDuration time.Duration
	Window         Window

	// ChainGaps counts events whose PreviousState does not match the
	// NewState of the event before them. The NewState is trusted.
	ChainGaps int
	// Clamped is set when the raw percentage fell outside [0, 100]. Checked
	// histories never trigger it.
	Clamped bool
}

// ReconstructUptime computes how much of the window the device spent
// online. The history must be ascending by timestamp and inside the window;
// callers are expected to clip it with Window.Clip first.
func ReconstructUptime(d *Device, w Window) (UptimeReport, error) {
	if d == nil {
		return UptimeReport{}, coreerrors.New(coreerrors.KindInvalidInput, "device is nil")
	}

	total := w.Duration()
	if total <= 0 {
		return UptimeReport{}, coreerrors.New(coreerrors.KindInvalidInput, "window has no length").
			WithSerial(d.Serial).WithField("windowDays")
	}

	if err := checkHistory(d, w); err != nil {
		return UptimeReport{}, err
	}

	report := UptimeReport{Window: w}

	segmentStart := w.Start
	segmentStatus := d.Status
	if len(d.StatusHistory) > 0 {
		segmentStatus = d.StatusHistory[0].PreviousState
	}

	for i, ev := range d.StatusHistory {
		if i > 0 && ev.PreviousState != segmentStatus {
			report.ChainGaps++
		}

		if IsOnline(segmentStatus) {
			report.OnlineDuration += ev.Timestamp.Sub(segmentStart)
		}

		segmentStart = ev.Timestamp
		segmentStatus = ev.NewState
	}

	if IsOnline(segmentStatus) {
		report.OnlineDuration += w.End.Sub(segmentStart)
	}

	pct := float64(report.OnlineDuration) / float64(total) * 100
	// unreachable for histories that pass checkHistory; kept as a guard
	switch {
	case pct < 0:
		pct, report.Clamped = 0, true
	case pct > 100:
		pct, report.Clamped = 100, true
	}
	report.Percentage = pct

	return report, nil
}

// WithUptime returns a copy of d with UptimePercentage set. d is not modified.
func WithUptime(d *Device, w Window) (*Device, UptimeReport, error) {
	report, err := ReconstructUptime(d, w)
	if err != nil {
		return nil, report, err
	}

	out := d.Clone()
	pct := report.Percentage
	out.UptimePercentage = &pct

	return out, report, nil
}

func checkHistory(d *Device, w Window) error {
	for i, ev := range d.StatusHistory {
		field := fmt.Sprintf("statusHistory[%d]", i)

		if !w.Contains(ev.Timestamp) {
			return coreerrors.New(coreerrors.KindMalformedHistory,
				fmt.Sprintf("event at %s is outside the window %s..%s",
					ev.Timestamp.Format(time.RFC3339), w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))).
				WithSerial(d.Serial).WithField(field)
		}

		if i > 0 && ev.Timestamp.Before(d.StatusHistory[i-1].Timestamp) {
			return coreerrors.New(coreerrors.KindMalformedHistory, "events are not in ascending order").
				WithSerial(d.Serial).WithField(field)
		}
	}

	return nil
}

// ComputeUptime is ReconstructUptime over the trailing windowDays ending at now.
func ComputeUptime(d *Device, windowDays float64, now time.Time) (float64, error) {
	if d == nil {
		return 0, coreerrors.New(coreerrors.KindInvalidInput, "device is nil")
	}

	w, err := NewWindow(now, windowDays)
	if err != nil {
		return 0, err
	}

	report, err := ReconstructUptime(d, w)
	if err != nil {
		return 0, err
	}

	return report.Percentage, nil
}
