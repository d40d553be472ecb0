package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	coreerrors "itsync/internal/core/errors"
)

var testNow = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func testWindow(t *testing.T) Window {
	t.Helper()

	w, err := NewWindow(testNow, DefaultWindowDays)
	if err != nil {
		t.Fatalf("NewWindow returned error: %v", err)
	}
	return w
}

// at returns the instant d days after the start of the 7-day test window.
func at(days float64) time.Time {
	return testNow.Add(-7 * day).Add(time.Duration(days * float64(day)))
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestNewWindow_SevenDays(t *testing.T) {
	w := testWindow(t)

	if w.Duration() != 7*day {
		t.Fatalf("expected 7 day window, got %v", w.Duration())
	}
	if !w.End.Equal(testNow) {
		t.Fatalf("expected window to end at now, got %v", w.End)
	}
}

func TestNewWindow_RejectsNonPositive(t *testing.T) {
	for _, days := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewWindow(testNow, days); !errors.Is(err, coreerrors.ErrInvalidInput) {
			t.Errorf("days=%v: expected ErrInvalidInput, got %v", days, err)
		}
	}
}

func TestNewWindow_RejectsOverflowingLength(t *testing.T) {
	for _, days := range []float64{1e9, 106752, math.MaxFloat64} {
		_, err := NewWindow(testNow, days)
		if !errors.Is(err, coreerrors.ErrInvalidInput) {
			t.Fatalf("days=%v: expected ErrInvalidInput, got %v", days, err)
		}
		if !strings.Contains(err.Error(), "too long") {
			t.Errorf("days=%v: expected a too long message, got %q", days, err.Error())
		}
	}
}

func TestNewWindow_AcceptsLongestRepresentable(t *testing.T) {
	w, err := NewWindow(testNow, 106751)
	if err != nil {
		t.Fatalf("NewWindow returned error: %v", err)
	}
	if w.Duration() <= 0 {
		t.Fatalf("expected positive duration, got %v", w.Duration())
	}
}

func TestReconstructUptime_EmptyHistoryOnline(t *testing.T) {
	d := &Device{Serial: "Q2AA-0000-0001", Status: StatusOnline}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if report.Percentage != 100 {
		t.Fatalf("expected 100, got %f", report.Percentage)
	}
}

func TestReconstructUptime_EmptyHistoryNotOnline(t *testing.T) {
	for _, status := range []string{StatusOffline, StatusAlerting, StatusDormant, "rebooting", "Online"} {
		d := &Device{Serial: "Q2AA-0000-0001", Status: status}

		report, err := ReconstructUptime(d, testWindow(t))
		if err != nil {
			t.Fatalf("status %q: ReconstructUptime returned error: %v", status, err)
		}
		if report.Percentage != 0 {
			t.Errorf("status %q: expected 0, got %f", status, report.Percentage)
		}
	}
}

func TestReconstructUptime_TransitionAtWindowStart(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOnline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(0), PreviousState: StatusOffline, NewState: StatusOnline},
		},
	}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if !approx(report.Percentage, 100) {
		t.Fatalf("expected 100, got %f", report.Percentage)
	}
}

func TestReconstructUptime_InferredStartingStatus(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOffline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(3.5), PreviousState: StatusOnline, NewState: StatusOffline},
		},
	}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if !approx(report.Percentage, 50) {
		t.Fatalf("expected 50, got %f", report.Percentage)
	}
	if report.OnlineDuration != time.Duration(3.5*float64(day)) {
		t.Fatalf("expected 3.5 days online, got %v", report.OnlineDuration)
	}
}

func TestReconstructUptime_OnlineInTheMiddle(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOffline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(1), PreviousState: StatusOffline, NewState: StatusOnline},
			{Timestamp: at(6), PreviousState: StatusOnline, NewState: StatusOffline},
		},
	}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if !approx(report.Percentage, 71.43) {
		t.Fatalf("expected ~71.43, got %f", report.Percentage)
	}
}

func TestReconstructUptime_TiesKeepInputOrder(t *testing.T) {
	// Both events share a timestamp; the later one in the slice wins.
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOnline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(2), PreviousState: StatusOnline, NewState: StatusOffline},
			{Timestamp: at(2), PreviousState: StatusOffline, NewState: StatusOnline},
		},
	}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if !approx(report.Percentage, 100) {
		t.Fatalf("expected 100, got %f", report.Percentage)
	}
}

func TestReconstructUptime_AlertingIsNotOnline(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOnline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(3.5), PreviousState: StatusAlerting, NewState: StatusOnline},
		},
	}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if !approx(report.Percentage, 50) {
		t.Fatalf("expected 50, got %f", report.Percentage)
	}
}

func TestReconstructUptime_ChainGapTrustsNewState(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOnline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(1), PreviousState: StatusOnline, NewState: StatusOffline},
			// claims it was dormant, but the chain says offline
			{Timestamp: at(4), PreviousState: StatusDormant, NewState: StatusOnline},
		},
	}

	report, err := ReconstructUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if report.ChainGaps != 1 {
		t.Fatalf("expected 1 chain gap, got %d", report.ChainGaps)
	}
	// online [0,1) and [4,7] => 4 of 7 days
	if !approx(report.Percentage, 4.0/7.0*100) {
		t.Fatalf("expected ~57.14, got %f", report.Percentage)
	}
}

func TestReconstructUptime_NilDevice(t *testing.T) {
	_, err := ReconstructUptime(nil, testWindow(t))
	if !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReconstructUptime_OutOfOrderRejected(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOffline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(6), PreviousState: StatusOnline, NewState: StatusOffline},
			{Timestamp: at(1), PreviousState: StatusOffline, NewState: StatusOnline},
		},
	}

	_, err := ReconstructUptime(d, testWindow(t))
	if !errors.Is(err, coreerrors.ErrMalformedHistory) {
		t.Fatalf("expected ErrMalformedHistory, got %v", err)
	}

	var tagged *coreerrors.Error
	if !errors.As(err, &tagged) || tagged.Serial != "Q2AA-0000-0001" || tagged.Field != "statusHistory[1]" {
		t.Fatalf("expected serial and field context, got %+v", tagged)
	}
}

func TestReconstructUptime_EventBeforeWindowRejected(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOnline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(-1), PreviousState: StatusOffline, NewState: StatusOnline},
		},
	}

	_, err := ReconstructUptime(d, testWindow(t))
	if !errors.Is(err, coreerrors.ErrMalformedHistory) {
		t.Fatalf("expected ErrMalformedHistory, got %v", err)
	}
}

func TestReconstructUptime_ClippedHistoryInRange(t *testing.T) {
	w := testWindow(t)
	raw := []StatusChangeEvent{
		{Timestamp: at(-2), PreviousState: StatusOnline, NewState: StatusOffline},
		{Timestamp: at(2), PreviousState: StatusOffline, NewState: StatusOnline},
		{Timestamp: at(5), PreviousState: StatusOnline, NewState: StatusOffline},
	}
	d := &Device{Serial: "Q2AA-0000-0001", Status: StatusOffline, StatusHistory: w.Clip(raw)}

	if len(d.StatusHistory) != 2 {
		t.Fatalf("expected 2 events after clipping, got %d", len(d.StatusHistory))
	}

	report, err := ReconstructUptime(d, w)
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if report.Percentage < 0 || report.Percentage > 100 || report.Clamped {
		t.Fatalf("expected in-range unclamped result, got %f (clamped=%v)", report.Percentage, report.Clamped)
	}
	if !approx(report.Percentage, 3.0/7.0*100) {
		t.Fatalf("expected ~42.86, got %f", report.Percentage)
	}
}

func TestReconstructUptime_Idempotent(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOffline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(1), PreviousState: StatusOffline, NewState: StatusOnline},
			{Timestamp: at(6), PreviousState: StatusOnline, NewState: StatusOffline},
		},
	}
	w := testWindow(t)

	first, err := ReconstructUptime(d, w)
	if err != nil {
		t.Fatalf("first call returned error: %v", err)
	}
	second, err := ReconstructUptime(d, w)
	if err != nil {
		t.Fatalf("second call returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical reports, got %+v and %+v", first, second)
	}
}

func TestReconstructUptime_TrailingOnlineNeverDecreases(t *testing.T) {
	w := testWindow(t)
	base := []StatusChangeEvent{
		{Timestamp: at(1), PreviousState: StatusOnline, NewState: StatusOffline},
	}

	before, err := ReconstructUptime(&Device{Serial: "s", Status: StatusOffline, StatusHistory: base}, w)
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}

	for _, offset := range []float64{1, 2.5, 6.99, 7} {
		history := append(append([]StatusChangeEvent(nil), base...),
			StatusChangeEvent{Timestamp: at(offset), PreviousState: StatusOffline, NewState: StatusOnline})

		after, err := ReconstructUptime(&Device{Serial: "s", Status: StatusOnline, StatusHistory: history}, w)
		if err != nil {
			t.Fatalf("offset %v: ReconstructUptime returned error: %v", offset, err)
		}
		if after.Percentage < before.Percentage {
			t.Errorf("offset %v: uptime decreased from %f to %f", offset, before.Percentage, after.Percentage)
		}
	}
}

func TestWithUptime_DoesNotMutateInput(t *testing.T) {
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOffline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: at(3.5), PreviousState: StatusOnline, NewState: StatusOffline},
		},
	}

	out, _, err := WithUptime(d, testWindow(t))
	if err != nil {
		t.Fatalf("WithUptime returned error: %v", err)
	}
	if d.UptimePercentage != nil {
		t.Fatalf("expected input to stay untouched, got %v", *d.UptimePercentage)
	}
	if out.UptimePercentage == nil || !approx(*out.UptimePercentage, 50) {
		t.Fatalf("expected 50 on the copy, got %v", out.UptimePercentage)
	}

	out.StatusHistory[0].NewState = StatusOnline
	if d.StatusHistory[0].NewState != StatusOffline {
		t.Fatalf("expected copy to own its history")
	}
}

func TestComputeUptime_ZeroWindow(t *testing.T) {
	_, err := ComputeUptime(&Device{Serial: "s", Status: StatusOnline}, 0, testNow)
	if !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeUptime_NilDevice(t *testing.T) {
	_, err := ComputeUptime(nil, 7, testNow)
	if !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeUptime_EmptyHistory(t *testing.T) {
	got, err := ComputeUptime(&Device{Serial: "s", Status: StatusOnline}, 7, testNow)
	if err != nil {
		t.Fatalf("ComputeUptime returned error: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100, got %f", got)
	}
}

func TestReconstructUptime_BoundaryEventsStayUnclamped(t *testing.T) {
	w := testWindow(t)
	d := &Device{
		Serial: "Q2AA-0000-0001",
		Status: StatusOffline,
		StatusHistory: []StatusChangeEvent{
			{Timestamp: w.Start, PreviousState: StatusOnline, NewState: StatusOnline},
			{Timestamp: w.End, PreviousState: StatusOnline, NewState: StatusOffline},
		},
	}

	report, err := ReconstructUptime(d, w)
	if err != nil {
		t.Fatalf("ReconstructUptime returned error: %v", err)
	}
	if report.Percentage != 100 || report.Clamped {
		t.Fatalf("expected exactly 100 without clamping, got %f (clamped=%v)", report.Percentage, report.Clamped)
	}
	if report.OnlineDuration != w.Duration() {
		t.Fatalf("expected online for the whole window, got %v", report.OnlineDuration)
	}
}
