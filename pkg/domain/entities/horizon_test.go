package entities

import (
	"testing"
	"time"
)

func TestMidnightNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	noisy := time.Date(2026, 9, 1, 17, 42, 3, 99, loc)
	got := Midnight(noisy)

	want := Day(2026, time.September, 1)
	if !got.Equal(want) {
		t.Errorf("Midnight = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("Midnight location = %v, want UTC", got.Location())
	}
}

func TestDaysBetween(t *testing.T) {
	a := Day(2026, time.September, 1)
	b := Day(2026, time.September, 8)
	if got := DaysBetween(a, b); got != 7 {
		t.Errorf("DaysBetween = %d, want 7", got)
	}
	if got := DaysBetween(b, a); got != -7 {
		t.Errorf("reversed DaysBetween = %d, want -7", got)
	}
}

func TestHorizonDays(t *testing.T) {
	h, err := NewHorizon(Day(2026, time.September, 1), Day(2026, time.September, 3))
	if err != nil {
		t.Fatalf("NewHorizon failed: %v", err)
	}
	if got := h.NumDays(); got != 3 {
		t.Errorf("NumDays = %d, want 3", got)
	}
	days := h.Days()
	if len(days) != 3 {
		t.Fatalf("Days returned %d entries, want 3", len(days))
	}
	if !days[0].Equal(h.Start) || !days[2].Equal(h.End) {
		t.Errorf("Days endpoints wrong: %v .. %v", days[0], days[2])
	}
}

func TestHorizonRejectsInvertedRange(t *testing.T) {
	if _, err := NewHorizon(Day(2026, time.September, 3), Day(2026, time.September, 1)); err == nil {
		t.Fatal("expected inverted horizon to be rejected")
	}
}

func TestHorizonShiftPreservesLength(t *testing.T) {
	h, err := NewHorizon(Day(2026, time.September, 1), Day(2026, time.September, 28))
	if err != nil {
		t.Fatalf("NewHorizon failed: %v", err)
	}
	shifted := h.Shift(1)
	if shifted.NumDays() != h.NumDays() {
		t.Errorf("shifted horizon has %d days, want %d", shifted.NumDays(), h.NumDays())
	}
	if !shifted.Start.Equal(Day(2026, time.September, 2)) {
		t.Errorf("shifted start = %v", shifted.Start)
	}
	if !h.Contains(shifted.Start) {
		t.Error("overlap day missing from original horizon")
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got := FormatDate(d); got != "2026-09-01" {
		t.Errorf("round trip = %q", got)
	}
	if _, err := ParseDate("01/09/2026"); err == nil {
		t.Error("expected non-ISO date to be rejected")
	}
}
