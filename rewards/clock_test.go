package rewards

import (
	"testing"
	"time"
)

func TestTodayStringUsesCivilTimezone(t *testing.T) {
	clock, err := NewCivilClock("Europe/Kyiv")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	// 23:30 UTC is already the next civil day in Kyiv (UTC+2 in winter)
	now := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	if got := clock.TodayString(now); got != "2024-01-16" {
		t.Fatalf("expected 2024-01-16, got %s", got)
	}

	// 10:00 UTC is still the same day
	now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if got := clock.TodayString(now); got != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %s", got)
	}
}

func TestNextMidnightPlainDay(t *testing.T) {
	clock, _ := NewCivilClock("Europe/Kyiv")
	loc := clock.Location()

	now := time.Date(2024, 1, 15, 12, 0, 0, 0, loc)
	next := clock.NextMidnight(now)
	if next.Format("2006-01-02 15:04") != "2024-01-16 00:00" {
		t.Fatalf("expected local midnight Jan 16, got %s", next)
	}
	if d := next.Sub(now); d != 12*time.Hour {
		t.Fatalf("expected 12h to midnight, got %s", d)
	}
}

func TestNextMidnightAcrossDSTSpringForward(t *testing.T) {
	clock, _ := NewCivilClock("Europe/Kyiv")
	loc := clock.Location()

	// Kyiv springs forward on 2024-03-31 at 03:00 (+02 -> +03). A day
	// containing the transition is only 23 hours long.
	now := time.Date(2024, 3, 31, 1, 0, 0, 0, loc)
	next := clock.NextMidnight(now)
	if next.Format("2006-01-02 15:04") != "2024-04-01 00:00" {
		t.Fatalf("expected local midnight Apr 1, got %s", next)
	}
	if d := next.Sub(now); d != 22*time.Hour {
		t.Fatalf("expected 22h to midnight across the transition, got %s", d)
	}
}

func TestNextMidnightAcrossDSTFallBack(t *testing.T) {
	clock, _ := NewCivilClock("Europe/Kyiv")
	loc := clock.Location()

	// Kyiv falls back on 2024-10-27 at 04:00 (+03 -> +02): a 25-hour day.
	now := time.Date(2024, 10, 27, 1, 0, 0, 0, loc)
	next := clock.NextMidnight(now)
	if next.Format("2006-01-02 15:04") != "2024-10-28 00:00" {
		t.Fatalf("expected local midnight Oct 28, got %s", next)
	}
	if d := next.Sub(now); d != 24*time.Hour {
		t.Fatalf("expected 24h to midnight across the fall-back, got %s", d)
	}
}

func TestNewCivilClockRejectsUnknownZone(t *testing.T) {
	if _, err := NewCivilClock("Not/AZone"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
