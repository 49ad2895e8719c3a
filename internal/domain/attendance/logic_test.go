package attendance

import (
	"testing"
	"time"
)

func TestTotalHours(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"ninety minutes", 90 * time.Minute, 1.50},
		{"eighty minutes", 80 * time.Minute, 1.33},
		{"one hour forty five", 105 * time.Minute, 1.75},
		{"exact hours", 8 * time.Hour, 8.00},
		{"under an hour", 45 * time.Minute, 0.75},
		{"one minute", time.Minute, 0.01},
		{"zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TotalHours(base, base.Add(tc.elapsed))
			if got != tc.want {
				t.Fatalf("expected %.2f, got %.2f", tc.want, got)
			}
		})
	}
}

func TestTotalHoursNegativeElapsed(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := TotalHours(base, base.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected 0 for negative elapsed, got %v", got)
	}
}

func TestStatusForClockIn(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := StatusForClockIn(day.Add(9*time.Hour+59*time.Minute), 10); got != StatusPresent {
		t.Fatalf("expected present before 10, got %s", got)
	}
	if got := StatusForClockIn(day.Add(10*time.Hour), 10); got != StatusLate {
		t.Fatalf("expected late at 10, got %s", got)
	}
	if got := StatusForClockIn(day.Add(15*time.Hour), 10); got != StatusLate {
		t.Fatalf("expected late after 10, got %s", got)
	}
}

func TestDayOf(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	ts := time.Date(2025, 3, 10, 23, 45, 0, 0, loc)
	day := DayOf(ts)
	if day.Hour() != 0 || day.Day() != 10 || day.Location() != loc {
		t.Fatalf("unexpected day: %v", day)
	}
}
