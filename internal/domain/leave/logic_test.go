package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		// 2025-03-10 is a Monday.
		{"single weekday", date(2025, 3, 10), date(2025, 3, 10), 1},
		{"monday to friday", date(2025, 3, 10), date(2025, 3, 14), 5},
		{"full week spans weekend", date(2025, 3, 10), date(2025, 3, 16), 5},
		{"two weeks", date(2025, 3, 10), date(2025, 3, 21), 10},
		{"friday to monday", date(2025, 3, 14), date(2025, 3, 17), 2},
		{"weekend only", date(2025, 3, 15), date(2025, 3, 16), 0},
		{"saturday", date(2025, 3, 15), date(2025, 3, 15), 0},
		{"reversed", date(2025, 3, 14), date(2025, 3, 10), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BusinessDays(tc.start, tc.end); got != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, got)
			}
		})
	}
}

func TestBusinessDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	if got := BusinessDays(start, end); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusPending, StatusApproved) {
		t.Fatal("pending -> approved must be allowed")
	}
	if !CanTransition(StatusPending, StatusRejected) {
		t.Fatal("pending -> rejected must be allowed")
	}
	blocked := [][2]string{
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusApproved, StatusPending},
		{StatusPending, StatusPending},
		{StatusPending, "cancelled"},
	}
	for _, pair := range blocked {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s must be blocked", pair[0], pair[1])
		}
	}
}
