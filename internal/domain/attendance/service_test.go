package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu   sync.Mutex
	seq  int
	logs map[string]*TimeLog // keyed by employeeID + day
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: map[string]*TimeLog{}}
}

func key(employeeID string, day time.Time) string {
	return employeeID + "|" + day.Format("2006-01-02")
}

func (f *fakeStore) CreateLog(_ context.Context, log TimeLog) (TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(log.EmployeeID, log.Date)
	if _, exists := f.logs[k]; exists {
		return TimeLog{}, ErrAlreadyClockedIn
	}
	f.seq++
	log.ID = fmt.Sprintf("log-%d", f.seq)
	f.logs[k] = &log
	return log, nil
}

func (f *fakeStore) FindForDay(_ context.Context, employeeID string, day time.Time) (TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if log, ok := f.logs[key(employeeID, day)]; ok {
		return *log, nil
	}
	return TimeLog{}, ErrNoLog
}

func (f *fakeStore) CloseLog(_ context.Context, logID string, clockOut time.Time, totalHours float64, notes string) (TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, log := range f.logs {
		if log.ID != logID {
			continue
		}
		if log.IsLocked {
			return TimeLog{}, ErrAlreadyClockedOut
		}
		log.ClockOut = &clockOut
		log.TotalHours = totalHours
		log.IsLocked = true
		log.LockedAt = &clockOut
		if notes != "" {
			log.Notes = notes
		}
		return *log, nil
	}
	return TimeLog{}, ErrAlreadyClockedOut
}

func (f *fakeStore) List(_ context.Context, employeeID string, day *time.Time, limit, offset int) ([]TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []TimeLog
	for _, log := range f.logs {
		if employeeID != "" && log.EmployeeID != employeeID {
			continue
		}
		out = append(out, *log)
	}
	return out, nil
}

func TestClockInAndOut(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ctx := context.Background()
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	log, err := svc.ClockIn(ctx, "emp-1", in, "on site")
	if err != nil {
		t.Fatalf("clock in failed: %v", err)
	}
	if log.Status != StatusPresent {
		t.Fatalf("expected present, got %s", log.Status)
	}
	if log.IsLocked {
		t.Fatal("fresh log must not be locked")
	}

	out := in.Add(8*time.Hour + 30*time.Minute)
	closed, err := svc.ClockOut(ctx, "emp-1", out, "")
	if err != nil {
		t.Fatalf("clock out failed: %v", err)
	}
	if closed.TotalHours != 8.50 {
		t.Fatalf("expected 8.50 hours, got %v", closed.TotalHours)
	}
	if !closed.IsLocked || closed.LockedAt == nil {
		t.Fatal("expected closed log to be locked")
	}
}

func TestClockInTwiceSameDayFails(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ctx := context.Background()
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := svc.ClockIn(ctx, "emp-1", ts, ""); err != nil {
		t.Fatalf("first clock in failed: %v", err)
	}
	if _, err := svc.ClockIn(ctx, "emp-1", ts.Add(time.Hour), ""); err != ErrAlreadyClockedIn {
		t.Fatalf("expected ErrAlreadyClockedIn, got %v", err)
	}
}

func TestClockInNextDaySucceeds(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ctx := context.Background()
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := svc.ClockIn(ctx, "emp-1", ts, ""); err != nil {
		t.Fatalf("first day failed: %v", err)
	}
	if _, err := svc.ClockIn(ctx, "emp-1", ts.AddDate(0, 0, 1), ""); err != nil {
		t.Fatalf("next day failed: %v", err)
	}
}

func TestClockOutWithoutClockInFails(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ts := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
	if _, err := svc.ClockOut(context.Background(), "emp-1", ts, ""); err != ErrNotClockedIn {
		t.Fatalf("expected ErrNotClockedIn, got %v", err)
	}
}

func TestClockOutTwiceFails(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ctx := context.Background()
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := svc.ClockIn(ctx, "emp-1", in, ""); err != nil {
		t.Fatalf("clock in failed: %v", err)
	}
	if _, err := svc.ClockOut(ctx, "emp-1", in.Add(8*time.Hour), ""); err != nil {
		t.Fatalf("clock out failed: %v", err)
	}
	if _, err := svc.ClockOut(ctx, "emp-1", in.Add(9*time.Hour), ""); err != ErrAlreadyClockedOut {
		t.Fatalf("expected ErrAlreadyClockedOut, got %v", err)
	}
}

func TestLateClockIn(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ts := time.Date(2025, 3, 10, 10, 15, 0, 0, time.UTC)
	log, err := svc.ClockIn(context.Background(), "emp-1", ts, "")
	if err != nil {
		t.Fatalf("clock in failed: %v", err)
	}
	if log.Status != StatusLate {
		t.Fatalf("expected late, got %s", log.Status)
	}
}

func TestConcurrentClockInOneWinner(t *testing.T) {
	svc := NewService(newFakeStore(), 10)
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ClockIn(context.Background(), "emp-1", ts, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if err != ErrAlreadyClockedIn {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful clock in, got %d", succeeded)
	}
}
