package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu       sync.Mutex
	seq      int
	leaves   map[string]*Leave
	balances map[string]map[string]float64 // employeeID -> type -> balance
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leaves:   map[string]*Leave{},
		balances: map[string]map[string]float64{},
	}
}

func (f *fakeStore) setBalance(employeeID, leaveType string, balance float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[employeeID] == nil {
		f.balances[employeeID] = map[string]float64{}
	}
	f.balances[employeeID][leaveType] = balance
}

func (f *fakeStore) CreateLeave(_ context.Context, leave Leave) (Leave, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	leave.ID = fmt.Sprintf("leave-%d", f.seq)
	leave.Status = StatusPending
	f.leaves[leave.ID] = &leave
	return leave, nil
}

func (f *fakeStore) GetLeave(_ context.Context, id string) (Leave, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if leave, ok := f.leaves[id]; ok {
		return *leave, nil
	}
	return Leave{}, ErrNotFound
}

func (f *fakeStore) List(_ context.Context, employeeID, status string, limit, offset int) ([]Leave, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Leave
	for _, leave := range f.leaves {
		if employeeID != "" && leave.EmployeeID != employeeID {
			continue
		}
		if status != "" && leave.Status != status {
			continue
		}
		out = append(out, *leave)
	}
	return out, nil
}

func (f *fakeStore) BalanceForType(_ context.Context, employeeID, leaveType string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[employeeID][leaveType], nil
}

// review mirrors the transactional store: check-and-deduct happens under one
// lock, and nothing is mutated on failure.
func (f *fakeStore) review(leaveID, reviewerID, comments, decision string) (Leave, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	leave, ok := f.leaves[leaveID]
	if !ok {
		return Leave{}, ErrNotFound
	}
	if !CanTransition(leave.Status, decision) {
		return Leave{}, ErrNotPending
	}

	if decision == StatusApproved && Paid(leave.LeaveType) {
		balance := f.balances[leave.EmployeeID][leave.LeaveType]
		if balance < float64(leave.NumberOfDays) {
			return Leave{}, ErrInsufficientBalance
		}
		f.balances[leave.EmployeeID][leave.LeaveType] = balance - float64(leave.NumberOfDays)
	}

	now := time.Now()
	leave.Status = decision
	leave.ReviewedBy = reviewerID
	leave.ReviewedAt = &now
	leave.ReviewComments = comments
	return *leave, nil
}

func (f *fakeStore) Approve(_ context.Context, leaveID, reviewerID, comments string) (Leave, error) {
	return f.review(leaveID, reviewerID, comments, StatusApproved)
}

func (f *fakeStore) Reject(_ context.Context, leaveID, reviewerID, comments string) (Leave, error) {
	return f.review(leaveID, reviewerID, comments, StatusRejected)
}

// 2025-03-10 is a Monday; 10th-12th spans three business days.
var (
	monday    = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
)

func TestApplyCreatesPendingWithoutDeduction(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 5)
	svc := NewService(store)

	leave, err := svc.Apply(context.Background(), "emp-1", TypeCasual, monday, wednesday, "family visit")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if leave.Status != StatusPending {
		t.Fatalf("expected pending, got %s", leave.Status)
	}
	if leave.NumberOfDays != 3 {
		t.Fatalf("expected 3 days, got %d", leave.NumberOfDays)
	}
	if got, _ := store.BalanceForType(context.Background(), "emp-1", TypeCasual); got != 5 {
		t.Fatalf("apply must not deduct balance, got %v", got)
	}
}

func TestApplyReversedRangeFails(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 10)
	svc := NewService(store)

	if _, err := svc.Apply(context.Background(), "emp-1", TypeCasual, wednesday, monday, "oops"); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestApplyUnknownTypeFails(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Apply(context.Background(), "emp-1", "sabbatical", monday, wednesday, ""); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestApplyInsufficientBalanceFails(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 2)
	svc := NewService(store)

	if _, err := svc.Apply(context.Background(), "emp-1", TypeCasual, monday, wednesday, ""); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestApplyUnpaidSkipsBalanceCheck(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	leave, err := svc.Apply(context.Background(), "emp-1", TypeUnpaid, monday, wednesday, "travel")
	if err != nil {
		t.Fatalf("unpaid apply failed: %v", err)
	}
	if leave.NumberOfDays != 3 {
		t.Fatalf("expected 3 days, got %d", leave.NumberOfDays)
	}
}

func TestApproveDeductsBalance(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 5)
	svc := NewService(store)
	ctx := context.Background()

	leave, err := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	approved, err := svc.Review(ctx, leave.ID, "mgr-1", DecisionApprove, "enjoy")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ReviewedBy != "mgr-1" || approved.ReviewedAt == nil {
		t.Fatal("expected reviewer fields to be set")
	}
	if got, _ := store.BalanceForType(ctx, "emp-1", TypeCasual); got != 2 {
		t.Fatalf("expected balance 2 after approval, got %v", got)
	}
}

func TestApproveInsufficientLiveBalanceLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 5)
	svc := NewService(store)
	ctx := context.Background()

	leave, err := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// The balance shrank between application and review.
	store.setBalance("emp-1", TypeCasual, 2)

	if _, err := svc.Review(ctx, leave.ID, "mgr-1", DecisionApprove, ""); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	current, _ := svc.Get(ctx, leave.ID)
	if current.Status != StatusPending {
		t.Fatalf("failed approval must leave status pending, got %s", current.Status)
	}
	if got, _ := store.BalanceForType(ctx, "emp-1", TypeCasual); got != 2 {
		t.Fatalf("failed approval must not touch balance, got %v", got)
	}
}

func TestRejectNeverMutatesBalance(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 5)
	svc := NewService(store)
	ctx := context.Background()

	leave, err := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	rejected, err := svc.Review(ctx, leave.ID, "mgr-1", DecisionReject, "short staffed")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if got, _ := store.BalanceForType(ctx, "emp-1", TypeCasual); got != 5 {
		t.Fatalf("reject must not touch balance, got %v", got)
	}
}

func TestReviewNonPendingFails(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 10)
	svc := NewService(store)
	ctx := context.Background()

	leave, _ := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "")
	if _, err := svc.Review(ctx, leave.ID, "mgr-1", DecisionApprove, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.Review(ctx, leave.ID, "mgr-2", DecisionReject, ""); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestReviewUnknownDecisionFails(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 10)
	svc := NewService(store)
	ctx := context.Background()

	leave, _ := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "")
	if _, err := svc.Review(ctx, leave.ID, "mgr-1", "maybe", ""); err != ErrInvalidDecision {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestReviewMissingLeaveFails(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Review(context.Background(), "nope", "mgr-1", DecisionApprove, ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Two pending requests, balance covers only one. Exactly one approval must
// win regardless of interleaving.
func TestConcurrentApprovalsRespectBalance(t *testing.T) {
	store := newFakeStore()
	store.setBalance("emp-1", TypeCasual, 4)
	svc := NewService(store)
	ctx := context.Background()

	first, err := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "trip one")
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	second, err := svc.Apply(ctx, "emp-1", TypeCasual, monday, wednesday, "trip two")
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, results[i] = svc.Review(ctx, id, "mgr-1", DecisionApprove, "")
		}(i, id)
	}
	wg.Wait()

	approvals, shortfalls := 0, 0
	for _, err := range results {
		switch err {
		case nil:
			approvals++
		case ErrInsufficientBalance:
			shortfalls++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if approvals != 1 || shortfalls != 1 {
		t.Fatalf("expected exactly one approval and one shortfall, got %d/%d", approvals, shortfalls)
	}
	if got, _ := store.BalanceForType(ctx, "emp-1", TypeCasual); got != 1 {
		t.Fatalf("expected balance 1, got %v", got)
	}
}
