package expense

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ems/internal/domain/auth"
)

type fakeStore struct {
	mu       sync.Mutex
	seq      int
	expenses map[string]Expense
}

func newFakeStore() *fakeStore {
	return &fakeStore{expenses: map[string]Expense{}}
}

func (f *fakeStore) Create(ctx context.Context, e Expense) (Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = fmt.Sprintf("exp-%d", f.seq)
	e.Status = StatusPending
	e.CreatedAt = time.Now()
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) List(ctx context.Context, filter Filter) ([]Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Expense
	for _, e := range f.expenses {
		if filter.EmployeeID != "" && e.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, in UpdateInput) (Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	f.expenses[id] = e
	return e, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, id, status, reviewerID, reason string) (Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	e.Status = status
	e.ApprovedBy = reviewerID
	e.RejectionReason = reason
	f.expenses[id] = e
	return e, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

var (
	owner = auth.Principal{UserID: "u1", Role: auth.RoleEmployee}
	other = auth.Principal{UserID: "u2", Role: auth.RoleEmployee}
	admin = auth.Principal{UserID: "adm", Role: auth.RoleAdmin}
	mgr   = auth.Principal{UserID: "mgr", Role: auth.RoleManager}
)

func submit(t *testing.T, svc *Service) Expense {
	t.Helper()
	e, err := svc.Submit(context.Background(), owner.UserID, SubmitInput{
		Amount:   120.50,
		Category: CategoryTravel,
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return e
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "u1", SubmitInput{Amount: 0, Category: CategoryFood}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", SubmitInput{Amount: 10, Category: "gadgets"}); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("want ErrInvalidCategory, got %v", err)
	}
}

func TestOwnerDeletePendingOnly(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	e := submit(t, svc)
	if err := svc.Delete(ctx, e.ID, other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user delete: want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, e.ID, owner); err != nil {
		t.Fatalf("owner delete pending: %v", err)
	}

	e = submit(t, svc)
	if _, err := svc.Review(ctx, e.ID, mgr, StatusApproved, ""); err != nil {
		t.Fatalf("review: %v", err)
	}
	if err := svc.Delete(ctx, e.ID, owner); !errors.Is(err, ErrForbidden) {
		t.Fatalf("owner delete approved: want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, e.ID, admin); err != nil {
		t.Fatalf("admin delete approved: %v", err)
	}
}

func TestReviewRequiresReviewerRole(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	e := submit(t, svc)
	if _, err := svc.Review(ctx, e.ID, other, StatusApproved, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employee review: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Review(ctx, e.ID, mgr, "maybe", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status: want ErrInvalidStatus, got %v", err)
	}

	got, err := svc.Review(ctx, e.ID, mgr, StatusRejected, "no receipt")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != StatusRejected || got.ApprovedBy != mgr.UserID || got.RejectionReason != "no receipt" {
		t.Fatalf("unexpected expense after review: %+v", got)
	}
}

func TestEditLockedAfterReview(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	e := submit(t, svc)
	amt := 99.0
	if _, err := svc.Edit(ctx, e.ID, owner, UpdateInput{Amount: &amt}); err != nil {
		t.Fatalf("owner edit pending: %v", err)
	}
	if _, err := svc.Review(ctx, e.ID, admin, StatusApproved, ""); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := svc.Edit(ctx, e.ID, owner, UpdateInput{Amount: &amt}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("owner edit approved: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Edit(ctx, e.ID, admin, UpdateInput{Amount: &amt}); err != nil {
		t.Fatalf("admin edit approved: %v", err)
	}
}
