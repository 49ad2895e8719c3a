package expense

import (
	"context"
	"time"

	"ems/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type SubmitInput struct {
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	ReceiptURL  string
}

func (s *Service) Submit(ctx context.Context, employeeID string, in SubmitInput) (Expense, error) {
	if in.Amount <= 0 {
		return Expense{}, ErrInvalidAmount
	}
	if !ValidCategory(in.Category) {
		return Expense{}, ErrInvalidCategory
	}
	return s.store.Create(ctx, Expense{
		EmployeeID:  employeeID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		ReceiptURL:  in.ReceiptURL,
	})
}

func (s *Service) Get(ctx context.Context, id string) (Expense, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Expense, error) {
	return s.store.List(ctx, f)
}

// Edit applies owner changes to a pending expense. Admins may edit any
// expense regardless of status.
func (s *Service) Edit(ctx context.Context, id string, p auth.Principal, in UpdateInput) (Expense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if !CanModify(e, p) {
		return Expense{}, ErrForbidden
	}
	if in.Amount != nil && *in.Amount <= 0 {
		return Expense{}, ErrInvalidAmount
	}
	if in.Category != nil && !ValidCategory(*in.Category) {
		return Expense{}, ErrInvalidCategory
	}
	return s.store.Update(ctx, id, in)
}

func (s *Service) Review(ctx context.Context, id string, reviewer auth.Principal, status, reason string) (Expense, error) {
	if !auth.CanReview(reviewer.Role) {
		return Expense{}, ErrForbidden
	}
	if status != StatusApproved && status != StatusRejected {
		return Expense{}, ErrInvalidStatus
	}
	return s.store.SetStatus(ctx, id, status, reviewer.UserID, reason)
}

func (s *Service) Delete(ctx context.Context, id string, p auth.Principal) error {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanModify(e, p) {
		return ErrForbidden
	}
	return s.store.Delete(ctx, id)
}
