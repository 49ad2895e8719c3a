package expense

import "context"

type StoreAPI interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	Get(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, f Filter) ([]Expense, error)
	Update(ctx context.Context, id string, in UpdateInput) (Expense, error)
	SetStatus(ctx context.Context, id, status, reviewerID, reason string) (Expense, error)
	Delete(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)
