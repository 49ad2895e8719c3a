package leave

import "context"

type StoreAPI interface {
	CreateLeave(ctx context.Context, leave Leave) (Leave, error)
	GetLeave(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, employeeID, status string, limit, offset int) ([]Leave, error)
	// BalanceForType returns the employee's current counter for a paid leave
	// type. Used only for the advisory check at application time.
	BalanceForType(ctx context.Context, employeeID, leaveType string) (float64, error)
	// Approve flips a pending request to approved and, for paid types, deducts
	// the balance in the same transaction using a conditional update. Fails
	// with ErrNotFound, ErrNotPending or ErrInsufficientBalance; on failure
	// neither the request nor any balance is modified.
	Approve(ctx context.Context, leaveID, reviewerID, comments string) (Leave, error)
	// Reject flips a pending request to rejected. Never touches balances.
	Reject(ctx context.Context, leaveID, reviewerID, comments string) (Leave, error)
}
