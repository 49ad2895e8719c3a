package leave

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Apply creates a pending request. The balance check here is advisory: the
// binding check happens again at approval, atomically in the store.
func (s *Service) Apply(ctx context.Context, employeeID, leaveType string, startDate, endDate time.Time, reason string) (Leave, error) {
	leaveType = strings.ToLower(strings.TrimSpace(leaveType))
	if !ValidType(leaveType) {
		return Leave{}, ErrInvalidType
	}

	days := BusinessDays(startDate, endDate)
	if days <= 0 {
		return Leave{}, ErrInvalidRange
	}

	if Paid(leaveType) {
		balance, err := s.store.BalanceForType(ctx, employeeID, leaveType)
		if err != nil {
			return Leave{}, err
		}
		if balance < float64(days) {
			return Leave{}, ErrInsufficientBalance
		}
	}

	return s.store.CreateLeave(ctx, Leave{
		EmployeeID:   employeeID,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		NumberOfDays: days,
		Reason:       reason,
		Status:       StatusPending,
	})
}

func (s *Service) Review(ctx context.Context, leaveID, reviewerID, decision, comments string) (Leave, error) {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case DecisionApprove:
		return s.store.Approve(ctx, leaveID, reviewerID, comments)
	case DecisionReject:
		return s.store.Reject(ctx, leaveID, reviewerID, comments)
	}
	return Leave{}, ErrInvalidDecision
}

func (s *Service) Get(ctx context.Context, id string) (Leave, error) {
	return s.store.GetLeave(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Leave, error) {
	return s.store.List(ctx, employeeID, status, limit, offset)
}
