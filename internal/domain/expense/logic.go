package expense

import "ems/internal/domain/auth"

// CanModify reports whether the principal may edit or delete the expense.
// Owners may only touch their own pending expenses, admins may act regardless
// of status.
func CanModify(e Expense, p auth.Principal) bool {
	if p.Role == auth.RoleAdmin {
		return true
	}
	return e.EmployeeID == p.UserID && e.Status == StatusPending
}
