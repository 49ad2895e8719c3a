package auth

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanReview reports whether the role may approve or reject leave and expense
// requests.
func CanReview(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
