package domain

// UserRole is the kiosk role of a user.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCashier UserRole = "cashier"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// User represents a back-office user (admin or cashier).
type User struct {
	UserID       string       `json:"userID"` // Primary Key (UUID)
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	Role         UserRole     `json:"role"`
	PasswordHash string       `json:"-"`
	Status       RecordStatus `json:"status"`
	AuditFields
}
