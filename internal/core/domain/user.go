package domain

import "time"

// Role is the closed set of roles a user can hold. It is fixed at creation
// and never changed by any use case.
type Role string

const (
	RoleUser            Role = "user"
	RoleAdmin           Role = "admin"
	RoleRestaurantStaff Role = "restaurant_staff"
	RoleGuest           Role = "guest"
)

// ParseRole maps a wire string to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleRestaurantStaff, RoleGuest:
		return Role(s), true
	}
	return "", false
}

// AuthProvider identifies the identity source of an account.
// Only local accounts are issued today; google/github are reserved for
// federated login.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderGitHub AuthProvider = "github"
)

// User models an authenticated actor in the system.
// PasswordHash is empty for guest accounts.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Username     string       `json:"username,omitempty"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	Provider     AuthProvider `json:"provider"`
	ProviderID   string       `json:"provider_id,omitempty"`
	IsActive     bool         `json:"is_active"`
	IsVerified   bool         `json:"is_verified"`
	LastLogin    *time.Time   `json:"last_login,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (u *User) IsGuest() bool { return u.Role == RoleGuest }
