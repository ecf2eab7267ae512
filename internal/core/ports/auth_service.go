package ports

import (
	"context"

	"github.com/tableup/restaurant-auth/internal/core/domain"
)

// RegisterInput carries all data needed to create a local account.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     domain.Role
	// RegisterAsCustomer marks a self-service registration: the effective role
	// is forced to domain.RoleUser regardless of Role, so the public endpoint
	// cannot be used to mint admin or staff accounts. Privileged internal
	// callers set it to false to honour the requested role.
	RegisterAsCustomer bool
}

// LoginInput carries credentials plus the role the caller declares up front.
type LoginInput struct {
	Email      string
	Password   string
	Role       domain.Role
	RememberMe bool
}

// AuthResult is returned by the authentication use cases. RefreshToken is
// empty for flows that do not issue one (registration, guest login).
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in minutes.
	ExpiresIn int
	User      *domain.User
}

// AuthService defines the authentication use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// LoginWithRole authenticates against a declared role, rejecting the
	// attempt when the stored role differs even if the credentials are valid.
	LoginWithRole(ctx context.Context, input LoginInput) (*AuthResult, error)
	// LoginGuest provisions a fresh ephemeral guest account and issues a
	// short-lived guest token. Each call creates a new account.
	LoginGuest(ctx context.Context) (*AuthResult, error)
	// RefreshAccessToken redeems a refresh token for a new one-day access token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)
}
