package ports

import (
	"time"

	"github.com/tableup/restaurant-auth/internal/core/domain"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenClaims is the decoded payload of a verified token.
// Role and IsGuest are only meaningful for access tokens; refresh tokens
// carry identity alone.
type TokenClaims struct {
	UserID   int64
	Role     domain.Role
	IsGuest  bool
	Type     TokenType
	IssuedAt time.Time
	Expiry   time.Time
}

// TokenService issues and verifies signed, self-contained bearer tokens.
// The signing key and algorithm are process-wide configuration fixed at
// startup; rotating the key invalidates every previously issued token.
type TokenService interface {
	IssueAccessToken(userID int64, role domain.Role, ttl time.Duration, isGuest bool) (string, error)
	IssueRefreshToken(userID int64) (string, error)
	// Verify returns the decoded claims, or domain.ErrTokenInvalid when the
	// signature, algorithm, or expiry check fails.
	Verify(token string) (*TokenClaims, error)
}
