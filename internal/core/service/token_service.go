package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// tokenClaims is the JWT payload. Role and IsGuest are omitted from refresh
// tokens, which carry identity alone.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role    string `json:"role,omitempty"`
	IsGuest bool   `json:"is_guest,omitempty"`
	Type    string `json:"type"`
}

// TokenService signs and verifies HS256 bearer tokens with a process-wide
// secret loaded once at startup. There is no key versioning: rotating the
// secret invalidates all outstanding tokens.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) IssueAccessToken(userID int64, role domain.Role, ttl time.Duration, isGuest bool) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:    string(role),
		IsGuest: isGuest,
		Type:    string(ports.TokenAccess),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) IssueRefreshToken(userID int64) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL)),
		},
		Type: string(ports.TokenRefresh),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token. Any failure — bad signature, algorithm
// mismatch, elapsed expiry, unparseable subject — collapses into
// domain.ErrTokenInvalid so callers cannot distinguish why a token was bad.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	out := &ports.TokenClaims{
		UserID:  userID,
		Role:    domain.Role(claims.Role),
		IsGuest: claims.IsGuest,
		Type:    ports.TokenType(claims.Type),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.Expiry = claims.ExpiresAt.Time
	}
	return out, nil
}
