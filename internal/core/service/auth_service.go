package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
	"github.com/tableup/restaurant-auth/internal/pkg/hash"
)

const (
	defaultAccessTTL = 24 * time.Hour
	rememberMeTTL    = 7 * 24 * time.Hour
	guestAccessTTL   = 2 * time.Hour
)

// AuthService implements registration, role-scoped login, guest login, and
// refresh-token redemption.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	guests ports.GuestRegistry
	logger zerolog.Logger
	now    func() time.Time

	accessTTL   time.Duration
	rememberTTL time.Duration
	guestTTL    time.Duration
}

// AuthOptions overrides the default token lifetimes. Zero values keep the
// defaults (24h access, 7d remember-me, 2h guest).
type AuthOptions struct {
	AccessTTL   time.Duration
	RememberTTL time.Duration
	GuestTTL    time.Duration
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, guests ports.GuestRegistry, logger zerolog.Logger, opts AuthOptions) *AuthService {
	s := &AuthService{
		repo:        repo,
		tokens:      tokens,
		guests:      guests,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		accessTTL:   opts.AccessTTL,
		rememberTTL: opts.RememberTTL,
		guestTTL:    opts.GuestTTL,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = defaultAccessTTL
	}
	if s.rememberTTL <= 0 {
		s.rememberTTL = rememberMeTTL
	}
	if s.guestTTL <= 0 {
		s.guestTTL = guestAccessTTL
	}
	return s
}

// Register creates a new local account. When input.RegisterAsCustomer is set,
// the effective role is forced to RoleUser no matter what was requested: the
// public registration endpoint must not be able to mint admin or staff
// accounts.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	password, err := domain.NewPassword(input.Password)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, email.String())
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	role := input.Role
	if input.RegisterAsCustomer {
		role = domain.RoleUser
	}

	passwordHash, err := hash.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Email:        email.String(),
		Username:     input.Username,
		PasswordHash: passwordHash,
		Role:         role,
		Provider:     domain.ProviderLocal,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: save user: %w", err)
	}

	accessToken, err := s.tokens.IssueAccessToken(saved.ID, saved.Role, s.accessTTL, false)
	if err != nil {
		return nil, fmt.Errorf("register: issue token: %w", err)
	}

	s.logger.Info().Int64("user_id", saved.ID).Str("role", string(saved.Role)).Msg("user registered")

	return &ports.AuthResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.accessTTL.Minutes()),
		User:        saved,
	}, nil
}

// LoginWithRole authenticates a user against the role they declared. An
// account whose stored role differs is rejected even with valid credentials;
// this is a role confirmation, not an authorization decision.
func (s *AuthService) LoginWithRole(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if user.Role != input.Role {
		return nil, &domain.RoleMismatchError{Declared: input.Role}
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	if !hash.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal: the login itself succeeded.
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to update last login")
	}

	ttl := s.accessTTL
	if input.RememberMe {
		ttl = s.rememberTTL
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role, ttl, false)
	if err != nil {
		return nil, fmt.Errorf("login: issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: issue refresh token: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Bool("remember_me", input.RememberMe).Msg("user logged in")

	return &ports.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(ttl.Minutes()),
		User:         user,
	}, nil
}

// LoginGuest provisions a fresh passwordless guest account and issues a
// short-lived guest token. Every call creates a new account; nothing is
// reused. The new id is handed to the guest registry so the reaper can delete
// the row once the token has expired.
func (s *AuthService) LoginGuest(ctx context.Context) (*ports.AuthResult, error) {
	now := s.now()
	ts := now.Unix()

	user := &domain.User{
		Email:     fmt.Sprintf("guest_%d@example.com", ts),
		Username:  fmt.Sprintf("Guest_%d", ts%1_000_000),
		Role:      domain.RoleGuest,
		Provider:  domain.ProviderLocal,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("guest login: save user: %w", err)
	}

	accessToken, err := s.tokens.IssueAccessToken(saved.ID, domain.RoleGuest, s.guestTTL, true)
	if err != nil {
		return nil, fmt.Errorf("guest login: issue token: %w", err)
	}

	if s.guests != nil {
		if err := s.guests.Track(ctx, saved.ID, now.Add(s.guestTTL)); err != nil {
			// Non-fatal: an untracked guest row just lives until a manual sweep.
			s.logger.Warn().Err(err).Int64("user_id", saved.ID).Msg("failed to track guest for retention")
		}
	}

	s.logger.Info().Int64("user_id", saved.ID).Msg("guest account provisioned")

	return &ports.AuthResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.guestTTL.Minutes()),
		User:        saved,
	}, nil
}

// RefreshAccessToken redeems a refresh token for a new one-day access token.
// The account is re-read so deactivated or deleted users cannot refresh.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Type != ports.TokenRefresh {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("refresh: lookup user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role, defaultAccessTTL, user.IsGuest())
	if err != nil {
		return nil, fmt.Errorf("refresh: issue token: %w", err)
	}

	return &ports.AuthResult{
		AccessToken: accessToken,
		ExpiresIn:   int(defaultAccessTTL.Minutes()),
		User:        user,
	}, nil
}

// CurrentUser loads the account behind an authenticated subject id.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
