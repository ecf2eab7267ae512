package ports

import (
	"context"

	"github.com/tableup/restaurant-auth/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups return domain.ErrUserNotFound when no row matches; mutations surface
// storage errors unchanged. Email uniqueness is enforced by the storage layer
// (unique index), which is the actual guard against duplicate-email races.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error)
	// Save persists a new user and returns it with the assigned id.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}
