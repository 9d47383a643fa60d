package repositories

import (
	"context"

	"github.com/vladisc/financial-server/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// SaveUser inserts a new user; apperrors.ErrDuplicate when the username
	// is already taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID returns the user or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername returns the user or apperrors.ErrNotFound.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateUser applies profile field changes.
	UpdateUser(ctx context.Context, user domain.User) error

	// DeleteUser removes the user; notifications and transactions cascade.
	DeleteUser(ctx context.Context, userID string) error
}
