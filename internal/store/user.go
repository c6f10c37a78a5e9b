package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/visiondb/internal/domain"
)

// UserStore defines the interface for user account persistence.
type UserStore interface {
	// Create inserts a new user and sets user.ID to the generated key.
	// Returns ErrEmailExists if the database rejects the email as a duplicate.
	// Callers are expected to check EmailExists first; the constraint only
	// catches the loser of a concurrent registration.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// EmailExists reports whether any user other than excludeID owns email.
	// Pass 0 as excludeID to consider every user.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)

	// UpdateProfile overwrites the name and email of a user.
	// Updating a missing user is not an error.
	UpdateProfile(ctx context.Context, id int64, name, email string) error

	// UpdatePassword overwrites the stored password of a user.
	UpdatePassword(ctx context.Context, id int64, password string) error

	// Delete removes the user row. Result rows are not touched; see
	// ResultStore.DeleteByUser.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
