package store

import (
	"context"
	"errors"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Credentials() Credentials
	Session() Session

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail looks a user up by email, the natural key used by the
	// email and Google providers.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByRole returns the first user holding the role. The admin provider
	// relies on the invariant that at most one admin-role user exists.
	GetByRole(ctx context.Context, role domain.Role) (domain.User, error)

	// Upsert inserts the user or replaces the existing record with the
	// same id.
	Upsert(ctx context.Context, u domain.User) error

	// UpdateLastLogin bumps last_login for the user.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// SetActive flips the administrative deactivation flag.
	SetActive(ctx context.Context, id string, active bool) error

	// Count returns the number of known users.
	Count(ctx context.Context) (int64, error)
}

// Credentials stores password hashes for email sign-in, keyed by email.
type Credentials interface {
	// GetHash returns the argon2 hash for the email, or ErrNotFound.
	GetHash(ctx context.Context, email string) (string, error)

	// SetHash inserts or replaces the hash for the email.
	SetHash(ctx context.Context, email, hash string) error

	// Delete removes the credential, locking the account out of email
	// sign-in.
	Delete(ctx context.Context, email string) error
}

// Session persists the current session as two records, current_user and
// auth_token, so it survives process restarts.
type Session interface {
	// Save writes both records atomically.
	Save(ctx context.Context, u domain.User, t domain.Token) error

	// Load returns the persisted session. ErrNotFound covers both the empty
	// and the corrupt case; callers treat either as "no session".
	Load(ctx context.Context) (domain.User, domain.Token, error)

	// Clear removes both records. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
