package auth

import (
	"context"
	"time"
)

// Store describes the persistence operations the auth subsystem requires.
// All consistency is delegated to the backing store; implementations must
// enforce the uniqueness constraints with transactions or DB constraints,
// not check-then-act reads.
type Store interface {
	Users() UserStore
	Roles() RoleStore
	Sessions() SessionStore
}

// UserStore manages user accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	SetRole(ctx context.Context, userID, roleID string) error
}

// RoleStore manages the role/permission catalog.
type RoleStore interface {
	// Create inserts the role and its initial permission set atomically.
	Create(ctx context.Context, role *Role) error
	Find(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	// AddPermission fails with ErrConflict when the (role, name) pair
	// already exists.
	AddPermission(ctx context.Context, perm *Permission) error
	PermissionsForRole(ctx context.Context, roleID string) ([]Permission, error)
}

// SessionStore is the ledger of outstanding refresh tokens.
type SessionStore interface {
	// Create fails with ErrConflict if the token string already exists;
	// tokens must be globally unique.
	Create(ctx context.Context, token, userID string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*Session, error)
	// Revoke deletes exactly one row, ErrNotFound when absent.
	Revoke(ctx context.Context, token string) error
	// RevokeAllForUser deletes every session for the user. Deleting zero
	// rows is not an error.
	RevokeAllForUser(ctx context.Context, userID string) error
}
