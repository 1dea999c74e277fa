package auth

import "time"

// User is a registered account. Email is immutable after creation; the role
// reference changes only through AssignRoleToUser.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role groups permissions under a unique name.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission is a capability string of the form "resource:action" or
// "resource:action-all". It belongs to exactly one role; a (role, name)
// pair is unique.
type Permission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a persisted refresh-token row. Its existence is the sole
// revocation mechanism: deleting the row revokes the token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor is the authenticated identity a request acts as, extracted once at
// the boundary from verified token claims.
type Actor struct {
	ID     string
	RoleID string
}
