// Package todo implements the task resource. The records themselves are
// plain keyed rows; every access decision on them is resource-aware and made
// by the auth evaluator before the store is touched.
package todo

import (
	"context"
	"time"
)

// Todo is a tracked task. OwnerID is fixed at creation and never changes.
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update carries a partial edit; nil fields are left untouched.
type Update struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Store persists todos. Owner also serves the evaluator's ownership check.
type Store interface {
	Create(ctx context.Context, t *Todo) error
	Find(ctx context.Context, id string) (*Todo, error)
	List(ctx context.Context) ([]Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Todo, error)
	Update(ctx context.Context, id string, upd Update) (*Todo, error)
	Delete(ctx context.Context, id string) error
	Owner(ctx context.Context, id string) (string, error)
}
