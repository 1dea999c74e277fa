package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskhive.org/internal/auth"
)

// Service routes every todo operation through the permission evaluator
// before the store is consulted.
type Service struct {
	store     Store
	evaluator *auth.Evaluator
}

// NewService constructs the todo service.
func NewService(store Store, evaluator *auth.Evaluator) (*Service, error) {
	if store == nil {
		return nil, errors.New("todo: store is required")
	}
	if evaluator == nil {
		return nil, errors.New("todo: evaluator is required")
	}
	return &Service{store: store, evaluator: evaluator}, nil
}

// Create adds a todo owned by the actor. Ownership is fixed to the actor's
// id unconditionally; there is no way to create a todo for someone else.
func (s *Service) Create(ctx context.Context, actor auth.Actor, title string) (*Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", auth.ErrInvalidInput)
	}
	if _, err := s.evaluator.Authorize(ctx, actor, auth.OpCreate, ""); err != nil {
		return nil, err
	}
	t := &Todo{Title: title, OwnerID: actor.ID}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all todos for a global grant, otherwise only the actor's own.
// The filtering happens in the store query, not the evaluator.
func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Todo, error) {
	grant, err := s.evaluator.Authorize(ctx, actor, auth.OpFindAll, "")
	if err != nil {
		return nil, err
	}
	if grant.Global {
		return s.store.List(ctx)
	}
	return s.store.ListByOwner(ctx, actor.ID)
}

// Get returns a single todo, subject to ownership narrowing for scoped
// grants.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (*Todo, error) {
	if _, err := s.evaluator.Authorize(ctx, actor, auth.OpFindOne, id); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, id)
}

// Edit applies a partial update.
func (s *Service) Edit(ctx context.Context, actor auth.Actor, id string, upd Update) (*Todo, error) {
	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title must not be empty", auth.ErrInvalidInput)
		}
		upd.Title = &trimmed
	}
	if _, err := s.evaluator.Authorize(ctx, actor, auth.OpUpdate, id); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, upd)
}

// Delete removes a todo.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if _, err := s.evaluator.Authorize(ctx, actor, auth.OpDelete, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
