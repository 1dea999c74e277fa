package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/ids"
	"taskhive.org/internal/todo"
)

// TodoStore persists the todo resource.
type TodoStore struct{ db *sql.DB }

var _ todo.Store = (*TodoStore)(nil)
var _ auth.OwnerStore = (*TodoStore)(nil)

// Todos returns the todo resource store.
func (s *Store) Todos() *TodoStore { return &TodoStore{db: s.db} }

func (s *TodoStore) Create(ctx context.Context, t *todo.Todo) error {
	if t.ID == "" {
		t.ID = ids.NewPrefixed("tdo")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into todos (id, title, completed, user_id)
		values ($1, $2, $3, $4)
		returning created_at, updated_at
	`, t.ID, t.Title, t.Completed, t.OwnerID)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return mapConstraintError(err)
	}
	return nil
}

func (s *TodoStore) Find(ctx context.Context, id string) (*todo.Todo, error) {
	var t todo.Todo
	err := s.db.QueryRowContext(ctx, `
		select id, title, completed, user_id, created_at, updated_at
		from todos
		where id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TodoStore) List(ctx context.Context) ([]todo.Todo, error) {
	return s.list(ctx, `
		select id, title, completed, user_id, created_at, updated_at
		from todos
		order by created_at
	`)
}

func (s *TodoStore) ListByOwner(ctx context.Context, ownerID string) ([]todo.Todo, error) {
	return s.list(ctx, `
		select id, title, completed, user_id, created_at, updated_at
		from todos
		where user_id = $1
		order by created_at
	`, ownerID)
}

func (s *TodoStore) Update(ctx context.Context, id string, upd todo.Update) (*todo.Todo, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", idx))
		args = append(args, *upd.Title)
		idx++
	}
	if upd.Completed != nil {
		sets = append(sets, fmt.Sprintf("completed = $%d", idx))
		args = append(args, *upd.Completed)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update todos set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, auth.ErrNotFound
		}
	}
	return s.Find(ctx, id)
}

func (s *TodoStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from todos where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// Owner resolves a todo to its owning user for the evaluator's ownership
// narrowing.
func (s *TodoStore) Owner(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := s.db.QueryRowContext(ctx, `select user_id from todos where id = $1`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", auth.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return ownerID, nil
}

func (s *TodoStore) list(ctx context.Context, query string, args ...any) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []todo.Todo
	for rows.Next() {
		var t todo.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
