package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/ids"
)

type userStore struct{ db *sql.DB }

func (s *userStore) Create(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.NewPrefixed("usr")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into users (id, email, password_hash, role_id)
		values ($1, $2, $3, $4)
		returning created_at, updated_at
	`, u.ID, normalizeEmail(u.Email), u.PasswordHash, u.RoleID)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapConstraintError(err)
	}
	return nil
}

func (s *userStore) Find(ctx context.Context, id string) (*auth.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		select id, email, password_hash, role_id, created_at, updated_at
		from users
		where id = $1
	`, id))
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		select id, email, password_hash, role_id, created_at, updated_at
		from users
		where email = $1
	`, normalizeEmail(email)))
}

func (s *userStore) SetRole(ctx context.Context, userID, roleID string) error {
	res, err := s.db.ExecContext(ctx, `
		update users set role_id = $2, updated_at = now()
		where id = $1
	`, userID, roleID)
	if err != nil {
		return mapConstraintError(err)
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

func (s *userStore) scanOne(row *sql.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
