package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"taskhive.org/internal/auth"
)

type sessionStore struct{ db *sql.DB }

func (s *sessionStore) Create(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		insert into refresh_tokens (token, user_id, expires_at)
		values ($1, $2, $3)
	`, token, userID, expiresAt.UTC())
	return mapConstraintError(err)
}

func (s *sessionStore) Find(ctx context.Context, token string) (*auth.Session, error) {
	var sess auth.Session
	err := s.db.QueryRowContext(ctx, `
		select token, user_id, expires_at, created_at
		from refresh_tokens
		where token = $1
	`, token).Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *sessionStore) Revoke(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `delete from refresh_tokens where token = $1`, token)
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

func (s *sessionStore) RevokeAllForUser(ctx context.Context, userID string) error {
	// Zero deleted rows is fine; bulk revocation is idempotent.
	_, err := s.db.ExecContext(ctx, `delete from refresh_tokens where user_id = $1`, userID)
	return err
}
