package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/ids"
)

type roleStore struct{ db *sql.DB }

// Create inserts the role and its initial permissions in one transaction so
// two concurrent creations of the same name cannot interleave.
func (s *roleStore) Create(ctx context.Context, role *auth.Role) error {
	if role.ID == "" {
		role.ID = ids.NewPrefixed("rol")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		insert into roles (id, name)
		values ($1, $2)
		returning created_at, updated_at
	`, role.ID, role.Name)
	if err := row.Scan(&role.CreatedAt, &role.UpdatedAt); err != nil {
		return mapConstraintError(err)
	}
	for i := range role.Permissions {
		p := &role.Permissions[i]
		if p.ID == "" {
			p.ID = ids.NewPrefixed("prm")
		}
		p.RoleID = role.ID
		if err := tx.QueryRowContext(ctx, `
			insert into permissions (id, name, role_id)
			values ($1, $2, $3)
			returning created_at
		`, p.ID, p.Name, p.RoleID).Scan(&p.CreatedAt); err != nil {
			return mapConstraintError(err)
		}
	}
	return tx.Commit()
}

func (s *roleStore) Find(ctx context.Context, id string) (*auth.Role, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at
		from roles
		where id = $1
	`, id))
}

func (s *roleStore) FindByName(ctx context.Context, name string) (*auth.Role, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at
		from roles
		where name = $1
	`, name))
}

// AddPermission relies on the unique (role_id, name) index rather than a
// lookup, so concurrent duplicate assignments resolve to exactly one row.
func (s *roleStore) AddPermission(ctx context.Context, perm *auth.Permission) error {
	if perm.ID == "" {
		perm.ID = ids.NewPrefixed("prm")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into permissions (id, name, role_id)
		values ($1, $2, $3)
		returning created_at
	`, perm.ID, perm.Name, perm.RoleID)
	if err := row.Scan(&perm.CreatedAt); err != nil {
		return mapConstraintError(err)
	}
	return nil
}

func (s *roleStore) PermissionsForRole(ctx context.Context, roleID string) ([]auth.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, role_id, created_at
		from permissions
		where role_id = $1
		order by name
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []auth.Permission
	for rows.Next() {
		var p auth.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.RoleID, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (s *roleStore) scanOne(row *sql.Row) (*auth.Role, error) {
	var r auth.Role
	err := row.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
