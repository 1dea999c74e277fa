package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhive.org/internal/auth"
)

func TestUserCreateNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "hash", "rol_1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	users := NewStore(db).Users()
	u := &auth.User{Email: "  Alice@Example.COM ", PasswordHash: "hash", RoleID: "rol_1"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected a generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "hash", "rol_1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	users := NewStore(db).Users()
	u := &auth.User{Email: "alice@example.com", PasswordHash: "hash", RoleID: "rol_1"}
	if err := users.Create(context.Background(), u); !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserSetRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update users set role_id").
		WithArgs("usr_1", "rol_2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("update users set role_id").
		WithArgs("usr_ghost", "rol_2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("update users set role_id").
		WithArgs("usr_1", "rol_ghost").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	users := NewStore(db).Users()
	if err := users.SetRole(context.Background(), "usr_1", "rol_2"); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if err := users.SetRole(context.Background(), "usr_ghost", "rol_2"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if err := users.SetRole(context.Background(), "usr_1", "rol_ghost"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown role, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleCreateTransactional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("insert into roles").
		WithArgs(sqlmock.AnyArg(), "support").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("insert into permissions").
		WithArgs(sqlmock.AnyArg(), "todo:read", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	roles := NewStore(db).Roles()
	role := &auth.Role{Name: "support", Permissions: []auth.Permission{{Name: "todo:read"}}}
	if err := roles.Create(context.Background(), role); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if role.Permissions[0].RoleID != role.ID {
		t.Fatalf("permission not bound to role: %q", role.Permissions[0].RoleID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleCreateDuplicateRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("insert into roles").
		WithArgs(sqlmock.AnyArg(), "support").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	roles := NewStore(db).Roles()
	role := &auth.Role{Name: "support"}
	if err := roles.Create(context.Background(), role); !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPermissionDuplicatePair(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("insert into permissions").
		WithArgs(sqlmock.AnyArg(), "todo:read", "rol_1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	roles := NewStore(db).Roles()
	err = roles.AddPermission(context.Background(), &auth.Permission{Name: "todo:read", RoleID: "rol_1"})
	if !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
