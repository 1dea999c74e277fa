package todo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/store/memory"
	"taskhive.org/internal/todo"
)

type world struct {
	store *memory.Store
	svc   *todo.Service
	alice auth.Actor
	bob   auth.Actor
	boss  auth.Actor
	root  auth.Actor
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	roles := map[string][]string{
		"user":    {auth.PermTodoRead, auth.PermTodoWrite, auth.PermTodoDelete},
		"manager": {auth.PermTodoRead, auth.PermTodoWrite, auth.PermTodoDelete, auth.PermTodoReadAll},
		"admin":   {auth.PermTodoReadAll, auth.PermTodoWriteAll, auth.PermTodoDeleteAll},
	}
	roleIDs := make(map[string]string, len(roles))
	for name, permNames := range roles {
		perms := make([]auth.Permission, 0, len(permNames))
		for _, p := range permNames {
			perms = append(perms, auth.Permission{Name: p})
		}
		role := &auth.Role{Name: name, Permissions: perms}
		require.NoError(t, store.Roles().Create(ctx, role))
		roleIDs[name] = role.ID
	}

	eval, err := auth.NewEvaluator(store.Roles(), store.Todos())
	require.NoError(t, err)
	svc, err := todo.NewService(store.Todos(), eval)
	require.NoError(t, err)

	return &world{
		store: store,
		svc:   svc,
		alice: auth.Actor{ID: "usr_alice", RoleID: roleIDs["user"]},
		bob:   auth.Actor{ID: "usr_bob", RoleID: roleIDs["user"]},
		boss:  auth.Actor{ID: "usr_boss", RoleID: roleIDs["manager"]},
		root:  auth.Actor{ID: "usr_root", RoleID: roleIDs["admin"]},
	}
}

func TestCreateFixesOwnership(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	item, err := w.svc.Create(ctx, w.alice, "  write report  ")
	require.NoError(t, err)
	require.Equal(t, "write report", item.Title)
	require.Equal(t, w.alice.ID, item.OwnerID)
	require.False(t, item.Completed)

	_, err = w.svc.Create(ctx, w.alice, "   ")
	require.ErrorIs(t, err, auth.ErrInvalidInput)
}

func TestListScopedVersusGlobal(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	_, err := w.svc.Create(ctx, w.alice, "alice 1")
	require.NoError(t, err)
	_, err = w.svc.Create(ctx, w.alice, "alice 2")
	require.NoError(t, err)
	_, err = w.svc.Create(ctx, w.bob, "bob 1")
	require.NoError(t, err)

	own, err := w.svc.List(ctx, w.alice)
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, item := range own {
		require.Equal(t, w.alice.ID, item.OwnerID)
	}

	all, err := w.svc.List(ctx, w.boss)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestGetHonorsOwnership(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	item, err := w.svc.Create(ctx, w.alice, "private note")
	require.NoError(t, err)

	got, err := w.svc.Get(ctx, w.alice, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID)

	_, err = w.svc.Get(ctx, w.bob, item.ID)
	require.ErrorIs(t, err, auth.ErrForbidden)

	got, err = w.svc.Get(ctx, w.boss, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID)

	_, err = w.svc.Get(ctx, w.alice, "tdo_missing")
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestEditPartialUpdate(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	item, err := w.svc.Create(ctx, w.alice, "draft")
	require.NoError(t, err)

	done := true
	updated, err := w.svc.Edit(ctx, w.alice, item.ID, todo.Update{Completed: &done})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, "draft", updated.Title)

	title := "final"
	updated, err = w.svc.Edit(ctx, w.alice, item.ID, todo.Update{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "final", updated.Title)
	require.True(t, updated.Completed)

	empty := "   "
	_, err = w.svc.Edit(ctx, w.alice, item.ID, todo.Update{Title: &empty})
	require.ErrorIs(t, err, auth.ErrInvalidInput)

	_, err = w.svc.Edit(ctx, w.bob, item.ID, todo.Update{Completed: &done})
	require.ErrorIs(t, err, auth.ErrForbidden)

	// Manager holds read-all but only scoped write: no cross-owner edits.
	_, err = w.svc.Edit(ctx, w.boss, item.ID, todo.Update{Completed: &done})
	require.ErrorIs(t, err, auth.ErrForbidden)

	updated, err = w.svc.Edit(ctx, w.root, item.ID, todo.Update{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "final", updated.Title)
}

func TestDelete(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	item, err := w.svc.Create(ctx, w.alice, "to be removed")
	require.NoError(t, err)

	require.ErrorIs(t, w.svc.Delete(ctx, w.bob, item.ID), auth.ErrForbidden)
	require.NoError(t, w.svc.Delete(ctx, w.alice, item.ID))
	require.ErrorIs(t, w.svc.Delete(ctx, w.alice, item.ID), auth.ErrNotFound)

	other, err := w.svc.Create(ctx, w.bob, "bob's")
	require.NoError(t, err)
	require.NoError(t, w.svc.Delete(ctx, w.root, other.ID))
}
