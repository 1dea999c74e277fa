// Package memory is an in-memory store used by tests and local development.
// It honors the same uniqueness and not-found contracts as the PostgreSQL
// implementation.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/ids"
	"taskhive.org/internal/todo"
)

// Store keeps everything behind one mutex; contention is irrelevant at test
// scale.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*auth.User
	roles    map[string]*auth.Role
	perms    map[string][]auth.Permission // roleID -> permissions
	sessions map[string]*auth.Session
	todos    map[string]*todo.Todo
}

var _ auth.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]*auth.User),
		roles:    make(map[string]*auth.Role),
		perms:    make(map[string][]auth.Permission),
		sessions: make(map[string]*auth.Session),
		todos:    make(map[string]*todo.Todo),
	}
}

func (s *Store) Users() auth.UserStore       { return (*userStore)(s) }
func (s *Store) Roles() auth.RoleStore       { return (*roleStore)(s) }
func (s *Store) Sessions() auth.SessionStore { return (*sessionStore)(s) }

// Todos returns the todo resource store.
func (s *Store) Todos() *TodoStore { return (*TodoStore)(s) }

// --- users ---

type userStore Store

func (s *userStore) Create(ctx context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return auth.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = ids.NewPrefixed("usr")
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *userStore) Find(ctx context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *userStore) SetRole(ctx context.Context, userID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return auth.ErrNotFound
	}
	u.RoleID = roleID
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// --- roles ---

type roleStore Store

func (s *roleStore) Create(ctx context.Context, role *auth.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles {
		if existing.Name == role.Name {
			return auth.ErrConflict
		}
	}
	if role.ID == "" {
		role.ID = ids.NewPrefixed("rol")
	}
	now := time.Now().UTC()
	role.CreatedAt, role.UpdatedAt = now, now
	cp := *role
	cp.Permissions = nil
	s.roles[role.ID] = &cp
	for i := range role.Permissions {
		p := &role.Permissions[i]
		if p.ID == "" {
			p.ID = ids.NewPrefixed("prm")
		}
		p.RoleID = role.ID
		p.CreatedAt = now
		s.perms[role.ID] = append(s.perms[role.ID], *p)
	}
	return nil
}

func (s *roleStore) Find(ctx context.Context, id string) (*auth.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *roleStore) FindByName(ctx context.Context, name string) (*auth.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *roleStore) AddPermission(ctx context.Context, perm *auth.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[perm.RoleID]; !ok {
		return auth.ErrNotFound
	}
	for _, existing := range s.perms[perm.RoleID] {
		if existing.Name == perm.Name {
			return auth.ErrConflict
		}
	}
	if perm.ID == "" {
		perm.ID = ids.NewPrefixed("prm")
	}
	perm.CreatedAt = time.Now().UTC()
	s.perms[perm.RoleID] = append(s.perms[perm.RoleID], *perm)
	return nil
}

func (s *roleStore) PermissionsForRole(ctx context.Context, roleID string) ([]auth.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]auth.Permission, len(s.perms[roleID]))
	copy(out, s.perms[roleID])
	return out, nil
}

// --- sessions ---

type sessionStore Store

func (s *sessionStore) Create(ctx context.Context, token, userID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; ok {
		return fmt.Errorf("%w: refresh token collision", auth.ErrConflict)
	}
	s.sessions[token] = &auth.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *sessionStore) Find(ctx context.Context, token string) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *sessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return auth.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}

func (s *sessionStore) RevokeAllForUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

// SessionCount reports live sessions for a user; test helper.
func (s *Store) SessionCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			n++
		}
	}
	return n
}

// --- todos ---

// TodoStore is the in-memory todo resource store.
type TodoStore Store

var _ todo.Store = (*TodoStore)(nil)
var _ auth.OwnerStore = (*TodoStore)(nil)

func (s *TodoStore) Create(ctx context.Context, t *todo.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = ids.NewPrefixed("tdo")
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	cp := *t
	s.todos[t.ID] = &cp
	return nil
}

func (s *TodoStore) Find(ctx context.Context, id string) (*todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TodoStore) List(ctx context.Context) ([]todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]todo.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, *t)
	}
	return out, nil
}

func (s *TodoStore) ListByOwner(ctx context.Context, ownerID string) ([]todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []todo.Todo
	for _, t := range s.todos {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *TodoStore) Update(ctx context.Context, id string, upd todo.Update) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (s *TodoStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return auth.ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

func (s *TodoStore) Owner(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return "", auth.ErrNotFound
	}
	return t.OwnerID, nil
}
