package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Catalog manages roles and the permission sets they grant. Admin gating for
// role creation lives in the Evaluator; Catalog only enforces data validity.
type Catalog struct {
	store Store
}

// NewCatalog constructs the role/permission catalog service.
func NewCatalog(store Store) (*Catalog, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	return &Catalog{store: store}, nil
}

// CreateRole creates a named role together with its initial permission set.
// The names must come from the fixed permission catalog.
func (c *Catalog) CreateRole(ctx context.Context, name string, permissions []string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	var invalid []string
	seen := make(map[string]struct{}, len(permissions))
	perms := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !ValidPermission(p) {
			invalid = append(invalid, p)
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		perms = append(perms, Permission{Name: p})
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: invalid permissions: %s", ErrInvalidInput, strings.Join(invalid, ", "))
	}

	role := &Role{Name: name, Permissions: perms}
	if err := c.store.Roles().Create(ctx, role); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: role %q already exists", ErrConflict, name)
		}
		return nil, err
	}
	return role, nil
}

// AssignPermission grants one more permission to an existing role. The
// (role, permission) pair is unique; a duplicate assignment conflicts.
func (c *Catalog) AssignPermission(ctx context.Context, roleName, permissionName string) error {
	permissionName = strings.TrimSpace(permissionName)
	if !ValidPermission(permissionName) {
		return fmt.Errorf("%w: invalid permission %q", ErrInvalidInput, permissionName)
	}
	role, err := c.store.Roles().FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: role not found", ErrNotFound)
		}
		return err
	}
	err = c.store.Roles().AddPermission(ctx, &Permission{Name: permissionName, RoleID: role.ID})
	if errors.Is(err, ErrConflict) {
		return fmt.Errorf("%w: permission already assigned to this role", ErrConflict)
	}
	return err
}

// AssignRoleToUser moves a user to a different role. Takes effect in issued
// tokens only after the next login or refresh.
func (c *Catalog) AssignRoleToUser(ctx context.Context, userID, roleName string) error {
	role, err := c.store.Roles().FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: role not found", ErrNotFound)
		}
		return err
	}
	if err := c.store.Users().SetRole(ctx, userID, role.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	return nil
}

// RolePermissions returns the permission names granted by a role.
func (c *Catalog) RolePermissions(ctx context.Context, roleName string) ([]string, error) {
	role, err := c.store.Roles().FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: role not found", ErrNotFound)
		}
		return nil, err
	}
	perms, err := c.store.Roles().PermissionsForRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	return names, nil
}
