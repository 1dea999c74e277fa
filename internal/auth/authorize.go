package auth

import (
	"context"
	"errors"
	"fmt"
)

// Operation is the enumerated action the evaluator decides on. Handlers pass
// it explicitly; nothing is inferred from routes or handler names.
type Operation string

const (
	OpCreate     Operation = "create"
	OpFindAll    Operation = "findAll"
	OpFindOne    Operation = "findOne"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpCreateRole Operation = "createRole"
)

// requiredPerms maps each resource operation to its scoped and global
// permission. OpCreateRole is absent on purpose: role creation is decided by
// role name alone.
var requiredPerms = map[Operation]struct{ scoped, global string }{
	OpCreate:  {PermTodoWrite, PermTodoWriteAll},
	OpFindAll: {PermTodoRead, PermTodoReadAll},
	OpFindOne: {PermTodoRead, PermTodoReadAll},
	OpUpdate:  {PermTodoWrite, PermTodoWriteAll},
	OpDelete:  {PermTodoDelete, PermTodoDeleteAll},
}

// ownershipChecked holds the operations that narrow a scoped grant to
// resources owned by the actor.
var ownershipChecked = map[Operation]bool{
	OpFindOne: true,
	OpUpdate:  true,
	OpDelete:  true,
}

// OwnerStore resolves a resource to its owning user. Implementations return
// ErrNotFound when the resource does not exist.
type OwnerStore interface {
	Owner(ctx context.Context, resourceID string) (string, error)
}

// Grant is a positive evaluation result. Global reports whether the actor
// held the "-all" capability, which callers use to leave listings unfiltered.
type Grant struct {
	Global bool
}

// Evaluator decides, per request, whether an actor may perform an operation
// on a resource. It consults the role catalog and, for scoped grants,
// resource ownership.
type Evaluator struct {
	roles   RoleStore
	owners  OwnerStore
	observe func(op Operation, outcome string)
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithDecisionObserver registers a callback invoked with "allow" or "deny"
// after every evaluation. Used to feed metrics without coupling the
// evaluator to a metrics backend.
func WithDecisionObserver(fn func(op Operation, outcome string)) EvaluatorOption {
	return func(e *Evaluator) {
		if fn != nil {
			e.observe = fn
		}
	}
}

// NewEvaluator constructs an Evaluator. owners may be nil only when the
// evaluator is never asked about ownership-checked operations.
func NewEvaluator(roles RoleStore, owners OwnerStore, opts ...EvaluatorOption) (*Evaluator, error) {
	if roles == nil {
		return nil, errors.New("auth: role store is required")
	}
	e := &Evaluator{roles: roles, owners: owners}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Evaluator) observeDecision(op Operation, err error) {
	if e.observe == nil {
		return
	}
	if err != nil {
		e.observe(op, "deny")
		return
	}
	e.observe(op, "allow")
}

// Authorize returns a Grant when actor may perform op, or an error wrapping
// ErrForbidden (denial) or ErrNotFound (missing target resource).
//
// resourceID is required for findOne/update/delete and ignored otherwise.
func (e *Evaluator) Authorize(ctx context.Context, actor Actor, op Operation, resourceID string) (Grant, error) {
	grant, err := e.authorize(ctx, actor, op, resourceID)
	e.observeDecision(op, err)
	return grant, err
}

func (e *Evaluator) authorize(ctx context.Context, actor Actor, op Operation, resourceID string) (Grant, error) {
	role, err := e.roles.Find(ctx, actor.RoleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A role deleted out from under an active token denies
			// immediately, forcing re-authentication.
			return Grant{}, fmt.Errorf("%w: role not found", ErrForbidden)
		}
		return Grant{}, err
	}

	// Role creation is gated on the role name alone, no permission table.
	if op == OpCreateRole {
		if role.Name != AdminRole {
			return Grant{}, fmt.Errorf("%w: only admins can create roles", ErrForbidden)
		}
		return Grant{Global: true}, nil
	}

	required, ok := requiredPerms[op]
	if !ok {
		return Grant{}, fmt.Errorf("%w: unknown operation %q", ErrForbidden, op)
	}

	perms, err := e.roles.PermissionsForRole(ctx, actor.RoleID)
	if err != nil {
		return Grant{}, err
	}
	var scoped, global bool
	for _, p := range perms {
		switch p.Name {
		case required.scoped:
			scoped = true
		case required.global:
			global = true
		}
	}
	if !scoped && !global {
		return Grant{}, fmt.Errorf("%w: insufficient permissions", ErrForbidden)
	}

	// Holding both grants is treated as global: ownership is not checked.
	if global {
		return Grant{Global: true}, nil
	}

	if ownershipChecked[op] {
		if e.owners == nil {
			return Grant{}, errors.New("auth: owner store is required for ownership checks")
		}
		ownerID, err := e.owners.Owner(ctx, resourceID)
		if err != nil {
			return Grant{}, err
		}
		if ownerID != actor.ID {
			return Grant{}, fmt.Errorf("%w: not your resource", ErrForbidden)
		}
	}
	return Grant{}, nil
}
