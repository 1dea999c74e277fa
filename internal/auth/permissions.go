package auth

// Permission names are "resource:action" tags; the "-all" suffix denotes a
// global capability that overrides per-owner restriction.
const (
	PermTodoRead      = "todo:read"
	PermTodoWrite     = "todo:write"
	PermTodoDelete    = "todo:delete"
	PermTodoReadAll   = "todo:read-all"
	PermTodoWriteAll  = "todo:write-all"
	PermTodoDeleteAll = "todo:delete-all"
)

// AdminRole is the only role allowed to create new roles.
const AdminRole = "admin"

var validPermissions = map[string]struct{}{
	PermTodoRead:      {},
	PermTodoWrite:     {},
	PermTodoDelete:    {},
	PermTodoReadAll:   {},
	PermTodoWriteAll:  {},
	PermTodoDeleteAll: {},
}

// ValidPermission reports whether name belongs to the fixed catalog.
func ValidPermission(name string) bool {
	_, ok := validPermissions[name]
	return ok
}
