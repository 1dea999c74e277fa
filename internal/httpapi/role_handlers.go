package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"taskhive.org/internal/audit"
	"taskhive.org/internal/auth"
)

type createRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type roleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type assignPermissionRequest struct {
	Role       string `json:"role"`
	Permission string `json:"permission"`
}

type assignUserRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (a *API) handleRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	if !a.authorize(w, r, actor, auth.OpCreateRole, "") {
		return
	}
	var req createRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := a.catalog.CreateRole(r.Context(), req.Name, req.Permissions)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "rbac.role.created", map[string]any{
		"role_id": role.ID,
		"name":    role.Name,
	})
	names := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		names = append(names, p.Name)
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/roles/%s/permissions", role.Name))
	writeJSON(w, http.StatusCreated, roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: names,
	})
}

func (a *API) handleAssignPermission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	if !a.authorize(w, r, actor, auth.OpCreateRole, "") {
		return
	}
	var req assignPermissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.catalog.AssignPermission(r.Context(), req.Role, req.Permission); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "rbac.permission.assigned", map[string]any{
		"role":       req.Role,
		"permission": req.Permission,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAssignUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	if !a.authorize(w, r, actor, auth.OpCreateRole, "") {
		return
	}
	var req assignUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := a.catalog.AssignRoleToUser(r.Context(), req.UserID, req.Role); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "rbac.user.role_assigned", map[string]any{
		"user_id": req.UserID,
		"role":    req.Role,
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleRoleResource serves GET /v1/roles/{name}/permissions.
func (a *API) handleRoleResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/roles/")
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "permissions" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	perms, err := a.catalog.RolePermissions(r.Context(), parts[0])
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":        parts[0],
		"permissions": perms,
	})
}
