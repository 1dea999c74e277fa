package httpapi

import (
	"net/http"
	"strings"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/todo"
)

type createTodoRequest struct {
	Title string `json:"title"`
}

type updateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (a *API) handleTodos(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req createTodoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		t, err := a.todos.Create(r.Context(), actor, req.Title)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		w.Header().Set("Location", "/v1/todos/"+t.ID)
		writeJSON(w, http.StatusCreated, t)
	case http.MethodGet:
		list, err := a.todos.List(r.Context(), actor)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		if list == nil {
			list = []todo.Todo{}
		}
		writeJSON(w, http.StatusOK, list)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTodoResource(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/todos/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		t, err := a.todos.Get(r.Context(), actor, id)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	case http.MethodPatch:
		var req updateTodoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		t, err := a.todos.Edit(r.Context(), actor, id, todo.Update{
			Title:     req.Title,
			Completed: req.Completed,
		})
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	case http.MethodDelete:
		if err := a.todos.Delete(r.Context(), actor, id); err != nil {
			handleAuthError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
