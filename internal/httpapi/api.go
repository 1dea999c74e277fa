// Package httpapi is the HTTP boundary: routing, authentication, request
// decoding, and the error envelope. All permission decisions stay in the
// services behind it.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/obs"
	"taskhive.org/internal/todo"
)

// ReadyProbe reports whether downstream dependencies answer.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API wires the auth, catalog, and todo services to routes.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	catalog    *auth.Catalog
	todos      *todo.Service
	issuer     *auth.Issuer
	evaluator  *auth.Evaluator
	readyProbe ReadyProbe
	version    string
}

func New(authSvc *auth.Service, catalog *auth.Catalog, todos *todo.Service, issuer *auth.Issuer, evaluator *auth.Evaluator, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       authSvc,
		catalog:    catalog,
		todos:      todos,
		issuer:     issuer,
		evaluator:  evaluator,
		readyProbe: rp,
		version:    version,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// auth flows
	a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/refresh", a.handleRefresh)
	a.mux.HandleFunc("/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/v1/auth/logout-all", a.handleLogoutAll)

	// role catalog
	a.mux.HandleFunc("/v1/roles", a.handleRoles)
	a.mux.HandleFunc("/v1/roles/assign-permission", a.handleAssignPermission)
	a.mux.HandleFunc("/v1/roles/assign-user", a.handleAssignUser)
	a.mux.HandleFunc("/v1/roles/", a.handleRoleResource)

	// todos
	a.mux.HandleFunc("/v1/todos", a.handleTodos)
	a.mux.HandleFunc("/v1/todos/", a.handleTodoResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "taskhive-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "taskhive-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
