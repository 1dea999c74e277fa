package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/todos":                     "/v1/todos",
		"/v1/todos/tdo_abc":             "/v1/todos/:id",
		"/v1/todos/tdo_abc/extra":       "/v1/todos/tdo_abc/extra",
		"/v1/todos?limit=10":            "/v1/todos",
		"/v1/roles":                     "/v1/roles",
		"/v1/roles/manager/permissions": "/v1/roles/:name/permissions",
		"/v1/auth/login":                "/v1/auth/login",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
