package audit

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/obs"
)

func TestLogEventCarriesRequestAndActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs.SetLogger(zap.New(core))
	defer obs.SetLogger(zap.NewNop())

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = auth.ContextWithClaims(ctx, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "usr_alice"},
	})

	if err := LogEvent(ctx, "auth.user.login", map[string]any{"email": "alice@example.com"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	entries := logs.FilterMessage("auth.user.login").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["type"] != "audit" {
		t.Fatalf("unexpected type: %v", fields["type"])
	}
	if fields["request_id"] != "req-42" {
		t.Fatalf("unexpected request_id: %v", fields["request_id"])
	}
	if fields["actor_id"] != "usr_alice" {
		t.Fatalf("unexpected actor_id: %v", fields["actor_id"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}
