package auth

import "context"

type claimsContextKey struct{}

// ContextWithClaims attaches verified token claims to the context. The
// boundary does this exactly once per request after verifying the bearer
// token; everything downstream receives the actor explicitly.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the authenticated claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(claimsContextKey{}).(*Claims)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ActorFromContext builds the evaluator input from the stored claims.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return Actor{}, false
	}
	return Actor{ID: claims.Subject, RoleID: claims.RoleID}, true
}
