package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service composes the credential store, token issuer, and session ledger
// into the register/login/refresh/logout flows.
type Service struct {
	store  Store
	issuer *Issuer
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the auth orchestrator.
func NewService(store Store, issuer *Issuer, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if issuer == nil {
		return nil, errors.New("auth: issuer is required")
	}
	svc := &Service{store: store, issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TokenPair bundles a short-lived access token and its persisted refresh
// token.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Register creates a user under an existing role. The email must be unused
// and the password is stored only as a one-way hash.
func (s *Service) Register(ctx context.Context, email, password, roleName string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	role, err := s.store.Roles().FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: role %q does not exist", ErrInvalidInput, roleName)
		}
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{Email: email, PasswordHash: hash, RoleID: role.ID}
	if err := s.store.Users().Create(ctx, user); err != nil {
		// The unique index is authoritative; the earlier lookup only
		// shortens the common path.
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and mints a token pair, persisting the refresh
// token in the session ledger. Failures are a uniform "invalid credentials"
// regardless of whether the email exists.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return TokenPair{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	role, err := s.store.Roles().Find(ctx, user.RoleID)
	if err != nil {
		return TokenPair{}, err
	}

	access, accessExp, err := s.issuer.MintAccess(user, role.Name)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.issuer.MintRefresh(user, role.Name)
	if err != nil {
		return TokenPair{}, err
	}
	refreshExp := s.now().UTC().Add(s.issuer.RefreshTTL())
	if err := s.store.Sessions().Create(ctx, refresh, user.ID, refreshExp); err != nil {
		// A token collision means two identical signed strings; treat
		// as fatal rather than retry.
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is not rotated. Claims are reloaded from storage so a role
// change since login takes effect on the next refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	session, err := s.store.Sessions().Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
		}
		return "", time.Time{}, err
	}
	if !session.ExpiresAt.After(s.now()) {
		return "", time.Time{}, fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
	}
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return "", time.Time{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	user, err := s.store.Users().Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return "", time.Time{}, err
	}
	role, err := s.store.Roles().Find(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, fmt.Errorf("%w: role not found", ErrUnauthorized)
		}
		return "", time.Time{}, err
	}
	return s.issuer.MintAccess(user, role.Name)
}

// Logout revokes a single refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.store.Sessions().Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
		}
		return err
	}
	return nil
}

// LogoutAll revokes every outstanding refresh token for the user. Calling it
// with no live sessions is not an error.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	return s.store.Sessions().RevokeAllForUser(ctx, userID)
}
