package auth

import "errors"

var (
	// ErrInvalidInput marks validation failures (unknown role name,
	// malformed permission, empty fields). Maps to HTTP 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict marks uniqueness violations: duplicate email, duplicate
	// (role, permission) pair, refresh-token collision. Maps to HTTP 409.
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized covers bad credentials and every refresh-token
	// failure mode. Credential failures are deliberately indistinct so a
	// login attempt cannot probe which emails exist.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks permission-evaluation denials.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks lookups that miss outside the auth-critical paths.
	ErrNotFound = errors.New("not found")
)

var (
	// ErrInvalidToken indicates a token failed signature or claim validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
