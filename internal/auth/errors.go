package auth

import "errors"

var (
	// ErrInvalidCredentials is the expected failure for a bad
	// email/password pair; callers surface its message inline and must
	// not treat it as a fault.
	ErrInvalidCredentials = errors.New("invalid email or password. Try demo@company.com / demo123 for demo mode")

	// ErrProviderUnavailable wraps transport-level provider failures.
	ErrProviderUnavailable = errors.New("auth: provider unavailable")

	// ErrNotAuthenticated signals an operation that needs a session
	// when none is established.
	ErrNotAuthenticated = errors.New("auth: not authenticated")

	// ErrInvalidToken indicates a session token failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")
)
