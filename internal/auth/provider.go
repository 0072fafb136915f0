// Package auth owns the session: it wraps the external identity
// provider, the demo fallback, session tokens and state-change
// notification.
package auth

import (
	"context"
	"time"
)

// Identity is the raw provider identity before transformation into the
// internal user shape.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Provider is the narrow surface consumed from the hosted identity
// service. Implementations: the Firebase provider and test stubs.
type Provider interface {
	// SignIn authenticates an email/password pair.
	SignIn(ctx context.Context, email, password string) (Identity, error)

	// SignUp creates an account with the display name already set.
	SignUp(ctx context.Context, email, password, displayName string) (Identity, error)

	// SignOut invalidates the provider-side session, if any.
	SignOut(ctx context.Context) error

	// CurrentIdentity returns the signed-in identity or nil.
	CurrentIdentity(ctx context.Context) (*Identity, error)
}
