package auth

import "context"

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

// ContextWithUserID attaches the authenticated user id to the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserIDFromContext extracts the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userKey).(string)
	return v, ok && v != ""
}

// ContextWithClaims attaches the verified token claims, and the user id
// alongside them.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = ContextWithUserID(ctx, claims.Subject)
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext extracts the verified token claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}
