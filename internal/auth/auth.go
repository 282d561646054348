package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when no user identity is available for the
// current operation.
var ErrUnauthenticated = errors.New("user not authenticated")

// Provider supplies the id of the user performing the current operation.
// Implementations must return ErrUnauthenticated rather than an empty id.
type Provider interface {
	UserID(ctx context.Context) (string, error)
}

type ctxKey struct{}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext extracts the user id placed by WithUserID.
func UserIDFromContext(ctx context.Context) (string, error) {
	uid, _ := ctx.Value(ctxKey{}).(string)
	if uid == "" {
		return "", ErrUnauthenticated
	}
	return uid, nil
}

// ContextProvider resolves the user id from the request context. The HTTP
// middleware is responsible for populating it after token verification.
type ContextProvider struct{}

func (ContextProvider) UserID(ctx context.Context) (string, error) {
	return UserIDFromContext(ctx)
}

// Static always reports the same user id. Used by tests; an empty id behaves
// like a signed-out user.
type Static struct {
	ID string
}

func (s Static) UserID(context.Context) (string, error) {
	if s.ID == "" {
		return "", ErrUnauthenticated
	}
	return s.ID, nil
}
