// Package session carries the current user through a context.Context.
package session

import (
	"context"

	"quote-templater/internal/model"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying u as the current user.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the current user stored by WithUser.
func UserFrom(ctx context.Context) (model.User, bool) {
	if ctx == nil {
		return model.User{}, false
	}
	u, ok := ctx.Value(userKey{}).(model.User)
	return u, ok
}
