package user

import "context"

type contextKey string

const contextUserKey contextKey = "authenticated_user"

// ContextWith stores the authenticated user on the context. The auth
// middleware is the only writer.
func ContextWith(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextUserKey, u)
}

// FromContext returns the authenticated user, if the request passed the auth
// middleware.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextUserKey).(*User)
	return u, ok
}
