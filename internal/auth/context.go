package auth

import (
	"context"

	"github.com/frahmantamala/access-management/internal/user"
)

// ContextWithUser and UserFromContext delegate to the user package, which
// owns the context key alongside the stored type.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return user.ContextWith(ctx, u)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	return user.FromContext(ctx)
}
