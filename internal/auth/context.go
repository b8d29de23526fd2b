package auth

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

type ctxKey string

const viewerKey ctxKey = "viewer"

// WithViewer stores the authenticated user on the context.
func WithViewer(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, viewerKey, user)
}

// ViewerFromContext returns the authenticated user attached by the auth
// middleware, if any.
func ViewerFromContext(ctx context.Context) (models.User, bool) {
	if ctx == nil {
		return models.User{}, false
	}
	user, ok := ctx.Value(viewerKey).(models.User)
	return user, ok
}
