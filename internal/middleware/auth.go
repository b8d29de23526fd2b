package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// AccessVerifier validates an access token and returns the identity it
// names.
type AccessVerifier interface {
	VerifyAccess(token string) (string, error)
}

// ViewerLoader resolves an identity to its user record.
type ViewerLoader interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// RequireAuth wraps a handler with access token verification. The token is
// read from the accessToken cookie or an Authorization bearer header; on
// success the resolved user travels on the request context as the viewer.
func RequireAuth(verifier AccessVerifier, users ViewerLoader) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := accessTokenFromRequest(r)
			if token == "" {
				unauthorized(ctx, w, "authentication required")
				return
			}

			userID, err := verifier.VerifyAccess(token)
			if err != nil {
				unauthorized(ctx, w, "invalid or expired access token")
				return
			}

			viewer, err := users.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					unauthorized(ctx, w, "invalid or expired access token")
					return
				}
				logging.FromContext(ctx).Error("viewer lookup failed", "error", err, "userId", userID)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"statusCode": http.StatusInternalServerError,
					"message":    "unable to verify identity",
					"success":    false,
				})
				return
			}

			next(w, r.WithContext(auth.WithViewer(ctx, viewer)))
		}
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func unauthorized(ctx context.Context, w http.ResponseWriter, message string) {
	logging.FromContext(ctx).Warn("request rejected", "reason", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusUnauthorized,
		"message":    message,
		"success":    false,
	})
}
