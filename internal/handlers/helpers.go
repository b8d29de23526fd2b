package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// viewerOrAbort returns the authenticated user attached by the auth
// middleware, or writes a 401 envelope when it is absent.
func viewerOrAbort(ctx context.Context, w http.ResponseWriter) (models.User, bool) {
	viewer, ok := auth.ViewerFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.User{}, false
	}
	return viewer, true
}

func ownerProfiles(users []models.User) []models.OwnerProfile {
	profiles := make([]models.OwnerProfile, len(users))
	for i, user := range users {
		profiles[i] = models.OwnerProfile{
			FullName: user.FullName,
			Username: user.Username,
			Avatar:   user.Avatar,
		}
	}
	return profiles
}
