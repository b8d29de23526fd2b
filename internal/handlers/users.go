package handlers

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// UserHandler implements profile and channel query endpoints.
type UserHandler struct {
	Users UserStore
	Media MediaStore
	Views ViewComposer
}

// UpdateProfile handles PATCH /api/v1/users/profile requests.
func (h UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid profile payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if fullName == "" || email == "" {
		respondError(ctx, w, http.StatusBadRequest, "fullName and email are required")
		return
	}

	user, err := h.Users.UpdateProfile(ctx, viewer.ID, fullName, email)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "email already taken")
			return
		}
		logger.Error("profile update failed", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondData(ctx, w, http.StatusOK, models.NewPublicUser(user), "profile updated")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar requests.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "avatars", h.Users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image requests.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "covers", h.Users.UpdateCoverImage)
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, prefix string, update func(ctx context.Context, id, url string) (models.User, error)) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid image payload", "field", field, "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, field+" file is required")
		return
	}
	defer file.Close()

	key := prefix + "/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	url, err := h.Media.Save(ctx, key, file)
	if err != nil {
		logger.Warn("image upload failed", "field", field, "error", err)
		respondError(ctx, w, http.StatusBadRequest, field+" upload failed")
		return
	}

	user, err := update(ctx, viewer.ID, url)
	if err != nil {
		logger.Error("image update failed", "field", field, "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update "+field)
		return
	}

	respondData(ctx, w, http.StatusOK, models.NewPublicUser(user), field+" updated")
}

// Channel handles GET /api/v1/users/channel/{username} requests.
func (h UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	profile, err := h.Views.ChannelProfile(ctx, username, viewer.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel does not exist")
			return
		}
		logging.FromContext(ctx).Error("channel profile failed", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load channel")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "channel fetched")
}

// WatchHistory handles GET /api/v1/users/history requests.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	history, err := h.Views.WatchHistory(ctx, viewer.ID)
	if err != nil {
		logging.FromContext(ctx).Error("watch history failed", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load watch history")
		return
	}

	respondData(ctx, w, http.StatusOK, history, "watch history fetched")
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
