package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// LikeHandler implements like toggle endpoints.
type LikeHandler struct {
	Likes  LikeStore
	Tweets TweetStore
	Videos VideoStore
}

// ToggleTweet handles POST /api/v1/likes/tweet/{tweetId} requests.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "tweetId", models.LikeTargetTweet, func(ctx context.Context, id string) error {
		_, err := h.Tweets.FindByID(ctx, id)
		return err
	})
}

// ToggleVideo handles POST /api/v1/likes/video/{videoId} requests.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "videoId", models.LikeTargetVideo, func(ctx context.Context, id string) error {
		_, err := h.Videos.FindByID(ctx, id)
		return err
	})
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, param, targetType string, exists func(ctx context.Context, id string) error) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	targetID := r.PathValue(param)
	if _, err := uuid.Parse(targetID); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid "+targetType+" id")
		return
	}

	if err := exists(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, targetType+" does not exist")
			return
		}
		logger.Error("like target lookup failed", "error", err, "targetId", targetID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load "+targetType)
		return
	}

	liked, err := h.Likes.Toggle(ctx, viewer.ID, targetID, targetType)
	if err != nil {
		logger.Error("like toggle failed", "error", err, "targetId", targetID, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	message := "unliked"
	if liked {
		message = "liked"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, message)
}
