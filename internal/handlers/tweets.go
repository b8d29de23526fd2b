package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// TweetHandler implements tweet creation, mutation, and feed endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	Views   ViewComposer
	NowFunc func() time.Time
}

// Collection dispatches /api/v1/tweets requests by method.
func (h TweetHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.feed(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Detail dispatches /api/v1/tweets/{tweetId} requests by method.
func (h TweetHandler) Detail(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h TweetHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid tweet payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	content := ""
	if req.Content != nil {
		content = strings.TrimSpace(*req.Content)
	}
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   viewer.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		logger.Error("tweet create failed", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create tweet")
		return
	}

	respondData(ctx, w, http.StatusCreated, tweetPayload(tweet), "tweet created")
}

func (h TweetHandler) feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	feed, err := h.Views.TweetFeed(ctx, viewer.ID, viewer.ID)
	if err != nil {
		logging.FromContext(ctx).Error("tweet feed failed", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load tweets")
		return
	}

	respondData(ctx, w, http.StatusOK, feed, "tweets fetched")
}

func (h TweetHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	tweet, ok := h.ownedTweet(w, r, viewer)
	if !ok {
		return
	}

	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid tweet payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == nil {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return
	}

	// A whitespace-only replacement keeps the stored content and is still a
	// successful, idempotent update.
	content := strings.TrimSpace(*req.Content)
	if content == "" {
		respondData(ctx, w, http.StatusOK, tweetPayload(tweet), "tweet unchanged")
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweet.ID, content)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet does not exist")
			return
		}
		logger.Error("tweet update failed", "error", err, "tweetId", tweet.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, tweetPayload(updated), "tweet updated")
}

func (h TweetHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	tweet, ok := h.ownedTweet(w, r, viewer)
	if !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		logging.FromContext(ctx).Error("tweet delete failed", "error", err, "tweetId", tweet.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, tweetPayload(tweet), "tweet deleted")
}

// ownedTweet resolves the {tweetId} path segment and enforces the ownership
// rule shared by update and delete.
func (h TweetHandler) ownedTweet(w http.ResponseWriter, r *http.Request, viewer models.User) (models.Tweet, bool) {
	ctx := r.Context()

	id := r.PathValue("tweetId")
	if _, err := uuid.Parse(id); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid tweet id")
		return models.Tweet{}, false
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet does not exist")
			return models.Tweet{}, false
		}
		logging.FromContext(ctx).Error("tweet lookup failed", "error", err, "tweetId", id)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load tweet")
		return models.Tweet{}, false
	}

	if tweet.OwnerID != viewer.ID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this tweet")
		return models.Tweet{}, false
	}

	return tweet, true
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type tweetRequest struct {
	Content *string `json:"content"`
}

type tweetResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func tweetPayload(tweet models.Tweet) tweetResponse {
	return tweetResponse{
		ID:        tweet.ID,
		OwnerID:   tweet.OwnerID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		UpdatedAt: tweet.UpdatedAt,
	}
}
