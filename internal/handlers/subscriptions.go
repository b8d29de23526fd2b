package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/repositories"
)

// SubscriptionHandler implements the subscription toggle and listing
// endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
}

// Toggle handles POST /api/v1/subscriptions/{channelId} requests. The edge
// for (viewer, channel) is flipped: absent becomes present, present becomes
// absent.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
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

	channelID := r.PathValue("channelId")
	if _, err := uuid.Parse(channelID); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	if channelID == viewer.ID {
		respondError(ctx, w, http.StatusBadRequest, "cannot subscribe to yourself")
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel does not exist")
			return
		}
		logger.Error("channel lookup failed", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load channel")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, viewer.ID, channelID)
	if err != nil {
		logger.Error("subscription toggle failed", "error", err, "channelId", channelID, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to toggle subscription")
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
}

// Subscribers handles GET /api/v1/subscriptions/{channelId}/subscribers
// requests.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if _, ok := viewerOrAbort(ctx, w); !ok {
		return
	}

	channelID := r.PathValue("channelId")
	if _, err := uuid.Parse(channelID); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	edges, err := h.Subscriptions.ListByChannel(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("subscriber listing failed", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list subscribers")
		return
	}

	ids := make([]string, len(edges))
	for i, edge := range edges {
		ids[i] = edge.SubscriberID
	}

	h.respondProfiles(ctx, w, ids, "subscribers fetched")
}

// Channels handles GET /api/v1/subscriptions/channels requests, listing the
// channels the viewer subscribes to.
func (h SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	edges, err := h.Subscriptions.ListBySubscriber(ctx, viewer.ID)
	if err != nil {
		logging.FromContext(ctx).Error("channel listing failed", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list channels")
		return
	}

	ids := make([]string, len(edges))
	for i, edge := range edges {
		ids[i] = edge.ChannelID
	}

	h.respondProfiles(ctx, w, ids, "channels fetched")
}

func (h SubscriptionHandler) respondProfiles(ctx context.Context, w http.ResponseWriter, ids []string, message string) {
	users, err := h.Users.FindByIDs(ctx, ids)
	if err != nil {
		logging.FromContext(ctx).Error("profile lookup failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load profiles")
		return
	}

	respondData(ctx, w, http.StatusOK, ownerProfiles(users), message)
}
