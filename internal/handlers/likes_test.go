package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/models"
)

type inMemoryLikeStore struct {
	edges []models.Like
}

func (s *inMemoryLikeStore) Toggle(_ context.Context, userID, targetID, targetType string) (bool, error) {
	for i, edge := range s.edges {
		if edge.UserID == userID && edge.TargetID == targetID && edge.TargetType == targetType {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return false, nil
		}
	}
	s.edges = append(s.edges, models.Like{
		ID:         uuid.NewString(),
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
	})
	return true, nil
}

func toggleTweetLike(t *testing.T, handler LikeHandler, viewer models.User, tweetID string) *httptest.ResponseRecorder {
	t.Helper()

	req := authedRequest(http.MethodPost, "/api/v1/likes/tweet/"+tweetID, nil, viewer)
	req.SetPathValue("tweetId", tweetID)
	rec := httptest.NewRecorder()

	handler.ToggleTweet(rec, req)
	return rec
}

func TestLikeHandlerToggleTweet(t *testing.T) {
	tweets := newInMemoryTweetStore()
	viewer := models.User{ID: uuid.NewString()}
	tweet := models.Tweet{ID: uuid.NewString(), OwnerID: uuid.NewString(), Content: "x"}
	tweets.tweets[tweet.ID] = tweet

	likes := &inMemoryLikeStore{}
	handler := LikeHandler{Likes: likes, Tweets: tweets, Videos: newInMemoryVideoStore()}

	rec := toggleTweetLike(t, handler, viewer, tweet.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data    map[string]bool `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data["liked"] || resp.Message != "liked" {
		t.Fatalf("expected first toggle to like, got %+v", resp)
	}
	if len(likes.edges) != 1 || likes.edges[0].TargetType != models.LikeTargetTweet {
		t.Fatalf("unexpected edges: %+v", likes.edges)
	}

	rec = toggleTweetLike(t, handler, viewer, tweet.ID)
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data["liked"] || resp.Message != "unliked" {
		t.Fatalf("expected second toggle to unlike, got %+v", resp)
	}
	if len(likes.edges) != 0 {
		t.Fatalf("expected no edges, got %d", len(likes.edges))
	}
}

func TestLikeHandlerToggleVideo(t *testing.T) {
	videos := newInMemoryVideoStore()
	viewer := models.User{ID: uuid.NewString()}
	video := models.Video{ID: uuid.NewString(), OwnerID: uuid.NewString(), Title: "x"}
	videos.videos[video.ID] = video

	likes := &inMemoryLikeStore{}
	handler := LikeHandler{Likes: likes, Tweets: newInMemoryTweetStore(), Videos: videos}

	req := authedRequest(http.MethodPost, "/api/v1/likes/video/"+video.ID, nil, viewer)
	req.SetPathValue("videoId", video.ID)
	rec := httptest.NewRecorder()

	handler.ToggleVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(likes.edges) != 1 || likes.edges[0].TargetType != models.LikeTargetVideo {
		t.Fatalf("unexpected edges: %+v", likes.edges)
	}
}

func TestLikeHandlerToggleFailures(t *testing.T) {
	handler := LikeHandler{
		Likes:  &inMemoryLikeStore{},
		Tweets: newInMemoryTweetStore(),
		Videos: newInMemoryVideoStore(),
	}
	viewer := models.User{ID: uuid.NewString()}

	t.Run("malformed target id", func(t *testing.T) {
		rec := toggleTweetLike(t, handler, viewer, "not-a-uuid")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		rec := toggleTweetLike(t, handler, viewer, uuid.NewString())
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
		}
	})
}
