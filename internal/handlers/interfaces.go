package handlers

import (
	"context"
	"io"

	"github.com/clipstream/backend/internal/models"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByIdentifier(ctx context.Context, usernameOrEmail string) (models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, email string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverURL string) (models.User, error)
}

// TokenService issues, rotates, and revokes authentication token pairs.
type TokenService interface {
	IssuePair(ctx context.Context, userID string) (models.TokenPair, error)
	Rotate(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Revoke(ctx context.Context, userID string) error
}

// TweetStore captures persistence for tweet mutations.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionStore captures persistence for subscription edges.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListByChannel(ctx context.Context, channelID string) ([]models.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error)
}

// LikeStore captures persistence for like edges.
type LikeStore interface {
	Toggle(ctx context.Context, userID, targetID, targetType string) (bool, error)
}

// VideoStore captures persistence for videos.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	IncrementViews(ctx context.Context, id string) error
}

// WatchHistoryStore records watched videos.
type WatchHistoryStore interface {
	Record(ctx context.Context, userID, videoID string) error
}

// MediaStore uploads a file to the media host and returns its public URL.
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// ViewComposer assembles the denormalized read models served by the query
// endpoints.
type ViewComposer interface {
	TweetFeed(ctx context.Context, ownerID, viewerID string) ([]models.TweetView, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, viewerID string) ([]models.VideoView, error)
	VideoByID(ctx context.Context, video models.Video) (models.VideoView, error)
}
