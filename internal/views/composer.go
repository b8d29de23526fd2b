// Package views assembles denormalized read models from normalized records.
// Every query follows the same shape: match the base records, join the
// related collections, fold the joined sets into scalar fields, and project
// the output. The folds are pure and order independent; the composer never
// mutates the underlying stores.
package views

import (
	"context"
	"fmt"

	"github.com/clipstream/backend/internal/models"
)

// UserReader is the user lookup surface the composer needs.
type UserReader interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// TweetReader lists tweets for owner enrichment.
type TweetReader interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
}

// LikeReader fetches like edges for a set of targets.
type LikeReader interface {
	ListForTargets(ctx context.Context, ids []string, targetType string) ([]models.Like, error)
}

// SubscriptionReader fetches subscription edges from either end.
type SubscriptionReader interface {
	ListByChannel(ctx context.Context, channelID string) ([]models.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error)
}

// VideoReader fetches videos by id, preserving input order.
type VideoReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Video, error)
}

// HistoryReader returns a user's watched video ids in stored order.
type HistoryReader interface {
	List(ctx context.Context, userID string) ([]string, error)
}

// Composer produces read-only denormalized projections.
type Composer struct {
	Users         UserReader
	Tweets        TweetReader
	Likes         LikeReader
	Subscriptions SubscriptionReader
	Videos        VideoReader
	History       HistoryReader
}

// TweetFeed returns the owner's tweets enriched with the owner's public
// profile, like counts, and the viewer's like flag, in insertion order. An
// empty feed is a success with an empty result.
func (c Composer) TweetFeed(ctx context.Context, ownerID, viewerID string) ([]models.TweetView, error) {
	tweets, err := c.Tweets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	if len(tweets) == 0 {
		return []models.TweetView{}, nil
	}

	owner, err := c.Users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load tweet owner: %w", err)
	}

	ids := make([]string, len(tweets))
	for i, tweet := range tweets {
		ids[i] = tweet.ID
	}

	likes, err := c.Likes.ListForTargets(ctx, ids, models.LikeTargetTweet)
	if err != nil {
		return nil, fmt.Errorf("list tweet likes: %w", err)
	}

	byTarget := groupLikesByTarget(likes)
	card := ownerCard(owner)

	feed := make([]models.TweetView, len(tweets))
	for i, tweet := range tweets {
		count, liked := likeStats(byTarget[tweet.ID], viewerID)
		feed[i] = models.TweetView{
			ID:        tweet.ID,
			FullName:  card.FullName,
			Username:  card.Username,
			Avatar:    card.Avatar,
			Content:   tweet.Content,
			LikeCount: count,
			IsLiked:   liked,
			CreatedAt: tweet.CreatedAt,
		}
	}

	return feed, nil
}

// ChannelProfile returns the user matching username viewed as a channel,
// enriched with subscription counts and the viewer's subscription flag.
// Unlike the list queries, a zero-match here is an error: the underlying
// store's not-found sentinel is passed through.
func (c Composer) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	channel, err := c.Users.FindByUsername(ctx, username)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	subscribers, err := c.Subscriptions.ListByChannel(ctx, channel.ID)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("list subscribers: %w", err)
	}

	subscribedTo, err := c.Subscriptions.ListBySubscriber(ctx, channel.ID)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("list subscribed channels: %w", err)
	}

	return models.ChannelProfile{
		FullName:                  channel.FullName,
		Username:                  channel.Username,
		SubscribersCount:          len(subscribers),
		ChannelsSubscribedToCount: len(subscribedTo),
		IsSubscribed:              viewerSubscribed(subscribers, viewerID),
		Avatar:                    channel.Avatar,
		CoverImage:                channel.CoverImage,
		Email:                     channel.Email,
	}, nil
}

// WatchHistory returns the viewer's watched videos in stored order, each
// enriched with its owner's public profile.
func (c Composer) WatchHistory(ctx context.Context, viewerID string) ([]models.VideoView, error) {
	ids, err := c.History.List(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list watch history: %w", err)
	}
	if len(ids) == 0 {
		return []models.VideoView{}, nil
	}

	videos, err := c.Videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load watched videos: %w", err)
	}

	ownerIDs := make([]string, 0, len(videos))
	seen := make(map[string]struct{}, len(videos))
	for _, video := range videos {
		if _, ok := seen[video.OwnerID]; ok {
			continue
		}
		seen[video.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, video.OwnerID)
	}

	owners, err := c.Users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("load video owners: %w", err)
	}

	cards := make(map[string]models.OwnerProfile, len(owners))
	for _, owner := range owners {
		cards[owner.ID] = ownerCard(owner)
	}

	history := make([]models.VideoView, len(videos))
	for i, video := range videos {
		history[i] = videoView(video, cards[video.OwnerID])
	}

	return history, nil
}

// VideoByID returns a single owner-enriched video.
func (c Composer) VideoByID(ctx context.Context, video models.Video) (models.VideoView, error) {
	owner, err := c.Users.FindByID(ctx, video.OwnerID)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("load video owner: %w", err)
	}
	return videoView(video, ownerCard(owner)), nil
}

// ownerCard projects a user onto the public profile fields joined into
// content they own. Credential and email fields never leave this projection.
func ownerCard(user models.User) models.OwnerProfile {
	return models.OwnerProfile{
		FullName: user.FullName,
		Username: user.Username,
		Avatar:   user.Avatar,
	}
}

// likeStats folds a like edge set into its cardinality and the viewer's
// membership. The fold is order independent.
func likeStats(edges []models.Like, viewerID string) (int, bool) {
	liked := false
	for _, edge := range edges {
		if edge.UserID == viewerID {
			liked = true
		}
	}
	return len(edges), liked
}

// viewerSubscribed reports whether an edge in the set originates from the
// exact viewer identity.
func viewerSubscribed(edges []models.Subscription, viewerID string) bool {
	for _, edge := range edges {
		if edge.SubscriberID == viewerID {
			return true
		}
	}
	return false
}

func groupLikesByTarget(edges []models.Like) map[string][]models.Like {
	grouped := make(map[string][]models.Like, len(edges))
	for _, edge := range edges {
		grouped[edge.TargetID] = append(grouped[edge.TargetID], edge)
	}
	return grouped
}

func videoView(video models.Video, owner models.OwnerProfile) models.VideoView {
	return models.VideoView{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		Views:       video.Views,
		Owner:       owner,
		CreatedAt:   video.CreatedAt,
	}
}
