package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

type fakeUserReader struct {
	users map[string]models.User
}

func (f fakeUserReader) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (f fakeUserReader) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f fakeUserReader) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

type fakeTweetReader struct {
	tweets []models.Tweet
}

func (f fakeTweetReader) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	matched := []models.Tweet{}
	for _, tweet := range f.tweets {
		if tweet.OwnerID == ownerID {
			matched = append(matched, tweet)
		}
	}
	return matched, nil
}

type fakeLikeReader struct {
	likes []models.Like
}

func (f fakeLikeReader) ListForTargets(_ context.Context, ids []string, targetType string) ([]models.Like, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	matched := []models.Like{}
	for _, like := range f.likes {
		if like.TargetType != targetType {
			continue
		}
		if _, ok := wanted[like.TargetID]; ok {
			matched = append(matched, like)
		}
	}
	return matched, nil
}

type fakeSubscriptionReader struct {
	edges []models.Subscription
}

func (f fakeSubscriptionReader) ListByChannel(_ context.Context, channelID string) ([]models.Subscription, error) {
	matched := []models.Subscription{}
	for _, edge := range f.edges {
		if edge.ChannelID == channelID {
			matched = append(matched, edge)
		}
	}
	return matched, nil
}

func (f fakeSubscriptionReader) ListBySubscriber(_ context.Context, subscriberID string) ([]models.Subscription, error) {
	matched := []models.Subscription{}
	for _, edge := range f.edges {
		if edge.SubscriberID == subscriberID {
			matched = append(matched, edge)
		}
	}
	return matched, nil
}

type fakeVideoReader struct {
	videos map[string]models.Video
}

func (f fakeVideoReader) FindByIDs(_ context.Context, ids []string) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(ids))
	for _, id := range ids {
		if video, ok := f.videos[id]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

type fakeHistoryReader struct {
	ids []string
}

func (f fakeHistoryReader) List(context.Context, string) ([]string, error) {
	return f.ids, nil
}

func TestComposerTweetFeed(t *testing.T) {
	owner := models.User{ID: "owner-1", Username: "ada", FullName: "Ada Lovelace", Avatar: "https://cdn.example.com/ada.png"}
	viewer := models.User{ID: "viewer-1", Username: "grace"}

	base := time.Now().UTC().Add(-time.Hour)
	tweets := []models.Tweet{
		{ID: "tweet-1", OwnerID: owner.ID, Content: "first", CreatedAt: base},
		{ID: "tweet-2", OwnerID: owner.ID, Content: "second", CreatedAt: base.Add(time.Minute)},
		{ID: "tweet-3", OwnerID: "someone-else", Content: "not mine", CreatedAt: base},
	}
	likes := []models.Like{
		{ID: "like-1", UserID: viewer.ID, TargetID: "tweet-1", TargetType: models.LikeTargetTweet},
		{ID: "like-2", UserID: "other", TargetID: "tweet-1", TargetType: models.LikeTargetTweet},
		{ID: "like-3", UserID: "other", TargetID: "tweet-2", TargetType: models.LikeTargetTweet},
		{ID: "like-4", UserID: viewer.ID, TargetID: "tweet-1", TargetType: models.LikeTargetVideo},
	}

	composer := Composer{
		Users:  fakeUserReader{users: map[string]models.User{owner.ID: owner, viewer.ID: viewer}},
		Tweets: fakeTweetReader{tweets: tweets},
		Likes:  fakeLikeReader{likes: likes},
	}

	feed, err := composer.TweetFeed(context.Background(), owner.ID, viewer.ID)
	if err != nil {
		t.Fatalf("tweet feed: %v", err)
	}

	if len(feed) != 2 {
		t.Fatalf("expected 2 tweets in feed, got %d", len(feed))
	}

	if feed[0].ID != "tweet-1" || feed[1].ID != "tweet-2" {
		t.Fatalf("expected store order to be preserved, got %s then %s", feed[0].ID, feed[1].ID)
	}

	first := feed[0]
	if first.Username != owner.Username || first.FullName != owner.FullName || first.Avatar != owner.Avatar {
		t.Fatalf("expected owner card on tweet, got %+v", first)
	}
	if first.LikeCount != 2 {
		t.Fatalf("expected 2 likes on tweet-1, got %d", first.LikeCount)
	}
	if !first.IsLiked {
		t.Fatal("expected viewer's like to set IsLiked on tweet-1")
	}

	second := feed[1]
	if second.LikeCount != 1 || second.IsLiked {
		t.Fatalf("expected 1 like and IsLiked=false on tweet-2, got count=%d liked=%v", second.LikeCount, second.IsLiked)
	}
}

func TestComposerTweetFeedEmpty(t *testing.T) {
	composer := Composer{
		Users:  fakeUserReader{users: map[string]models.User{}},
		Tweets: fakeTweetReader{},
		Likes:  fakeLikeReader{},
	}

	feed, err := composer.TweetFeed(context.Background(), "owner-1", "viewer-1")
	if err != nil {
		t.Fatalf("tweet feed: %v", err)
	}
	if feed == nil || len(feed) != 0 {
		t.Fatalf("expected empty non-nil feed, got %v", feed)
	}
}

func TestComposerChannelProfile(t *testing.T) {
	channel := models.User{
		ID:         "channel-1",
		Username:   "ada",
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		Avatar:     "https://cdn.example.com/ada.png",
		CoverImage: "https://cdn.example.com/cover.png",
	}

	edges := []models.Subscription{
		{ID: "sub-1", SubscriberID: "viewer-1", ChannelID: channel.ID},
		{ID: "sub-2", SubscriberID: "other-1", ChannelID: channel.ID},
		{ID: "sub-3", SubscriberID: channel.ID, ChannelID: "other-2"},
	}

	composer := Composer{
		Users:         fakeUserReader{users: map[string]models.User{channel.ID: channel}},
		Subscriptions: fakeSubscriptionReader{edges: edges},
	}

	profile, err := composer.ChannelProfile(context.Background(), "ada", "viewer-1")
	if err != nil {
		t.Fatalf("channel profile: %v", err)
	}

	if profile.Username != channel.Username || profile.Email != channel.Email {
		t.Fatalf("unexpected profile fields: %+v", profile)
	}
	if profile.SubscribersCount != 2 {
		t.Fatalf("expected 2 subscribers, got %d", profile.SubscribersCount)
	}
	if profile.ChannelsSubscribedToCount != 1 {
		t.Fatalf("expected 1 subscribed channel, got %d", profile.ChannelsSubscribedToCount)
	}
	if !profile.IsSubscribed {
		t.Fatal("expected viewer-1 to be marked subscribed")
	}

	// A different viewer with no edge sees IsSubscribed false over the same
	// data.
	profile, err = composer.ChannelProfile(context.Background(), "ada", "stranger")
	if err != nil {
		t.Fatalf("channel profile for stranger: %v", err)
	}
	if profile.IsSubscribed {
		t.Fatal("expected stranger to be marked not subscribed")
	}
}

func TestComposerChannelProfileNotFound(t *testing.T) {
	composer := Composer{
		Users:         fakeUserReader{users: map[string]models.User{}},
		Subscriptions: fakeSubscriptionReader{},
	}

	if _, err := composer.ChannelProfile(context.Background(), "ghost", "viewer-1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown username, got %v", err)
	}
}

func TestComposerWatchHistory(t *testing.T) {
	ada := models.User{ID: "owner-1", Username: "ada", FullName: "Ada Lovelace"}
	grace := models.User{ID: "owner-2", Username: "grace", FullName: "Grace Hopper"}

	videos := map[string]models.Video{
		"video-1": {ID: "video-1", OwnerID: ada.ID, Title: "Intro", Views: 10},
		"video-2": {ID: "video-2", OwnerID: grace.ID, Title: "Compilers", Views: 3},
		"video-3": {ID: "video-3", OwnerID: ada.ID, Title: "Engines", Views: 7},
	}

	composer := Composer{
		Users:   fakeUserReader{users: map[string]models.User{ada.ID: ada, grace.ID: grace}},
		Videos:  fakeVideoReader{videos: videos},
		History: fakeHistoryReader{ids: []string{"video-3", "video-1", "video-2"}},
	}

	history, err := composer.WatchHistory(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}

	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	if history[0].ID != "video-3" || history[1].ID != "video-1" || history[2].ID != "video-2" {
		t.Fatalf("expected history order to be preserved, got %s %s %s", history[0].ID, history[1].ID, history[2].ID)
	}

	if history[0].Owner.Username != "ada" || history[2].Owner.Username != "grace" {
		t.Fatalf("expected owner cards to be joined, got %+v and %+v", history[0].Owner, history[2].Owner)
	}
	if history[0].Views != 7 {
		t.Fatalf("expected view count to carry over, got %d", history[0].Views)
	}
}

func TestComposerWatchHistoryEmpty(t *testing.T) {
	composer := Composer{
		Users:   fakeUserReader{users: map[string]models.User{}},
		Videos:  fakeVideoReader{},
		History: fakeHistoryReader{},
	}

	history, err := composer.WatchHistory(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if history == nil || len(history) != 0 {
		t.Fatalf("expected empty non-nil history, got %v", history)
	}
}

func TestComposerVideoByID(t *testing.T) {
	owner := models.User{ID: "owner-1", Username: "ada", FullName: "Ada Lovelace", Avatar: "a.png"}
	video := models.Video{ID: "video-1", OwnerID: owner.ID, Title: "Intro", Duration: 42.5, Views: 11}

	composer := Composer{Users: fakeUserReader{users: map[string]models.User{owner.ID: owner}}}

	view, err := composer.VideoByID(context.Background(), video)
	if err != nil {
		t.Fatalf("video by id: %v", err)
	}

	if view.ID != video.ID || view.Title != video.Title || view.Duration != video.Duration || view.Views != video.Views {
		t.Fatalf("unexpected video fields: %+v", view)
	}
	if view.Owner.Username != owner.Username || view.Owner.FullName != owner.FullName {
		t.Fatalf("unexpected owner card: %+v", view.Owner)
	}
}
