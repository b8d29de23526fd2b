package models

import "time"

// User represents an account within the Clipstream platform. Username is
// stored lowercased and is unique alongside Email. RefreshToken holds the
// single currently valid refresh token for the account, or empty when the
// user is logged out.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	Password     string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tweet is a short text post owned by a single user. OwnerID never changes
// after creation.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription is a subscriber -> channel edge between two users. At most
// one edge exists per (subscriber, channel) pair.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// Target types a like edge may point at.
const (
	LikeTargetTweet   = "tweet"
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
)

// Like is a user -> content edge. At most one edge exists per
// (user, target, type) triple.
type Like struct {
	ID         string
	UserID     string
	TargetID   string
	TargetType string
	CreatedAt  time.Time
}

// Video stores metadata for an uploaded video along with the hosted asset
// locations.
type Video struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoFile   string
	Thumbnail   string
	Duration    float64
	Views       int64
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// OwnerProfile is the public slice of a user projected onto content they
// own. It never carries credential or email fields.
type OwnerProfile struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// TweetView is a tweet enriched with its owner's public profile and
// viewer-relative like data.
type TweetView struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	LikeCount int       `json:"likeCount"`
	IsLiked   bool      `json:"isLiked"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChannelProfile is a user viewed as a channel, enriched with subscription
// counts and the viewer's subscription state.
type ChannelProfile struct {
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	Email                     string `json:"email"`
}

// VideoView is a video enriched with its owner's public profile.
type VideoView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	Owner       OwnerProfile `json:"owner"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PublicUser strips credential and security fields from a user for API
// responses.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewPublicUser projects a user onto its API-safe representation.
func NewPublicUser(u User) PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
