package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Tokens: deps.Tokens, Media: deps.Media, Limiter: deps.AuthLimiter, Cookies: deps.Cookies}
	users := UserHandler{Users: deps.Users, Media: deps.Media, Views: deps.Views}
	tweets := TweetHandler{Tweets: deps.Tweets, Views: deps.Views}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users}
	likes := LikeHandler{Likes: deps.Likes, Tweets: deps.Tweets, Videos: deps.Videos}
	videos := VideoHandler{Videos: deps.Videos, History: deps.History, Media: deps.Media, Views: deps.Views}

	authed := deps.RequireAuth
	if authed == nil {
		authed = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/users/register", auth.Register)
	mux.HandleFunc("/api/v1/users/login", auth.Login)
	mux.HandleFunc("/api/v1/users/refresh-token", auth.RefreshToken)
	mux.HandleFunc("/api/v1/users/logout", authed(auth.Logout))
	mux.HandleFunc("/api/v1/users/change-password", authed(auth.ChangePassword))

	mux.HandleFunc("/api/v1/users/profile", authed(users.UpdateProfile))
	mux.HandleFunc("/api/v1/users/avatar", authed(users.UpdateAvatar))
	mux.HandleFunc("/api/v1/users/cover-image", authed(users.UpdateCoverImage))
	mux.HandleFunc("/api/v1/users/channel/{username}", authed(users.Channel))
	mux.HandleFunc("/api/v1/users/history", authed(users.WatchHistory))

	mux.HandleFunc("/api/v1/tweets", authed(tweets.Collection))
	mux.HandleFunc("/api/v1/tweets/{tweetId}", authed(tweets.Detail))

	mux.HandleFunc("/api/v1/subscriptions/channels", authed(subscriptions.Channels))
	mux.HandleFunc("/api/v1/subscriptions/{channelId}", authed(subscriptions.Toggle))
	mux.HandleFunc("/api/v1/subscriptions/{channelId}/subscribers", authed(subscriptions.Subscribers))

	mux.HandleFunc("/api/v1/likes/tweet/{tweetId}", authed(likes.ToggleTweet))
	mux.HandleFunc("/api/v1/likes/video/{videoId}", authed(likes.ToggleVideo))

	mux.HandleFunc("/api/v1/videos", authed(videos.Collection))
	mux.HandleFunc("/api/v1/videos/{videoId}", authed(videos.Watch))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Tokens        TokenService
	Tweets        TweetStore
	Subscriptions SubscriptionStore
	Likes         LikeStore
	Videos        VideoStore
	History       WatchHistoryStore
	Media         MediaStore
	Views         ViewComposer
	AuthLimiter   RateLimiter
	Cookies       CookieOptions

	// RequireAuth gates an endpoint on a valid access token and attaches
	// the viewer to the request context. Nil leaves endpoints open, which
	// is only useful in tests.
	RequireAuth func(http.HandlerFunc) http.HandlerFunc
}
