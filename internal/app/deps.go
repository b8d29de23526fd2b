package app

import (
	"context"
	"time"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/handlers"
	"github.com/clipstream/backend/internal/middleware"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
	"github.com/clipstream/backend/internal/views"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	history := repositories.NewPostgresWatchHistoryRepository(pool)

	media, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	tokens := auth.NewTokenManager(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		users,
	)

	composer := views.Composer{
		Users:         users,
		Tweets:        tweets,
		Likes:         likes,
		Subscriptions: subscriptions,
		Videos:        videos,
		History:       history,
	}

	limiter := middleware.NewIPRateLimiter(cfg.AuthRateRequests, cfg.AuthRateWindow, cfg.AuthRateBurst, 10*time.Minute)

	return handlers.Dependencies{
		Users:         users,
		Tokens:        tokens,
		Tweets:        tweets,
		Subscriptions: subscriptions,
		Likes:         likes,
		Videos:        videos,
		History:       history,
		Media:         media,
		Views:         composer,
		AuthLimiter:   limiter,
		Cookies: handlers.CookieOptions{
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
		},
		RequireAuth: middleware.RequireAuth(tokens, users),
	}, nil
}
