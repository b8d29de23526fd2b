package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// VideoRepository defines the data access contract for videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	// FindByIDs returns the videos for ids, preserving the order of ids.
	// Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	IncrementViews(ctx context.Context, id string) error
}

// WatchHistoryRepository records which videos a user has watched, most
// recent first. Rewatching moves the entry to the front.
type WatchHistoryRepository interface {
	Record(ctx context.Context, userID, videoID string) error
	List(ctx context.Context, userID string) ([]string, error)
}
