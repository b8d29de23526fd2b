package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// LikeRepository defines the data access contract for user -> content like
// edges. Uniqueness per (user, target, type) is enforced by the store.
type LikeRepository interface {
	// Toggle flips the like edge and reports whether it exists after the
	// call, using the same conflict-safe pattern as subscription toggles.
	Toggle(ctx context.Context, userID, targetID, targetType string) (liked bool, err error)
	// ListForTargets returns every like edge whose target is in ids and
	// matches targetType.
	ListForTargets(ctx context.Context, ids []string, targetType string) ([]models.Like, error)
}
