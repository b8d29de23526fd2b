package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// SubscriptionRepository defines the data access contract for
// subscriber -> channel edges.
type SubscriptionRepository interface {
	// Toggle flips the edge for the (subscriber, channel) pair and reports
	// whether the edge exists after the call. The flip is conflict-safe: a
	// concurrent duplicate insert is absorbed by the store's uniqueness
	// constraint instead of producing a second edge.
	Toggle(ctx context.Context, subscriberID, channelID string) (subscribed bool, err error)
	ListByChannel(ctx context.Context, channelID string) ([]models.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error)
}
