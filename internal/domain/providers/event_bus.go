package providers

import (
	"context"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.MatchEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.MatchEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelMatchRuns is the channel for all matching run completions
	EventChannelMatchRuns = "matches:runs"

	// EventChannelFeedback is the channel for feedback submissions
	EventChannelFeedback = "matches:feedback"

	// EventChannelQuotePrefix is the prefix for quote-specific channels
	EventChannelQuotePrefix = "quote:"
)

// GetQuoteChannel returns the channel name for a specific quote
func GetQuoteChannel(quoteID string) string {
	return EventChannelQuotePrefix + quoteID
}
