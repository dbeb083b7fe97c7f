package repositories

import (
	"context"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// FeedbackRepository defines the interface for match feedback operations.
type FeedbackRepository interface {
	// Upsert atomically inserts or updates the row keyed by
	// (match_id, user_id) and returns the persisted state. The write must be
	// a single conditional statement, not read-then-write, so concurrent
	// submissions for the same key cannot lose updates or duplicate rows.
	Upsert(ctx context.Context, feedback *entities.MatchFeedback) (*entities.MatchFeedback, error)

	// ListByMatch returns all feedback for a match, most recently updated
	// first. An unknown match yields an empty slice, not an error.
	ListByMatch(ctx context.Context, matchID string) ([]*entities.MatchFeedback, error)
}

// IgnoreRuleRepository defines the interface for ignore rule operations
type IgnoreRuleRepository interface {
	// Create creates a new ignore rule
	Create(ctx context.Context, rule *entities.IgnoreRule) error

	// Delete deletes an ignore rule
	Delete(ctx context.Context, id string) error

	// ListAll retrieves every active ignore rule
	ListAll(ctx context.Context) ([]*entities.IgnoreRule, error)
}
