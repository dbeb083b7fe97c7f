package entities

import "time"

// Feedback rating values. Anything outside these two is rejected up front.
const (
	RatingUp   = 1
	RatingDown = -1
)

// MatchFeedback captures one user's verdict on one quote match. There is at
// most one row per (match, user); resubmitting replaces the previous verdict
// and refreshes UpdatedAt. An empty UserID is the anonymous user and is a
// valid uniqueness key in its own right. Feedback is never deleted — it is
// the audit trail the scorer weights get recalibrated from offline.
type MatchFeedback struct {
	ID              string    `json:"id" db:"id"`
	MatchID         string    `json:"match_id" db:"match_id"`
	UserID          string    `json:"user_id" db:"user_id"`
	Rating          int       `json:"rating" db:"rating"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	ActualPriceUsed *float64  `json:"actual_price_used,omitempty" db:"actual_price_used"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
