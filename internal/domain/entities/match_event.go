package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MatchEventType represents the type of matching pipeline event
type MatchEventType string

const (
	MatchEventTypeRunCompleted     MatchEventType = "match_run_completed"
	MatchEventTypeFeedbackReceived MatchEventType = "feedback_received"
)

// MatchEvent is published on the event bus when a matching run finishes or
// feedback lands, so downstream consumers (dashboards, recalibration jobs)
// can react without polling.
type MatchEvent struct {
	ID               string         `json:"id"`
	QuoteID          string         `json:"quote_id"`
	EventType        MatchEventType `json:"event_type"`
	AlgorithmVersion string         `json:"algorithm_version,omitempty"`
	MatchCount       int            `json:"match_count,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// NewMatchEvent creates a new match event
func NewMatchEvent(quoteID string, eventType MatchEventType, algorithmVersion string, matchCount int) *MatchEvent {
	return &MatchEvent{
		ID:               generateEventID(),
		QuoteID:          quoteID,
		EventType:        eventType,
		AlgorithmVersion: algorithmVersion,
		MatchCount:       matchCount,
		Timestamp:        time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
