package entities

import "time"

// IgnoreRuleKind says what an ignore rule applies to.
type IgnoreRuleKind string

const (
	IgnoreRuleSender  IgnoreRuleKind = "sender"
	IgnoreRuleService IgnoreRuleKind = "service"
)

// IgnoreRule excludes quotes from the candidate pool by their email sender or
// service type. The source of truth lives in Postgres; the matching pipeline
// consumes rules through a snapshot provider with an explicit expiry.
type IgnoreRule struct {
	ID        string         `json:"id" db:"id"`
	Kind      IgnoreRuleKind `json:"kind" db:"kind"`
	Value     string         `json:"value" db:"value"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
