package providers

import (
	"context"
	"time"
)

// IgnoreListProvider answers "should this quote be excluded from matching?"
// from a point-in-time snapshot of the ignore rules. The snapshot has an
// explicit expiry so callers control staleness instead of depending on an
// implicit process-wide cache; Refresh rebuilds it from the source of truth.
type IgnoreListProvider interface {
	// Refresh rebuilds the snapshot from storage
	Refresh(ctx context.Context) error

	// IsSenderIgnored reports whether the email sender is on the ignore list
	IsSenderIgnored(ctx context.Context, sender string) (bool, error)

	// IsServiceIgnored reports whether the service type is on the ignore list
	IsServiceIgnored(ctx context.Context, serviceType string) (bool, error)

	// ExpiresAt returns when the current snapshot stops being served without
	// a refresh
	ExpiresAt() time.Time
}
