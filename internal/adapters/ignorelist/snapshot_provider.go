package ignorelist

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
)

// SnapshotProvider serves ignore-list lookups from an in-memory snapshot of
// the rules table. The snapshot carries an explicit expiry: lookups past the
// expiry trigger a refresh before answering, and the clock is injectable so
// tests control staleness without sleeping.
type SnapshotProvider struct {
	repo repositories.IgnoreRuleRepository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	senders   map[string]struct{}
	services  map[string]struct{}
	expiresAt time.Time
}

// Option configures a SnapshotProvider.
type Option func(*SnapshotProvider)

// WithClock injects a clock, used by tests for deterministic expiry.
func WithClock(now func() time.Time) Option {
	return func(p *SnapshotProvider) {
		p.now = now
	}
}

// NewSnapshotProvider creates an ignore-list provider backed by the rules
// repository. The first lookup loads the snapshot lazily.
func NewSnapshotProvider(repo repositories.IgnoreRuleRepository, ttl time.Duration, opts ...Option) providers.IgnoreListProvider {
	p := &SnapshotProvider{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Refresh rebuilds the snapshot from storage and resets the expiry.
func (p *SnapshotProvider) Refresh(ctx context.Context) error {
	rules, err := p.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	senders := make(map[string]struct{})
	services := make(map[string]struct{})
	for _, rule := range rules {
		value := strings.ToLower(strings.TrimSpace(rule.Value))
		if value == "" {
			continue
		}
		switch rule.Kind {
		case entities.IgnoreRuleSender:
			senders[value] = struct{}{}
		case entities.IgnoreRuleService:
			services[value] = struct{}{}
		}
	}

	p.mu.Lock()
	p.senders = senders
	p.services = services
	p.expiresAt = p.now().Add(p.ttl)
	p.mu.Unlock()

	return nil
}

// IsSenderIgnored reports whether the email sender is on the ignore list
func (p *SnapshotProvider) IsSenderIgnored(ctx context.Context, sender string) (bool, error) {
	if err := p.ensureFresh(ctx); err != nil {
		return false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ignored := p.senders[strings.ToLower(strings.TrimSpace(sender))]
	return ignored, nil
}

// IsServiceIgnored reports whether the service type is on the ignore list
func (p *SnapshotProvider) IsServiceIgnored(ctx context.Context, serviceType string) (bool, error) {
	if err := p.ensureFresh(ctx); err != nil {
		return false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ignored := p.services[strings.ToLower(strings.TrimSpace(serviceType))]
	return ignored, nil
}

// ExpiresAt returns when the current snapshot stops being served.
func (p *SnapshotProvider) ExpiresAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.expiresAt
}

func (p *SnapshotProvider) ensureFresh(ctx context.Context) error {
	p.mu.RLock()
	fresh := p.senders != nil && p.now().Before(p.expiresAt)
	p.mu.RUnlock()

	if fresh {
		return nil
	}
	return p.Refresh(ctx)
}
