package ignorelist

import (
	"context"
	"testing"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleRepo struct {
	rules   []*entities.IgnoreRule
	listCnt int
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *entities.IgnoreRule) error { return nil }
func (f *fakeRuleRepo) Delete(ctx context.Context, id string) error                 { return nil }
func (f *fakeRuleRepo) ListAll(ctx context.Context) ([]*entities.IgnoreRule, error) {
	f.listCnt++
	return f.rules, nil
}

func TestSnapshotProvider_Lookups(t *testing.T) {
	repo := &fakeRuleRepo{rules: []*entities.IgnoreRule{
		{ID: "1", Kind: entities.IgnoreRuleSender, Value: "Spam@Broker.com"},
		{ID: "2", Kind: entities.IgnoreRuleService, Value: "courier"},
	}}
	provider := NewSnapshotProvider(repo, time.Minute)

	ignored, err := provider.IsSenderIgnored(context.Background(), "spam@broker.com")
	require.NoError(t, err)
	assert.True(t, ignored)

	ignored, err = provider.IsSenderIgnored(context.Background(), "real@shipper.com")
	require.NoError(t, err)
	assert.False(t, ignored)

	ignored, err = provider.IsServiceIgnored(context.Background(), "Courier")
	require.NoError(t, err)
	assert.True(t, ignored)
}

func TestSnapshotProvider_RefreshOnExpiry(t *testing.T) {
	repo := &fakeRuleRepo{}
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	provider := NewSnapshotProvider(repo, time.Minute, WithClock(func() time.Time { return current }))

	_, err := provider.IsSenderIgnored(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCnt)

	// Inside the TTL the snapshot is reused.
	current = current.Add(30 * time.Second)
	_, err = provider.IsSenderIgnored(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCnt)

	// Past the TTL a lookup forces a refresh.
	current = current.Add(31 * time.Second)
	_, err = provider.IsSenderIgnored(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCnt)
}

func TestSnapshotProvider_ExplicitRefresh(t *testing.T) {
	repo := &fakeRuleRepo{}
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	provider := NewSnapshotProvider(repo, time.Minute, WithClock(func() time.Time { return current }))

	require.NoError(t, provider.Refresh(context.Background()))
	assert.Equal(t, current.Add(time.Minute), provider.ExpiresAt())
}
