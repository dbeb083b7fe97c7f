package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"

	"github.com/haulmatch/freightquote-backend/internal/infrastructure/observability"
	"github.com/haulmatch/freightquote-backend/pkg/config"
)

// MultiDBClient routes reads to replicas round-robin and writes to the
// primary. Batch consumers (backfill, indexer) page large candidate sets,
// so their reads go to a replica when one is configured; match and
// recommendation writes always hit the primary.
type MultiDBClient struct {
	primary  *Client
	replicas []*Client
	rrIndex  uint32
}

// NewMultiDBClient connects the primary and any configured replicas. A
// replica that fails to connect is skipped with a warning; the primary is
// required.
func NewMultiDBClient(cfg *config.DatabaseConfig) (*MultiDBClient, error) {
	logger := observability.GetLogger()

	primary, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect primary: %w", err)
	}

	c := &MultiDBClient{primary: primary}
	for i, dsn := range cfg.ReplicaDSNs {
		replica, err := openReplica(dsn)
		if err != nil {
			logger.Warn().Err(err).Int("replica", i).Msg("read replica unavailable, skipping")
			continue
		}
		c.replicas = append(c.replicas, replica)
	}

	if len(c.replicas) == 0 && len(cfg.ReplicaDSNs) > 0 {
		logger.Warn().Msg("no read replicas available, reads fall back to primary")
	}

	return c, nil
}

func openReplica(dsn string) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Client{db: db}, nil
}

// Primary returns the write connection.
func (c *MultiDBClient) Primary() *Client {
	return c.primary
}

// Read returns a replica connection round-robin, or the primary when no
// replica is up.
func (c *MultiDBClient) Read() *Client {
	if len(c.replicas) == 0 {
		return c.primary
	}
	idx := atomic.AddUint32(&c.rrIndex, 1)
	return c.replicas[idx%uint32(len(c.replicas))]
}

// HealthCheck pings every connection. An unhealthy primary is an error;
// unhealthy replicas only degrade reads back to the primary.
func (c *MultiDBClient) HealthCheck(ctx context.Context) error {
	if err := c.primary.Ping(ctx); err != nil {
		return fmt.Errorf("primary database unhealthy: %w", err)
	}

	down := 0
	for i, replica := range c.replicas {
		if err := replica.Ping(ctx); err != nil {
			observability.GetLogger().Warn().Err(err).Int("replica", i).Msg("read replica unhealthy")
			down++
		}
	}
	if len(c.replicas) > 0 && down == len(c.replicas) {
		return fmt.Errorf("all %d read replicas unhealthy", down)
	}
	return nil
}

// Close closes the primary and every replica.
func (c *MultiDBClient) Close() error {
	var errs []error
	if err := c.primary.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close primary: %w", err))
	}
	for i, replica := range c.replicas {
		if err := replica.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close replica %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing connections: %v", errs)
	}
	return nil
}
