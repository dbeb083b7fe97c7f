package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_MatchingConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("MATCH_MIN_SCORE", "0.55")
	os.Setenv("MATCH_TOP_K", "5")
	os.Setenv("IGNORE_LIST_TTL_SECONDS", "60")
	defer func() {
		os.Unsetenv("MATCH_MIN_SCORE")
		os.Unsetenv("MATCH_TOP_K")
		os.Unsetenv("IGNORE_LIST_TTL_SECONDS")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 0.55, cfg.Matching.MinScore)
	assert.Equal(t, 5, cfg.Matching.TopK)
	assert.Equal(t, time.Minute, cfg.Matching.IgnoreListTTL)
}

func TestLoad_ReplicaDSNs(t *testing.T) {
	os.Setenv("DB_REPLICA_DSNS", "host=replica1 dbname=fq, host=replica2 dbname=fq ,")
	defer os.Unsetenv("DB_REPLICA_DSNS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, []string{"host=replica1 dbname=fq", "host=replica2 dbname=fq"}, cfg.Database.ReplicaDSNs)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("MATCH_MIN_SCORE")
	os.Unsetenv("MATCH_TOP_K")
	os.Unsetenv("DB_NAME")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Matching.MinScore)
	assert.Equal(t, 10, cfg.Matching.TopK)
	assert.Equal(t, "freightquote", cfg.Database.Database)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
}
