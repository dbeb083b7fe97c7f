package typesense

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulmatch/freightquote-backend/pkg/config"
)

func TestClient_Integration(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") != "true" {
		t.Skip("set TEST_INTEGRATION=true to run against a live Typesense")
	}

	cfg := &config.TypesenseConfig{
		URL:    "http://localhost:8108",
		APIKey: "xyz",
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NotNil(t, client.Client())
}
