package mailapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haulmatch/freightquote-backend/pkg/config"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.MailAPIConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func TestListAttachments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages/msg-1/attachments", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"attachments":[{"id":"att-1","file_name":"quote.pdf","content_type":"application/pdf","size_bytes":1024}]}`))
	}))
	defer server.Close()

	attachments, err := newTestClient(server.URL).ListAttachments(context.Background(), "msg-1")
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "quote.pdf", attachments[0].FileName)
}

func TestListAttachments_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListAttachments(context.Background(), "missing")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestFetchAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages/msg-1/attachments/att-1/content", r.URL.Path)
		w.Write([]byte("pdf-bytes"))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).FetchAttachment(context.Background(), "msg-1", "att-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), content)
}

func TestListAttachments_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"attachments":[{"id":"att-1","file_name":"quote.pdf"}]}`))
	}))
	defer server.Close()

	attachments, err := newTestClient(server.URL).ListAttachments(context.Background(), "msg-1")
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestListAttachments_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListAttachments(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchAttachment_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchAttachment(context.Background(), "msg-1", "att-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}
