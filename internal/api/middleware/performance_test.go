package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"quote read", "/api/quotes/q-1", "public, max-age=300, must-revalidate"},
		{"search", "/api/quotes/search", "public, max-age=120, must-revalidate"},
		{"attachments", "/api/quotes/q-1/attachments", "public, max-age=3600"},
		{"matches", "/api/quotes/q-1/matches", "private, no-cache, must-revalidate"},
		{"recommendation", "/api/quotes/q-1/recommendation", "private, no-cache, must-revalidate"},
		{"feedback", "/api/matches/m-1/feedback", "private, no-cache, must-revalidate"},
		{"health", "/health", "private, no-cache, must-revalidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			CacheControl(okHandler("{}")).ServeHTTP(rr, req)

			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("writes are not given cache headers", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/quotes/q-1/matches", nil)
		CacheControl(okHandler("{}")).ServeHTTP(rr, req)

		if got := rr.Header().Get("Cache-Control"); got != "" {
			t.Errorf("unexpected Cache-Control %q on POST", got)
		}
	})
}

func TestETag(t *testing.T) {
	handler := ETag(okHandler(`{"id":"q-1"}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/quotes/q-1", nil))

	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag on a 200 response")
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/q-1", nil)
	req.Header.Set("If-None-Match", etag)
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotModified {
		t.Errorf("expected 304 on matching If-None-Match, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body on 304, got %q", rr.Body.String())
	}
}
