package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aura-events/backend/config"
)

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(config.DirectoryConfig{
		BaseURL: baseURL,
		Token:   "test-token",
		Timeout: timeout,
	}, zap.NewNop())
}

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/e12345", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userid":"e12345","name":"Kim Min-ji","department":"Platform","position":"Engineer"}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL, time.Second).Lookup(context.Background(), "e12345")
	require.NoError(t, err)
	assert.Equal(t, "Kim Min-ji", p.Name)
	assert.Equal(t, "Platform", p.Department)
	assert.Equal(t, "Engineer", p.Position)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Lookup(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 20*time.Millisecond).Lookup(context.Background(), "e12345")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookupServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, time.Second).Lookup(context.Background(), "e12345")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookupUnconfiguredIsUnavailable(t *testing.T) {
	_, err := newTestClient("", time.Second).Lookup(context.Background(), "e12345")
	assert.ErrorIs(t, err, ErrUnavailable)
}
