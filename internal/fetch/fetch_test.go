package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fastConfig() Config {
	return Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Timeout:        5 * time.Second,
	}
}

func TestFetchArchivesDownloads(t *testing.T) {
	payload := []byte("zip-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/20240201.zip", r.URL.Path)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := NewClient(srv.URL, quietLogger(), fastConfig())
	require.NoError(t, c.FetchArchives(context.Background(), []string{"20240201"}, dir))

	got, err := os.ReadFile(filepath.Join(dir, "20240201.zip"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetchArchivesSkipsExisting(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "20240201.zip")
	require.NoError(t, os.WriteFile(existing, []byte("stale"), 0o600))

	c := NewClient(srv.URL, quietLogger(), fastConfig())
	require.NoError(t, c.FetchArchives(context.Background(), []string{"20240201"}, dir))

	assert.Zero(t, hits.Load())
	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, []byte("stale"), got)
}

func TestFetchArchivesRetriesTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("eventually"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := NewClient(srv.URL, quietLogger(), fastConfig())
	require.NoError(t, c.FetchArchives(context.Background(), []string{"20240201"}, dir))

	assert.Equal(t, int32(3), hits.Load())
	got, err := os.ReadFile(filepath.Join(dir, "20240201.zip"))
	require.NoError(t, err)
	assert.Equal(t, []byte("eventually"), got)
}

func TestFetchArchivesPermanentFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := NewClient(srv.URL, quietLogger(), fastConfig())
	err := c.FetchArchives(context.Background(), []string{"20240201"}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20240201")

	// 404 is not transient, so no retries.
	assert.Equal(t, int32(1), hits.Load())
	_, statErr := os.Stat(filepath.Join(dir, "20240201.zip"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestIsTransientError(t *testing.T) {
	c := NewClient("http://example.invalid", quietLogger(), fastConfig())

	assert.False(t, c.isTransientError(nil))
	assert.False(t, c.isTransientError(errors.New("server returned 404 Not Found")))
	assert.True(t, c.isTransientError(errors.New("server returned 503 Service Unavailable")))
	assert.True(t, c.isTransientError(errors.New("dial tcp: connection refused")))
	assert.True(t, c.isTransientError(errors.New("context deadline exceeded (Client.Timeout exceeded)")))
}
