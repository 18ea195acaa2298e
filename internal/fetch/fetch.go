// Package fetch downloads daily option archives over HTTP with bounded
// retries behind a circuit breaker.
package fetch

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Config tunes retry and timeout behavior.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration
}

// DefaultConfig is used when no Config is supplied.
var DefaultConfig = Config{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	Timeout:        2 * time.Minute,
}

// Client downloads <base-url>/<date>.zip archives. A shared circuit breaker
// across dates stops hammering a host that is clearly down.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	baseURL    string
	logger     *logrus.Logger
	config     Config
}

// NewClient creates a downloader for the given base URL.
func NewClient(baseURL string, logger *logrus.Logger, config ...Config) *Client {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	settings := gobreaker.Settings{
		Name:     "ArchiveFetcher",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s state changed from %s to %s", name, from, to)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
		config:     cfg,
	}
}

// FetchArchives downloads every listed date into destDir, skipping archives
// already present. The first non-transient failure aborts the batch.
func (c *Client) FetchArchives(ctx context.Context, dates []string, destDir string) error {
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	for _, date := range dates {
		dest := filepath.Join(destDir, date+".zip")
		if _, err := os.Stat(dest); err == nil {
			c.logger.WithField("date", date).Debug("archive already present, skipping")
			continue
		}
		if err := c.fetchOne(ctx, date, dest); err != nil {
			return fmt.Errorf("fetching %s: %w", date, err)
		}
	}
	return nil
}

func (c *Client) fetchOne(ctx context.Context, date, dest string) error {
	url := fmt.Sprintf("%s/%s.zip", c.baseURL, date)

	var lastErr error
	backoff := c.config.InitialBackoff

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fetch canceled: %w", err)
		}

		c.logger.WithFields(logrus.Fields{
			"date":    date,
			"attempt": attempt + 1,
		}).Info("downloading archive")

		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.download(ctx, url, dest)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if !c.isTransientError(err) || attempt == c.config.MaxRetries {
			break
		}

		c.logger.WithError(err).Warnf("Transient error, retrying in %v", backoff)
		select {
		case <-time.After(backoff):
			backoff = c.calculateNextBackoff(backoff)
		case <-ctx.Done():
			return fmt.Errorf("fetch canceled during backoff: %w", ctx.Err())
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	// Write to a temp file first so a failed download never leaves a
	// truncated archive behind.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func (c *Client) calculateNextBackoff(currentBackoff time.Duration) time.Duration {
	backoff := time.Duration(float64(currentBackoff) * 1.5)
	if backoff > c.config.MaxBackoff {
		backoff = c.config.MaxBackoff
	}

	maxJitter := int64(backoff / 4)
	if maxJitter > 0 {
		jitterVal, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
		if err != nil {
			c.logger.WithError(err).Warn("Failed to generate jitter")
		} else {
			backoff += time.Duration(jitterVal.Int64())
		}
	}

	return backoff
}

func (c *Client) isTransientError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	transientPatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"temporary failure",
		"server error",
		"rate limit",
		"429",
		"502",
		"503",
		"504",
		"network",
		"dns",
		"tcp",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
