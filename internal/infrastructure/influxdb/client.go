package influxdb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
)

const (
	pingTimeout = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Logger receives failed batch writes.
type Logger interface {
	Warn(msg string, args ...any)
}

// Client is the metrics writer behind telemetry.MetricsSink.
type Client struct {
	server influxdb2.Client
	writes api.WriteAPI
	closed atomic.Bool

	mu     sync.RWMutex
	logger Logger
}

// Connect pings the server within ctx and opens a batched write API on
// cfg.Org/cfg.Bucket.
func Connect(ctx context.Context, cfg config.InfluxDBConfig) (*Client, error) {
	server := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, writeOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if ok, err := server.Ping(pingCtx); err != nil || !ok {
		server.Close()
		return nil, fmt.Errorf("%w: %s: ping ok=%v err=%v", ErrConnectionFailed, cfg.URL, ok, err)
	}

	c := &Client{server: server, writes: server.WriteAPI(cfg.Org, cfg.Bucket)}
	go c.reportFailures(c.writes.Errors())
	return c, nil
}

// writeOptions applies batch_size and flush_interval (seconds), falling back
// to defaults for unset values.
func writeOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batch := uint(defaultBatchSize)
	if cfg.BatchSize > 0 {
		batch = uint(cfg.BatchSize)
	}
	flush := defaultFlushInterval
	if cfg.FlushInterval > 0 {
		flush = time.Duration(cfg.FlushInterval) * time.Second
	}
	return influxdb2.DefaultOptions().
		SetBatchSize(batch).
		SetFlushInterval(uint(flush.Milliseconds()))
}

// reportFailures drains the write API error channel until the client closes.
func (c *Client) reportFailures(errs <-chan error) {
	for err := range errs {
		c.mu.RLock()
		logger := c.logger
		c.mu.RUnlock()
		if logger != nil {
			logger.Warn("InfluxDB batch write failed", "error", err)
		}
	}
}

// SetLogger sets the logger for failed batch writes.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

// open reports whether the client has a live write API.
func (c *Client) open() bool {
	return c.writes != nil && !c.closed.Load()
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.open() {
		return ErrClosed
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	ok, err := c.server.Ping(pingCtx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if !ok {
		return ErrUnhealthy
	}
	return nil
}

// Flush blocks until buffered points have been sent. It is a no-op after Close.
func (c *Client) Flush() {
	if !c.open() {
		return
	}
	c.writes.Flush()
}

// Close stops the write API and releases the HTTP client. Points written
// after Close are dropped.
func (c *Client) Close() error {
	if c == nil || c.server == nil || c.closed.Swap(true) {
		return nil
	}
	c.server.Close()
	return nil
}
