package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vineshkkmr/job-board/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var ErrNotConfigured = errors.New("redis: UPSTASH_REDIS_URL not configured")

var (
	client    *redis.Client
	clientMu  sync.RWMutex
	clientErr error
)

// Config holds Redis connection configuration
type Config struct {
	URL      string // redis://host:port or rediss://host:port for TLS (Upstash)
	Password string // overrides any password embedded in URL
}

// Options turns Config into go-redis options without dialing.
func (c Config) Options() (*redis.Options, error) {
	if c.URL == "" {
		return nil, ErrNotConfigured
	}

	parsed, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	if parsed.Scheme != "redis" && parsed.Scheme != "rediss" {
		return nil, fmt.Errorf("redis: unsupported scheme %q", parsed.Scheme)
	}

	useTLS := parsed.Scheme == "rediss"
	addr := parsed.Host
	if parsed.Port() == "" {
		addr = parsed.Hostname() + ":6379"
	}

	password := c.Password
	if password == "" && parsed.User != nil {
		password, _ = parsed.User.Password()
	}

	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}

// Client returns the shared client, or nil when Redis is not configured or unreachable.
func Client() *redis.Client {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return client
}

// Initialize connects the shared client. Callers treat a non-nil error as
// "run without Redis"; the rate limiter falls back to memory.
func Initialize(ctx context.Context, cfg Config) error {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client != nil {
		return nil
	}

	opts, err := cfg.Options()
	if err != nil {
		clientErr = err
		return err
	}

	c := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		clientErr = fmt.Errorf("redis: connection failed: %w", err)
		return clientErr
	}

	client = c
	clientErr = nil
	logger.Log.Infow("redis connected", "addr", opts.Addr, "tls", opts.TLSConfig != nil)
	return nil
}

// Close closes the Redis connection gracefully.
func Close() error {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// HealthCheck pings the shared client. Returns nil if healthy.
func HealthCheck(ctx context.Context) error {
	clientMu.RLock()
	c, initErr := client, clientErr
	clientMu.RUnlock()

	if c == nil {
		if initErr != nil {
			return initErr
		}
		return errors.New("redis: client not initialized")
	}
	return c.Ping(ctx).Err()
}
