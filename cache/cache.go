package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Outcome tags the result of a cache read. Miss and Unavailable both mean
// "consult the source of truth"; they stay distinct so status reporting and
// tests can tell an absent key from a down backend.
type Outcome int

const (
	// Hit means the key was present and its value decoded.
	Hit Outcome = iota
	// Miss means the backend answered and the key was absent.
	Miss
	// Unavailable means the cache could not answer: disabled, disconnected,
	// a transport error, or an undecodable payload.
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return "unavailable"
	}
}

// DefaultDialTimeout is used when Config.DialTimeout is zero. It also bounds
// every individual cache operation.
const DefaultDialTimeout = 5 * time.Second

// Config holds the Redis connection settings.
type Config struct {
	Host     string
	Port     int
	DB       int
	Password string
	// Enabled gates the whole adapter. When false, Connect is a no-op and
	// every read reports Unavailable.
	Enabled     bool
	DialTimeout time.Duration
	KeepAlive   bool
}

// Client is a soft-failing adapter over one Redis logical database.
// Construct with New, call Connect once on startup and Close on shutdown.
// A Client that never connected is usable — every operation degrades per
// the package failure policy.
type Client struct {
	cfg Config
	log *zap.Logger
	rdb *redis.Client
}

// Status reports the adapter state for the cache status endpoint.
type Status struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
}

// New returns an unconnected Client.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	return &Client{cfg: cfg, log: log}
}

// Connect establishes and verifies the Redis connection. Failure is not
// fatal to the process: the error is logged and the client stays
// disconnected, degrading every later call.
func (c *Client) Connect(ctx context.Context) {
	if !c.cfg.Enabled {
		c.log.Warn("cache is disabled")
		return
	}

	dialer := &net.Dialer{Timeout: c.cfg.DialTimeout}
	if !c.cfg.KeepAlive {
		dialer.KeepAlive = -1
	}
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          c.cfg.DB,
		Password:    c.cfg.Password,
		DialTimeout: c.cfg.DialTimeout,
		Dialer: func(ctx context.Context, network, address string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, address)
		},
	})

	pctx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		c.log.Error("failed to connect to redis", zap.String("addr", addr), zap.Error(err))
		_ = rdb.Close()
		return
	}
	c.rdb = rdb
	c.log.Info("connected to redis", zap.String("addr", addr), zap.Int("db", c.cfg.DB))
}

// Close releases the Redis connection. Safe to call on a client that never
// connected.
func (c *Client) Close() {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Close()
	c.rdb = nil
	c.log.Info("disconnected from redis")
}

// Status reports whether the adapter is enabled and holds a live connection.
func (c *Client) Status() Status {
	return Status{
		Enabled:   c.cfg.Enabled,
		Connected: c.rdb != nil,
		Host:      c.cfg.Host,
		Port:      c.cfg.Port,
	}
}

func (c *Client) ready() bool {
	return c.cfg.Enabled && c.rdb != nil
}

// opCtx bounds one backend call so a degraded backend cannot stall requests.
func (c *Client) opCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.cfg.DialTimeout)
}

// Get returns the raw JSON stored at key.
func (c *Client) Get(ctx context.Context, key string) (json.RawMessage, Outcome) {
	if !c.ready() {
		return nil, Unavailable
	}
	qctx, cancel := c.opCtx(ctx)
	defer cancel()
	data, err := c.rdb.Get(qctx, key).Bytes()
	if err == redis.Nil {
		c.log.Debug("cache miss", zap.String("key", key))
		return nil, Miss
	}
	if err != nil {
		c.log.Error("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, Unavailable
	}
	c.log.Debug("cache hit", zap.String("key", key))
	return data, Hit
}

// Set stores val at key with the given TTL and reports success. Values JSON
// cannot express are stored as their string form.
func (c *Client) Set(ctx context.Context, key string, val any, ttl time.Duration) bool {
	if !c.ready() {
		return false
	}
	data, err := marshalValue(val)
	if err != nil {
		c.log.Error("cache encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	qctx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.rdb.Set(qctx, key, data, ttl).Err(); err != nil {
		c.log.Error("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	c.log.Debug("cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return true
}

// Exists reports whether key is present. False on any failure.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if !c.ready() {
		return false
	}
	qctx, cancel := c.opCtx(ctx)
	defer cancel()
	n, err := c.rdb.Exists(qctx, key).Result()
	if err != nil {
		c.log.Error("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

// Delete removes key. True only when a key was actually removed.
func (c *Client) Delete(ctx context.Context, key string) bool {
	if !c.ready() {
		return false
	}
	qctx, cancel := c.opCtx(ctx)
	defer cancel()
	n, err := c.rdb.Del(qctx, key).Result()
	if err != nil {
		c.log.Error("cache delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	c.log.Debug("cache delete", zap.String("key", key), zap.Bool("removed", n > 0))
	return n > 0
}

// FlushAll clears the configured logical database.
func (c *Client) FlushAll(ctx context.Context) bool {
	if !c.ready() {
		return false
	}
	qctx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.rdb.FlushDB(qctx).Err(); err != nil {
		c.log.Error("cache flush failed", zap.Error(err))
		return false
	}
	c.log.Info("cache flushed")
	return true
}

func marshalValue(val any) ([]byte, error) {
	data, err := json.Marshal(val)
	if err == nil {
		return data, nil
	}
	// Fall back to the string form for values JSON cannot express.
	return json.Marshal(fmt.Sprint(val))
}
