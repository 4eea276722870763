package feishu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const tokenPath = apiPrefix + "/auth/v3/tenant_access_token/internal"

// tokenSafetyMargin is subtracted from the advertised token lifetime.
const tokenSafetyMargin = 5 * time.Minute

// TokenCache stores tenant access tokens between calls.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type tokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

func (c *Client) tokenKey() string {
	return "tenant_token:" + c.cfg.AppID
}

// tenantToken returns a cached token or fetches a new one.
func (c *Client) tenantToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	key := c.tokenKey()
	if tok, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("Token cache read failed", "error", err.Error())
	} else if ok {
		return tok, nil
	}

	raw, err := c.do(ctx, "tenant_access_token", http.MethodPost, tokenPath, nil,
		tokenRequest{AppID: c.cfg.AppID, AppSecret: c.cfg.AppSecret}, "")
	if err != nil {
		return "", fmt.Errorf("fetch tenant token: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("decode tenant token: %w", err)
	}
	if tr.TenantAccessToken == "" {
		return "", ErrNoToken
	}

	lifetime := time.Duration(tr.Expire) * time.Second
	ttl := lifetime - tokenSafetyMargin
	if ttl <= 0 {
		ttl = lifetime / 2
	}
	if ttl > 0 {
		if err := c.cache.Set(ctx, key, tr.TenantAccessToken, ttl); err != nil {
			c.log.Warn("Token cache write failed", "error", err.Error())
		}
	}
	c.log.Debug("Fetched tenant token", "expire", tr.Expire)

	return tr.TenantAccessToken, nil
}

// --- in-process cache ---

type memoryEntry struct {
	token   string
	expires time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns a cache local to this process.
func NewMemoryCache() TokenCache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.token, true, nil
}

func (m *memoryCache) Set(_ context.Context, key, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{token: token, expires: m.now().Add(ttl)}
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// --- redis cache ---

// RedisConfig configures the shared token cache.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisCache shares tokens between processes through Redis.
type RedisCache struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisCache(rdb, cfg.KeyPrefix), nil
}

func newRedisCache(rdb *goredis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	tok, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return tok, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.prefix+key, token, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

// Close releases the Redis connection pool.
func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
