package feishu

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"
)

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryCache().(*memoryCache)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected empty cache")
	}

	if err := m.Set(ctx, "k", "tok", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if tok, ok, _ := m.Get(ctx, "k"); !ok || tok != "tok" {
		t.Errorf("expected cached token, got %q %v", tok, ok)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expected token to expire")
	}

	_ = m.Set(ctx, "k", "tok", time.Minute)
	_ = m.Delete(ctx, "k")
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expected token to be deleted")
	}
}

// recordingCache captures the TTL the client asks for.
type recordingCache struct {
	key string
	ttl time.Duration
}

func (r *recordingCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("unavailable")
}

func (r *recordingCache) Set(_ context.Context, key, _ string, ttl time.Duration) error {
	r.key, r.ttl = key, ttl
	return nil
}

func (r *recordingCache) Delete(context.Context, string) error { return nil }

func TestTenantToken_TTL(t *testing.T) {
	tests := []struct {
		expire int
		want   time.Duration
	}{
		{7200, 7200*time.Second - 5*time.Minute},
		{120, 60 * time.Second},
	}

	for _, tc := range tests {
		f, srv := newFakeAPI(t)
		f.tokenExpire = tc.expire
		f.handle(http.MethodGet, "/open-apis/docx/v1/documents/doc1", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, ok(map[string]any{"document": map[string]any{"document_id": "doc1"}}))
		})

		cache := &recordingCache{}
		c := newTestClient(t, srv)
		c.cache = cache

		// A failing cache read falls through to a fetch.
		if _, err := c.GetDocument(context.Background(), "doc1"); err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if cache.key != "tenant_token:cli_test" {
			t.Errorf("unexpected cache key %q", cache.key)
		}
		if cache.ttl != tc.want {
			t.Errorf("expire %d: expected ttl %s, got %s", tc.expire, tc.want, cache.ttl)
		}
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LARKDOCX_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LARKDOCX_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	r, err := NewRedisCache(ctx, RedisConfig{Addr: addr, KeyPrefix: "larkdocx-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer r.Close()

	if err := r.Set(ctx, "k", "tok", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if tok, ok, err := r.Get(ctx, "k"); err != nil || !ok || tok != "tok" {
		t.Errorf("Get: %q %v %v", tok, ok, err)
	}
	if err := r.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := r.Get(ctx, "k"); err != nil || ok {
		t.Errorf("expected miss after delete, got %v %v", ok, err)
	}
}

func TestNewRedisCache_MissingAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{}); err == nil {
		t.Error("expected error for empty address")
	}
}
