package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestPages(t *testing.T, ttl time.Duration) (*Pages, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPages(client, ttl), mr
}

func TestPagesRoundtrip(t *testing.T) {
	pages, mr := newTestPages(t, time.Minute)
	ctx := context.Background()

	if err := pages.Set(ctx, "/v1/blogs/read/b1", []byte(`{"status":200}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("page:/v1/blogs/read/b1") {
		t.Fatalf("entry must live under the page: prefix, keys: %v", mr.Keys())
	}

	body, err := pages.Get(ctx, "/v1/blogs/read/b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(body) != `{"status":200}` {
		t.Fatalf("body = %q", body)
	}
}

func TestPagesGetMissIsNotAnError(t *testing.T) {
	pages, _ := newTestPages(t, time.Minute)

	body, err := pages.Get(context.Background(), "/never-set")
	if err != nil {
		t.Fatalf("miss must not error: %v", err)
	}
	if body != nil {
		t.Fatalf("miss must return nil body, got %q", body)
	}
}

func TestPagesSetAppliesTTL(t *testing.T) {
	pages, mr := newTestPages(t, time.Minute)

	if err := pages.Set(context.Background(), "/", []byte("home")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("page:/"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want %v", ttl, time.Minute)
	}
}

func TestPagesInvalidate(t *testing.T) {
	pages, mr := newTestPages(t, time.Minute)
	ctx := context.Background()

	if err := pages.Set(ctx, "/", []byte("home")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := pages.Invalidate(ctx, "/"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("page:/") {
		t.Fatal("entry must be gone after invalidation")
	}

	// 键不存在时也算成功。
	if err := pages.Invalidate(ctx, "/"); err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
}
