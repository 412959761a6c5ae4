package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewRedisCache(client, "starbite"), mr
}

type payload struct {
	Name  string
	Count int
}

func TestSetGetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "feed", payload{Name: "home", Count: 5}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("starbite:feed") {
		t.Fatal("expected prefixed key in redis")
	}

	var got payload
	if err := c.Get(ctx, "feed", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "home" || got.Count != 5 {
		t.Fatalf("Get = %+v", got)
	}

	if err := c.Delete(ctx, "feed"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Get(ctx, "feed", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get after delete = %v, want ErrCacheMiss", err)
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "feed", payload{Name: "x"}, 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var got payload
	if err := c.Get(ctx, "feed", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get after ttl = %v, want ErrCacheMiss", err)
	}
}

func TestGetReportsCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	if err := mr.Set("starbite:feed", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var got payload
	err := c.Get(context.Background(), "feed", &got)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get = %v, want decode error", err)
	}
}

func TestVersionCounter(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	v, err := c.Version(ctx, "gen")
	if err != nil || v != 0 {
		t.Fatalf("Version on empty key = %d, %v", v, err)
	}
	for want := int64(1); want <= 2; want++ {
		got, err := c.Bump(ctx, "gen")
		if err != nil || got != want {
			t.Fatalf("Bump = %d, %v, want %d", got, err, want)
		}
	}
	if v, err := c.Version(ctx, "gen"); err != nil || v != 2 {
		t.Fatalf("Version = %d, %v, want 2", v, err)
	}
	if got, _ := mr.Get("starbite:gen"); got != "2" {
		t.Fatalf("raw counter = %q", got)
	}
}
