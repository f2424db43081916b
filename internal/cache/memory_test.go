package cache

import (
	"context"
	"testing"
	"time"

	"marketevents/internal/config"
)

func TestMemoryStore_TTL(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.Now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := s.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected expiry")
	}
	if _, ok, _ := s.Get(ctx, "forever"); !ok {
		t.Fatalf("expected non-expiring key to survive")
	}

	_ = s.Delete(ctx, "forever")
	if _, ok, _ := s.Get(ctx, "forever"); ok {
		t.Fatalf("expected delete")
	}
}

func TestMemoryStore_ReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, "k", []byte("abc"), 0)
	v, _, _ := s.Get(ctx, "k")
	v[0] = 'z'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated: %q", again)
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	if _, ok := New(config.CacheConfig{}, nil).(*MemoryStore); !ok {
		t.Fatalf("expected memory store without redis addr")
	}
	if _, ok := New(config.CacheConfig{RedisAddr: "127.0.0.1:6379"}, nil).(*RedisStore); !ok {
		t.Fatalf("expected redis store with addr")
	}
}
