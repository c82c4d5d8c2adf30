package memory

import (
	"context"
	"testing"
	"time"
)

func newFrozenStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	s := NewStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSetGetDelete(t *testing.T) {
	s, _ := newFrozenStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, found, err := s.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if value != "v" {
		t.Errorf("value = %q", value)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Error("key should be gone")
	}
}

func TestExpiry(t *testing.T) {
	s, now := newFrozenStore(t)
	ctx := context.Background()

	s.Set(ctx, "otp", "123456", 5*time.Minute)

	*now = now.Add(4 * time.Minute)
	if _, found, _ := s.Get(ctx, "otp"); !found {
		t.Fatal("key expired too early")
	}

	*now = now.Add(2 * time.Minute)
	if _, found, _ := s.Get(ctx, "otp"); found {
		t.Fatal("key should have expired")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s, now := newFrozenStore(t)
	ctx := context.Background()

	s.Set(ctx, "k", "v", 0)
	*now = now.Add(24 * time.Hour)

	if _, found, _ := s.Get(ctx, "k"); !found {
		t.Error("keys without TTL must not expire")
	}

	ttl, err := s.TTL(ctx, "k")
	if err != nil || ttl != 0 {
		t.Errorf("TTL = %v, %v; want 0 for keys without expiry", ttl, err)
	}
}

func TestIncr(t *testing.T) {
	s, now := newFrozenStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "attempts", time.Minute)
		if err != nil {
			t.Fatalf("Incr: %v", err)
		}
		if got != want {
			t.Errorf("Incr = %d, want %d", got, want)
		}
	}

	// The TTL set on creation survives later increments, so the
	// counter resets after the window.
	*now = now.Add(2 * time.Minute)
	got, err := s.Incr(ctx, "attempts", time.Minute)
	if err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if got != 1 {
		t.Errorf("Incr after expiry = %d, want 1", got)
	}
}

func TestTTLReportsRemaining(t *testing.T) {
	s, now := newFrozenStore(t)
	ctx := context.Background()

	s.Set(ctx, "session", "token", 10*time.Minute)
	*now = now.Add(3 * time.Minute)

	ttl, err := s.TTL(ctx, "session")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl != 7*time.Minute {
		t.Errorf("TTL = %v, want 7m", ttl)
	}

	if ttl, _ := s.TTL(ctx, "missing"); ttl != 0 {
		t.Errorf("TTL of a missing key = %v, want 0", ttl)
	}
}
