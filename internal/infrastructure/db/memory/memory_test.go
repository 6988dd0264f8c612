package memory

import (
	"context"
	"testing"
	"time"
)

func TestScope_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New()
	s := b.Scope("browser-1")

	if _, ok, _ := s.GetItem(ctx, "user"); ok {
		t.Fatalf("expected empty scope")
	}
	if err := s.SetItem(ctx, "user", `{"id":"1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.GetItem(ctx, "user")
	if err != nil || !ok || v != `{"id":"1"}` {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}
	if err := s.RemoveItem(ctx, "user"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.GetItem(ctx, "user"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestScope_IsolatedPerBrowser(t *testing.T) {
	ctx := context.Background()
	b := New()

	_ = b.Scope("a").SetItem(ctx, "user", "alice")
	if _, ok, _ := b.Scope("b").GetItem(ctx, "user"); ok {
		t.Fatalf("browser b must not see browser a's entries")
	}
}

func TestScope_RemoveMissingKeyIsNoop(t *testing.T) {
	if err := New().Scope("x").RemoveItem(context.Background(), "nope"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestScope_EntriesExpireAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewWithTTL(time.Hour)
	b.now = func() time.Time { return clock }

	s := b.Scope("browser-1")
	if err := s.SetItem(ctx, "user", "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := b.Scope("browser-2").SetItem(ctx, "user", "bob"); err != nil {
		t.Fatalf("set: %v", err)
	}

	clock = clock.Add(30 * time.Minute)
	if err := b.Scope("browser-2").SetItem(ctx, "user", "bob"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, ok, _ := s.GetItem(ctx, "user"); !ok {
		t.Fatalf("expected entry before ttl")
	}

	clock = clock.Add(31 * time.Minute)
	if _, ok, _ := s.GetItem(ctx, "user"); ok {
		t.Fatalf("expected entry to read as missing after ttl")
	}

	removed, err := b.Sweep(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("expected one swept entry, got %d (%v)", removed, err)
	}
	if v, ok, _ := b.Scope("browser-2").GetItem(ctx, "user"); !ok || v != "bob" {
		t.Fatalf("expected refreshed entry to survive, got %q %v", v, ok)
	}
}

func TestSweep_NoTTLKeepsEverything(t *testing.T) {
	ctx := context.Background()
	b := New()
	_ = b.Scope("a").SetItem(ctx, "user", "alice")

	removed, err := b.Sweep(ctx)
	if err != nil || removed != 0 {
		t.Fatalf("expected nothing swept, got %d (%v)", removed, err)
	}
}
