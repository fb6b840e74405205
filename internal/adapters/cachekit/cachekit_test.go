package cachekit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"progdex/internal/platform/store/rd"
)

func TestKeyComposite(t *testing.T) {
	got := Key("Solana-Labs", "Solana-Program-Library", "code")
	want := "solana-labs/solana-program-library/code"
	if got != want {
		t.Fatalf("key = %q want %q", got, want)
	}
}

// exercises every backend through the shared Cache contract
func backends(t *testing.T) map[string]Cache {
	t.Helper()

	srv := miniredis.RunT(t)
	r, err := rd.Open(context.Background(), rd.Config{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("redis open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	b, err := NewBolt(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("bolt open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	return map[string]Cache{
		"kv":     NewKV(r, "cache:"),
		"bolt":   b,
		"memory": NewMemory(),
	}
}

func TestRoundTripAllBackends(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := Key("owner", "repo", "code")

			if _, found, err := c.Get(ctx, key); err != nil || found {
				t.Fatalf("empty cache: found=%v err=%v", found, err)
			}
			if err := c.Set(ctx, key, []byte("payload"), time.Hour); err != nil {
				t.Fatalf("set: %v", err)
			}
			val, found, err := c.Get(ctx, key)
			if err != nil || !found {
				t.Fatalf("get after set: found=%v err=%v", found, err)
			}
			if string(val) != "payload" {
				t.Fatalf("got %q want payload", val)
			}
			if err := c.Clear(ctx, key); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if _, found, _ := c.Get(ctx, key); found {
				t.Fatal("cleared key still found")
			}
		})
	}
}

func TestClearNoKeysAllBackends(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Clear(context.Background()); err != nil {
				t.Fatalf("clear with no keys: %v", err)
			}
		})
	}
}

func TestKVExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := rd.Open(context.Background(), rd.Config{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("redis open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	c := NewKV(r, "cache:")
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv.FastForward(2 * time.Minute)
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Fatal("expired entry still found")
	}
}

func TestKVPrefixIsolation(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := rd.Open(context.Background(), rd.Config{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("redis open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	ctx := context.Background()
	a := NewKV(r, "a:")
	b := NewKV(r, "b:")

	if err := a.Set(ctx, "k", []byte("va"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found, _ := b.Get(ctx, "k"); found {
		t.Fatal("prefixes not isolated")
	}
	if err := b.Clear(ctx, "k"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if val, found, _ := a.Get(ctx, "k"); !found || string(val) != "va" {
		t.Fatalf("clear under another prefix touched entry: found=%v val=%q", found, val)
	}
}
