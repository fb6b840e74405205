package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
)

func TestOpenRedisOnly(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Open(ctx, Config{RDS: RedisConfig{Enabled: true, Addr: srv.Addr()}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.KV == nil {
		t.Fatal("KV seam not initialized")
	}
	if s.PG != nil {
		t.Fatalf("PG seam should stay nil when disabled, got %T", s.PG)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenNothingEnabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(ctx, Config{}, WithLogger(zerolog.Logger{}))
	if err != nil {
		t.Fatalf("Open with no backends: %v", err)
	}
	if s.PG != nil || s.KV != nil {
		t.Fatal("disabled backends must stay nil")
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close on empty store: %v", err)
	}
}

func TestOpenBadPGURL(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{
		PG: PGConfig{Enabled: true, URL: "://bad", MaxConns: 1},
	})
	if err == nil {
		t.Fatalf("expected error for unparseable PG URL, got %#v", s)
	}
	if s != nil {
		t.Fatal("failed Open must not hand back a store")
	}
}

func TestOpenStopsAtFirstFailingBackend(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	s, err := Open(context.Background(), Config{
		PG:  PGConfig{Enabled: true, URL: "://bad"},
		RDS: RedisConfig{Enabled: true, Addr: srv.Addr()},
	})
	if err == nil || s != nil {
		t.Fatalf("PG failure must abort Open before redis: s=%#v err=%v", s, err)
	}
}

func TestOpenOptionErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad option")
	s, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) || s != nil {
		t.Fatalf("option failure must abort Open: s=%#v err=%v", s, err)
	}
}
