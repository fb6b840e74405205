// Package store opens the optional storage backends and narrows them to
// the seams the repos program against. Both backends can stay disabled;
// callers fall back per their own policy (the read API serves its bundled
// snapshot, workers refuse to start)
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"progdex/internal/platform/logger"
	"progdex/internal/platform/store/pg"
)

// Store is the facade over the optional backends
// the zero value is safe and reports every seam as absent
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// PG is the postgres seam backing the catalog mirror, nil when disabled
	PG TxRunner

	// KV is the redis seam backing source caching, nil when disabled
	KV KV
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// KV is a tiny seam for keyed byte storage with expiry
// Get reports found=false for a missing key rather than an error
type KV interface {
	Get(ctx context.Context, key string) (val []byte, found bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the enabled backends; anything not enabled
// in cfg stays nil
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		pgClient, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pgClient
	}

	if cfg.RDS.Enabled {
		kvClient, err := openRD(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.KV = kvClient
	}

	return s, nil
}

// Guard pings every seam the Store holds and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if s.PG != nil {
		if p, ok := any(s.PG).(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("pg: %w", err))
			}
		}
	}
	if s.KV != nil {
		if err := s.KV.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kv: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PGClient returns the raw pg client when postgres is open, else nil
// migration runs and schema version checks need the pool, not the seam
func (s *Store) PGClient() *pg.PG {
	if s == nil {
		return nil
	}
	if c, ok := any(s.PG).(interface{ Client() *pg.PG }); ok {
		return c.Client()
	}
	return nil
}

// Close closes all initialized backends gracefully
// nil backends are ignored
func (s *Store) Close(ctx context.Context) error {
	var errs []error

	if s.KV != nil {
		if e := s.KV.Close(); e != nil {
			errs = append(errs, e)
		}
	}

	if c, ok := s.PG.(interface{ Close() error }); ok {
		if e := c.Close(); e != nil {
			errs = append(errs, e)
		}
	}

	return errors.Join(errs...)
}
