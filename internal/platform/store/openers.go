package store

import (
	"context"
	"fmt"
	"time"

	"progdex/internal/platform/store/pg"
	"progdex/internal/platform/store/rd"
)

const (
	defaultConnectRetries = 6
	defaultPingTimeout    = 5 * time.Second
	pingBackoffStart      = 150 * time.Millisecond
	pingBackoffCeiling    = 2 * time.Second
)

// openPG opens postgres and wraps the pool with the sql adapter. The pool
// is pinged with retry before it is published so a compose-style boot race
// does not surface as a failed first query
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	// ping the pool directly; boot probes stay out of the SQL trace
	var lastErr error
	backoff := pingBackoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			a := newPGAdapter(p)
			s.PG = a
			return a, nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		backoff = min(backoff*2, pingBackoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

// openRD opens redis; the client satisfies the KV seam directly
func openRD(ctx context.Context, cfg Config, _ *Store) (KV, error) {
	return rd.Open(ctx, rd.Config{
		Addr:     cfg.RDS.Addr,
		Password: cfg.RDS.Password,
		DB:       cfg.RDS.DB,
	})
}
