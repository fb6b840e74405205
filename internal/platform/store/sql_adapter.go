package store

import (
	"context"
	"errors"
	"time"

	"progdex/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryTrace reports per-statement timing to the configured tracer. The
// pool adapter and its transaction querier share one instance so statements
// inside Tx are traced exactly like pool-level ones
type queryTrace struct {
	tracer pg.QueryTracer
	slowUS int64
}

func (tr queryTrace) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if tr.tracer == nil {
		return
	}
	elapsed := time.Since(start).Microseconds()
	tr.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed,
		Err:       err,
		Slow:      tr.slowUS >= 0 && elapsed >= tr.slowUS,
	})
}

// pgAdapter narrows the pgx pool to the RowQuerier and TxRunner seams the
// repos program against
type pgAdapter struct {
	p     *pg.PG
	trace queryTrace
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		p:     p,
		trace: queryTrace{tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Client exposes the wrapped pg client; migrations and schema version
// checks need the pool, not the seam
func (a *pgAdapter) Client() *pg.PG { return a.p }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.p.Pool.Exec(ctx, sql, args...)
	a.trace.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.p.Pool.Query(ctx, sql, args...)
	// traced at open; scan time is on the caller
	a.trace.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	// pgx defers errors to Scan, so the trace fires there
	return row{
		r:     r,
		after: func(scanErr error) { a.trace.emit(ctx, sql, args, start, scanErr) },
	}
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(txQuerier{tx: tx, trace: a.trace}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// thin pgx adapters for the seam's Row, Rows and CommandTag

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = string(f[i].Name)
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }

// txQuerier satisfies RowQuerier inside a transaction
type txQuerier struct {
	tx    pgx.Tx
	trace queryTrace
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.tx.Exec(ctx, sql, args...)
	t.trace.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.tx.Query(ctx, sql, args...)
	t.trace.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.tx.QueryRow(ctx, sql, args...)
	return row{
		r:     r,
		after: func(scanErr error) { t.trace.emit(ctx, sql, args, start, scanErr) },
	}
}
