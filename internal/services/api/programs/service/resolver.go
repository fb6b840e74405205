package service

import (
	"context"
	"fmt"
	"time"

	"progdex/internal/adapters/snapshot"
	"progdex/internal/core/catalog"
	"progdex/internal/modkit/repokit"
	"progdex/internal/platform/logger"
	"progdex/internal/services/api/programs/repo"
)

// DBTimeout bounds the relational read so a wedged pool cannot stall the
// read path past its fallback
const DBTimeout = 5 * time.Second

// Resolver loads the catalog through a fallback ladder: fresh cache, then
// the relational mirror, then the bundled snapshot. LoadCatalog never
// returns an error; only an unreadable bundled snapshot can fail, and that
// fails here at construction
type Resolver struct {
	db        repokit.TxRunner
	binder    repokit.Binder[repo.Repo]
	cache     *Cache
	seed      catalog.Snapshot
	dbTimeout time.Duration
}

// NewResolver constructs a resolver. db may be nil (static hosting, tests);
// every read then serves the bundled snapshot through the cache
func NewResolver(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cache *Cache) *Resolver {
	if cache == nil {
		panic("programs.Resolver requires a non nil Cache")
	}
	seed, err := snapshot.Seed()
	if err != nil {
		// a build whose bundled snapshot is unreadable must not boot
		panic(fmt.Sprintf("programs: bundled snapshot unreadable: %v", err))
	}
	if db != nil && binder == nil {
		binder = repo.NewPG()
	}
	return &Resolver{
		db:        db,
		binder:    binder,
		cache:     cache,
		seed:      seed,
		dbTimeout: DBTimeout,
	}
}

// LoadCatalog returns the freshest snapshot it can get without failing
func (r *Resolver) LoadCatalog(ctx context.Context) catalog.Snapshot {
	if s, ok := r.cache.Get(); ok {
		return s
	}

	if r.db == nil {
		r.cache.Put(r.seed)
		return r.seed
	}

	dbCtx, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	q := r.binder.Bind(r.db)
	recs, err := q.All(dbCtx)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("programs: mirror read failed, serving bundled snapshot")
		r.cache.Put(r.seed)
		return r.seed
	}
	if len(recs) == 0 {
		logger.C(ctx).Warn().Msg("programs: mirror is empty, serving bundled snapshot")
		r.cache.Put(r.seed)
		return r.seed
	}

	at, err := q.LastSyncedAt(dbCtx)
	if err != nil || at.IsZero() {
		at = time.Now().UTC()
	}

	s := catalog.NewSnapshot(at, nil, recs)
	r.cache.Put(s)
	return s
}

// Invalidate drops the cached snapshot so the next read resolves fresh
func (r *Resolver) Invalidate() { r.cache.Reset() }

// WatchSnapshot starts a background watcher that invalidates the cache
// whenever a collection run rewrites the snapshot file on this host. It
// returns once the watcher is running; the watcher stops when ctx ends
func (r *Resolver) WatchSnapshot(ctx context.Context, path string) error {
	return snapshot.Watch(ctx, path, func() {
		logger.Named("programs").Info().Str("path", path).Msg("snapshot rewritten, cache invalidated")
		r.Invalidate()
	})
}
