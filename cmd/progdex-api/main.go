// @title         Progdex API
// @version       0.1.0
// @description   Read only endpoints for the program catalog and source browser

package main

import (
	"context"

	"progdex/internal/modkit/module"
	"progdex/internal/platform/config"
	"progdex/internal/platform/logger"
	phttp "progdex/internal/platform/net/http"
	"progdex/internal/platform/store"

	"progdex/internal/services/api"
	programsmod "progdex/internal/services/api/programs/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*
	rdCfg := root.Prefix("SERVICE_REDIS_") // rdCfg lives under SERVICE_REDIS_*

	// bring up logging early
	l := logger.Get()

	// both backends are optional: without postgres the API serves the
	// bundled snapshot, without redis source caching falls back per config
	pgURL := pgCfg.MayString("DBURL", "")
	rdAddr := rdCfg.MayString("ADDR", "")

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     pgURL != "",
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),

				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 0),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
			},
			RDS: store.RedisConfig{
				Enabled:  rdAddr != "",
				Addr:     rdAddr,
				Password: rdCfg.MayString("PASSWORD", ""),
				DB:       rdCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API; modules read their own CORE_* prefixes off the root
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	ctx := context.Background()

	// hot-reload the resolver when a collection run rewrites the document;
	// WatchSnapshot returns once its watcher goroutine is running
	if ports, ok := module.PortsAs[programsmod.Ports]("programs"); ok && ports.Watcher != nil && ports.SnapshotPath != "" {
		if err := ports.Watcher.WatchSnapshot(ctx, ports.SnapshotPath); err != nil {
			l.Error().Err(err).Msg("snapshot watch unavailable")
		}
	}

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
