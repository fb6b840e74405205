package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"progdex/internal/modkit"
	"progdex/internal/modkit/module"
	"progdex/internal/modkit/repokit"
	"progdex/internal/platform/config"
	"progdex/internal/platform/logger"
	"progdex/internal/platform/store"

	scoutmod "progdex/internal/services/scout/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),

			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 0),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	var (
		fSnapshot = flag.String("snapshot", "", "catalog document path (overrides CORE_SCOUT_SNAPSHOT_PATH)")
		fLog      = flag.String("log", "", "discovery log path (overrides CORE_SCOUT_LOG_PATH)")
		fInterval = flag.String("interval", "", "pacing floor between search calls, e.g. 2s")
		fMaxHits  = flag.Int("max-hits", 0, "per-template harvest ceiling (0 = API search cap)")
		fQueries  = flag.String("queries", "", "comma separated search template override")
	)
	flag.Parse()

	// Surface opts to the module, which reads CORE_SCOUT_*
	mustSetEnv("CORE_SCOUT_SNAPSHOT_PATH", *fSnapshot)
	mustSetEnv("CORE_SCOUT_LOG_PATH", *fLog)
	mustSetEnv("CORE_SCOUT_INTERVAL", *fInterval)
	mustSetEnv("CORE_SCOUT_QUERIES", *fQueries)
	if *fMaxHits > 0 {
		mustSetEnv("CORE_SCOUT_MAX_HITS", strconv.Itoa(*fMaxHits))
	}

	// writers own the schema; the API only ever verifies it
	client := st.PGClient()
	if client == nil {
		l.Panic().Msg("postgres client unavailable")
	}
	if err := client.MigrateUp(); err != nil {
		l.Panic().Err(err).Msg("migrations failed")
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	sc := scoutmod.New(deps)
	module.Register(sc.Name(), sc.Ports())

	ports := sc.Ports().(scoutmod.Ports)
	if _, err := ports.Runner.Run(context.Background()); err != nil {
		// a quota halt lands here too; the checkpoint row carries the
		// resume point for the next invocation
		l.Fatal().Err(err).Msg("collection run failed")
	}
}
