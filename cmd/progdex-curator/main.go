package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"progdex/internal/modkit"
	"progdex/internal/modkit/module"
	"progdex/internal/modkit/repokit"
	"progdex/internal/platform/config"
	"progdex/internal/platform/logger"
	"progdex/internal/platform/store"

	curatormod "progdex/internal/services/curator/module"
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
		fListFlagged = flag.Bool("list-flagged", false, "print removal candidates and exit")
		fRemove      = flag.String("remove", "", "remove one owner/name from catalog and mirror, then exit")
		fSnapshot    = flag.String("snapshot", "", "catalog document path (overrides CORE_CURATOR_SNAPSHOT_PATH)")
		fInterval    = flag.String("interval", "", "pacing floor between probes, e.g. 1s")
		fMaxProbes   = flag.Int("max-probes", 0, "probe ceiling per pass (0 = all records)")
	)
	flag.Parse()

	// Validate flag combos
	if *fListFlagged && *fRemove != "" {
		l.Panic().Msg("--list-flagged and --remove are mutually exclusive")
	}

	// Surface opts to the module, which reads CORE_CURATOR_*
	mustSetEnv("CORE_CURATOR_SNAPSHOT_PATH", *fSnapshot)
	mustSetEnv("CORE_CURATOR_INTERVAL", *fInterval)
	if *fMaxProbes > 0 {
		mustSetEnv("CORE_CURATOR_MAX_PROBES", strconv.Itoa(*fMaxProbes))
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

	cu := curatormod.New(deps)
	module.Register(cu.Name(), cu.Ports())

	ports := cu.Ports().(curatormod.Ports)
	ctx := context.Background()

	switch {
	case *fRemove != "":
		if err := ports.Runner.Remove(ctx, *fRemove); err != nil {
			l.Fatal().Err(err).Str("repo", *fRemove).Msg("removal failed")
		}

	case *fListFlagged:
		recs, err := ports.Runner.ListFlagged(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("listing removal candidates failed")
		}
		if len(recs) == 0 {
			fmt.Println("no removal candidates")
			return
		}
		for _, r := range recs {
			at := ""
			if r.FlaggedAt != nil {
				at = r.FlaggedAt.UTC().Format(time.RFC3339)
			}
			fmt.Printf("%s\t%s\t%s\n", r.FullName, r.FlagReason, at)
		}

	default:
		if _, err := ports.Runner.Probe(ctx); err != nil {
			l.Fatal().Err(err).Msg("probe pass failed")
		}
	}
}
