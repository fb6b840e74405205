// Package api provides the HTTP API for the application
package api

import (
	stdctx "context"

	"progdex/internal/platform/config"
	"progdex/internal/platform/logger"
	phttp "progdex/internal/platform/net/http"
	"progdex/internal/platform/store"

	"progdex/internal/modkit"
	"progdex/internal/modkit/httpkit"
	"progdex/internal/modkit/module"
	"progdex/internal/modkit/swaggerkit"

	metamod "progdex/internal/services/api/meta/module"
	programsmod "progdex/internal/services/api/programs/module"
	sourcemod "progdex/internal/services/api/source/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		KV:  opt.Store.KV,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// ready verifies the mirror schema only when a relational store is
	// attached; static deployments skip the check
	var schema func(stdctx.Context) error
	if client := opt.Store.PGClient(); client != nil {
		schema = client.VerifySchema
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Checks{Schema: schema})),
		programsmod.New(deps),
		sourcemod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
