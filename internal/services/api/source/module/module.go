// Package module wires the source browser into the API using modkit
package module

import (
	"net/http"

	"progdex/internal/adapters/cachekit"
	"progdex/internal/adapters/registry"
	modkit "progdex/internal/modkit"
	"progdex/internal/modkit/httpkit"
	str "progdex/internal/platform/strings"
	sourcehttp "progdex/internal/services/api/source/http"
	sourcesvc "progdex/internal/services/api/source/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc sourcesvc.Service
}

// New constructs a source module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("source"), modkit.WithPrefix("/source")}, opts...)...)
	o := FromConfig(deps.Cfg)

	cache := openCache(deps, o)
	gh := registry.NewClient(registry.FromConfig(deps.Cfg))
	svc := sourcesvc.New(gh, cache, o.CacheTTL)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Source: svc, Cache: cache}

	external := b.Register
	m.register = func(r httpkit.Router) {
		sourcehttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// openCache picks the configured backend, degrading to in-process memory
// when the pick cannot be honored. The API must come up either way
func openCache(deps modkit.Deps, o Options) cachekit.Cache {
	switch o.CacheBackend {
	case "redis":
		if deps.KV != nil {
			return cachekit.NewKV(deps.KV, "source:")
		}
		deps.Log.Warn().Msg("source: redis cache requested without a kv store, using memory")
	case "bolt":
		c, err := cachekit.NewBolt(o.BoltPath)
		if err == nil {
			return c
		}
		deps.Log.Warn().Err(err).Str("path", o.BoltPath).Msg("source: bolt cache unavailable, using memory")
	}
	return cachekit.NewMemory()
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
