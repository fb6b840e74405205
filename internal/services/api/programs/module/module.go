// Package module wires the programs catalog into the API using modkit
package module

import (
	"net/http"

	"progdex/internal/adapters/registry"
	modkit "progdex/internal/modkit"
	"progdex/internal/modkit/httpkit"
	str "progdex/internal/platform/strings"
	programshttp "progdex/internal/services/api/programs/http"
	programsrepo "progdex/internal/services/api/programs/repo"
	programssvc "progdex/internal/services/api/programs/service"
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

	svc programssvc.Service
}

// New constructs a programs module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("programs"), modkit.WithPrefix("/programs")}, opts...)...)
	o := FromConfig(deps.Cfg)

	db := deps.PG
	if o.Static {
		db = nil
	}

	cache := programssvc.NewCache(o.CacheTTL)
	binder := programsrepo.NewPG()
	resolver := programssvc.NewResolver(db, binder, cache)
	gh := registry.NewClient(registry.FromConfig(deps.Cfg))
	svc := programssvc.New(resolver, gh, db, binder, o.SnapshotPath)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{
		Programs:     svc,
		Resolver:     resolver,
		Watcher:      resolver,
		SnapshotPath: o.SnapshotPath,
	}

	admin := httpkit.StaticTokenPort(o.AdminToken, "admin")
	external := b.Register
	m.register = func(r httpkit.Router) {
		programshttp.Register(r, m.svc)
		programshttp.RegisterAdmin(r, admin, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
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
