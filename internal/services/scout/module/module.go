// Package module provides the collector module implementation
package module

import (
	"progdex/internal/adapters/registry"
	"progdex/internal/modkit"
	"progdex/internal/modkit/repokit"

	"progdex/internal/services/scout/domain"
	"progdex/internal/services/scout/repo"
	"progdex/internal/services/scout/service"
)

// Ports defines the scout module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the scout module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the scout module
// It wires the registry client and the relational binder using config
// from deps.Cfg. It does not mount any routes.
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	gh := registry.NewClient(registry.FromConfig(deps.Cfg))

	svc := service.New(
		repokit.TxRunner(deps.PG), binder, gh,
		service.Config{
			PerPage:        opts.PerPage,
			MaxHits:        opts.MaxHits,
			SearchInterval: opts.SearchInterval,
			SnapshotPath:   opts.SnapshotPath,
			LogPath:        opts.LogPath,
			Queries:        opts.Queries,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "scout" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as scout has no routes
func (m *Module) MountRoutes(_ interface{}) {}
