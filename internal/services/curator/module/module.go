// Package module provides the curator module implementation
package module

import (
	"progdex/internal/adapters/registry"
	"progdex/internal/modkit"
	"progdex/internal/modkit/repokit"

	"progdex/internal/services/curator/domain"
	"progdex/internal/services/curator/repo"
	"progdex/internal/services/curator/service"
)

// Ports defines the curator module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the curator module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the curator module
// It wires the registry client and the relational binder using config
// from deps.Cfg. It does not mount any routes.
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	gh := registry.NewClient(registry.FromConfig(deps.Cfg))

	svc := service.New(
		repokit.TxRunner(deps.PG), binder, gh,
		service.Config{
			ProbeInterval: opts.ProbeInterval,
			MaxProbes:     opts.MaxProbes,
			SnapshotPath:  opts.SnapshotPath,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "curator" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as curator has no routes
func (m *Module) MountRoutes(_ interface{}) {}
