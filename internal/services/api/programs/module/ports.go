package module

import (
	"context"

	programsdom "progdex/internal/services/api/programs/domain"
)

// WatcherPort invalidates the resolver when the snapshot file is rewritten
type WatcherPort interface {
	WatchSnapshot(ctx context.Context, path string) error
}

// Ports defines the programs module ports exposed via the registry
type Ports struct {
	Programs programsdom.ServicePort
	Resolver programsdom.ResolverPort
	Watcher  WatcherPort

	// SnapshotPath is non empty when a snapshot watch is configured
	SnapshotPath string
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
