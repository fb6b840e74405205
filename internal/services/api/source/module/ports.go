package module

import (
	"progdex/internal/adapters/cachekit"
	sourcedom "progdex/internal/services/api/source/domain"
)

// Ports defines the source module ports exposed via the registry
type Ports struct {
	Source sourcedom.ServicePort

	// Cache is exposed so shutdown can close file-backed backends
	Cache cachekit.Cache
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
