package module

import (
	"time"

	"progdex/internal/platform/config"
)

// Options holds configuration for the programs module
type Options struct {
	// CacheTTL is the snapshot freshness window for the read path
	CacheTTL time.Duration

	// SnapshotPath, when set, points at the catalog document on this host.
	// Scout rewrites are watched to invalidate the cache, and operator
	// removals update the document alongside the mirror
	SnapshotPath string

	// AdminToken guards the operator removal endpoint; empty keeps it closed
	AdminToken string

	// Static forces the bundled snapshot and skips the relational mirror
	Static bool
}

// FromConfig reads the programs options under the CORE_PROGRAMS_ prefix
func FromConfig(cfg config.Conf) Options {
	pr := cfg.Prefix("CORE_PROGRAMS_")
	return Options{
		CacheTTL:     pr.MayDuration("CACHE_TTL", 5*time.Minute),
		SnapshotPath: pr.MayString("SNAPSHOT_PATH", ""),
		AdminToken:   pr.MayString("ADMIN_TOKEN", ""),
		Static:       pr.MayBool("STATIC", false),
	}
}
