package module

import (
	"time"

	"progdex/internal/platform/config"
)

// Options holds configuration for the collector
type Options struct {
	PerPage        int
	MaxHits        int
	SearchInterval time.Duration

	SnapshotPath string
	LogPath      string

	// Queries overrides the built-in template rotation
	Queries []string
}

// FromConfig reads the collector options under the CORE_SCOUT_ prefix
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_SCOUT_")
	return Options{
		PerPage:        sc.MayInt("PER_PAGE", 100),
		MaxHits:        sc.MayInt("MAX_HITS", 0),
		SearchInterval: sc.MayDuration("INTERVAL", 2*time.Second),
		SnapshotPath:   sc.MayString("SNAPSHOT_PATH", "data/catalog.json"),
		LogPath:        sc.MayString("LOG_PATH", "data/discovery-log.json"),
		Queries:        sc.MayCSV("QUERIES", nil),
	}
}
