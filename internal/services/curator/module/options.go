package module

import (
	"time"

	"progdex/internal/platform/config"
)

// Options holds configuration for the curator
type Options struct {
	ProbeInterval time.Duration
	MaxProbes     int

	SnapshotPath string
}

// FromConfig reads the curator options under the CORE_CURATOR_ prefix
func FromConfig(cfg config.Conf) Options {
	cu := cfg.Prefix("CORE_CURATOR_")
	return Options{
		ProbeInterval: cu.MayDuration("INTERVAL", time.Second),
		MaxProbes:     cu.MayInt("MAX_PROBES", 0),
		SnapshotPath:  cu.MayString("SNAPSHOT_PATH", "data/catalog.json"),
	}
}
