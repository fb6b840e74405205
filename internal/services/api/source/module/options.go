package module

import (
	"time"

	"progdex/internal/platform/config"
)

// Options holds configuration for the source module
type Options struct {
	// CacheBackend picks the browse cache: redis, bolt or memory
	CacheBackend string

	// BoltPath is the cache file for the bolt backend
	BoltPath string

	// CacheTTL bounds how long browse results and rendered READMEs live
	CacheTTL time.Duration
}

// FromConfig reads the source options under the CORE_SOURCE_ prefix
func FromConfig(cfg config.Conf) Options {
	pr := cfg.Prefix("CORE_SOURCE_")
	return Options{
		CacheBackend: pr.MayString("CACHE_BACKEND", "memory"),
		BoltPath:     pr.MayString("BOLT_PATH", "data/source-cache.db"),
		CacheTTL:     pr.MayDuration("CACHE_TTL", 24*time.Hour),
	}
}
