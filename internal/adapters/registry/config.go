package registry

import "progdex/internal/platform/config"

// FromConfig reads client options under the CORE_REGISTRY_ prefix.
// Zero values fall back to the client defaults
func FromConfig(cfg config.Conf) Options {
	rg := cfg.Prefix("CORE_REGISTRY_")
	return Options{
		BaseURL:        rg.MayString("BASE_URL", ""),
		ArchiveBaseURL: rg.MayString("ARCHIVE_BASE_URL", ""),
		UserAgent:      rg.MayString("USER_AGENT", ""),
		Timeout:        rg.MayDuration("TIMEOUT", 0),
		TokensCSV:      rg.MayString("TOKENS", ""),
		MaxRetries:     rg.MayInt("RETRIES", 0),
		RetryBase:      rg.MayDuration("RETRY_BASE", 0),
	}
}
