// Package domain holds the curator's probe types and ports
package domain

import "time"

// ProbeSummary is the accounting for one upkeep pass over the catalog
type ProbeSummary struct {
	StartedAt time.Time

	Probed    int // identities actually checked upstream
	Refreshed int // live records whose collected fields changed
	Unchanged int // 304 responses; existence confirmed, nothing to write
	NotFound  int // newly flagged not_found
	Denied    int // newly flagged access_denied
	Skipped   int // already-flagged records left alone

	// Halted is set when quota exhaustion stopped the pass early; probes
	// are cheap to redo under stored validators, so no resume point is kept
	Halted bool

	Errors []string
}
