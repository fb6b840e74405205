// Package domain holds the collector's run types and ports
package domain

import "time"

// CheckpointID is the single logical resume slot collection runs share
const CheckpointID = "scout"

// Checkpoint marks where a quota-halted run stopped so the next one resumes
// mid-rotation instead of starting over
type Checkpoint struct {
	ID            string
	TemplateIndex int
	Page          int
	UpdatedAt     time.Time
}

// RunSummary is the accounting for one collection pass
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Queries   []string

	Pages   int // search pages fetched
	Fetched int // raw hits seen across pages
	Added   int // identities new to the catalog
	Updated int // identities refreshed
	Skipped int // malformed hits rejected

	// Halted is set when quota exhaustion stopped the harvest early;
	// the checkpoint row then carries the resume point
	Halted bool

	Errors []string
}
