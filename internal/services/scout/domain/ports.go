package domain

import (
	"context"

	"progdex/internal/adapters/registry"
	"progdex/internal/core/catalog"
)

// SearchPort is the slice of the hosting API the collector drives
type SearchPort interface {
	SearchRepos(ctx context.Context, query string, page, perPage int) (registry.SearchResult, error)
}

// StorageRepo is the relational surface bound per transaction
type StorageRepo interface {
	// UpsertPrograms projects the merged record set into the mirror;
	// first-seen timestamps survive, everything else follows the snapshot
	UpsertPrograms(ctx context.Context, recs []catalog.ProgramRecord) error

	LoadCheckpoint(ctx context.Context, id string) (Checkpoint, bool, error)
	SaveCheckpoint(ctx context.Context, cp Checkpoint) error
	ClearCheckpoint(ctx context.Context, id string) error
}

// RunnerPort triggers collection passes
type RunnerPort interface {
	Run(ctx context.Context) (RunSummary, error)
}
