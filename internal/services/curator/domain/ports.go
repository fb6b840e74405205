package domain

import (
	"context"
	"time"

	"progdex/internal/adapters/registry"
	"progdex/internal/core/catalog"
)

// ProbePort is the slice of the hosting API the curator drives: one
// conditional metadata fetch per cataloged identity
type ProbePort interface {
	RepoByFullName(ctx context.Context, owner, name, etag string) (registry.Repo, string, bool, error)
}

// StorageRepo is the relational surface bound per transaction
type StorageRepo interface {
	// LoadValidators returns the stored ETag per identity key so probes
	// can ride 304s instead of full responses
	LoadValidators(ctx context.Context) (map[string]string, error)

	// RefreshProgram rewrites a live record's collected fields plus its
	// validator and probe timestamp
	RefreshProgram(ctx context.Context, rec catalog.ProgramRecord, etag string, at time.Time) error

	// TouchProgram confirms existence without changing collected fields
	TouchProgram(ctx context.Context, key string, at time.Time) error

	// FlagProgram marks a removal candidate; reason is one of the
	// catalog.Flag* constants
	FlagProgram(ctx context.Context, key, reason string, at time.Time) error

	// DeleteProgram drops the mirror row during an operator removal
	DeleteProgram(ctx context.Context, key string) error
}

// RunnerPort is the curator's operator surface
type RunnerPort interface {
	Probe(ctx context.Context) (ProbeSummary, error)
	ListFlagged(ctx context.Context) ([]catalog.ProgramRecord, error)
	Remove(ctx context.Context, fullName string) error
}
