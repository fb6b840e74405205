// Package repo provides postgres access for the programs catalog mirror
package repo

import (
	"context"
	"time"

	"progdex/internal/core/catalog"
	"progdex/internal/modkit/repokit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/platform/store"
)

// Repo defines the read and removal contract over the relational mirror
type Repo interface {
	// All returns every mirrored record ordered by stars descending
	All(ctx context.Context) ([]catalog.ProgramRecord, error)

	// LastSyncedAt reports the newest last_seen_at across the mirror
	LastSyncedAt(ctx context.Context) (time.Time, error)

	// Remove deletes one record by its lowercase identity key
	Remove(ctx context.Context, key string) (bool, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) All(ctx context.Context) ([]catalog.ProgramRecord, error) {
	const sql = `
select full_name, owner, name, url, description, stars, language, topics,
       updated_at, default_branch, category, sub_category, notes, flag_reason, flagged_at
from programs
order by stars desc, full_name_key
`
	recs, err := store.Many(ctx, r.q, scanProgram, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list programs")
	}
	return recs, nil
}

func scanProgram(row store.Row) (catalog.ProgramRecord, error) {
	var (
		rec  catalog.ProgramRecord
		cat  string
		desc string
	)
	if err := row.Scan(
		&rec.FullName,
		&rec.Owner,
		&rec.Name,
		&rec.URL,
		&desc,
		&rec.Stars,
		&rec.Language,
		&rec.Topics,
		&rec.Updated,
		&rec.DefaultBranch,
		&cat,
		&rec.SubCategory,
		&rec.Notes,
		&rec.FlagReason,
		&rec.FlaggedAt,
	); err != nil {
		return catalog.ProgramRecord{}, err
	}
	rec.Category = catalog.Category(cat)
	// the mirror column is NOT NULL, an empty string means the snapshot
	// carried no description
	if desc != "" {
		rec.Description = &desc
	}
	return rec, nil
}

func (r *queries) LastSyncedAt(ctx context.Context) (time.Time, error) {
	at, err := store.Scalar[time.Time](ctx, r.q, `select coalesce(max(last_seen_at), 'epoch'::timestamptz) from programs`)
	if err != nil {
		return time.Time{}, perr.FromPostgres(err, "read mirror sync time")
	}
	return at, nil
}

func (r *queries) Remove(ctx context.Context, key string) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from programs where full_name_key = $1`, key)
	if err != nil {
		return false, perr.FromPostgres(err, "remove program")
	}
	return tag.RowsAffected() > 0, nil
}
