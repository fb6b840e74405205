// Package repo provides postgres access for curator writes
package repo

import (
	"context"
	"fmt"
	"time"

	"progdex/internal/core/catalog"
	"progdex/internal/modkit/repokit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/services/curator/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// LoadValidators reads every stored ETag keyed by identity. Rows that never
// carried a validator map to the empty string, which the probe sends as-is
func (r *queries) LoadValidators(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT full_name_key, etag FROM programs`)
	if err != nil {
		return nil, perr.FromPostgres(err, "load validators")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, etag string
		if err := rows.Scan(&key, &etag); err != nil {
			return nil, err
		}
		out[key] = etag
	}
	return out, rows.Err()
}

// RefreshProgram rewrites a live record's collected fields, the validator the
// response carried, and the probe timestamp. Curated columns stay untouched
func (r *queries) RefreshProgram(ctx context.Context, rec catalog.ProgramRecord, etag string, at time.Time) error {
	desc := ""
	if rec.Description != nil {
		desc = *rec.Description
	}
	_, err := r.q.Exec(ctx, `
		UPDATE programs SET
			full_name      = $2,
			owner          = $3,
			name           = $4,
			url            = $5,
			description    = $6,
			stars          = $7,
			language       = $8,
			topics         = $9,
			updated_at     = $10,
			default_branch = $11,
			category       = $12,
			sub_category   = $13,
			etag           = $14,
			checked_at     = $15,
			last_seen_at   = $15
		WHERE full_name_key = $1
	`, rec.Key(), rec.FullName, rec.Owner, rec.Name, rec.URL, desc,
		rec.Stars, rec.Language, rec.Topics, rec.Updated, rec.DefaultBranch,
		string(rec.Category), rec.SubCategory, etag, at)
	if err != nil {
		return perr.FromPostgresWithField(err, fmt.Sprintf("refresh program %s", rec.FullName))
	}
	return nil
}

// TouchProgram records that a 304 confirmed the identity still exists
func (r *queries) TouchProgram(ctx context.Context, key string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE programs SET checked_at = $2, last_seen_at = $2
		WHERE full_name_key = $1
	`, key, at)
	return perr.FromPostgres(err, "touch program")
}

// FlagProgram marks a removal candidate. The flag survives later collection
// refreshes until an operator removes the record or clears it by hand
func (r *queries) FlagProgram(ctx context.Context, key, reason string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE programs SET flag_reason = $2, flagged_at = $3, checked_at = $3
		WHERE full_name_key = $1
	`, key, reason, at)
	if err != nil {
		return perr.FromPostgresf(err, "flag program %s", key)
	}
	return nil
}

// DeleteProgram drops the mirror row during an operator removal
func (r *queries) DeleteProgram(ctx context.Context, key string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM programs WHERE full_name_key = $1`, key)
	return perr.FromPostgres(err, "delete program")
}
