// Package repo provides postgres access for collector writes
package repo

import (
	"context"
	"errors"
	"fmt"

	"progdex/internal/core/catalog"
	"progdex/internal/modkit/repokit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/platform/store"
	"progdex/internal/services/scout/domain"
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

// UpsertPrograms writes the merged record set into the mirror. Inserts keep
// their first_seen_at default; updates refresh every projected column and
// touch last_seen_at
func (r *queries) UpsertPrograms(ctx context.Context, recs []catalog.ProgramRecord) error {
	const upsertSQL = `
		INSERT INTO programs (
			full_name_key, full_name, owner, name, url, description, stars,
			language, topics, updated_at, default_branch, category,
			sub_category, notes, flag_reason, flagged_at, last_seen_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
		ON CONFLICT (full_name_key) DO UPDATE SET
			full_name      = excluded.full_name,
			owner          = excluded.owner,
			name           = excluded.name,
			url            = excluded.url,
			description    = excluded.description,
			stars          = excluded.stars,
			language       = excluded.language,
			topics         = excluded.topics,
			updated_at     = excluded.updated_at,
			default_branch = excluded.default_branch,
			category       = excluded.category,
			sub_category   = excluded.sub_category,
			notes          = excluded.notes,
			flag_reason    = excluded.flag_reason,
			flagged_at     = excluded.flagged_at,
			last_seen_at   = now()
	`

	for _, rec := range recs {
		desc := ""
		if rec.Description != nil {
			desc = *rec.Description
		}
		err := store.ExecOne(ctx, r.q, upsertSQL,
			rec.Key(), rec.FullName, rec.Owner, rec.Name, rec.URL, desc,
			rec.Stars, rec.Language, rec.Topics, rec.Updated,
			rec.DefaultBranch, string(rec.Category), rec.SubCategory,
			rec.Notes, rec.FlagReason, rec.FlaggedAt,
		)
		if err != nil {
			return perr.FromPostgresWithField(err, fmt.Sprintf("upsert program %s", rec.FullName))
		}
	}
	return nil
}

// LoadCheckpoint reads the resume point, if one survived a halted run
func (r *queries) LoadCheckpoint(ctx context.Context, id string) (domain.Checkpoint, bool, error) {
	cp, err := store.One(ctx, r.q, func(row store.Row) (domain.Checkpoint, error) {
		c := domain.Checkpoint{ID: id}
		err := row.Scan(&c.TemplateIndex, &c.Page, &c.UpdatedAt)
		return c, err
	}, `
		SELECT template_index, page, updated_at
		FROM scout_checkpoints
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Checkpoint{}, false, nil
		}
		return domain.Checkpoint{}, false, perr.FromPostgres(err, "load checkpoint")
	}
	return cp, true, nil
}

// SaveCheckpoint records where a quota halt stopped the rotation
func (r *queries) SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error {
	return perr.FromPostgres(store.ExecOne(ctx, r.q, `
		INSERT INTO scout_checkpoints (id, template_index, page, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			template_index = excluded.template_index,
			page           = excluded.page,
			updated_at     = now()
	`, cp.ID, cp.TemplateIndex, cp.Page), "save checkpoint")
}

// ClearCheckpoint drops the resume point after a completed rotation
func (r *queries) ClearCheckpoint(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM scout_checkpoints WHERE id = $1`, id)
	return perr.FromPostgres(err, "clear checkpoint")
}
