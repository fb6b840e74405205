// Package service implements the collection run: rotate search templates,
// normalize hits, classify, merge into the catalog, persist everywhere
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"progdex/internal/adapters/registry"
	"progdex/internal/adapters/snapshot"
	"progdex/internal/core/catalog"
	"progdex/internal/core/classify"
	"progdex/internal/modkit/repokit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/platform/logger"
	"progdex/internal/services/scout/domain"
)

// Config holds configuration options for the collector
type Config struct {
	PerPage        int           // hits per search page; <=0 -> 100
	MaxHits        int           // per-template harvest ceiling; <=0 -> registry.SearchCap
	SearchInterval time.Duration // pacing floor between search calls; <=0 -> 2s

	SnapshotPath string // catalog JSON document
	LogPath      string // discovery log document

	// Queries overrides the built-in template rotation when non-empty
	Queries []string
}

// Service implements the collection run
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Search domain.SearchPort
	Cfg    Config

	clf     *classify.Keyword
	limiter *rate.Limiter
	now     func() time.Time
}

// New constructs the collector service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], search domain.SearchPort, cfg Config) *Service {
	if db == nil {
		panic("scout.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("scout.Service requires a non nil Repo binder")
	}
	if search == nil {
		panic("scout.Service requires a search port")
	}
	tables, err := classify.Load()
	if err != nil {
		panic(fmt.Sprintf("scout: classifier rules unreadable: %v", err))
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = "data/catalog.json"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "data/discovery-log.json"
	}
	interval := cfg.SearchInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Service{
		DB: db, Binder: binder, Search: search, Cfg: cfg,
		clf:     classify.New(tables),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     time.Now,
	}
}

// Run implements domain.RunnerPort. A quota halt saves a resume point,
// persists what was harvested, and returns a rate-limit coded error so the
// process exit status reflects the incomplete rotation
func (s *Service) Run(ctx context.Context) (domain.RunSummary, error) {
	queries := s.queries()
	sum := domain.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
		Queries:   queries,
	}

	cp, resuming, err := s.loadCheckpoint(ctx)
	if err != nil {
		return sum, err
	}
	startTemplate, startPage := 0, 1
	if resuming {
		startTemplate, startPage = cp.TemplateIndex, cp.Page
		if startTemplate >= len(queries) || startPage < 1 {
			// the rotation shrank since the halt; start over
			startTemplate, startPage = 0, 1
		}
		logger.C(ctx).Info().
			Int("template", startTemplate).
			Int("page", startPage).
			Time("halted_at", cp.UpdatedAt).
			Msg("scout: resuming from checkpoint")
	}

	collected, next, err := s.harvest(ctx, queries, startTemplate, startPage, &sum)
	if err != nil {
		return sum, err
	}
	if err := s.persistWithRetry(ctx, collected, next, &sum); err != nil {
		return sum, err
	}

	ev := logger.C(ctx).Info()
	if sum.Halted {
		ev = logger.C(ctx).Warn()
	}
	ev.Str("run_id", sum.RunID).
		Int("pages", sum.Pages).
		Int("fetched", sum.Fetched).
		Int("added", sum.Added).
		Int("updated", sum.Updated).
		Int("skipped", sum.Skipped).
		Bool("halted", sum.Halted).
		Msg("scout: run complete")

	if sum.Halted {
		return sum, perr.Newf(perr.ErrorCodeTooManyRequests, "harvest halted by quota; resume point saved")
	}
	return sum, nil
}

// harvest walks the template rotation page by page. It returns the
// normalized records plus a non-nil checkpoint when quota stopped the walk
func (s *Service) harvest(ctx context.Context, queries []string, ti0, p0 int, sum *domain.RunSummary) ([]catalog.ProgramRecord, *domain.Checkpoint, error) {
	var out []catalog.ProgramRecord
	perPage := s.perPage()
	maxPages := (s.maxHits() + perPage - 1) / perPage

	for ti := ti0; ti < len(queries); ti++ {
		page := 1
		if ti == ti0 {
			page = p0
		}
		for ; page <= maxPages; page++ {
			if err := s.limiter.Wait(ctx); err != nil {
				return out, nil, err
			}
			res, err := s.Search.SearchRepos(ctx, queries[ti], page, perPage)
			if err != nil {
				if perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
					sum.Halted = true
					sum.Errors = append(sum.Errors, fmt.Sprintf("quota exhausted at template %d page %d", ti, page))
					return out, &domain.Checkpoint{ID: domain.CheckpointID, TemplateIndex: ti, Page: page}, nil
				}
				return out, nil, err
			}
			sum.Pages++
			sum.Fetched += len(res.Items)
			for _, hit := range res.Items {
				rec, ok := s.normalize(hit)
				if !ok {
					sum.Skipped++
					continue
				}
				out = append(out, rec)
			}
			if len(res.Items) < perPage {
				break // this template is drained
			}
		}
	}
	return out, nil, nil
}

// normalize flattens one search hit into a catalog record. Hits without a
// usable owner/name identity are rejected, the default branch falls back
// to main, and classification happens here so merged records always carry
// a category
func (s *Service) normalize(r registry.Repo) (catalog.ProgramRecord, bool) {
	full := strings.TrimSpace(r.FullName)
	owner := strings.TrimSpace(r.Owner.Login)
	name := strings.TrimSpace(r.Name)
	if full == "" && owner != "" && name != "" {
		full = owner + "/" + name
	}
	if owner == "" || name == "" {
		var ok bool
		if owner, name, ok = catalog.SplitFullName(full); !ok {
			return catalog.ProgramRecord{}, false
		}
	}
	if _, _, ok := catalog.SplitFullName(full); !ok {
		return catalog.ProgramRecord{}, false
	}

	branch := strings.TrimSpace(r.DefaultBranch)
	if branch == "" {
		branch = "main"
	}
	url := r.HTMLURL
	if url == "" {
		url = "https://github.com/" + full
	}
	updated := r.PushedAt
	if r.UpdatedAt.After(updated) {
		updated = r.UpdatedAt
	}

	rec := catalog.ProgramRecord{
		FullName:      full,
		Owner:         owner,
		Name:          name,
		URL:           url,
		Description:   cloneStr(r.Description),
		Stars:         max(r.Stargazers, 0),
		Language:      cloneStr(r.Language),
		Topics:        append([]string(nil), r.Topics...),
		Updated:       updated,
		DefaultBranch: branch,
	}
	desc := ""
	if rec.Description != nil {
		desc = *rec.Description
	}
	rec.Category, rec.SubCategory = s.clf.Classify(name, desc, rec.Topics)
	return rec, true
}

const (
	persistAttempts = 3
	persistBackoff  = 500 * time.Millisecond
)

// persistWithRetry reruns the merge transaction when storage reports
// transient contention (deadlock with the curator, serialization abort).
// Upserts are idempotent and the documents are rewritten from the fresh
// merge each attempt, so a second pass cannot double-apply
func (s *Service) persistWithRetry(ctx context.Context, collected []catalog.ProgramRecord, next *domain.Checkpoint, sum *domain.RunSummary) error {
	skippedBase := sum.Skipped
	var last error
	for attempt := 1; ; attempt++ {
		sum.Skipped = skippedBase
		last = s.persist(ctx, collected, next, sum)
		if last == nil || attempt == persistAttempts || !perr.Retryable(last) {
			return last
		}
		logger.C(ctx).Warn().
			Err(last).
			Int("attempt", attempt).
			Msg("scout: persist hit transient contention; retrying")
		select {
		case <-ctx.Done():
			return last
		case <-time.After(persistBackoff << (attempt - 1)):
		}
	}
}

// persist folds the harvest into the catalog under the cross-process merge
// lock: snapshot read-modify-write, mirror projection and checkpoint
// bookkeeping commit together or not at all
func (s *Service) persist(ctx context.Context, collected []catalog.ProgramRecord, next *domain.Checkpoint, sum *domain.RunSummary) error {
	return repokit.WithBeginHooks(s.DB, mergeLock).Tx(ctx, func(q repokit.Queryer) error {
		existing, err := s.loadSnapshot()
		if err != nil {
			return err
		}

		res := catalog.Merge(existing.Repos, collected)
		sum.Added, sum.Updated = res.Added, res.Updated
		sum.Skipped += len(res.Skipped)

		snap := catalog.NewSnapshot(s.now().UTC(), sum.Queries, res.Records)

		r := s.Binder.Bind(q)
		if err := r.UpsertPrograms(ctx, res.Records); err != nil {
			return err
		}
		if next != nil {
			if err := r.SaveCheckpoint(ctx, *next); err != nil {
				return err
			}
		} else if err := r.ClearCheckpoint(ctx, domain.CheckpointID); err != nil {
			return err
		}

		// files last: a failed document write rolls the row changes back
		if err := snapshot.Save(s.Cfg.SnapshotPath, snap); err != nil {
			return err
		}
		if err := snapshot.SaveLog(s.Cfg.LogPath, catalog.DiscoveryLog{
			RunID:     sum.RunID,
			StartedAt: sum.StartedAt,
			Queries:   sum.Queries,
			Added:     sum.Added,
			Updated:   sum.Updated,
			Skipped:   sum.Skipped,
			Errors:    sum.Errors,
		}); err != nil {
			// visibility only, not worth failing a completed merge
			logger.C(ctx).Warn().Err(err).Msg("scout: discovery log write failed")
		}
		return nil
	})
}

// mergeLock serializes catalog mutations with the curator and the API's
// operator removals
func mergeLock(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", catalog.MergeLockKey)
	return err
}

// loadSnapshot reads the catalog document under the merge lock. An absent
// file starts an empty catalog; a corrupt one aborts the run instead of
// being overwritten
func (s *Service) loadSnapshot() (catalog.Snapshot, error) {
	snap, err := snapshot.Load(s.Cfg.SnapshotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog.Snapshot{}, nil
		}
		return catalog.Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) loadCheckpoint(ctx context.Context) (domain.Checkpoint, bool, error) {
	var cp domain.Checkpoint
	var found bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		c, ok, e := s.Binder.Bind(q).LoadCheckpoint(ctx, domain.CheckpointID)
		if e != nil {
			return e
		}
		cp, found = c, ok
		return nil
	})
	return cp, found, err
}

func (s *Service) queries() []string {
	if len(s.Cfg.Queries) > 0 {
		return s.Cfg.Queries
	}
	return Templates
}

func (s *Service) perPage() int {
	if s.Cfg.PerPage <= 0 || s.Cfg.PerPage > 100 {
		return 100
	}
	return s.Cfg.PerPage
}

func (s *Service) maxHits() int {
	if s.Cfg.MaxHits <= 0 || s.Cfg.MaxHits > registry.SearchCap {
		return registry.SearchCap
	}
	return s.Cfg.MaxHits
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
