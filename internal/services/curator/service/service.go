// Package service implements catalog upkeep: probe cataloged identities
// upstream, refresh the live ones, flag the dead ones, and carry out
// operator removals
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"progdex/internal/adapters/registry"
	"progdex/internal/adapters/snapshot"
	"progdex/internal/core/catalog"
	"progdex/internal/core/classify"
	"progdex/internal/modkit/repokit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/platform/logger"
	tim "progdex/internal/platform/time"
	"progdex/internal/services/curator/domain"
)

// Config holds configuration options for the curator
type Config struct {
	ProbeInterval time.Duration // pacing floor between upstream probes; <=0 -> 1s
	MaxProbes     int           // probe ceiling per pass; <=0 -> unbounded

	SnapshotPath string // catalog JSON document
}

// Service implements the curator's probe and removal operations
type Service struct {
	DB       repokit.TxRunner
	Binder   repokit.Binder[domain.StorageRepo]
	Upstream domain.ProbePort
	Cfg      Config

	clf     *classify.Keyword
	limiter *rate.Limiter
	now     func() time.Time
}

// New constructs the curator service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], upstream domain.ProbePort, cfg Config) *Service {
	if db == nil {
		panic("curator.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("curator.Service requires a non nil Repo binder")
	}
	if upstream == nil {
		panic("curator.Service requires a probe port")
	}
	tables, err := classify.Load()
	if err != nil {
		panic(fmt.Sprintf("curator: classifier rules unreadable: %v", err))
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = "data/catalog.json"
	}
	interval := cfg.ProbeInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Service{
		DB: db, Binder: binder, Upstream: upstream, Cfg: cfg,
		clf:     classify.New(tables),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     time.Now,
	}
}

// outcome is what a single probe resolved to, applied later under the
// merge lock
type outcome struct {
	key    string
	kind   int
	rec    catalog.ProgramRecord // refresh payload
	etag   string
	reason string // flag reason
}

const (
	kindRefresh = iota
	kindTouch
	kindFlag
)

// Probe implements domain.RunnerPort. Upstream calls happen outside any
// transaction; the collected outcomes commit together afterwards. A quota
// halt persists what was gathered and surfaces a rate-limit coded error;
// stored validators make the redo cheap, so no resume point is kept
func (s *Service) Probe(ctx context.Context) (domain.ProbeSummary, error) {
	sum := domain.ProbeSummary{StartedAt: s.now().UTC()}

	snap, err := snapshot.Load(s.Cfg.SnapshotPath)
	if err != nil {
		return sum, err
	}
	validators, err := s.loadValidators(ctx)
	if err != nil {
		return sum, err
	}

	outcomes := s.probeAll(ctx, snap.Repos, validators, &sum)
	if err := s.apply(ctx, outcomes); err != nil {
		return sum, err
	}

	ev := logger.C(ctx).Info()
	if sum.Halted {
		ev = logger.C(ctx).Warn()
	}
	ev.Int("probed", sum.Probed).
		Int("refreshed", sum.Refreshed).
		Int("unchanged", sum.Unchanged).
		Int("not_found", sum.NotFound).
		Int("denied", sum.Denied).
		Int("skipped", sum.Skipped).
		Bool("halted", sum.Halted).
		Msg("curator: probe pass complete")

	if sum.Halted {
		return sum, perr.Newf(perr.ErrorCodeTooManyRequests, "probe pass halted by quota; rerun picks up under stored validators")
	}
	return sum, nil
}

// probeAll walks the record set once. Flagged records are never re-probed;
// transient failures leave their record untouched for the next pass
func (s *Service) probeAll(ctx context.Context, recs []catalog.ProgramRecord, validators map[string]string, sum *domain.ProbeSummary) []outcome {
	var out []outcome
	for _, rec := range recs {
		if rec.Flagged() {
			sum.Skipped++
			continue
		}
		if s.Cfg.MaxProbes > 0 && sum.Probed >= s.Cfg.MaxProbes {
			break
		}
		owner, name, ok := catalog.SplitFullName(rec.FullName)
		if !ok {
			sum.Skipped++
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			sum.Errors = append(sum.Errors, err.Error())
			break
		}

		sum.Probed++
		live, etag, notModified, err := s.Upstream.RepoByFullName(ctx, owner, name, validators[rec.Key()])
		switch {
		case err == nil && notModified:
			sum.Unchanged++
			out = append(out, outcome{key: rec.Key(), kind: kindTouch})
		case err == nil:
			sum.Refreshed++
			out = append(out, outcome{key: rec.Key(), kind: kindRefresh, rec: s.refreshed(rec, live), etag: etag})
		case perr.IsCode(err, perr.ErrorCodeNotFound):
			sum.NotFound++
			out = append(out, outcome{key: rec.Key(), kind: kindFlag, reason: catalog.FlagNotFound})
		case perr.IsCode(err, perr.ErrorCodeForbidden):
			sum.Denied++
			out = append(out, outcome{key: rec.Key(), kind: kindFlag, reason: catalog.FlagAccessDenied})
		case perr.IsCode(err, perr.ErrorCodeTooManyRequests):
			sum.Halted = true
			sum.Errors = append(sum.Errors, fmt.Sprintf("quota exhausted probing %s", rec.FullName))
			return out
		default:
			sum.Errors = append(sum.Errors, fmt.Sprintf("probe %s: %v", rec.FullName, err))
			logger.C(ctx).Warn().Err(err).Str("repo", rec.FullName).Msg("curator: probe skipped")
		}
	}
	return out
}

// refreshed carries the stored identity forward and takes the collected
// fields from the live response. Renames keep the cataloged identity: the
// old path stays reachable upstream, and identity churn would orphan the
// curated state keyed on it
func (s *Service) refreshed(old catalog.ProgramRecord, live registry.Repo) catalog.ProgramRecord {
	out := old
	out.Description = cloneStr(live.Description)
	out.Stars = max(live.Stargazers, 0)
	out.Language = cloneStr(live.Language)
	out.Topics = append([]string(nil), live.Topics...)

	updated := live.PushedAt
	if live.UpdatedAt.After(updated) {
		updated = live.UpdatedAt
	}
	if !updated.IsZero() {
		out.Updated = updated
	}
	if b := strings.TrimSpace(live.DefaultBranch); b != "" {
		out.DefaultBranch = b
	}

	desc := ""
	if out.Description != nil {
		desc = *out.Description
	}
	out.Category, out.SubCategory = s.clf.Classify(out.Name, desc, out.Topics)
	return out
}

// apply commits the probe outcomes under the merge lock: the snapshot is
// re-read so a collection run that landed mid-probe is not clobbered, then
// document and mirror change together or not at all
func (s *Service) apply(ctx context.Context, outcomes []outcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	at := s.now().UTC()

	return repokit.WithBeginHooks(s.DB, mergeLock).Tx(ctx, func(q repokit.Queryer) error {
		snap, err := snapshot.Load(s.Cfg.SnapshotPath)
		if err != nil {
			return err
		}
		index := make(map[string]int, len(snap.Repos))
		for i, r := range snap.Repos {
			index[r.Key()] = i
		}

		r := s.Binder.Bind(q)
		dirty := false
		for _, o := range outcomes {
			i, present := index[o.key]
			switch o.kind {
			case kindTouch:
				if err := r.TouchProgram(ctx, o.key, at); err != nil {
					return err
				}
			case kindRefresh:
				if err := r.RefreshProgram(ctx, o.rec, o.etag, at); err != nil {
					return err
				}
				if present {
					// probe outcomes never disturb curated state
					upd := o.rec
					upd.Notes = snap.Repos[i].Notes
					upd.FlagReason = snap.Repos[i].FlagReason
					upd.FlaggedAt = snap.Repos[i].FlaggedAt
					snap.Repos[i] = upd
					dirty = true
				}
			case kindFlag:
				if err := r.FlagProgram(ctx, o.key, o.reason, at); err != nil {
					return err
				}
				if present {
					snap.Repos[i].FlagReason = o.reason
					snap.Repos[i].FlaggedAt = tim.Ptr(at)
					dirty = true
				}
			}
		}

		if !dirty {
			return nil
		}
		// files last: a failed document write rolls the row changes back
		return snapshot.Save(s.Cfg.SnapshotPath, snap)
	})
}

// mergeLock serializes catalog mutations with the collector and the API's
// operator removals
func mergeLock(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", catalog.MergeLockKey)
	return err
}

// ListFlagged implements domain.RunnerPort: the removal candidates in
// catalog order
func (s *Service) ListFlagged(ctx context.Context) ([]catalog.ProgramRecord, error) {
	snap, err := snapshot.Load(s.Cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	var out []catalog.ProgramRecord
	for _, r := range snap.Repos {
		if r.Flagged() {
			out = append(out, r)
		}
	}
	return out, nil
}

// Remove implements domain.RunnerPort: the operator end of the flag
// workflow. Document and mirror row go together under the merge lock;
// provenance metadata keeps its original stamp since nothing was collected
func (s *Service) Remove(ctx context.Context, fullName string) error {
	owner, name, ok := catalog.SplitFullName(fullName)
	if !ok {
		return perr.InvalidArgf("removal target %q is not owner/name", fullName)
	}
	key := strings.ToLower(owner + "/" + name)

	return repokit.WithBeginHooks(s.DB, mergeLock).Tx(ctx, func(q repokit.Queryer) error {
		snap, err := snapshot.Load(s.Cfg.SnapshotPath)
		if err != nil {
			return err
		}
		kept := make([]catalog.ProgramRecord, 0, len(snap.Repos))
		for _, r := range snap.Repos {
			if r.Key() != key {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(snap.Repos) {
			return perr.NotFoundf("%s is not in the catalog", fullName)
		}

		if err := s.Binder.Bind(q).DeleteProgram(ctx, key); err != nil {
			return err
		}
		next := catalog.Snapshot{
			ScrapedAt:        snap.ScrapedAt,
			TotalRepos:       len(kept),
			KeywordsSearched: snap.KeywordsSearched,
			Repos:            kept,
		}
		if err := snapshot.Save(s.Cfg.SnapshotPath, next); err != nil {
			return err
		}
		logger.C(ctx).Info().Str("repo", fullName).Msg("curator: record removed")
		return nil
	})
}

func (s *Service) loadValidators(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		m, e := s.Binder.Bind(q).LoadValidators(ctx)
		if e != nil {
			return e
		}
		out = m
		return nil
	})
	return out, err
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
