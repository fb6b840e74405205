// Package service contains programs catalog workflows
package service

import (
	"context"
	"strings"

	"progdex/internal/adapters/snapshot"
	"progdex/internal/core/catalog"
	"progdex/internal/core/classify"
	"progdex/internal/modkit/repokit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/services/api/programs/domain"
	"progdex/internal/services/api/programs/repo"
)

// Service defines the service contract for the programs catalog
type Service interface{ domain.ServicePort }

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Svc implements the Service interface over the resolver and query engine
type Svc struct {
	resolver domain.ResolverPort
	archive  domain.ArchivePort
	clf      catalog.Classifier

	// db and snapshotPath are optional; Remove is refused without both
	db           repokit.TxRunner
	binder       repokit.Binder[repo.Repo]
	snapshotPath string
}

// New creates a programs service. archive and db may be nil; the endpoints
// needing them then report Unavailable. snapshotPath points at the catalog
// document when the API shares a host with it, which is what lets Remove
// keep document and mirror in step
func New(resolver domain.ResolverPort, archive domain.ArchivePort, db repokit.TxRunner, binder repokit.Binder[repo.Repo], snapshotPath string) *Svc {
	if resolver == nil {
		panic("programs.Service requires a non nil Resolver")
	}
	tables, err := classify.Load()
	if err != nil {
		panic("programs.Service: bundled classifier rules unreadable: " + err.Error())
	}
	if db != nil && binder == nil {
		binder = repo.NewPG()
	}
	return &Svc{
		resolver:     resolver,
		archive:      archive,
		clf:          classify.New(tables),
		db:           db,
		binder:       binder,
		snapshotPath: snapshotPath,
	}
}

// List applies search, filters, sort and pagination over the catalog
func (s *Svc) List(ctx context.Context, in domain.QueryInput) (domain.Page, error) {
	snap := s.resolver.LoadCatalog(ctx)

	recs := catalog.Search(snap.Repos, in.Query)
	recs = catalog.Filter(recs, catalog.Filters{
		Category:    catalog.Category(in.Category),
		SubCategory: in.SubCategory,
		Language:    in.Language,
		MinStars:    in.MinStars,
		MaxStars:    in.MaxStars,
	}, s.clf)

	total := len(recs)
	recs = catalog.Sort(recs, sortKey(in.Sort))

	page, size := in.Page, in.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	lo := (page - 1) * size
	if lo > total {
		lo = total
	}
	hi := min(lo+size, total)

	items := make([]domain.Program, hi-lo)
	copy(items, recs[lo:hi])

	return domain.Page{
		Items:     items,
		Total:     total,
		Page:      page,
		Size:      size,
		ScrapedAt: snap.ScrapedAt,
	}, nil
}

func sortKey(s string) catalog.SortKey {
	switch strings.ToLower(s) {
	case "updated":
		return catalog.SortUpdated
	case "name":
		return catalog.SortName
	default:
		return catalog.SortStars
	}
}

// Detail returns one cataloged record by identity
func (s *Svc) Detail(ctx context.Context, owner, name string) (domain.Program, error) {
	full, err := identity(owner, name)
	if err != nil {
		return domain.Program{}, err
	}
	snap := s.resolver.LoadCatalog(ctx)
	rec, ok := snap.Find(full)
	if !ok {
		return domain.Program{}, perr.NotFoundf("program %s not cataloged", full)
	}
	return rec, nil
}

// Categories returns the closed category list with per-category counts,
// including zero counts, in display order
func (s *Svc) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	snap := s.resolver.LoadCatalog(ctx)

	counts := make(map[catalog.Category]int, len(catalog.Categories()))
	for _, r := range snap.Repos {
		counts[r.Category]++
	}

	out := make([]domain.CategoryCount, 0, len(catalog.Categories()))
	for _, c := range catalog.Categories() {
		out = append(out, domain.CategoryCount{Category: string(c), Count: counts[c]})
	}
	return out, nil
}

// Archive resolves the downloadable archive url for a cataloged record
func (s *Svc) Archive(ctx context.Context, owner, name string) (domain.ArchiveOutput, error) {
	if s.archive == nil {
		return domain.ArchiveOutput{}, perr.Unavailablef("archive resolution disabled")
	}
	rec, err := s.Detail(ctx, owner, name)
	if err != nil {
		return domain.ArchiveOutput{}, err
	}
	u, err := s.archive.ArchiveURL(ctx, rec.Owner, rec.Name)
	if err != nil {
		return domain.ArchiveOutput{}, err
	}
	return domain.ArchiveOutput{FullName: rec.FullName, URL: u}, nil
}

// Remove deletes one record from the catalog document and the mirror in a
// single transaction under the merge lock, so the next collection merge
// cannot resurrect it. Deployments without the document on disk refuse
// rather than letting the two stores drift; the curator host handles
// removals there
func (s *Svc) Remove(ctx context.Context, owner, name string) (domain.RemoveOutput, error) {
	full, err := identity(owner, name)
	if err != nil {
		return domain.RemoveOutput{}, err
	}
	if s.db == nil {
		return domain.RemoveOutput{}, perr.Unavailablef("catalog store disabled")
	}
	if s.snapshotPath == "" {
		return domain.RemoveOutput{}, perr.Unavailablef("catalog document not reachable from this host; remove via the curator")
	}
	key := strings.ToLower(full)

	err = repokit.WithBeginHooks(s.db, mergeLock).Tx(ctx, func(q repokit.Queryer) error {
		snap, e := snapshot.Load(s.snapshotPath)
		if e != nil {
			return e
		}
		kept := make([]catalog.ProgramRecord, 0, len(snap.Repos))
		for _, r := range snap.Repos {
			if r.Key() != key {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(snap.Repos) {
			return perr.NotFoundf("program %s not cataloged", full)
		}
		if _, e := s.binder.Bind(q).Remove(ctx, key); e != nil {
			return e
		}
		// An edit, not a scrape: the document keeps its provenance fields
		next := catalog.Snapshot{
			ScrapedAt:        snap.ScrapedAt,
			TotalRepos:       len(kept),
			KeywordsSearched: snap.KeywordsSearched,
			Repos:            kept,
		}
		return snapshot.Save(s.snapshotPath, next)
	})
	if err != nil {
		return domain.RemoveOutput{}, err
	}

	s.resolver.Invalidate()
	return domain.RemoveOutput{FullName: full, Removed: true}, nil
}

// mergeLock serializes every cross-process catalog mutation with the
// collector and the curator
func mergeLock(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", catalog.MergeLockKey)
	return err
}

func identity(owner, name string) (string, error) {
	full := strings.TrimSpace(owner) + "/" + strings.TrimSpace(name)
	if _, _, ok := catalog.SplitFullName(full); !ok {
		return "", perr.InvalidArgf("malformed identity %q", full)
	}
	return full, nil
}
