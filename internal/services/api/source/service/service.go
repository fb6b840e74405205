package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/yuin/goldmark"

	"progdex/internal/adapters/cachekit"
	perr "progdex/internal/platform/errors"
	"progdex/internal/platform/logger"
	"progdex/internal/services/api/source/domain"
)

// DefaultTTL is how long browse results and rendered READMEs stay cached
const DefaultTTL = 24 * time.Hour

// Service is the transport-facing surface
type Service interface{ domain.ServicePort }

// Svc walks repository trees and renders READMEs, fronted by a TTL cache
type Svc struct {
	tree  domain.TreePort
	cache cachekit.Cache
	md    goldmark.Markdown
	ttl   time.Duration
	now   func() time.Time
}

// New builds the source service. Nil ports are construction bugs
func New(tree domain.TreePort, cache cachekit.Cache, ttl time.Duration) *Svc {
	if tree == nil {
		panic("source: nil tree port")
	}
	if cache == nil {
		panic("source: nil cache")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Svc{tree: tree, cache: cache, md: goldmark.New(), ttl: ttl, now: time.Now}
}

// Browse returns the walked file tree and up to maxFiles source files for a
// repository. Zero fetchable code is a NoCode result with nil error; both
// outcomes are cached. Upstream failures surface as errors and are never cached
func (s *Svc) Browse(ctx context.Context, owner, name string) (domain.BrowseResult, error) {
	key := cachekit.Key(owner, name, "code")
	if res, ok := s.cachedBrowse(ctx, key); ok {
		return res, nil
	}

	w := &walker{tree: s.tree, owner: owner, repo: name, visited: map[string]struct{}{}}
	if err := w.collect(ctx); err != nil {
		return domain.BrowseResult{}, upstream(err, "source listing failed for %s/%s", owner, name)
	}

	res := domain.BrowseResult{
		FullName:  owner + "/" + name,
		Tree:      w.listing,
		FetchedAt: s.now().UTC(),
	}
	if len(w.candidates) > 0 {
		res.Files = fetchAll(ctx, s.tree, w.candidates)
	}
	if len(res.Files) == 0 {
		res.Files = nil
		res.NoCode = true
	}

	s.storeBrowse(ctx, key, res)
	return res, nil
}

// Readme fetches the repository README and renders it to HTML
func (s *Svc) Readme(ctx context.Context, owner, name string) (domain.ReadmeResult, error) {
	full := owner + "/" + name
	key := cachekit.Key(owner, name, "readme")

	if b, found, err := s.cache.Get(ctx, key); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("source: cache read failed")
	} else if found {
		return domain.ReadmeResult{FullName: full, HTML: string(b), Cached: true}, nil
	}

	raw, err := s.tree.Readme(ctx, owner, name)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.ReadmeResult{}, perr.NotFoundf("no readme for %s", full)
		}
		return domain.ReadmeResult{}, upstream(err, "readme fetch failed for %s", full)
	}

	var buf bytes.Buffer
	if err := s.md.Convert(raw, &buf); err != nil {
		return domain.ReadmeResult{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "readme render failed for %s", full)
	}

	if err := s.cache.Set(ctx, key, buf.Bytes(), s.ttl); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("source: cache write failed")
	}
	return domain.ReadmeResult{FullName: full, HTML: buf.String()}, nil
}

func (s *Svc) cachedBrowse(ctx context.Context, key string) (domain.BrowseResult, bool) {
	b, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("source: cache read failed")
		return domain.BrowseResult{}, false
	}
	if !found {
		return domain.BrowseResult{}, false
	}
	var res domain.BrowseResult
	if err := json.Unmarshal(b, &res); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("source: cached entry unreadable, refetching")
		return domain.BrowseResult{}, false
	}
	res.Cached = true
	return res, true
}

func (s *Svc) storeBrowse(ctx context.Context, key string, res domain.BrowseResult) {
	b, err := json.Marshal(res)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("source: cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("source: cache write failed")
	}
}

// upstream keeps coded registry errors as-is and marks everything else
// unavailable so callers get a retry affordance
func upstream(err error, format string, a ...any) error {
	if perr.CodeOf(err) != perr.ErrorCodeUnknown {
		return err
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, format, a...)
}
