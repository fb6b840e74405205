package service

import (
	"context"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"progdex/internal/platform/logger"
	"progdex/internal/services/api/source/domain"
)

// Walk caps. Listing stays sequential depth-first so the caps bound the
// number of upstream calls; only the raw fetches after it fan out
const (
	maxFiles     = 20
	maxFileSize  = 100 * 1024
	maxDepth     = 3
	fetchWorkers = 4
)

// priorityDirs are walked before the repository root; program code usually
// lives under one of these
var priorityDirs = []string{"src", "programs", "contracts", "program", "anchor"}

var codeExtensions = map[string]struct{}{
	".rs":   {},
	".ts":   {},
	".tsx":  {},
	".js":   {},
	".jsx":  {},
	".py":   {},
	".go":   {},
	".sol":  {},
	".c":    {},
	".h":    {},
	".cpp":  {},
	".toml": {},
	".json": {},
	".md":   {},
}

type walker struct {
	tree       domain.TreePort
	owner      string
	repo       string
	visited    map[string]struct{}
	candidates []domain.Entry
	listing    []domain.TreeEntry
}

// collect walks the priority directories then the root and returns up to
// maxFiles candidate entries in listing order
func (w *walker) collect(ctx context.Context) error {
	for _, dir := range priorityDirs {
		if err := w.walk(ctx, dir, 1); err != nil {
			return err
		}
	}
	return w.walk(ctx, "", 0)
}

func (w *walker) walk(ctx context.Context, dir string, depth int) error {
	if len(w.candidates) >= maxFiles || depth > maxDepth {
		return nil
	}
	if _, seen := w.visited[dir]; seen {
		return nil
	}
	w.visited[dir] = struct{}{}

	entries, err := w.tree.ListDir(ctx, w.owner, w.repo, dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		// every listed entry lands in the tree, even past the fetch cap
		w.listing = append(w.listing, domain.TreeEntry{Path: e.Path, Type: e.Type, Size: e.Size})
		if len(w.candidates) >= maxFiles {
			continue
		}
		switch {
		case e.IsDir():
			if err := w.walk(ctx, e.Path, depth+1); err != nil {
				return err
			}
		case e.IsFile() && wanted(e):
			w.candidates = append(w.candidates, e)
		}
	}
	return nil
}

func wanted(e domain.Entry) bool {
	if e.Size <= 0 || e.Size > maxFileSize || e.DownloadURL == "" {
		return false
	}
	ext := strings.ToLower(path.Ext(e.Name))
	_, ok := codeExtensions[ext]
	return ok
}

// fetchAll downloads candidate contents concurrently and assembles results
// in listing order. A single failed fetch is logged and skipped
func fetchAll(ctx context.Context, tree domain.TreePort, candidates []domain.Entry) []domain.SourceFile {
	contents := make([][]byte, len(candidates))

	var g errgroup.Group
	g.SetLimit(fetchWorkers)
	for i, e := range candidates {
		g.Go(func() error {
			b, err := tree.RawFile(ctx, e.DownloadURL)
			if err != nil {
				logger.C(ctx).Warn().Err(err).Str("path", e.Path).Msg("source: file fetch skipped")
				return nil
			}
			contents[i] = b
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.SourceFile, 0, len(candidates))
	for i, e := range candidates {
		if contents[i] == nil {
			continue
		}
		out = append(out, domain.SourceFile{
			Path:    e.Path,
			Size:    e.Size,
			Content: string(contents[i]),
		})
	}
	return out
}
