// Package domain holds DTOs and ports for the source browser
package domain

import (
	"time"

	"progdex/internal/adapters/registry"
)

// Entry re-exports the upstream directory entry shape the browser walks
type Entry = registry.Entry

// SourceFile is one fetched source file
type SourceFile struct {
	Path    string `json:"path"    example:"src/lib.rs"`
	Size    int64  `json:"size"    example:"4096"`
	Content string `json:"content"`
}

// TreeEntry is one walked directory entry, file contents not included.
// The tree lists everything the walk saw, so it also covers files the
// extension and size filters kept out of Files
type TreeEntry struct {
	Path string `json:"path" example:"src/lib.rs"`
	Type string `json:"type" example:"file"`
	Size int64  `json:"size,omitempty" example:"4096"`
}

// BrowseResult is the outcome of browsing one repository's code.
// NoCode marks a repository that holds no fetchable source; that is a
// distinct outcome, not an error
type BrowseResult struct {
	FullName  string       `json:"full_name" example:"project-serum/serum-dex"`
	Files     []SourceFile `json:"files"`
	Tree      []TreeEntry  `json:"file_tree,omitempty"`
	NoCode    bool         `json:"no_code,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
	Cached    bool         `json:"cached,omitempty"`
}

// ReadmeResult carries one repository's README rendered to HTML
type ReadmeResult struct {
	FullName string `json:"full_name" example:"project-serum/serum-dex"`
	HTML     string `json:"html"`
	Cached   bool   `json:"cached,omitempty"`
}
