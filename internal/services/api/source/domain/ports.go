package domain

import "context"

// ServicePort defines the source browser surface
type ServicePort interface {
	Browse(ctx context.Context, owner, name string) (BrowseResult, error)
	Readme(ctx context.Context, owner, name string) (ReadmeResult, error)
}

// TreePort is the upstream listing and fetch surface the browser walks
type TreePort interface {
	ListDir(ctx context.Context, owner, repo, path string) ([]Entry, error)
	RawFile(ctx context.Context, downloadURL string) ([]byte, error)
	Readme(ctx context.Context, owner, repo string) ([]byte, error)
}
