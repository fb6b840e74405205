package domain

import "context"

// ServicePort defines the catalog surface exposed to transports and modules
type ServicePort interface {
	List(ctx context.Context, in QueryInput) (Page, error)
	Detail(ctx context.Context, owner, name string) (Program, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	Archive(ctx context.Context, owner, name string) (ArchiveOutput, error)
	Remove(ctx context.Context, owner, name string) (RemoveOutput, error)
}

// ResolverPort yields the current catalog snapshot. It never returns an
// error; on any failure it falls back to the bundled snapshot
type ResolverPort interface {
	LoadCatalog(ctx context.Context) Snapshot
	Invalidate()
}

// ArchivePort resolves the downloadable archive url for a repository
type ArchivePort interface {
	ArchiveURL(ctx context.Context, owner, repo string) (string, error)
}
