package pg

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"

	perr "progdex/internal/platform/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersion is the migration version this build was written against.
// Bump it together with every new file under migrations/
const SchemaVersion = 3

// MigrateUp applies all pending embedded migrations
// writers (scout, curator) call it on start; the api never migrates
func (p *PG) MigrateUp() error {
	m, err := p.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (p *PG) migrator() (*migrate.Migrate, error) {
	driver, err := migratepgx.WithInstance(sql.OpenDB(stdlib.GetPoolConnector(p.Pool)), &migratepgx.Config{})
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "pgx", driver)
}

// VerifySchema reports whether the live schema matches SchemaVersion without
// mutating anything. Readiness probes call it on every check
func (p *PG) VerifySchema(ctx context.Context) error {
	var (
		version int64
		dirty   bool
	)
	err := p.Pool.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if err != nil {
		return perr.SchemaMismatchf("schema version unreadable: %v", err)
	}
	if dirty {
		return perr.SchemaMismatchf("schema dirty at version %d", version)
	}
	if version != SchemaVersion {
		return perr.SchemaMismatchf("schema version %d, want %d", version, SchemaVersion)
	}
	return nil
}
