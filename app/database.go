package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	matchmigrations "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories/migrations"
	teammigrations "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigration pairs a module name with its bun migrations.
type ModuleMigration struct {
	Name       string
	Migrations *migrate.Migrations
}

// ModuleMigrations lists every module's migrations in the order they must run.
var ModuleMigrations = []ModuleMigration{
	{Name: "team", Migrations: teammigrations.Migrations},
	{Name: "match", Migrations: matchmigrations.Migrations},
}

// OpenDB connects bun to Postgres through pgdriver.
func OpenDB(dsn string) *bun.DB {
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(pgdb, pgdialect.New())
}

// Migrators returns one migrator per module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	out := make(map[string]*migrate.Migrator, len(ModuleMigrations))
	for _, m := range ModuleMigrations {
		out[m.Name] = migrate.NewMigrator(db, m.Migrations)
	}
	return out
}

// RunMigrations creates the migration tables, then applies the River schema and every
// module's pending migrations.
func RunMigrations(ctx context.Context, db *bun.DB, dsn string, logger *slog.Logger) error {
	if len(ModuleMigrations) == 0 {
		return nil
	}
	if err := migrate.NewMigrator(db, ModuleMigrations[0].Migrations).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	if err := RunRiverMigrations(ctx, dsn, rivermigrate.DirectionUp); err != nil {
		return err
	}

	for _, m := range ModuleMigrations {
		group, err := migrate.NewMigrator(db, m.Migrations).Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", m.Name))
		} else {
			logger.InfoContext(ctx, "Migrated module", slog.String("module", m.Name), slog.String("group", group.String()))
		}
	}
	return nil
}

// RunRiverMigrations applies or rolls back the job queue schema.
func RunRiverMigrations(ctx context.Context, dsn string, direction rivermigrate.Direction) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	opts := &rivermigrate.MigrateOpts{}
	if direction == rivermigrate.DirectionDown {
		// One step at a time; a bare down would drop the whole queue schema.
		opts.MaxSteps = 1
	}
	if _, err := migrator.Migrate(ctx, direction, opts); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}
