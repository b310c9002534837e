package testutils

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/ahalia-sports/tournament-admin/app"
	"github.com/ahalia-sports/tournament-admin/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds the containers and connections shared by an integration package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	DSN           string
	NatsURL       string
	Logger        *slog.Logger
}

// NewTestEnvironment starts Postgres and NATS and applies every migration.
func NewTestEnvironment(t *testing.T) (*TestEnvironment, error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer
	env.DSN = dsn

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer
	env.NatsURL = natsURL

	env.DB = app.OpenDB(dsn)
	if err := app.RunMigrations(ctx, env.DB, dsn, env.Logger); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return env, nil
}

// Reset truncates every domain table and the job queue.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return TruncateTables(ctx, env.DB, "matches", "players", "teams", "river_job")
}

// Cleanup tears down all resources created for testing.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.DB != nil {
		env.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}
