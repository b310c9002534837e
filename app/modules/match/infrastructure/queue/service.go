package matchqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

// QueueService defines the contract for match job scheduling.
type QueueService interface {
	// ScheduleKickoff schedules a kickoff job for the match at kickoffAt.
	ScheduleKickoff(ctx context.Context, tournamentID, matchID string, kickoffAt time.Time) error
	// GetScheduledJobs returns information about jobs for a match (for debugging)
	GetScheduledJobs(ctx context.Context, matchID string) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service schedules match jobs using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.Metrics
	now     func() time.Time
}

// NewService creates a River-backed queue on its own pgx pool.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, maxWorkers int, metrics observability.Metrics, publisher message.Publisher) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_match_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing match queue service")

	// River requires pgx, not database/sql
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewKickoffWorker(ctxLogger, publisher))

	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueName:          {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Match queue service initialized successfully")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")
	s.logger.Info("Starting match queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")
	s.logger.Info("Stopping match queue service")

	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.logger.Info("Match queue service stopped successfully")
	return nil
}

// ScheduleKickoff schedules a kickoff job. Kickoffs already in the past are skipped.
func (s *Service) ScheduleKickoff(ctx context.Context, tournamentID, matchID string, kickoffAt time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_kickoff", "river")

	ctxLogger := s.logger.With(
		slog.String("match_id", matchID),
		slog.Time("kickoff_at", kickoffAt),
		slog.String("operation", "schedule_kickoff"),
	)

	now := s.now()
	if kickoffAt.Before(now.Add(5 * time.Second)) {
		ctxLogger.Info("Kickoff is in the past or too close, skipping")
		s.metrics.RecordOperationSuccess(ctx, "schedule_kickoff", "river")
		return nil
	}

	jobResult, err := s.client.Insert(ctx, KickoffJob{
		TournamentID: tournamentID,
		MatchID:      matchID,
		KickoffAt:    kickoffAt.UTC(),
	}, &river.InsertOpts{
		Queue:       QueueName,
		ScheduledAt: kickoffAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule kickoff job", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "schedule_kickoff", "river")
		return fmt.Errorf("failed to schedule kickoff job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_kickoff", "river")
	s.metrics.RecordOperationDuration(ctx, "schedule_kickoff", "river", time.Since(start))

	ctxLogger.Info("Kickoff job scheduled",
		slog.Duration("delay", kickoffAt.Sub(now)),
		slog.Int64("job_id", jobResult.Job.ID),
		slog.Bool("duplicate", jobResult.UniqueSkippedAsDuplicate),
	)
	return nil
}

// GetScheduledJobs returns the kickoff jobs recorded for a match.
func (s *Service) GetScheduledJobs(ctx context.Context, matchID string) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		CreatedAt   time.Time  `bun:"created_at"`
		Attempt     int16      `bun:"attempt"`
		MaxAttempts int16      `bun:"max_attempts"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", KickoffJob{}.Kind()).
		Where("args->>'match_id' = ?", matchID).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	out := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		out[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			MatchID:     matchID,
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return out, nil
}

// HealthCheck verifies the job table is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
