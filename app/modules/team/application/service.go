package teamservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	teamevents "github.com/ahalia-sports/tournament-admin/app/modules/team/events"
	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/eventbus"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "TeamService"

// TeamService implements the Service interface.
type TeamService struct {
	repo        teamdb.Repository
	players     teamdb.PlayerRepository
	tournaments map[string]struct{}
	publisher   message.Publisher
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     observability.Metrics
	tracer      trace.Tracer
	db          *bun.DB
	newID       func() string
}

// NewTeamService creates a new TeamService. publisher may be nil.
func NewTeamService(
	repo teamdb.Repository,
	players teamdb.PlayerRepository,
	tournamentIDs []string,
	publisher message.Publisher,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	known := make(map[string]struct{}, len(tournamentIDs))
	for _, id := range tournamentIDs {
		known[id] = struct{}{}
	}
	return &TeamService{
		repo:        repo,
		players:     players,
		tournaments: known,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		db:          db,
		newID:       uuid.NewString,
	}
}

var _ Service = (*TeamService)(nil)

func (s *TeamService) checkTournament(tournamentID string) error {
	if _, ok := s.tournaments[tournamentID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTournament, tournamentID)
	}
	return nil
}

func (s *TeamService) publish(ctx context.Context, topic string, team teamdomain.Team) {
	s.publishPayload(ctx, topic, team.TournamentID, team.ID, &teamevents.TeamPayloadV1{
		TournamentID: team.TournamentID,
		Team:         team,
		OccurredAt:   s.clock.Now().UTC(),
	})
}

func (s *TeamService) publishPlayer(ctx context.Context, topic string, player teamdomain.Player) {
	s.publishPayload(ctx, topic, player.TournamentID, player.ID, &teamevents.PlayerPayloadV1{
		TournamentID: player.TournamentID,
		Player:       player,
		OccurredAt:   s.clock.Now().UTC(),
	})
}

func (s *TeamService) publishPayload(ctx context.Context, topic, tournamentID, subjectID string, payload any) {
	if s.publisher == nil {
		return
	}
	msg, err := eventbus.NewJSONMessage(ctx, payload)
	if err == nil {
		err = eventbus.PublishWithTournamentScope(s.publisher, topic, tournamentID, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish team event",
			observability.CorrelationAttr(ctx),
			slog.String("topic", topic),
			slog.String("subject_id", subjectID),
			slog.Any("error", err),
		)
	}
}

// unwrap converts an operation result into the (value, error) pair returned to callers.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, fmt.Errorf("operation returned no result")
	}
	return *result.Success, nil
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *TeamService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := s.clock.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, s.clock.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				observability.CorrelationAttr(ctx),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *TeamService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

var domainErrors = []error{
	ErrUnknownTournament,
	ErrTeamNotFound,
	ErrTeamExists,
	teamdomain.ErrInvalidTeam,
	teamdomain.ErrRosterTooSmall,
	teamdomain.ErrInvalidStatus,
	ErrPlayerNotFound,
	teamdomain.ErrInvalidPlayer,
	teamdomain.ErrInvalidPosition,
}

// IsDomainError reports whether err is a rejected request rather than a system fault.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func failureOr[S any](err error) (results.OperationResult[S, error], error) {
	if IsDomainError(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}
