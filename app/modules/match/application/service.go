package matchservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchfixtures "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/fixtures"
	"github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/matchtime"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/eventbus"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "MatchService"

// MatchService implements the Service interface.
type MatchService struct {
	// mu serializes read-modify-write operations within the process.
	mu          sync.Mutex
	repo        matchdb.Repository
	roster      TeamRoster
	tournaments map[string]matchdomain.Tournament
	publisher   message.Publisher
	kickoffs    KickoffScheduler
	dates       matchtime.DateParser
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     observability.Metrics
	tracer      trace.Tracer
	db          *bun.DB
}

// NewMatchService creates a new MatchService. publisher and kickoffs may be nil.
func NewMatchService(
	repo matchdb.Repository,
	roster TeamRoster,
	tournaments []matchdomain.Tournament,
	publisher message.Publisher,
	kickoffs KickoffScheduler,
	dates matchtime.DateParser,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if dates == nil {
		dates = matchtime.NewParser(clock, logger)
	}
	byID := make(map[string]matchdomain.Tournament, len(tournaments))
	for _, t := range tournaments {
		byID[t.ID] = t
	}
	return &MatchService{
		repo:        repo,
		roster:      roster,
		tournaments: byID,
		publisher:   publisher,
		kickoffs:    kickoffs,
		dates:       dates,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		db:          db,
	}
}

var _ Service = (*MatchService)(nil)

// Tournament returns the configured tournament.
func (s *MatchService) Tournament(tournamentID string) (matchdomain.Tournament, bool) {
	t, ok := s.tournaments[tournamentID]
	return t, ok
}

func (s *MatchService) tournament(tournamentID string) (matchdomain.Tournament, error) {
	t, ok := s.tournaments[tournamentID]
	if !ok {
		return matchdomain.Tournament{}, fmt.Errorf("%w: %q", ErrUnknownTournament, tournamentID)
	}
	return t, nil
}

// publish sends an event on the base topic and its tournament-scoped copy. Failures are
// logged; the state change they describe is already committed.
func (s *MatchService) publish(ctx context.Context, topic, tournamentID string, payload any) {
	if s.publisher == nil {
		return
	}
	msg, err := eventbus.NewJSONMessage(ctx, payload)
	if err == nil {
		err = eventbus.PublishWithTournamentScope(s.publisher, topic, tournamentID, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish match event",
			observability.CorrelationAttr(ctx),
			slog.String("topic", topic),
			slog.String("tournament_id", tournamentID),
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

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *MatchService,
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

	s.logger.InfoContext(ctx, "Operation triggered",
		observability.CorrelationAttr(ctx),
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

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

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *MatchService,
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

func (s *MatchService) now() time.Time {
	return s.clock.Now().UTC()
}

// domainErrors are reported to callers as failure results rather than infrastructure errors.
var domainErrors = []error{
	ErrUnknownTournament,
	ErrMatchNotFound,
	ErrScheduleExists,
	ErrUnknownChartMetric,
	matchdomain.ErrInvalidScore,
	matchdomain.ErrMissingScore,
	matchdomain.ErrInvalidTransition,
	matchdomain.ErrDuplicateTeamPairing,
	matchdomain.ErrIncompleteMatch,
	matchdomain.ErrNoVenues,
	matchdomain.ErrInvalidDayIncrement,
	matchdomain.ErrInvalidKickoffTime,
	matchdomain.ErrWinnerRequired,
	matchdomain.ErrInvalidState,
	matchtime.ErrUnrecognizedDate,
	matchfixtures.ErrEmptyWorkbook,
	matchfixtures.ErrMissingColumn,
	ErrInvalidFixtureRow,
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

// failureOr turns domain errors into failure results and passes other errors through.
func failureOr[S any](err error) (results.OperationResult[S, error], error) {
	if IsDomainError(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}
