package matchqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	"github.com/ahalia-sports/tournament-admin/pkg/eventbus"
	"github.com/riverqueue/river"
)

// KickoffWorker publishes match.kickoff.due when a KickoffJob comes due.
type KickoffWorker struct {
	river.WorkerDefaults[KickoffJob]
	logger    *slog.Logger
	publisher message.Publisher
}

// NewKickoffWorker creates a KickoffWorker.
func NewKickoffWorker(logger *slog.Logger, publisher message.Publisher) *KickoffWorker {
	return &KickoffWorker{logger: logger, publisher: publisher}
}

// Work publishes the kickoff event. A publish failure is returned so River retries.
func (w *KickoffWorker) Work(ctx context.Context, job *river.Job[KickoffJob]) error {
	args := job.Args
	logger := w.logger.With(
		slog.Int64("job_id", job.ID),
		slog.String("tournament_id", args.TournamentID),
		slog.String("match_id", args.MatchID),
	)
	logger.InfoContext(ctx, "Kickoff due")

	msg, err := eventbus.NewJSONMessage(ctx, &matchevents.KickoffDuePayloadV1{
		TournamentID: args.TournamentID,
		MatchID:      args.MatchID,
		KickoffAt:    args.KickoffAt,
	})
	if err != nil {
		return err
	}
	if err := eventbus.PublishWithTournamentScope(w.publisher, matchevents.KickoffDueV1, args.TournamentID, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish kickoff", slog.Any("error", err))
		return fmt.Errorf("failed to publish kickoff for match %s: %w", args.MatchID, err)
	}
	return nil
}
