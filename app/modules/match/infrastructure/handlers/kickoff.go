package matchhandlers

import (
	"context"
	"errors"
	"log/slog"

	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	"github.com/ahalia-sports/tournament-admin/pkg/handlerwrapper"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
)

// HandleKickoffDue starts the match when its tournament has auto start enabled.
// Matches that were already started, ended or removed are acknowledged without retry.
func (h *MatchHandlers) HandleKickoffDue(
	ctx context.Context,
	payload *matchevents.KickoffDuePayloadV1,
) ([]handlerwrapper.Result, error) {
	logger := h.logger.With(
		observability.CorrelationAttr(ctx),
		slog.String("tournament_id", payload.TournamentID),
		slog.String("match_id", payload.MatchID),
	)

	t, ok := h.service.Tournament(payload.TournamentID)
	if !ok {
		logger.WarnContext(ctx, "Kickoff for unknown tournament ignored")
		return nil, nil
	}
	if !t.AutoStart {
		logger.InfoContext(ctx, "Kickoff reached, auto start disabled")
		return nil, nil
	}

	_, err := h.service.StartMatch(ctx, payload.TournamentID, payload.MatchID)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "Match started at kickoff")
		return nil, nil
	case errors.Is(err, matchdomain.ErrInvalidTransition), errors.Is(err, matchservice.ErrMatchNotFound):
		logger.InfoContext(ctx, "Match not startable at kickoff", slog.Any("reason", err))
		return nil, nil
	default:
		return nil, err
	}
}
