package matchhandlers

import (
	"context"
	"errors"
	"log/slog"

	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	"github.com/ahalia-sports/tournament-admin/pkg/handlerwrapper"
)

// HandleMatchCompleted recomputes the tournament table after a result and publishes it.
func (h *MatchHandlers) HandleMatchCompleted(
	ctx context.Context,
	payload *matchevents.MatchPayloadV1,
) ([]handlerwrapper.Result, error) {
	table, err := h.service.Standings(ctx, payload.TournamentID)
	if errors.Is(err, matchservice.ErrUnknownTournament) {
		h.logger.WarnContext(ctx, "Completed match for unknown tournament ignored",
			slog.String("tournament_id", payload.TournamentID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic:        matchevents.StandingsUpdatedV1,
		TournamentID: payload.TournamentID,
		Payload: &matchevents.StandingsUpdatedPayloadV1{
			TournamentID: payload.TournamentID,
			Standings:    table,
		},
	}}, nil
}
