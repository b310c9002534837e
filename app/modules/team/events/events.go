// Package teamevents defines the topics and payloads published by the team module.
package teamevents

import (
	"time"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
)

const (
	TeamRegisteredV1 = "team.registered.v1"
	TeamUpdatedV1    = "team.updated.v1"
	TeamRemovedV1    = "team.removed.v1"

	PlayerRegisteredV1 = "player.registered.v1"
	PlayerUpdatedV1    = "player.updated.v1"
	PlayerRemovedV1    = "player.removed.v1"
)

// TeamPayloadV1 carries a team snapshot.
type TeamPayloadV1 struct {
	TournamentID string          `json:"tournament_id"`
	Team         teamdomain.Team `json:"team"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// PlayerPayloadV1 carries a player snapshot.
type PlayerPayloadV1 struct {
	TournamentID string            `json:"tournament_id"`
	Player       teamdomain.Player `json:"player"`
	OccurredAt   time.Time         `json:"occurred_at"`
}
