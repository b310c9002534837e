// Package matchevents defines the topics and payloads published by the match module.
package matchevents

import (
	"time"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
)

// Topics. Every topic is also published with a ".<tournamentID>" suffix.
const (
	ScheduleGeneratedV1 = "match.schedule.generated.v1"
	MatchScheduledV1    = "match.scheduled.v1"
	MatchStartedV1      = "match.started.v1"
	ScoreUpdatedV1      = "match.score.updated.v1"
	MatchCompletedV1    = "match.completed.v1"
	KickoffDueV1        = "match.kickoff.due.v1"
	StandingsUpdatedV1  = "match.standings.updated.v1"
)

// MatchPayloadV1 carries a single match snapshot.
type MatchPayloadV1 struct {
	TournamentID string           `json:"tournament_id"`
	Match        matchdomain.View `json:"match"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// ScheduleGeneratedPayloadV1 is published once per generated round robin.
type ScheduleGeneratedPayloadV1 struct {
	TournamentID string             `json:"tournament_id"`
	StartDate    string             `json:"start_date"`
	Matches      []matchdomain.View `json:"matches"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

// KickoffDuePayloadV1 is emitted by the job queue when a fixture reaches its kickoff.
type KickoffDuePayloadV1 struct {
	TournamentID string    `json:"tournament_id"`
	MatchID      string    `json:"match_id"`
	KickoffAt    time.Time `json:"kickoff_at"`
}

// StandingsUpdatedPayloadV1 carries the recomputed table after a result.
type StandingsUpdatedPayloadV1 struct {
	TournamentID string                    `json:"tournament_id"`
	Standings    []matchdomain.StandingRow `json:"standings"`
}
