package matchdb

import (
	"time"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	"github.com/uptrace/bun"
)

// Match is the stored form of a match. Status, scores and winner flatten the domain state.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`
	ID            string    `bun:"id,pk"`
	TournamentID  string    `bun:"tournament_id,notnull"`
	Seq           int       `bun:"seq,notnull"`
	TeamA         string    `bun:"team_a,notnull"`
	TeamB         string    `bun:"team_b,notnull"`
	Date          time.Time `bun:"match_date,type:date,notnull"`
	KickoffTime   string    `bun:"kickoff_time,notnull"`
	Venue         string    `bun:"venue,notnull"`
	Status        string    `bun:"status,notnull,default:'scheduled'"`
	ScoreA        *int      `bun:"score_a"`
	ScoreB        *int      `bun:"score_b"`
	Winner        *string   `bun:"winner"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// FromDomain flattens a domain match into its stored form.
func FromDomain(m matchdomain.Match) *Match {
	row := &Match{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		TeamA:        m.TeamA,
		TeamB:        m.TeamB,
		Date:         m.Date,
		KickoffTime:  string(m.Time),
		Venue:        m.Venue,
		Status:       string(m.Status()),
	}
	if s, ok := m.Score(); ok {
		a, b := s.A, s.B
		row.ScoreA, row.ScoreB = &a, &b
	}
	if w, ok := m.Winner(); ok {
		row.Winner = &w
	}
	return row
}

// ToDomain rebuilds the domain match, rejecting rows whose fields do not form a valid state.
func (r *Match) ToDomain() (matchdomain.Match, error) {
	var score *matchdomain.Score
	if r.ScoreA != nil && r.ScoreB != nil {
		score = &matchdomain.Score{A: *r.ScoreA, B: *r.ScoreB}
	}
	state, err := matchdomain.RestoreState(matchdomain.Status(r.Status), score, r.Winner, r.TeamA, r.TeamB)
	if err != nil {
		return matchdomain.Match{}, err
	}
	return matchdomain.Match{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		TeamA:        r.TeamA,
		TeamB:        r.TeamB,
		Date:         matchdomain.CalendarDay(r.Date),
		Time:         matchdomain.KickoffTime(r.KickoffTime),
		Venue:        r.Venue,
		State:        state,
	}, nil
}

func (r *Match) clone() *Match {
	c := *r
	if r.ScoreA != nil {
		v := *r.ScoreA
		c.ScoreA = &v
	}
	if r.ScoreB != nil {
		v := *r.ScoreB
		c.ScoreB = &v
	}
	if r.Winner != nil {
		v := *r.Winner
		c.Winner = &v
	}
	return &c
}
