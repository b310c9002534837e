package matchdomain

import (
	"cmp"
	"slices"
)

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// StandingRow is one team's line in the league table.
type StandingRow struct {
	Rank         int    `json:"rank"`
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	ScoreFor     int    `json:"scoreFor"`
	ScoreAgainst int    `json:"scoreAgainst"`
	Difference   int    `json:"difference"`
	Points       int    `json:"points"`
}

// ComputeStandings builds the table from completed matches. Every team in roster is
// listed even without results; teams that only appear in matches are added.
func ComputeStandings(roster []string, matches []Match) []StandingRow {
	rows := make(map[string]*StandingRow, len(roster))
	row := func(team string) *StandingRow {
		r, ok := rows[team]
		if !ok {
			r = &StandingRow{Team: team}
			rows[team] = r
		}
		return r
	}
	for _, team := range roster {
		row(team)
	}

	for _, m := range matches {
		c, ok := m.State.(Completed)
		if !ok {
			continue
		}
		a, b := row(m.TeamA), row(m.TeamB)
		a.Played++
		b.Played++
		a.ScoreFor += c.Score.A
		a.ScoreAgainst += c.Score.B
		b.ScoreFor += c.Score.B
		b.ScoreAgainst += c.Score.A

		switch {
		case c.Winner == nil:
			a.Drawn++
			b.Drawn++
		case *c.Winner == m.TeamA:
			a.Won++
			b.Lost++
		default:
			b.Won++
			a.Lost++
		}
	}

	table := make([]StandingRow, 0, len(rows))
	for _, r := range rows {
		r.Difference = r.ScoreFor - r.ScoreAgainst
		r.Points = r.Won*PointsWin + r.Drawn*PointsDraw + r.Lost*PointsLoss
		table = append(table, *r)
	}

	slices.SortFunc(table, func(x, y StandingRow) int {
		if c := cmp.Compare(y.Points, x.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Difference, x.Difference); c != 0 {
			return c
		}
		if c := cmp.Compare(y.ScoreFor, x.ScoreFor); c != 0 {
			return c
		}
		return cmp.Compare(x.Team, y.Team)
	})

	for i := range table {
		table[i].Rank = i + 1
	}
	return table
}
