package matchdomain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// fixtureNamespace seeds the name-based UUIDs of generated fixtures.
var fixtureNamespace = uuid.MustParse("5b7e3c1a-9d2f-4f0e-8a61-2c4d7e9b1f30")

// ScheduleParams is the input of GenerateRoundRobin.
type ScheduleParams struct {
	TournamentID string
	Teams        []string
	Venues       []string
	StartDate    time.Time
	DayIncrement int
	KickoffTimes [2]KickoffTime
}

// GenerateRoundRobin pairs every team with every later team in roster order.
//
// The k-th fixture plays on StartDate + k*DayIncrement days, at KickoffTimes[k%2], at
// Venues[k%len(Venues)]. The output depends only on the input.
func GenerateRoundRobin(p ScheduleParams) ([]Match, error) {
	n := len(p.Teams)
	if n < 2 {
		return []Match{}, nil
	}
	if len(p.Venues) == 0 {
		return nil, ErrNoVenues
	}
	if p.DayIncrement < 0 {
		return nil, ErrInvalidDayIncrement
	}
	for _, k := range p.KickoffTimes {
		if _, err := ParseKickoffTime(string(k)); err != nil {
			return nil, err
		}
	}

	start := CalendarDay(p.StartDate)
	fixtures := make([]Match, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			k := len(fixtures)
			date := start.AddDate(0, 0, k*p.DayIncrement)

			m, err := NewMatch(
				FixtureID(p.TournamentID, k, p.Teams[i], p.Teams[j], date),
				p.TournamentID,
				p.Teams[i],
				p.Teams[j],
				date,
				p.KickoffTimes[k%2],
				p.Venues[k%len(p.Venues)],
			)
			if err != nil {
				return nil, fmt.Errorf("fixture %d (%s vs %s): %w", k, p.Teams[i], p.Teams[j], err)
			}
			fixtures = append(fixtures, m)
		}
	}

	return fixtures, nil
}

// FixtureID derives a stable identifier for the k-th generated fixture.
func FixtureID(tournamentID string, k int, teamA, teamB string, date time.Time) string {
	name := fmt.Sprintf("%s|%d|%s|%s|%s", tournamentID, k, teamA, teamB, date.Format(DateLayout))
	return uuid.NewSHA1(fixtureNamespace, []byte(name)).String()
}
