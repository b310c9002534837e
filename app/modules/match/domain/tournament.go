package matchdomain

import (
	"fmt"
	"time"
)

// DrawPolicy says whether a tournament accepts drawn results.
type DrawPolicy string

const (
	DrawsAllowed   DrawPolicy = "draws_allowed"
	WinnerRequired DrawPolicy = "winner_required"
)

// IsValid checks if the policy is a known value.
func (p DrawPolicy) IsValid() bool {
	return p == DrawsAllowed || p == WinnerRequired
}

// Check rejects a drawn result when the policy needs a winner.
func (p DrawPolicy) Check(m Match) error {
	if p == WinnerRequired && m.IsDraw() {
		return ErrWinnerRequired
	}
	return nil
}

// Tournament holds the per-tournament scheduling and result rules.
type Tournament struct {
	ID           string
	Name         string
	Sport        string
	DrawPolicy   DrawPolicy
	Venues       []string
	KickoffTimes [2]KickoffTime
	DayIncrement int
	Location     *time.Location
	AutoStart    bool
}

// ScheduleParams builds generator input for this tournament's roster.
func (t Tournament) ScheduleParams(teams []string, start time.Time) ScheduleParams {
	return ScheduleParams{
		TournamentID: t.ID,
		Teams:        teams,
		Venues:       t.Venues,
		StartDate:    start,
		DayIncrement: t.DayIncrement,
		KickoffTimes: t.KickoffTimes,
	}
}

// NewTournament validates raw settings into a Tournament.
func NewTournament(id, name, sport, policy string, venues, kickoffTimes []string, dayIncrement int, timezone string, autoStart bool) (Tournament, error) {
	if id == "" {
		return Tournament{}, fmt.Errorf("tournament id is required")
	}
	p := DrawPolicy(policy)
	if !p.IsValid() {
		return Tournament{}, fmt.Errorf("tournament %s: unknown draw policy %q", id, policy)
	}
	if len(kickoffTimes) != 2 {
		return Tournament{}, fmt.Errorf("tournament %s: exactly two kickoff times are required, got %d", id, len(kickoffTimes))
	}
	var times [2]KickoffTime
	for i, raw := range kickoffTimes {
		k, err := ParseKickoffTime(raw)
		if err != nil {
			return Tournament{}, fmt.Errorf("tournament %s: %w", id, err)
		}
		times[i] = k
	}
	if dayIncrement < 0 {
		return Tournament{}, fmt.Errorf("tournament %s: %w", id, ErrInvalidDayIncrement)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Tournament{}, fmt.Errorf("tournament %s: invalid timezone %q: %w", id, timezone, err)
	}

	return Tournament{
		ID:           id,
		Name:         name,
		Sport:        sport,
		DrawPolicy:   p,
		Venues:       append([]string(nil), venues...),
		KickoffTimes: times,
		DayIncrement: dayIncrement,
		Location:     loc,
		AutoStart:    autoStart,
	}, nil
}
