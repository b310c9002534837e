package teamdomain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Position is where a player lines up.
type Position string

const (
	PositionForward    Position = "forward"
	PositionMidfielder Position = "midfielder"
	PositionDefender   Position = "defender"
	PositionGoalkeeper Position = "goalkeeper"
)

// Positions lists every position in squad-sheet order.
var Positions = []Position{PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper}

// ParsePosition validates raw input as a Position, ignoring case.
func ParsePosition(raw string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(Positions, p) {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
}

// PlayerStats are a player's season totals.
type PlayerStats struct {
	Goals       int `json:"goals" validate:"gte=0"`
	Assists     int `json:"assists" validate:"gte=0"`
	YellowCards int `json:"yellowCards" validate:"gte=0"`
	RedCards    int `json:"redCards" validate:"gte=0"`
}

// Validate rejects negative totals.
func (s PlayerStats) Validate() error {
	return validateAs(s, ErrInvalidPlayer)
}

// Player is a registered member of a team's squad.
type Player struct {
	ID           string      `json:"id"`
	TournamentID string      `json:"tournamentId"`
	TeamID       string      `json:"teamId"`
	TeamName     string      `json:"team"`
	Name         string      `json:"name"`
	Position     Position    `json:"position"`
	Stats        PlayerStats `json:"stats"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// PlayerEntry is an admin-created player.
type PlayerEntry struct {
	TournamentID string      `json:"tournament" validate:"required"`
	TeamID       string      `json:"teamId" validate:"required"`
	Name         string      `json:"name" validate:"required,min=2,max=80"`
	Position     string      `json:"position" validate:"required"`
	Stats        PlayerStats `json:"stats"`
}

// NewPlayer builds a player for the given team from a validated entry.
func NewPlayer(id string, e PlayerEntry, team Team, now time.Time) (Player, error) {
	e.TournamentID = strings.TrimSpace(e.TournamentID)
	e.TeamID = strings.TrimSpace(e.TeamID)
	e.Name = strings.TrimSpace(e.Name)
	if err := validateAs(e, ErrInvalidPlayer); err != nil {
		return Player{}, err
	}
	pos, err := ParsePosition(e.Position)
	if err != nil {
		return Player{}, err
	}
	if team.ID != e.TeamID || team.TournamentID != e.TournamentID {
		return Player{}, fmt.Errorf("%w: team %s is not in tournament %s", ErrInvalidPlayer, e.TeamID, e.TournamentID)
	}
	return Player{
		ID:           id,
		TournamentID: e.TournamentID,
		TeamID:       team.ID,
		TeamName:     team.Name,
		Name:         e.Name,
		Position:     pos,
		Stats:        e.Stats,
		CreatedAt:    now,
	}, nil
}

// DefaultLeaderCount is how many players each leaders list holds when no limit is given.
const DefaultLeaderCount = 5

// Leaders are the tournament's top goal scorers and assist makers.
type Leaders struct {
	TopScorers []Player `json:"topScorers"`
	TopAssists []Player `json:"topAssists"`
}

// ComputeLeaders ranks players by goals and by assists. Players with nothing to their
// name in a category are left out of it. Ties fall back to the other category, then name.
func ComputeLeaders(players []Player, limit int) Leaders {
	if limit <= 0 {
		limit = DefaultLeaderCount
	}
	return Leaders{
		TopScorers: rank(players, limit, func(p Player) (int, int) { return p.Stats.Goals, p.Stats.Assists }),
		TopAssists: rank(players, limit, func(p Player) (int, int) { return p.Stats.Assists, p.Stats.Goals }),
	}
}

func rank(players []Player, limit int, key func(Player) (int, int)) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if primary, _ := key(p); primary > 0 {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Player) int {
		a1, a2 := key(a)
		b1, b2 := key(b)
		if c := cmp.Compare(b1, a1); c != 0 {
			return c
		}
		if c := cmp.Compare(b2, a2); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
