package matchdomain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a match date.
const DateLayout = "2006-01-02"

// KickoffTime is a wall-clock kickoff in HH:MM form.
type KickoffTime string

// ParseKickoffTime validates and normalizes an HH:MM kickoff time.
func ParseKickoffTime(raw string) (KickoffTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidKickoffTime, raw)
	}
	return KickoffTime(t.Format("15:04")), nil
}

// Clock returns the hour and minute of the kickoff.
func (k KickoffTime) Clock() (hour, minute int) {
	t, err := time.Parse("15:04", string(k))
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}

func (k KickoffTime) String() string {
	return string(k)
}

// Match is a fixture between two teams. Mutate it only through the lifecycle functions.
type Match struct {
	ID           string
	TournamentID string
	TeamA        string
	TeamB        string
	Date         time.Time
	Time         KickoffTime
	Venue        string
	State        State
}

// NewMatch builds a scheduled match, rejecting missing fields and self pairings.
func NewMatch(id, tournamentID, teamA, teamB string, date time.Time, kickoff KickoffTime, venue string) (Match, error) {
	teamA = strings.TrimSpace(teamA)
	teamB = strings.TrimSpace(teamB)
	venue = strings.TrimSpace(venue)

	if teamA == "" || teamB == "" || venue == "" || date.IsZero() || kickoff == "" {
		return Match{}, ErrIncompleteMatch
	}
	if teamA == teamB {
		return Match{}, fmt.Errorf("%w: %s", ErrDuplicateTeamPairing, teamA)
	}
	if _, err := ParseKickoffTime(string(kickoff)); err != nil {
		return Match{}, err
	}

	return Match{
		ID:           id,
		TournamentID: tournamentID,
		TeamA:        teamA,
		TeamB:        teamB,
		Date:         CalendarDay(date),
		Time:         kickoff,
		Venue:        venue,
		State:        Scheduled{},
	}, nil
}

// CalendarDay truncates t to midnight UTC of its own calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Status returns the lifecycle status. A nil state reads as scheduled.
func (m Match) Status() Status {
	if m.State == nil {
		return StatusScheduled
	}
	return m.State.Status()
}

// Score returns the current score, if any.
func (m Match) Score() (Score, bool) {
	switch s := m.State.(type) {
	case InProgress:
		if s.Score != nil {
			return *s.Score, true
		}
	case Completed:
		return s.Score, true
	}
	return Score{}, false
}

// Winner returns the winning team name. ok is false for draws and unfinished matches.
func (m Match) Winner() (winner string, ok bool) {
	if c, isCompleted := m.State.(Completed); isCompleted && c.Winner != nil {
		return *c.Winner, true
	}
	return "", false
}

// IsDraw reports whether the match finished without a winner.
func (m Match) IsDraw() bool {
	c, ok := m.State.(Completed)
	return ok && c.Winner == nil
}

// HasTeam reports whether name is one of the two participants.
func (m Match) HasTeam(name string) bool {
	return name != "" && (name == m.TeamA || name == m.TeamB)
}

// KickoffAt combines the match date and kickoff time in loc.
func (m Match) KickoffAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	hour, minute := m.Time.Clock()
	y, mo, d := m.Date.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, loc)
}

// View is the read-only snapshot handed to the display layer.
type View struct {
	ID           string  `json:"id"`
	TournamentID string  `json:"tournamentId"`
	TeamA        string  `json:"teamA"`
	TeamB        string  `json:"teamB"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Venue        string  `json:"venue"`
	Status       Status  `json:"status"`
	Score        *Score  `json:"score,omitempty"`
	Winner       *string `json:"winner,omitempty"`
}

// View flattens the match for rendering.
func (m Match) View() View {
	v := View{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		TeamA:        m.TeamA,
		TeamB:        m.TeamB,
		Date:         m.Date.Format(DateLayout),
		Time:         string(m.Time),
		Venue:        m.Venue,
		Status:       m.Status(),
	}
	if s, ok := m.Score(); ok {
		v.Score = &s
	}
	if w, ok := m.Winner(); ok {
		v.Winner = &w
	}
	return v
}
