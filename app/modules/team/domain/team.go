package teamdomain

import (
	"fmt"
	"strings"
	"time"
)

// MinRosterSize is the smallest squad an admin may list.
const MinRosterSize = 11

// Status is a team's standing in the registry.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// ParseStatus validates raw input as a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusActive, StatusPending, StatusRejected:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Team is a registered squad in one tournament.
type Team struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	Name         string    `json:"name"`
	Department   string    `json:"department,omitempty"`
	Captain      string    `json:"captain"`
	ContactEmail string    `json:"contactEmail"`
	Phone        string    `json:"phone,omitempty"`
	Description  string    `json:"description,omitempty"`
	PlayerCount  int       `json:"players"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Registration is the public sign-up form. Registered teams wait for approval.
type Registration struct {
	TournamentID string `json:"tournament" validate:"required"`
	Name         string `json:"teamName" validate:"required,min=3,max=80"`
	Department   string `json:"department" validate:"required"`
	Captain      string `json:"captainName" validate:"required,min=3"`
	ContactEmail string `json:"captainEmail" validate:"required,email"`
	Phone        string `json:"captainPhone" validate:"required,min=10"`
	Description  string `json:"teamDescription,omitempty" validate:"max=1000"`
}

// Entry is an admin-created team, listed immediately.
type Entry struct {
	TournamentID string `json:"tournament" validate:"required"`
	Name         string `json:"name" validate:"required,max=80"`
	Captain      string `json:"captain" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	Department   string `json:"department,omitempty"`
	PlayerCount  int    `json:"players"`
}

// CheckRosterSize rejects squads smaller than MinRosterSize.
func CheckRosterSize(players int) error {
	if players < MinRosterSize {
		return fmt.Errorf("%w: got %d", ErrRosterTooSmall, players)
	}
	return nil
}

// NewRegisteredTeam builds a pending team from a validated registration.
func NewRegisteredTeam(id string, r Registration, now time.Time) (Team, error) {
	r = r.normalized()
	if err := Validate(r); err != nil {
		return Team{}, err
	}
	return Team{
		ID:           id,
		TournamentID: r.TournamentID,
		Name:         r.Name,
		Department:   r.Department,
		Captain:      r.Captain,
		ContactEmail: r.ContactEmail,
		Phone:        r.Phone,
		Description:  r.Description,
		Status:       StatusPending,
		CreatedAt:    now,
	}, nil
}

// NewListedTeam builds an active team from an admin entry.
func NewListedTeam(id string, e Entry, now time.Time) (Team, error) {
	e = e.normalized()
	if err := Validate(e); err != nil {
		return Team{}, err
	}
	if err := CheckRosterSize(e.PlayerCount); err != nil {
		return Team{}, err
	}
	return Team{
		ID:           id,
		TournamentID: e.TournamentID,
		Name:         e.Name,
		Department:   e.Department,
		Captain:      e.Captain,
		ContactEmail: e.ContactEmail,
		PlayerCount:  e.PlayerCount,
		Status:       StatusActive,
		CreatedAt:    now,
	}, nil
}

func (r Registration) normalized() Registration {
	r.TournamentID = strings.TrimSpace(r.TournamentID)
	r.Name = strings.TrimSpace(r.Name)
	r.Department = strings.TrimSpace(r.Department)
	r.Captain = strings.TrimSpace(r.Captain)
	r.ContactEmail = strings.TrimSpace(r.ContactEmail)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Description = strings.TrimSpace(r.Description)
	return r
}

func (e Entry) normalized() Entry {
	e.TournamentID = strings.TrimSpace(e.TournamentID)
	e.Name = strings.TrimSpace(e.Name)
	e.Captain = strings.TrimSpace(e.Captain)
	e.ContactEmail = strings.TrimSpace(e.ContactEmail)
	e.Department = strings.TrimSpace(e.Department)
	return e
}

// Headcount sums up a tournament's registry for dashboards.
type Headcount struct {
	Teams       int `json:"totalTeams"`
	ActiveTeams int `json:"activeTeams"`
	Players     int `json:"playersRegistered"`
}
