package teamdomain

import "errors"

var (
	// ErrInvalidTeam is returned when team details fail validation.
	ErrInvalidTeam = errors.New("invalid team details")

	// ErrRosterTooSmall is returned when a listed team has fewer than MinRosterSize players.
	ErrRosterTooSmall = errors.New("a team must have at least 11 players")

	// ErrInvalidStatus is returned for a status outside active, pending and rejected.
	ErrInvalidStatus = errors.New("invalid team status")

	// ErrInvalidPlayer is returned when player details or stats fail validation.
	ErrInvalidPlayer = errors.New("invalid player details")

	// ErrInvalidPosition is returned for a position outside the four outfield roles.
	ErrInvalidPosition = errors.New("invalid player position")
)
