package teamservice

import "errors"

var (
	// ErrUnknownTournament is returned for a tournament ID that is not configured.
	ErrUnknownTournament = errors.New("unknown tournament")

	// ErrTeamNotFound is returned when a team does not exist in the tournament.
	ErrTeamNotFound = errors.New("team not found")

	// ErrTeamExists is returned when a tournament already has a team with the name.
	ErrTeamExists = errors.New("a team with this name is already registered")

	// ErrPlayerNotFound is returned when a player does not exist in the tournament.
	ErrPlayerNotFound = errors.New("player not found")
)
