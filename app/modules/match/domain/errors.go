package matchdomain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScore is returned for a missing, non-numeric or negative score.
	ErrInvalidScore = errors.New("invalid score")

	// ErrMissingScore is returned when a match is ended before any score was recorded.
	ErrMissingScore = errors.New("missing score")

	// ErrInvalidTransition is returned when an operation is not allowed from the match's state.
	ErrInvalidTransition = errors.New("invalid match transition")

	// ErrDuplicateTeamPairing is returned when a team would play itself.
	ErrDuplicateTeamPairing = errors.New("team cannot play against itself")

	// ErrIncompleteMatch is returned when a manually scheduled match lacks a required field.
	ErrIncompleteMatch = errors.New("match details incomplete")

	// ErrNoVenues is returned when a schedule is requested without any venue.
	ErrNoVenues = errors.New("at least one venue is required")

	// ErrInvalidDayIncrement is returned for a negative day increment.
	ErrInvalidDayIncrement = errors.New("day increment must not be negative")

	// ErrInvalidKickoffTime is returned for a kickoff time not in HH:MM form.
	ErrInvalidKickoffTime = errors.New("invalid kickoff time")

	// ErrWinnerRequired is returned when a draw is recorded in a tournament that needs a winner.
	ErrWinnerRequired = errors.New("a winner is required in this tournament")

	// ErrInvalidState is returned when stored fields do not form a valid match state.
	ErrInvalidState = errors.New("invalid match state")
)

// TransitionError reports an operation attempted from a state that does not permit it.
type TransitionError struct {
	Op   string
	From Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a match that is %s", e.Op, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
