package matchservice

import "errors"

var (
	// ErrUnknownTournament is returned for a tournament ID that is not configured.
	ErrUnknownTournament = errors.New("unknown tournament")

	// ErrMatchNotFound is returned when a match does not exist in the tournament.
	ErrMatchNotFound = errors.New("match not found")

	// ErrScheduleExists is returned when generating a schedule for a tournament that
	// already has fixtures.
	ErrScheduleExists = errors.New("tournament already has a schedule")

	// ErrUnknownChartMetric is returned for a chart metric other than points or goals.
	ErrUnknownChartMetric = errors.New("unknown chart metric")
)
