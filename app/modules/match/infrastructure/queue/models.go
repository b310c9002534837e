package matchqueue

import "time"

// QueueName is the River queue carrying match jobs.
const QueueName = "match"

// KickoffJob fires at a fixture's kickoff and announces it on the event bus.
type KickoffJob struct {
	TournamentID string    `json:"tournament_id"`
	MatchID      string    `json:"match_id"`
	KickoffAt    time.Time `json:"kickoff_at"`
}

// Kind returns the job type identifier for River
func (KickoffJob) Kind() string { return "match_kickoff" }

// JobInfo represents information about a scheduled job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	MatchID     string `json:"match_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
