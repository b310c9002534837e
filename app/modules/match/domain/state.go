package matchdomain

import "fmt"

// Status is the lifecycle position of a match.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// State is one of Scheduled, InProgress or Completed.
type State interface {
	Status() Status
	isState()
}

// Scheduled is the initial state. It never carries a score.
type Scheduled struct{}

// InProgress is a started match, optionally with a live score.
type InProgress struct {
	Score *Score
}

// Completed is a finished match. A nil Winner is a draw.
type Completed struct {
	Score  Score
	Winner *string
}

func (Scheduled) Status() Status  { return StatusScheduled }
func (InProgress) Status() Status { return StatusInProgress }
func (Completed) Status() Status  { return StatusCompleted }

func (Scheduled) isState()  {}
func (InProgress) isState() {}
func (Completed) isState()  {}

// RestoreState rebuilds a state from flattened stored fields, enforcing the state invariants.
func RestoreState(status Status, score *Score, winner *string, teamA, teamB string) (State, error) {
	switch status {
	case StatusScheduled:
		if score != nil || winner != nil {
			return nil, fmt.Errorf("%w: scheduled match carries a result", ErrInvalidState)
		}
		return Scheduled{}, nil
	case StatusInProgress:
		if winner != nil {
			return nil, fmt.Errorf("%w: in-progress match carries a winner", ErrInvalidState)
		}
		if score != nil {
			if err := score.Validate(); err != nil {
				return nil, err
			}
			s := *score
			return InProgress{Score: &s}, nil
		}
		return InProgress{}, nil
	case StatusCompleted:
		if score == nil {
			return nil, fmt.Errorf("%w: completed match without score", ErrInvalidState)
		}
		if err := score.Validate(); err != nil {
			return nil, err
		}
		if winner != nil && *winner != teamA && *winner != teamB {
			return nil, fmt.Errorf("%w: winner %q is not a participant", ErrInvalidState, *winner)
		}
		return Completed{Score: *score, Winner: copyString(winner)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidState, status)
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
