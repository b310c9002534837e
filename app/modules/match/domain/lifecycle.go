package matchdomain

// Lifecycle operations take a match by value and return the updated copy. On error the
// caller keeps the original, so a failed call never leaves a partial change behind.

// Start moves a scheduled match to in-progress without a score.
func Start(m Match) (Match, error) {
	if m.Status() != StatusScheduled {
		return m, &TransitionError{Op: "start", From: m.Status()}
	}
	m.State = InProgress{}
	return m, nil
}

// UpdateLiveScore overwrites the live score of an in-progress match.
func UpdateLiveScore(m Match, s Score) (Match, error) {
	if m.Status() != StatusInProgress {
		return m, &TransitionError{Op: "update the live score of", From: m.Status()}
	}
	if err := s.Validate(); err != nil {
		return m, err
	}
	m.State = InProgress{Score: &s}
	return m, nil
}

// Complete records the final score from any state. On a tie, explicitWinner decides the
// winner when it names one of the two teams; otherwise the match is a draw. Completing
// an already completed match amends its result.
func Complete(m Match, s Score, explicitWinner string) (Match, error) {
	if err := s.Validate(); err != nil {
		return m, err
	}
	m.State = Completed{Score: s, Winner: resolveWinner(m, s, explicitWinner)}
	return m, nil
}

// EndInProgress completes a live match using its current score. Ties end as draws.
func EndInProgress(m Match) (Match, error) {
	live, ok := m.State.(InProgress)
	if !ok {
		return m, &TransitionError{Op: "end", From: m.Status()}
	}
	if live.Score == nil {
		return m, ErrMissingScore
	}
	s := *live.Score
	m.State = Completed{Score: s, Winner: resolveWinner(m, s, "")}
	return m, nil
}

func resolveWinner(m Match, s Score, explicitWinner string) *string {
	var w string
	switch {
	case s.A > s.B:
		w = m.TeamA
	case s.B > s.A:
		w = m.TeamB
	case m.HasTeam(explicitWinner):
		w = explicitWinner
	default:
		return nil
	}
	return &w
}
