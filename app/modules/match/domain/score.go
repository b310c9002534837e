package matchdomain

import (
	"fmt"
	"strconv"
	"strings"
)

// Score is the pair of points for team A and team B.
type Score struct {
	A int `json:"teamA"`
	B int `json:"teamB"`
}

// NewScore builds a score, rejecting negative values.
func NewScore(a, b int) (Score, error) {
	s := Score{A: a, B: b}
	if err := s.Validate(); err != nil {
		return Score{}, err
	}
	return s, nil
}

// ParseScore converts raw form input into a score.
func ParseScore(rawA, rawB string) (Score, error) {
	a, err := parsePoints(rawA)
	if err != nil {
		return Score{}, err
	}
	b, err := parsePoints(rawB)
	if err != nil {
		return Score{}, err
	}
	return NewScore(a, b)
}

func parsePoints(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: score is required", ErrInvalidScore)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidScore, raw)
	}
	return v, nil
}

// Validate reports ErrInvalidScore for negative values.
func (s Score) Validate() error {
	if s.A < 0 || s.B < 0 {
		return fmt.Errorf("%w: scores must not be negative (%d-%d)", ErrInvalidScore, s.A, s.B)
	}
	return nil
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.A, s.B)
}
