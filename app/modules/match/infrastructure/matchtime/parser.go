package matchtime

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	"github.com/jonboulle/clockwork"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedDate is returned when the input is neither a calendar date nor a phrase
// the natural language parser understands.
var ErrUnrecognizedDate = errors.New("unrecognized date")

// DateParser resolves schedule start dates.
type DateParser interface {
	ParseStartDate(input string, loc *time.Location) (time.Time, error)
}

// Parser parses YYYY-MM-DD dates and phrases such as "tomorrow" or "next monday".
type Parser struct {
	clock  clockwork.Clock
	when   *when.Parser
	logger *slog.Logger
}

// NewParser creates a Parser reading "now" from clock.
func NewParser(clock clockwork.Clock, logger *slog.Logger) *Parser {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := when.New(nil)
	w.Add(en.All...)
	return &Parser{clock: clock, when: w, logger: logger}
}

// ParseStartDate returns the calendar day named by input, interpreted in loc.
// An empty input means today.
func (p *Parser) ParseStartDate(input string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	now := p.clock.Now().In(loc)

	input = strings.TrimSpace(input)
	if input == "" {
		return matchdomain.CalendarDay(now), nil
	}

	if t, err := time.ParseInLocation(matchdomain.DateLayout, input, loc); err == nil {
		return matchdomain.CalendarDay(t), nil
	}

	r, err := p.when.Parse(strings.ToLower(input), now)
	if err != nil {
		p.logger.Warn("Natural language date parsing failed",
			slog.String("input", input),
			slog.Any("error", err),
		)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
	}

	parsed := r.Time.In(loc)
	p.logger.Debug("Parsed start date", slog.String("input", input), slog.String("date", parsed.Format(matchdomain.DateLayout)))
	return matchdomain.CalendarDay(parsed), nil
}
