package matchservice

import (
	"bytes"
	"fmt"
	"strings"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours of rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is used for the standings chart.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Bar:        drawing.ColorFromHex("1f6f43"),
	Text:       drawing.ColorFromHex("222222"),
}

// ChartMetric selects the standings column a chart plots.
type ChartMetric string

const (
	ChartPoints ChartMetric = "points"
	ChartGoals  ChartMetric = "goals"
)

// ParseChartMetric reads a metric name; blank means points.
func ParseChartMetric(raw string) (ChartMetric, error) {
	switch m := ChartMetric(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return ChartPoints, nil
	case ChartPoints, ChartGoals:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (use points or goals)", ErrUnknownChartMetric, raw)
	}
}

func (m ChartMetric) value(row matchdomain.StandingRow) int {
	if m == ChartGoals {
		return row.ScoreFor
	}
	return row.Points
}

// GenerateStandingsChart produces a PNG bar chart of metric per team in table order.
func GenerateStandingsChart(title string, table []matchdomain.StandingRow, metric ChartMetric, palette ChartPalette) ([]byte, error) {
	if len(table) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, len(table))
	maxValue := 0
	for i, row := range table {
		v := metric.value(row)
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%d. %s", row.Rank, row.Team),
			Value: float64(v),
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		}
		maxValue = max(maxValue, v)
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  max(480, 120*len(table)),
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			// all-zero tables still need a non-empty range
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: float64(max(maxValue, 1)),
			},
		},
		BarWidth: 60,
		Bars:     bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	graph := chart.BarChart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		BarWidth: 60,
		Bars:     []chart.Value{{Label: "No teams registered yet", Value: 0}},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
