// Package matchfixtures reads and writes fixture lists as XLSX workbooks.
package matchfixtures

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by Export.
const SheetName = "Fixtures"

var (
	// ErrEmptyWorkbook is returned when the workbook has no sheet or no rows.
	ErrEmptyWorkbook = errors.New("fixture workbook is empty")

	// ErrMissingColumn is returned when the header row lacks a required column.
	ErrMissingColumn = errors.New("fixture workbook is missing a required column")
)

var header = []string{"ID", "Date", "Time", "Team A", "Team B", "Venue", "Status", "Score A", "Score B", "Winner"}

var required = []string{"date", "time", "team a", "team b", "venue"}

// dateLayouts are the date renderings accepted on import, first match wins.
var dateLayouts = []string{matchdomain.DateLayout, "01-02-06", "1/2/2006"}

// Row is one fixture line read from a workbook. Line is the 1-based spreadsheet row.
type Row struct {
	Line  int
	Date  string
	Time  string
	TeamA string
	TeamB string
	Venue string
}

// ParseDate parses the row's date cell.
func (r Row) ParseDate() (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(r.Date)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("row %d: unrecognized date %q", r.Line, r.Date)
}

// Export renders matches into a single-sheet workbook.
func Export(matches []matchdomain.Match) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, m := range matches {
		row := []any{m.ID, m.Date.Format(matchdomain.DateLayout), string(m.Time), m.TeamA, m.TeamB, m.Venue, string(m.Status()), "", "", ""}
		if s, ok := m.Score(); ok {
			row[7], row[8] = s.A, s.B
		}
		if w, ok := m.Winner(); ok {
			row[9] = w
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write fixture %s: %w", m.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "J", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Import reads fixture rows from the first sheet. Columns are located by header name,
// so extra columns and any column order are accepted. Blank rows are skipped.
func Import(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Row, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		if strings.TrimSpace(strings.Join(raw, "")) == "" {
			continue
		}
		out = append(out, Row{
			Line:  i + 2,
			Date:  cell(raw, "date"),
			Time:  normalizeTime(cell(raw, "time")),
			TeamA: cell(raw, "team a"),
			TeamB: cell(raw, "team b"),
			Venue: cell(raw, "venue"),
		})
	}
	return out, nil
}

// normalizeTime turns a spreadsheet fraction-of-day ("0.625") into HH:MM.
func normalizeTime(raw string) string {
	if strings.Contains(raw, ":") || raw == "" {
		return raw
	}
	frac, err := strconv.ParseFloat(raw, 64)
	if err != nil || frac < 0 || frac >= 1 {
		return raw
	}
	minutes := int(frac*24*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
