// Package feed reads the CSV file written by the external scraper and
// shapes it for the dashboard and the scheduler import. The file contract:
// semicolon-delimited, a header row naming at least date, today, total, co2
// and trees, data rows sorted ascending by timestamp. The last row of a
// calendar day is that day's authoritative snapshot.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row is one scraper sample. Today and Total are kWh, CO2 is tonnes.
type Row struct {
	Timestamp time.Time
	Today     float64
	Total     float64
	CO2       float64
	Trees     int64
}

// DayPoint is the authoritative snapshot of one calendar day.
type DayPoint struct {
	Date  string  `json:"date"` // "YYYY-MM-DD"
	Today float64 `json:"today"`
	Total float64 `json:"total"`
	CO2   float64 `json:"co2"`
	Trees int64   `json:"trees"`
}

// Summary carries the headline dashboard figures.
type Summary struct {
	TotalEnergy float64   `json:"total_energy"` // cumulative kWh, last row
	CO2         float64   `json:"co2"`          // tonnes, last day snapshot
	Trees       int64     `json:"trees"`        // last day snapshot
	LastUpdate  time.Time `json:"last_update"`
}

// ErrEmptyFeed is returned when the CSV holds a header but no data rows.
var ErrEmptyFeed = errors.New("feed: no data rows")

// timestamp layouts seen in portal exports.
var tsLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
}

// Parse reads the semicolon CSV. Column order is taken from the header, so
// extra columns are tolerated. Rows are returned in file order.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("feed: read header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "today", "total", "co2", "trees"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("feed: missing column %q", required)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feed: read row: %w", err)
		}
		row, err := parseRow(rec, idx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseFile opens and parses a CSV file.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseRow(rec []string, idx map[string]int) (Row, error) {
	get := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }

	ts, err := parseTimestamp(get("date"))
	if err != nil {
		return Row{}, err
	}
	today, err := parseFloat(get("today"))
	if err != nil {
		return Row{}, fmt.Errorf("feed: bad today value: %w", err)
	}
	total, err := parseFloat(get("total"))
	if err != nil {
		return Row{}, fmt.Errorf("feed: bad total value: %w", err)
	}
	co2, err := parseFloat(get("co2"))
	if err != nil {
		return Row{}, fmt.Errorf("feed: bad co2 value: %w", err)
	}
	trees, err := parseFloat(get("trees"))
	if err != nil {
		return Row{}, fmt.Errorf("feed: bad trees value: %w", err)
	}
	return Row{Timestamp: ts, Today: today, Total: total, CO2: co2, Trees: int64(trees)}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range tsLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("feed: unrecognized timestamp %q", s)
}

// parseFloat also accepts decimal commas, which the portal emits under
// some locales.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// Daily collapses samples to one point per calendar day, keeping the last
// sample of each day, ordered ascending by date.
func Daily(rows []Row) []DayPoint {
	byDay := map[string]Row{}
	for _, r := range rows {
		// Later rows overwrite earlier ones; with ascending input the
		// survivor is the day's final sample.
		byDay[r.Timestamp.Format("2006-01-02")] = r
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	points := make([]DayPoint, 0, len(days))
	for _, d := range days {
		r := byDay[d]
		points = append(points, DayPoint{Date: d, Today: r.Today, Total: r.Total, CO2: r.CO2, Trees: r.Trees})
	}
	return points
}

// Latest derives the headline summary: cumulative total from the very last
// sample, CO2 and trees from the last day snapshot.
func Latest(rows []Row) (Summary, error) {
	if len(rows) == 0 {
		return Summary{}, ErrEmptyFeed
	}
	last := rows[len(rows)-1]
	daily := Daily(rows)
	lastDay := daily[len(daily)-1]
	return Summary{
		TotalEnergy: last.Total,
		CO2:         lastDay.CO2,
		Trees:       lastDay.Trees,
		LastUpdate:  last.Timestamp,
	}, nil
}
