package feed

import (
	"strings"
	"testing"
)

const sampleCSV = `date;today;total;co2;trees
2024-05-01 08:00:00;2.5;1000.0;10.1;100
2024-05-01 18:00:00;14.0;1011.5;10.2;101
2024-05-02 09:00:00;3.0;1014.5;10.3;102
2024-05-02 19:30:00;16.5;1028.0;10.4;103
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Today != 2.5 || rows[0].Total != 1000.0 || rows[0].Trees != 100 {
		t.Fatalf("first row mismatch: %+v", rows[0])
	}
}

func TestParseToleratesColumnOrderAndExtras(t *testing.T) {
	csv := "total;extra;date;co2;trees;today\n500.0;x;2024-05-01 12:00:00;1.0;5;20.0\n"
	rows, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0].Total != 500.0 || rows[0].Today != 20.0 {
		t.Fatalf("columns mapped wrong: %+v", rows[0])
	}
}

func TestParseDecimalComma(t *testing.T) {
	csv := "date;today;total;co2;trees\n2024-05-01 12:00:00;1,5;10,25;0,5;7\n"
	rows, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0].Today != 1.5 || rows[0].Total != 10.25 || rows[0].CO2 != 0.5 {
		t.Fatalf("decimal comma not handled: %+v", rows[0])
	}
}

func TestParseMissingColumn(t *testing.T) {
	csv := "date;today;total\n2024-05-01 12:00:00;1.0;2.0\n"
	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestDailyKeepsLastRowPerDay(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	days := Daily(rows)
	if len(days) != 2 {
		t.Fatalf("expected 2 day points, got %d", len(days))
	}
	// The evening sample is each day's authoritative snapshot.
	if days[0].Date != "2024-05-01" || days[0].Today != 14.0 {
		t.Fatalf("day 1 snapshot wrong: %+v", days[0])
	}
	if days[1].Date != "2024-05-02" || days[1].Today != 16.5 || days[1].Trees != 103 {
		t.Fatalf("day 2 snapshot wrong: %+v", days[1])
	}
}

func TestLatest(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sum, err := Latest(rows)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if sum.TotalEnergy != 1028.0 {
		t.Fatalf("total = %v, want 1028.0", sum.TotalEnergy)
	}
	if sum.CO2 != 10.4 || sum.Trees != 103 {
		t.Fatalf("snapshot mismatch: %+v", sum)
	}
	if sum.LastUpdate.Format("2006-01-02 15:04:05") != "2024-05-02 19:30:00" {
		t.Fatalf("last update = %v", sum.LastUpdate)
	}
}

func TestLatestEmpty(t *testing.T) {
	if _, err := Latest(nil); err != ErrEmptyFeed {
		t.Fatalf("expected ErrEmptyFeed, got %v", err)
	}
}
