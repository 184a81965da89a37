package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasmtls/energy-monitor/internal/database"
	"github.com/lucasmtls/energy-monitor/internal/queue"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func newRunner(t *testing.T, csvPath string) (*Runner, *repository.RecordRepo) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	records := repository.NewRecordRepo(db)
	return &Runner{CSVPath: csvPath, Records: records}, records
}

const csvTwoDays = `date;today;total;co2;trees
2024-05-01 18:00:00;14.0;1011.5;10.2;101
2024-05-02 19:30:00;16.5;1028.0;10.4;103
`

func TestRunCycleImportsNewDays(t *testing.T) {
	r, records := newRunner(t, writeCSV(t, csvTwoDays))

	var events []queue.RecordIngestedEvent
	r.Publish = func(_ context.Context, ev queue.RecordIngestedEvent) error {
		events = append(events, ev)
		return nil
	}

	n, ran := r.RunCycle(context.Background())
	if !ran {
		t.Fatalf("cycle did not run")
	}
	if n != 2 {
		t.Fatalf("imported %d records, want 2", n)
	}
	if len(events) != 2 {
		t.Fatalf("published %d events, want 2", len(events))
	}
	if events[0].Source != "scraper" || events[0].Date != "2024-05-01" {
		t.Fatalf("unexpected event: %+v", events[0])
	}

	list, err := records.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Date != "2024-05-02" || list[0].DailyEnergy != 16.5 {
		t.Fatalf("imported rows wrong: %+v", list)
	}

	// A second cycle over the same CSV imports nothing.
	n, _ = r.RunCycle(context.Background())
	if n != 0 {
		t.Fatalf("re-import of already stored days: %d", n)
	}
}

func TestRunCycleSkipsDaysAlreadyStored(t *testing.T) {
	r, records := newRunner(t, writeCSV(t, csvTwoDays))

	// Manually entered record for day one; only day two is newer.
	pre := repository.EnergyRecord{Date: "2024-05-01", TotalEnergy: 1.0}
	if err := records.Create(context.Background(), &pre); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, _ := r.RunCycle(context.Background())
	if n != 1 {
		t.Fatalf("imported %d records, want 1", n)
	}
}

func TestFailedScraperAbandonsCycle(t *testing.T) {
	r, records := newRunner(t, writeCSV(t, csvTwoDays))
	r.ScraperCmd = []string{"false"} // exits non-zero

	n, ran := r.RunCycle(context.Background())
	if !ran {
		t.Fatalf("cycle did not run")
	}
	if n != 0 {
		t.Fatalf("import ran after failed scraper step: %d", n)
	}
	list, err := records.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("records written despite abandoned cycle: %d", len(list))
	}
}

func TestCommitStepRunsAfterImport(t *testing.T) {
	r, _ := newRunner(t, writeCSV(t, csvTwoDays))
	marker := filepath.Join(t.TempDir(), "committed")
	r.ScraperCmd = []string{"true"}
	r.CommitCmd = []string{"touch", marker}

	if _, ran := r.RunCycle(context.Background()); !ran {
		t.Fatalf("cycle did not run")
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("commit step did not run: %v", err)
	}
}

func TestOverlappingSlotIsSkipped(t *testing.T) {
	r, _ := newRunner(t, writeCSV(t, csvTwoDays))

	r.mu.Lock() // simulate a cycle still in flight
	defer r.mu.Unlock()

	if _, ran := r.RunCycle(context.Background()); ran {
		t.Fatalf("overlapping cycle was not skipped")
	}
}

func TestSplitCommand(t *testing.T) {
	argv := SplitCommand("  python growatt_automacao.py --sem-gui ")
	if len(argv) != 3 || argv[0] != "python" || argv[2] != "--sem-gui" {
		t.Fatalf("unexpected argv: %v", argv)
	}
	if got := SplitCommand("  "); len(got) != 0 {
		t.Fatalf("blank command must yield empty argv, got %v", got)
	}
}

func TestParseTimes(t *testing.T) {
	slots, err := ParseTimes([]string{"17:00", "22:30"})
	if err != nil {
		t.Fatalf("parse times: %v", err)
	}
	if slots[0] != 17*time.Hour || slots[1] != 22*time.Hour+30*time.Minute {
		t.Fatalf("unexpected slots: %v", slots)
	}
	if _, err := ParseTimes([]string{"25:99"}); err == nil {
		t.Fatalf("expected error for invalid slot")
	}
	if _, err := ParseTimes(nil); err == nil {
		t.Fatalf("expected error for empty schedule")
	}
}

func TestUntilNext(t *testing.T) {
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	slots := []time.Duration{17 * time.Hour, 19 * time.Hour, 22 * time.Hour}

	if d := untilNext(now, slots); d != time.Hour {
		t.Fatalf("expected 1h to the 19:00 slot, got %v", d)
	}
	// Past the last slot the next run is tomorrow's first slot.
	late := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	if d := untilNext(late, slots); d != 18*time.Hour {
		t.Fatalf("expected 18h to tomorrow 17:00, got %v", d)
	}
}
