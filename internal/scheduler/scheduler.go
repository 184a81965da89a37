// Package scheduler runs the scrape pipeline at fixed daily wall-clock
// slots. A cycle executes three sequential steps: the external scraper
// process, the CSV import into the record store, and the external commit
// process. A failing step is logged and the remaining steps of that cycle
// are abandoned; the next slot runs regardless. There is no retry and no
// backoff, matching the portal automation this replaces.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/lucasmtls/energy-monitor/internal/feed"
	"github.com/lucasmtls/energy-monitor/internal/queue"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

// Runner executes one scrape cycle at a time. ScraperCmd and CommitCmd are
// argv slices; an empty slice skips that step (useful when the scraper
// also commits, or in tests). Publish is called once per imported record
// and may be nil; a publish failure never blocks or fails the import.
type Runner struct {
	ScraperCmd []string
	CommitCmd  []string
	CSVPath    string
	Records    *repository.RecordRepo
	Publish    func(context.Context, queue.RecordIngestedEvent) error

	mu sync.Mutex // overlap guard: a slot firing mid-cycle is skipped
}

// SplitCommand turns a configured command line into argv by whitespace.
// No shell is involved, so quoting is not interpreted.
func SplitCommand(s string) []string {
	return strings.Fields(s)
}

// RunCycle runs one full cycle. It returns the number of imported records
// and reports whether the cycle ran at all: when a previous cycle is still
// in flight the slot is skipped, not queued.
func (r *Runner) RunCycle(ctx context.Context) (imported int, ran bool) {
	if !r.mu.TryLock() {
		log.Printf("scheduler: previous cycle still running, skipping slot")
		return 0, false
	}
	defer r.mu.Unlock()

	if err := r.runStep(ctx, "scraper", r.ScraperCmd); err != nil {
		log.Printf("scheduler: scraper step failed: %v; abandoning cycle", err)
		return 0, true
	}

	n, err := r.importCSV(ctx)
	if err != nil {
		log.Printf("scheduler: csv import failed: %v; abandoning cycle", err)
		return 0, true
	}
	imported = n
	if n > 0 {
		log.Printf("scheduler: imported %d record(s) from %s", n, r.CSVPath)
	}

	if err := r.runStep(ctx, "commit", r.CommitCmd); err != nil {
		log.Printf("scheduler: commit step failed: %v", err)
	}
	return imported, true
}

// runStep executes an external process and waits for it. A non-zero exit
// status is an error; the step's combined output is logged only on failure.
func (r *Runner) runStep(ctx context.Context, name string, argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	log.Printf("scheduler: running %s step: %s", name, strings.Join(argv, " "))
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			log.Printf("scheduler: %s output: %s", name, strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("%s step: %w", name, err)
	}
	return nil
}

// importCSV appends one record per calendar day that is present in the CSV
// and newer than the newest stored date. Days already stored are left
// untouched; the store is append-only for scraped data.
func (r *Runner) importCSV(ctx context.Context) (int, error) {
	rows, err := feed.ParseFile(r.CSVPath)
	if err != nil {
		return 0, err
	}
	latest, err := r.Records.LatestDate(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	for _, day := range feed.Daily(rows) {
		if latest != "" && day.Date <= latest {
			continue
		}
		rec := repository.EnergyRecord{
			Date:        day.Date,
			CO2:         day.CO2,
			Trees:       day.Trees,
			TotalEnergy: day.Total,
			DailyEnergy: day.Today,
		}
		if err := r.Records.Create(ctx, &rec); err != nil {
			return n, err
		}
		n++
		if r.Publish != nil {
			_ = r.Publish(ctx, queue.RecordIngestedEvent{
				RecordID:    rec.ID,
				Date:        rec.Date,
				CO2:         rec.CO2,
				Trees:       rec.Trees,
				TotalEnergy: rec.TotalEnergy,
				DailyEnergy: rec.DailyEnergy,
				IngestedAt:  time.Now().UTC().Format(time.RFC3339),
				Source:      "scraper",
			})
		}
	}
	return n, nil
}

// Start blocks, firing RunCycle at each configured "HH:MM" slot (local
// time) until the context is cancelled. Slot times that fail to parse were
// rejected in ParseTimes, so nextSlot always finds a run time.
func Start(ctx context.Context, r *Runner, slots []time.Duration) error {
	for {
		wait := untilNext(time.Now(), slots)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.RunCycle(ctx)
		}
	}
}

// ParseTimes converts "HH:MM" strings into offsets from midnight.
func ParseTimes(times []string) ([]time.Duration, error) {
	var slots []time.Duration
	for _, s := range times {
		t, err := time.Parse("15:04", strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("scheduler: bad slot %q: %w", s, err)
		}
		slots = append(slots, time.Duration(t.Hour())*time.Hour+time.Duration(t.Minute())*time.Minute)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("scheduler: no slots configured")
	}
	return slots, nil
}

// untilNext returns the wait until the nearest future slot, today or
// tomorrow.
func untilNext(now time.Time, slots []time.Duration) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	best := time.Duration(-1)
	for _, s := range slots {
		at := midnight.Add(s)
		if !at.After(now) {
			at = at.Add(24 * time.Hour)
		}
		d := at.Sub(now)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
