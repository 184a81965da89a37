package config

import "strings"

// SchedulerConfig configures the standalone scraper scheduler. ScraperCmd
// and CommitCmd are full command lines executed through the shell-free
// argv split in the scheduler package; either may be empty to skip that
// step. Times holds daily wall-clock slots in "HH:MM" local time.
type SchedulerConfig struct {
	ScraperCmd string   // external scraper invocation, e.g. "python growatt_automacao.py --sem-gui"
	CommitCmd  string   // version-control commit step, e.g. "git commit -am 'Data update'"
	CSVPath    string   // path of the CSV the scraper writes
	Times      []string // daily run slots, "HH:MM"
	DBPath     string   // sqlite file shared with the API server
	QueueOn    bool     // publish record.ingested events when true
}

// LoadSchedulerConfig reads the scheduler environment. Only CSV_PATH and
// DB_PATH are required; with no SCHEDULE_TIMES the original portal's
// evening slots are used.
func LoadSchedulerConfig() SchedulerConfig {
	times := envStr("SCHEDULE_TIMES", "17:00,19:00,22:00")
	var slots []string
	for _, t := range strings.Split(times, ",") {
		if t = strings.TrimSpace(t); t != "" {
			slots = append(slots, t)
		}
	}
	return SchedulerConfig{
		ScraperCmd: envStr("SCRAPER_CMD", ""),
		CommitCmd:  envStr("COMMIT_CMD", ""),
		CSVPath:    must("CSV_PATH"),
		Times:      slots,
		DBPath:     must("DB_PATH"),
		QueueOn:    envBool("QUEUE_ENABLED", false),
	}
}
