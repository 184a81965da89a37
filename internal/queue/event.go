// Package queue defines the message payloads exchanged over the broker and
// the background consumer that persists them to an audit log.
package queue

// RecordIngestedEvent is published when the scheduler commits a scraped day
// into the energy record store. It carries the full row so downstream
// consumers can log or notify without querying the database.
type RecordIngestedEvent struct {
	RecordID    uint64  `json:"record_id"`
	Date        string  `json:"date"`
	CO2         float64 `json:"co2"`
	Trees       int64   `json:"trees"`
	TotalEnergy float64 `json:"total_energy"`
	DailyEnergy float64 `json:"daily_energy"`
	IngestedAt  string  `json:"ingested_at"`
	Source      string  `json:"source"` // "scraper"
}
