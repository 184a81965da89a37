// Package repository contains data access logic for energy telemetry. This
// file defines the EnergyRecord model and its repository. One record holds
// a day's generation snapshot: compensated CO2, equivalent planted trees,
// cumulative production and the day's production.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// DateLayout is the storage format of EnergyRecord.Date. Dates are kept as
// "YYYY-MM-DD" text so lexicographic order in sqlite equals calendar order.
const DateLayout = "2006-01-02"

// EnergyRecord mirrors the 'energy_records' table.
type EnergyRecord struct {
	ID          uint64  `json:"id"`
	Date        string  `json:"date"`         // calendar date, "YYYY-MM-DD"
	CO2         float64 `json:"co2"`          // compensated CO2 in tonnes
	Trees       int64   `json:"trees"`        // equivalent planted trees
	TotalEnergy float64 `json:"total_energy"` // cumulative production in kWh
	DailyEnergy float64 `json:"daily_energy"` // production of the day in kWh
}

// RecordRepo manages persistence for energy records.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo constructs a RecordRepo with the given DB handle.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Create appends a record and assigns the generated ID back to the struct.
// Inserts are append-only; two records may share a date (the scraper and a
// manual entry can both land on the same day).
func (r *RecordRepo) Create(ctx context.Context, rec *EnergyRecord) error {
	const q = `INSERT INTO energy_records (date, co2, trees, total_energy, daily_energy) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rec.Date, rec.CO2, rec.Trees, rec.TotalEnergy, rec.DailyEnergy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// List returns every record in strictly descending date order. Ties on the
// same date are broken by id descending, so ordering is stable within a
// query and the first row is always the most recent record. Dashboards
// derive their "latest" figures from that first row; this ordering is a
// contract, not an accident.
func (r *RecordRepo) List(ctx context.Context) ([]EnergyRecord, error) {
	const q = `SELECT id, date, co2, trees, total_energy, daily_energy
               FROM energy_records
               ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []EnergyRecord
	for rows.Next() {
		var rec EnergyRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.CO2, &rec.Trees, &rec.TotalEnergy, &rec.DailyEnergy); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a record by its ID. Returns ErrRecordNotFound if there
// is no matching row.
func (r *RecordRepo) GetByID(ctx context.Context, id uint64) (*EnergyRecord, error) {
	const q = `SELECT id, date, co2, trees, total_energy, daily_energy FROM energy_records WHERE id = ?`
	var rec EnergyRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.Date, &rec.CO2, &rec.Trees, &rec.TotalEnergy, &rec.DailyEnergy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// LatestDate returns the newest stored date, or "" when the table is empty.
// The scheduler uses it to import only CSV days newer than what is stored.
func (r *RecordRepo) LatestDate(ctx context.Context) (string, error) {
	var d sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT MAX(date) FROM energy_records`).Scan(&d)
	if err != nil {
		return "", err
	}
	if !d.Valid {
		return "", nil
	}
	return d.String, nil
}

// Update overwrites all five fields of the record with the given ID. When
// the id has vanished (deleted by another session) it returns
// ErrRecordNotFound so the caller can re-fetch instead of failing silently.
func (r *RecordRepo) Update(ctx context.Context, rec *EnergyRecord) error {
	const q = `UPDATE energy_records SET date = ?, co2 = ?, trees = ?, total_energy = ?, daily_energy = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rec.Date, rec.CO2, rec.Trees, rec.TotalEnergy, rec.DailyEnergy, rec.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes a record by id, reporting ErrRecordNotFound when the row
// was already gone.
func (r *RecordRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM energy_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
