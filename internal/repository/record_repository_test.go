package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/lucasmtls/energy-monitor/internal/database"
)

func setupTestDB(t *testing.T) *RecordRepo {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRecordRepo(db)
}

func TestRecordRoundTrip(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	rec := EnergyRecord{Date: "2024-02-10", CO2: 1.25, Trees: 42, TotalEnergy: 1234.5, DailyEnergy: 56.7}
	if err := repo.Create(ctx, &rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == 0 {
		t.Fatalf("expected generated id, got 0")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
	got := list[0]
	if got.Date != rec.Date || got.CO2 != rec.CO2 || got.Trees != rec.Trees ||
		got.TotalEnergy != rec.TotalEnergy || got.DailyEnergy != rec.DailyEnergy {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestRecordListDescendingDateOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	older := EnergyRecord{Date: "2024-01-01", CO2: 1, Trees: 10, TotalEnergy: 100.0, DailyEnergy: 10}
	newer := EnergyRecord{Date: "2024-01-03", CO2: 2, Trees: 20, TotalEnergy: 150.0, DailyEnergy: 20}
	// Insert oldest-last to prove ordering comes from dates, not insert order.
	if err := repo.Create(ctx, &newer); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &older); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].Date != "2024-01-03" {
		t.Fatalf("expected 2024-01-03 first, got %s", list[0].Date)
	}
	// The consumer contract: latest total is read off the first row.
	if list[0].TotalEnergy != 150.0 {
		t.Fatalf("latest total = %v, want 150.0", list[0].TotalEnergy)
	}
}

func TestRecordListStableTieOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := EnergyRecord{Date: "2024-03-01", CO2: float64(i), Trees: int64(i), TotalEnergy: float64(i), DailyEnergy: float64(i)}
		if err := repo.Create(ctx, &rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	first, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("tie order not stable across queries: %v vs %v", first[i].ID, second[i].ID)
		}
	}
	// Ties are resolved newest-insert-first.
	if !(first[0].ID > first[1].ID && first[1].ID > first[2].ID) {
		t.Fatalf("expected descending ids within equal dates, got %d,%d,%d", first[0].ID, first[1].ID, first[2].ID)
	}
}

func TestRecordUpdateOnlyTargets(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	a := EnergyRecord{Date: "2024-01-01", CO2: 1, Trees: 1, TotalEnergy: 1, DailyEnergy: 1}
	b := EnergyRecord{Date: "2024-01-02", CO2: 2, Trees: 2, TotalEnergy: 2, DailyEnergy: 2}
	if err := repo.Create(ctx, &a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &b); err != nil {
		t.Fatalf("create: %v", err)
	}

	a.CO2, a.Trees, a.TotalEnergy, a.DailyEnergy = 9.9, 99, 999, 99.9
	if err := repo.Update(ctx, &a); err != nil {
		t.Fatalf("update: %v", err)
	}

	gotA, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if gotA.CO2 != 9.9 || gotA.Trees != 99 || gotA.TotalEnergy != 999 || gotA.DailyEnergy != 99.9 {
		t.Fatalf("update not applied: %+v", gotA)
	}
	gotB, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if gotB.CO2 != 2 || gotB.Trees != 2 || gotB.TotalEnergy != 2 || gotB.DailyEnergy != 2 {
		t.Fatalf("unrelated record altered: %+v", gotB)
	}
}

func TestRecordDelete(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	a := EnergyRecord{Date: "2024-01-01", CO2: 1, Trees: 1, TotalEnergy: 1, DailyEnergy: 1}
	b := EnergyRecord{Date: "2024-01-02", CO2: 2, Trees: 2, TotalEnergy: 2, DailyEnergy: 2}
	if err := repo.Create(ctx, &a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &b); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected count to drop by one, got %d rows", len(list))
	}
	if list[0].ID == a.ID {
		t.Fatalf("deleted record still present")
	}
}

func TestRecordNotFoundSentinels(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 12345); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("get: expected ErrRecordNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &EnergyRecord{ID: 12345, Date: "2024-01-01"}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("update: expected ErrRecordNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 12345); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("delete: expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordLatestDate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	d, err := repo.LatestDate(ctx)
	if err != nil {
		t.Fatalf("latest date: %v", err)
	}
	if d != "" {
		t.Fatalf("expected empty latest date, got %q", d)
	}

	for _, date := range []string{"2024-01-02", "2024-01-05", "2024-01-03"} {
		rec := EnergyRecord{Date: date}
		if err := repo.Create(ctx, &rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	d, err = repo.LatestDate(ctx)
	if err != nil {
		t.Fatalf("latest date: %v", err)
	}
	if d != "2024-01-05" {
		t.Fatalf("latest date = %q, want 2024-01-05", d)
	}
}
