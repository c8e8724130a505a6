package runstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cardforge/cardforge/internal/engine"
)

func terminalRecord(id string, createdAt time.Time) *engine.RunRecord {
	finished := createdAt.Add(2 * time.Second)
	return &engine.RunRecord{
		ID: id,
		Request: engine.RunRequest{
			Sector:         "energy",
			SubSector:      "generation",
			Facility:       "F1",
			EquipmentClass: "pump",
			Quantity:       2,
		},
		Status: engine.StatusCompleted,
		Items: []engine.ItemResult{
			{Index: 0, Outcome: engine.OutcomeSucceeded, CardRef: "energy/generation/F1/c1.yaml", FinishedAt: finished},
			{Index: 1, Outcome: engine.OutcomeFailed, Error: "generate: boom", FinishedAt: finished},
		},
		CreatedAt:  createdAt,
		UpdatedAt:  finished,
		FinishedAt: &finished,
	}
}

func TestNewBoltStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewBoltStore(dbPath)
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("BoltDB file was not created")
	}
}

func TestBoltStore_SaveAndGetRun(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	defer store.Close()

	rec := terminalRecord("run-1", time.Now().UTC().Truncate(time.Millisecond))
	if err := store.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	got, err := store.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}

	if got.ID != rec.ID {
		t.Errorf("ID = %v, want %v", got.ID, rec.ID)
	}
	if got.Status != engine.StatusCompleted {
		t.Errorf("Status = %v, want completed", got.Status)
	}
	if len(got.Items) != 2 {
		t.Fatalf("Items length = %d, want 2", len(got.Items))
	}
	if got.Items[0].CardRef != rec.Items[0].CardRef {
		t.Errorf("Items[0].CardRef = %v, want %v", got.Items[0].CardRef, rec.Items[0].CardRef)
	}
	if got.Items[1].Error != "generate: boom" {
		t.Errorf("Items[1].Error = %v, want generate: boom", got.Items[1].Error)
	}
	if got.FinishedAt == nil {
		t.Error("FinishedAt = nil, want set")
	}
	if got.Request.EquipmentClass != "pump" {
		t.Errorf("Request.EquipmentClass = %v, want pump", got.Request.EquipmentClass)
	}
}

func TestBoltStore_SaveRun_Validation(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.SaveRun(nil); err == nil {
		t.Error("SaveRun(nil) expected error")
	}
	if err := store.SaveRun(&engine.RunRecord{}); err == nil {
		t.Error("SaveRun with empty ID expected error")
	}
}

func TestBoltStore_GetRun_NotFound(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.GetRun("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun() error = %v, want ErrNotFound", err)
	}
}

func TestBoltStore_GetAllRuns_OrderAndLimit(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Now().UTC()
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.SaveRun(terminalRecord(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", id, err)
		}
	}

	runs, err := store.GetAllRuns(10)
	if err != nil {
		t.Fatalf("GetAllRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("GetAllRuns() = %d runs, want 3", len(runs))
	}
	// Newest first.
	if runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Errorf("order = %s, %s, %s; want run-c ... run-a", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	limited, err := store.GetAllRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("GetAllRuns(2) = %d runs, want 2", len(limited))
	}
}

func TestBoltStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewBoltStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(terminalRecord("run-1", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and verify the record survived.
	store2, err := NewBoltStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()

	got, err := store2.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() after reopen error = %v", err)
	}
	if got.Status != engine.StatusCompleted {
		t.Errorf("Status after reopen = %v, want completed", got.Status)
	}
}
