package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/engine"
	"github.com/cardforge/cardforge/internal/runstore"
	"github.com/cardforge/cardforge/internal/scheduler"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	storePath := filepath.Join(tmpDir, "runs.json")
	if driver == "bbolt" {
		storePath = filepath.Join(tmpDir, "runs.db")
	}

	return &config.Config{
		Engine: config.Engine{
			Workers:     2,
			MaxLiveRuns: 16,
		},
		Store: config.Store{
			Driver: driver,
			Path:   storePath,
		},
		Cards: config.Cards{
			Path: filepath.Join(tmpDir, "cards"),
		},
	}
}

func testIntegrationLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestIntegration_OneShotRun(t *testing.T) {
	cfg := testConfig(t, "json")

	comp, err := newComponents(cfg, testIntegrationLogger())
	if err != nil {
		t.Fatalf("Failed to build components: %v", err)
	}
	defer comp.store.Close()

	req := engine.RunRequest{
		Sector:         "energy",
		SubSector:      "generation",
		Facility:       "plant-alpha",
		EquipmentClass: "pump",
		Quantity:       3,
	}

	runID, err := comp.engine.SubmitRun(req)
	if err != nil {
		t.Fatalf("Failed to submit run: %v", err)
	}

	rec, err := waitForRun(comp.engine, runID, 10*time.Second)
	if err != nil {
		t.Fatalf("Run did not finish: %v", err)
	}

	if rec.Status != engine.StatusCompleted {
		t.Fatalf("Status = %v, want %v", rec.Status, engine.StatusCompleted)
	}
	if len(rec.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(rec.Items))
	}
	for _, item := range rec.Items {
		if item.Outcome != engine.OutcomeSucceeded {
			t.Errorf("item %d outcome = %v, want %v", item.Index, item.Outcome, engine.OutcomeSucceeded)
		}
		if item.CardRef == "" {
			t.Errorf("item %d has no card reference", item.Index)
		}
	}

	// Cards should be on disk under the facility path.
	cards, err := comp.repo.List(context.Background(), req.Sector, req.SubSector, req.Facility)
	if err != nil {
		t.Fatalf("Failed to list cards: %v", err)
	}
	if len(cards) != 3 {
		t.Errorf("Cards on disk = %d, want 3", len(cards))
	}

	// The terminal snapshot is flushed to the run store.
	stored, err := comp.store.GetRun(runID)
	if err != nil {
		t.Fatalf("Failed to load run from store: %v", err)
	}
	if stored.Status != engine.StatusCompleted {
		t.Errorf("Stored status = %v, want %v", stored.Status, engine.StatusCompleted)
	}

	if err := comp.engine.Close(context.Background()); err != nil {
		t.Fatalf("Failed to close engine: %v", err)
	}
}

func TestIntegration_ScheduledRuns(t *testing.T) {
	cfg := testConfig(t, "json")
	cfg.Schedules = []config.Schedule{
		{
			ID:             "fast-pumps",
			Cron:           "@every 1s",
			Sector:         "energy",
			SubSector:      "generation",
			Facility:       "plant-alpha",
			EquipmentClass: "pump",
			Quantity:       1,
		},
	}

	logger := testIntegrationLogger()
	comp, err := newComponents(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to build components: %v", err)
	}
	defer comp.store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	sched := scheduler.New(ctx, comp.engine, logger)
	if err := sched.AddSchedule(cfg.Schedules[0]); err != nil {
		t.Fatalf("Failed to add schedule: %v", err)
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}

	// Wait for at least two fires.
	time.Sleep(2500 * time.Millisecond)

	if err := sched.Stop(); err != nil {
		t.Fatalf("Failed to stop scheduler: %v", err)
	}
	if err := comp.engine.Close(context.Background()); err != nil {
		t.Fatalf("Failed to close engine: %v", err)
	}

	runs, err := comp.store.GetAllRuns(10)
	if err != nil {
		t.Fatalf("Failed to read run store: %v", err)
	}
	if len(runs) == 0 {
		t.Fatal("No scheduled runs recorded")
	}
	for _, rec := range runs {
		if rec.Request.Facility != "plant-alpha" {
			t.Errorf("Facility = %v, want plant-alpha", rec.Request.Facility)
		}
		if rec.Request.EquipmentClass != "pump" {
			t.Errorf("EquipmentClass = %v, want pump", rec.Request.EquipmentClass)
		}
	}

	stats, ok := sched.GetScheduleStats("fast-pumps")
	if !ok {
		t.Fatal("Schedule stats missing")
	}
	if stats.RunCount == 0 {
		t.Error("Schedule never fired")
	}
}

func TestIntegration_HistorySurvivesRestart(t *testing.T) {
	for _, driver := range []string{"bbolt", "json"} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)

			comp, err := newComponents(cfg, testIntegrationLogger())
			if err != nil {
				t.Fatalf("Failed to build components: %v", err)
			}

			runID, err := comp.engine.SubmitRun(engine.RunRequest{
				Sector:         "water",
				SubSector:      "treatment",
				Facility:       "plant-west",
				EquipmentClass: "valve",
				Quantity:       2,
			})
			if err != nil {
				t.Fatalf("Failed to submit run: %v", err)
			}

			if _, err := waitForRun(comp.engine, runID, 10*time.Second); err != nil {
				t.Fatalf("Run did not finish: %v", err)
			}

			if err := comp.engine.Close(context.Background()); err != nil {
				t.Fatalf("Failed to close engine: %v", err)
			}
			if err := comp.store.Close(); err != nil {
				t.Fatalf("Failed to close store: %v", err)
			}

			// Reopen the store as a fresh process would.
			st, err := runstore.NewStore(cfg.Store.Driver, cfg.Store.Path)
			if err != nil {
				t.Fatalf("Failed to reopen store: %v", err)
			}
			defer st.Close()

			rec, err := st.GetRun(runID)
			if err != nil {
				t.Fatalf("Run missing after reopen: %v", err)
			}
			if rec.Status != engine.StatusCompleted {
				t.Errorf("Status = %v, want %v", rec.Status, engine.StatusCompleted)
			}
			if len(rec.Items) != 2 {
				t.Errorf("len(Items) = %d, want 2", len(rec.Items))
			}
		})
	}
}

func TestIntegration_InvalidRequestRejected(t *testing.T) {
	cfg := testConfig(t, "json")

	comp, err := newComponents(cfg, testIntegrationLogger())
	if err != nil {
		t.Fatalf("Failed to build components: %v", err)
	}
	defer comp.store.Close()
	defer comp.engine.Close(context.Background())

	_, err = comp.engine.SubmitRun(engine.RunRequest{
		Sector:         "energy",
		SubSector:      "generation",
		EquipmentClass: "pump",
		Quantity:       3,
	})
	if err == nil {
		t.Fatal("Expected error for missing facility")
	}

	// Nothing should have reached the store.
	runs, err := comp.store.GetAllRuns(10)
	if err != nil {
		t.Fatalf("Failed to read run store: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Run store has %d runs, want 0", len(runs))
	}
}
