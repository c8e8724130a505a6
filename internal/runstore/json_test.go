package runstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONStore_SaveAndGetRun(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "runs.json"))
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	defer store.Close()

	rec := terminalRecord("run-1", time.Now().UTC())
	if err := store.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	got, err := store.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.ID != "run-1" || len(got.Items) != 2 {
		t.Errorf("GetRun() = %+v, want saved record", got)
	}
}

func TestJSONStore_GetRun_NotFound(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "runs.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.GetRun("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun() error = %v, want ErrNotFound", err)
	}
}

func TestJSONStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")

	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Now().UTC()
	if err := store.SaveRun(terminalRecord("run-a", base)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(terminalRecord("run-b", base.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store2, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore() reload error = %v", err)
	}
	defer store2.Close()

	runs, err := store2.GetAllRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("GetAllRuns() after reload = %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-b" {
		t.Errorf("runs[0].ID = %s, want run-b (newest first)", runs[0].ID)
	}
}

func TestNewStore_Factory(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		driver  string
		path    string
		wantErr bool
	}{
		{"bbolt driver", "bbolt", filepath.Join(dir, "a.db"), false},
		{"json driver", "json", filepath.Join(dir, "a.json"), false},
		{"driver case-insensitive", "BBolt", filepath.Join(dir, "b.db"), false},
		{"unknown driver", "sqlite", filepath.Join(dir, "c.db"), true},
		{"empty path", "bbolt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.driver, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				store.Close()
			}
		})
	}
}
