package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/cardforge/cardforge/internal/engine"
)

// JSONStore implements the Store interface using a single JSON file.
// All records are kept in memory and rewritten to disk on each save.
// Suitable for small deployments and testing.
type JSONStore struct {
	path string
	runs map[string]*engine.RunRecord
	mu   sync.RWMutex
}

// jsonPersistence is the on-disk format for the JSON store.
type jsonPersistence struct {
	Runs []*engine.RunRecord `json:"runs"`
}

// NewJSONStore creates a new JSON file-backed store at the given path.
func NewJSONStore(path string) (Store, error) {
	s := &JSONStore{
		path: path,
		runs: make(map[string]*engine.RunRecord),
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("load existing data: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return s, nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var persist jsonPersistence
	if err := json.Unmarshal(data, &persist); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}

	s.runs = make(map[string]*engine.RunRecord, len(persist.Runs))
	for _, rec := range persist.Runs {
		s.runs[rec.ID] = rec
	}
	return nil
}

// save writes the in-memory map to disk via temp-file rename.
func (s *JSONStore) save() error {
	runs := make([]*engine.RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		runs = append(runs, rec)
	}

	data, err := json.MarshalIndent(jsonPersistence{Runs: runs}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// SaveRun persists a run record.
func (s *JSONStore) SaveRun(rec *engine.RunRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("run record with id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[rec.ID] = rec
	return s.save()
}

// GetRun retrieves a run by its ID.
func (s *JSONStore) GetRun(runID string) (*engine.RunRecord, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return rec, nil
}

// GetAllRuns retrieves the most recent runs, newest first.
func (s *JSONStore) GetAllRuns(limit int) ([]*engine.RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*engine.RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		runs = append(runs, rec)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op for the JSON store.
func (s *JSONStore) Close() error {
	return nil
}
