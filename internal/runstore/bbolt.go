package runstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cardforge/cardforge/internal/engine"
)

// runsBucket holds all run records keyed by run ID.
const runsBucket = "runs"

// BoltStore implements the Store interface using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store at the given path.
func NewBoltStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveRun persists a run record.
func (s *BoltStore) SaveRun(rec *engine.RunRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("run record with id is required")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).Put([]byte(rec.ID), data)
	})
}

// GetRun retrieves a run by its ID.
func (s *BoltStore) GetRun(runID string) (*engine.RunRecord, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id is required")
	}

	var rec *engine.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(runsBucket)).Get([]byte(runID))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		rec = &engine.RunRecord{}
		if err := json.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("unmarshal run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetAllRuns retrieves the most recent runs, newest first.
func (s *BoltStore) GetAllRuns(limit int) ([]*engine.RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var runs []*engine.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).ForEach(func(k, v []byte) error {
			rec := &engine.RunRecord{}
			if err := json.Unmarshal(v, rec); err != nil {
				return fmt.Errorf("unmarshal run %s: %w", string(k), err)
			}
			runs = append(runs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close releases resources held by the store.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
