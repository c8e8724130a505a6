package server

import (
	"context"
	"errors"
	"sort"

	"github.com/cardforge/cardforge/internal/engine"
	"github.com/cardforge/cardforge/internal/runstore"
)

// EngineAdapter adapts the engine and the durable run store to the
// server.RunService interface. Lookups consult the live registry first
// and fall back to the store for runs that have been evicted.
type EngineAdapter struct {
	engine *engine.Engine
	store  runstore.Store
}

// NewEngineAdapter creates a new engine adapter.
func NewEngineAdapter(eng *engine.Engine, store runstore.Store) *EngineAdapter {
	return &EngineAdapter{engine: eng, store: store}
}

// Submit accepts a run request.
func (a *EngineAdapter) Submit(ctx context.Context, req engine.RunRequest) (string, error) {
	return a.engine.SubmitRun(req)
}

// Cancel requests cooperative cancellation of a live run.
func (a *EngineAdapter) Cancel(ctx context.Context, runID string) (bool, error) {
	return a.engine.CancelRun(runID), nil
}

// GetRun returns a run by ID, checking the live registry before the
// durable store. Returns nil when the run is unknown to both.
func (a *EngineAdapter) GetRun(ctx context.Context, runID string) (*RunDetail, error) {
	if rec, ok := a.engine.GetRunStatus(runID); ok {
		return toRunDetail(rec), nil
	}

	if a.store == nil {
		return nil, nil
	}

	rec, err := a.store.GetRun(runID)
	if err != nil {
		if errors.Is(err, runstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toRunDetail(rec), nil
}

// GetRuns merges live and stored runs, newest first, deduplicated by ID.
// The live copy wins for runs present in both.
func (a *EngineAdapter) GetRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	merged, err := a.mergedRuns(limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]RunSummary, len(merged))
	for i, rec := range merged {
		summaries[i] = toRunSummary(rec)
	}
	return summaries, nil
}

// GetStats computes overall statistics across live and stored runs.
func (a *EngineAdapter) GetStats(ctx context.Context) (*StatsResponse, error) {
	merged, err := a.mergedRuns(maxLimit)
	if err != nil {
		return nil, err
	}

	stats := &StatsResponse{TotalRuns: len(merged)}
	for _, rec := range merged {
		switch rec.Status {
		case engine.StatusCompleted:
			stats.CompletedRuns++
		case engine.StatusFailed:
			stats.FailedRuns++
		case engine.StatusCancelled:
			stats.CancelledRuns++
		default:
			stats.LiveRuns++
		}
		stats.CardsGenerated += rec.Succeeded()
		stats.ItemsFailed += rec.Failed()
	}

	return stats, nil
}

func (a *EngineAdapter) mergedRuns(limit int) ([]*engine.RunRecord, error) {
	live := a.engine.GetRunHistory()

	seen := make(map[string]bool, len(live))
	merged := make([]*engine.RunRecord, 0, len(live))
	for _, rec := range live {
		seen[rec.ID] = true
		merged = append(merged, rec)
	}

	if a.store != nil {
		stored, err := a.store.GetAllRuns(limit)
		if err != nil {
			return nil, err
		}
		for _, rec := range stored {
			if !seen[rec.ID] {
				merged = append(merged, rec)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func toRunSummary(rec *engine.RunRecord) RunSummary {
	return RunSummary{
		RunID:          rec.ID,
		Sector:         rec.Request.Sector,
		SubSector:      rec.Request.SubSector,
		Facility:       rec.Request.Facility,
		EquipmentClass: rec.Request.EquipmentClass,
		Quantity:       rec.Request.Quantity,
		Status:         string(rec.Status),
		Succeeded:      rec.Succeeded(),
		Failed:         rec.Failed(),
		Skipped:        rec.Skipped(),
		CreatedAt:      rec.CreatedAt,
		FinishedAt:     rec.FinishedAt,
		Duration:       float64(rec.Duration().Milliseconds()),
	}
}

func toRunDetail(rec *engine.RunRecord) *RunDetail {
	items := make([]ItemSummary, len(rec.Items))
	for i, it := range rec.Items {
		items[i] = ItemSummary{
			Index:      it.Index,
			Outcome:    string(it.Outcome),
			CardRef:    it.CardRef,
			Error:      it.Error,
			FinishedAt: it.FinishedAt,
		}
	}

	return &RunDetail{
		RunSummary: toRunSummary(rec),
		Items:      items,
		Error:      rec.Error,
	}
}
