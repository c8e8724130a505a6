// Package engine drives asynchronous batch generation of equipment
// cards. A submitted run is tracked in an in-memory live registry,
// executed item by item against a bounded worker pool, and flushed to
// the run store once it reaches a terminal state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/cardforge/cardforge/internal/card"
)

// Generator produces one candidate card per call. It may fail; the
// engine records the failure against the item and moves on.
type Generator interface {
	Generate(ctx context.Context, sector, subSector, facility, equipmentClass string) (*card.Card, error)
}

// CardRepository persists accepted cards under the run's location.
type CardRepository interface {
	Persist(ctx context.Context, sector, subSector, facility string, c *card.Card) (string, error)
}

// RunStore receives the terminal snapshot of every run. It is the
// source of truth for runs no longer tracked in memory.
type RunStore interface {
	SaveRun(rec *RunRecord) error
}

// Config holds the engine's fixed tuning knobs.
type Config struct {
	// Workers bounds concurrent item pipelines across all runs.
	Workers int

	// MaxLiveRuns bounds the live registry. Terminal runs beyond the
	// bound are evicted oldest-first; they remain in the run store.
	MaxLiveRuns int
}

const (
	defaultWorkers     = 4
	defaultMaxLiveRuns = 256
)

// Engine is the pipeline engine. All exported methods are safe for
// concurrent use.
type Engine struct {
	gen    Generator
	cards  CardRepository
	store  RunStore
	logger *slog.Logger

	// sem is the worker pool shared by every run's item pipelines.
	sem *semaphore.Weighted

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu    sync.RWMutex
	runs  map[string]*runHandle
	order []string // run IDs in submission order, oldest first

	maxLive int
	wg      sync.WaitGroup
}

// runHandle pairs a run's published snapshot with its cancellation
// state. The snapshot pointer is swapped atomically so readers always
// see a fully populated record.
type runHandle struct {
	snap      atomic.Pointer[RunRecord]
	cancelled atomic.Bool

	// cancelDispatch stops the dispatch loop from starting new items.
	// In-flight items are left to finish naturally.
	dispatchCtx    context.Context
	cancelDispatch context.CancelFunc
}

// New creates an Engine. Zero config fields fall back to defaults.
func New(gen Generator, cards CardRepository, store RunStore, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxLiveRuns <= 0 {
		cfg.MaxLiveRuns = defaultMaxLiveRuns
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		gen:        gen,
		cards:      cards,
		store:      store,
		logger:     logger,
		sem:        semaphore.NewWeighted(int64(cfg.Workers)),
		baseCtx:    ctx,
		cancelBase: cancel,
		runs:       make(map[string]*runHandle),
		maxLive:    cfg.MaxLiveRuns,
	}
}

// SubmitRun validates the request, registers a queued run, and kicks
// off asynchronous execution. It returns the run ID immediately; no
// items exist yet when it returns.
func (e *Engine) SubmitRun(req RunRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	rec := &RunRecord{
		ID:        id,
		Request:   req,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dispatchCtx, cancelDispatch := context.WithCancel(e.baseCtx)
	h := &runHandle{
		dispatchCtx:    dispatchCtx,
		cancelDispatch: cancelDispatch,
	}
	h.snap.Store(rec.Clone())

	e.mu.Lock()
	e.runs[id] = h
	e.order = append(e.order, id)
	e.evictLocked()
	e.mu.Unlock()

	e.logger.Info("run submitted",
		"run_id", id,
		"sector", req.Sector,
		"sub_sector", req.SubSector,
		"facility", req.Facility,
		"equipment_class", req.EquipmentClass,
		"quantity", req.Quantity,
	)

	e.wg.Add(1)
	go e.execute(h, rec)

	return id, nil
}

// CancelRun signals a live, non-terminal run to stop starting new item
// work. It returns true exactly once per run; repeat calls, unknown
// IDs, and terminal runs return false.
func (e *Engine) CancelRun(runID string) bool {
	e.mu.RLock()
	h, ok := e.runs[runID]
	e.mu.RUnlock()
	if !ok {
		return false
	}

	if snap := h.snap.Load(); snap.Status.IsTerminal() {
		return false
	}

	if !h.cancelled.CompareAndSwap(false, true) {
		return false
	}
	h.cancelDispatch()

	e.logger.Info("run cancellation requested", "run_id", runID)
	return true
}

// GetRunStatus returns the live snapshot for a run, or false if the
// run is not currently tracked in memory. Callers are expected to fall
// back to the run store on a miss. The returned record is a published
// snapshot and must not be mutated.
func (e *Engine) GetRunStatus(runID string) (*RunRecord, bool) {
	e.mu.RLock()
	h, ok := e.runs[runID]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return h.snap.Load(), true
}

// GetRunHistory returns snapshots of all runs in the live registry,
// most recent first. It does not consult the run store.
func (e *Engine) GetRunHistory() []*RunRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*RunRecord, 0, len(e.order))
	for i := len(e.order) - 1; i >= 0; i-- {
		if h, ok := e.runs[e.order[i]]; ok {
			out = append(out, h.snap.Load())
		}
	}
	return out
}

// Close stops dispatching new item work across all runs and waits for
// in-flight executions to settle, up to the context deadline.
func (e *Engine) Close(ctx context.Context) error {
	e.cancelBase()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// evictLocked trims terminal runs oldest-first once the registry grows
// past the bound. Live runs are never evicted; their terminal copy is
// already guaranteed to reach the run store.
func (e *Engine) evictLocked() {
	if len(e.runs) <= e.maxLive {
		return
	}
	kept := e.order[:0]
	for _, id := range e.order {
		h := e.runs[id]
		if len(e.runs) > e.maxLive && h.snap.Load().Status.IsTerminal() {
			delete(e.runs, id)
			continue
		}
		kept = append(kept, id)
	}
	e.order = kept
}

// execute is the single owner of a run's record. All mutations happen
// here; readers only ever see the snapshots it publishes.
func (e *Engine) execute(h *runHandle, rec *RunRecord) {
	defer e.wg.Done()
	defer h.cancelDispatch()

	req := rec.Request
	n := req.Quantity

	rec.Status = StatusRunning
	e.publish(h, rec)

	// Buffered to the run's quantity so workers never block on send
	// while the dispatch loop holds no semaphore slot.
	results := make(chan ItemResult, n)

	dispatched := 0
	for i := 0; i < n; i++ {
		if h.cancelled.Load() {
			break
		}
		if err := e.sem.Acquire(h.dispatchCtx, 1); err != nil {
			// Dispatch context cancelled: either CancelRun or engine
			// shutdown. Stop starting new work.
			break
		}
		dispatched++
		go e.runItem(i, req, results)
	}

	// Drain in-flight items, appending in completion order.
	for j := 0; j < dispatched; j++ {
		res := <-results
		rec.Items = append(rec.Items, res)
		e.publish(h, rec)
	}

	// Items never dispatched are recorded as skipped.
	cancelled := dispatched < n || h.cancelled.Load()
	for i := dispatched; i < n; i++ {
		rec.Items = append(rec.Items, ItemResult{Index: i, Outcome: OutcomeSkipped})
	}

	if cancelled {
		rec.Status = StatusCancelled
	} else {
		rec.Status = StatusCompleted
	}
	now := time.Now().UTC()
	rec.FinishedAt = &now

	if err := e.store.SaveRun(rec.Clone()); err != nil {
		// Run-level fault: the terminal snapshot could not be made
		// durable. The run itself is reported failed.
		rec.Status = StatusFailed
		rec.Error = fmt.Sprintf("failed to persist run record: %v", err)
		e.logger.Error("run store flush failed", "run_id", rec.ID, "error", err)
	}

	e.publish(h, rec)

	e.logger.Info("run finished",
		"run_id", rec.ID,
		"status", string(rec.Status),
		"succeeded", rec.Succeeded(),
		"failed", rec.Failed(),
		"skipped", rec.Skipped(),
		"duration", rec.Duration(),
	)
}

// runItem executes one item pipeline: generate, validate, persist.
// Failures are absorbed into the ItemResult, never escalated.
func (e *Engine) runItem(index int, req RunRequest, results chan<- ItemResult) {
	defer e.sem.Release(1)

	res := ItemResult{Index: index}

	c, err := e.gen.Generate(e.baseCtx, req.Sector, req.SubSector, req.Facility, req.EquipmentClass)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = fmt.Sprintf("generate: %v", err)
		res.FinishedAt = time.Now().UTC()
		results <- res
		return
	}

	if err := c.Validate(); err != nil {
		res.Outcome = OutcomeFailed
		res.Error = fmt.Sprintf("validate: %v", err)
		res.FinishedAt = time.Now().UTC()
		results <- res
		return
	}

	ref, err := e.cards.Persist(e.baseCtx, req.Sector, req.SubSector, req.Facility, c)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = fmt.Sprintf("persist: %v", err)
		res.FinishedAt = time.Now().UTC()
		results <- res
		return
	}

	res.Outcome = OutcomeSucceeded
	res.CardRef = ref
	res.FinishedAt = time.Now().UTC()
	results <- res
}

// publish swaps in a fresh snapshot of the record. The snapshot is a
// deep copy and is never mutated afterwards, so readers holding it see
// a consistent view.
func (e *Engine) publish(h *runHandle, rec *RunRecord) {
	rec.UpdatedAt = time.Now().UTC()
	h.snap.Store(rec.Clone())
}
