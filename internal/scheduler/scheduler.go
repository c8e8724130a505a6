// Package scheduler drives recurring card generation runs from cron
// expressions in the configuration.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/engine"
)

// Submitter accepts run requests. The engine satisfies this interface.
type Submitter interface {
	SubmitRun(req engine.RunRequest) (string, error)
}

// Scheduler wraps robfig/cron and manages schedule lifecycle with context
// support.
type Scheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
	submitter Submitter
	schedules map[string]*scheduledRun // schedule ID -> scheduledRun
	mu        sync.RWMutex
}

// scheduledRun tracks a schedule and its cron entry.
type scheduledRun struct {
	schedule  config.Schedule
	entryID   cron.EntryID
	lastRun   time.Time
	lastRunID string
	runCount  int64
}

// New creates a new Scheduler instance. The context is used for graceful
// shutdown.
func New(ctx context.Context, submitter Submitter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	schedCtx, cancel := context.WithCancel(ctx)

	cronLogger := &cronSlogAdapter{logger: logger}

	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(
			cron.Recover(cronLogger),
		),
	)

	return &Scheduler{
		cron:      c,
		ctx:       schedCtx,
		cancel:    cancel,
		logger:    logger,
		submitter: submitter,
		schedules: make(map[string]*scheduledRun),
	}
}

// AddSchedule registers a schedule. Returns an error if the schedule ID
// already exists or the cron expression is invalid.
func (s *Scheduler) AddSchedule(sched config.Schedule) error {
	if sched.ID == "" {
		return fmt.Errorf("schedule ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.schedules[sched.ID]; exists {
		return fmt.Errorf("schedule with ID %q already exists", sched.ID)
	}

	cronSched, err := ParseCron(sched.Cron)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression for schedule %q: %w", sched.ID, err)
	}

	entryID := s.cron.Schedule(cronSched, s.wrapSchedule(sched))

	s.schedules[sched.ID] = &scheduledRun{
		schedule: sched,
		entryID:  entryID,
	}

	s.logger.Info("schedule registered",
		slog.String("schedule_id", sched.ID),
		slog.String("cron", sched.Cron),
		slog.String("facility", sched.Facility),
		slog.Time("next_run", cronSched.Next(time.Now())),
	)

	return nil
}

// wrapSchedule wraps a schedule in a cron.Job that submits a run and
// respects scheduler shutdown.
func (s *Scheduler) wrapSchedule(sched config.Schedule) cron.FuncJob {
	return func() {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		req := engine.RunRequest{
			Sector:         sched.Sector,
			SubSector:      sched.SubSector,
			Facility:       sched.Facility,
			EquipmentClass: sched.EquipmentClass,
			Quantity:       sched.Quantity,
		}
		if req.Quantity < 1 {
			req.Quantity = engine.DefaultQuantity
		}

		runID, err := s.submitter.SubmitRun(req)

		s.mu.Lock()
		if sr, exists := s.schedules[sched.ID]; exists {
			sr.lastRun = time.Now()
			sr.lastRunID = runID
			sr.runCount++
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Error("scheduled run submission failed",
				slog.String("schedule_id", sched.ID),
				slog.String("error", err.Error()),
			)
			return
		}

		s.logger.Info("scheduled run submitted",
			slog.String("schedule_id", sched.ID),
			slog.String("run_id", runID),
			slog.String("facility", sched.Facility),
			slog.String("equipment_class", sched.EquipmentClass),
			slog.Int("quantity", req.Quantity),
		)
	}
}

// Start begins the scheduler. Runs will be submitted according to their
// cron expressions.
func (s *Scheduler) Start() error {
	s.mu.RLock()
	count := len(s.schedules)
	s.mu.RUnlock()

	if count == 0 {
		s.logger.Warn("starting scheduler with no schedules")
	}

	s.logger.Info("starting scheduler", slog.Int("schedule_count", count))
	s.cron.Start()

	return nil
}

// Stop gracefully stops the scheduler. Already submitted runs keep
// executing in the engine.
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping scheduler")

	s.cancel()

	cronStopCtx := s.cron.Stop()
	<-cronStopCtx.Done()

	s.logger.Info("scheduler stopped")
	return nil
}

// GetSchedule returns the schedule for a given ID.
func (s *Scheduler) GetSchedule(id string) (config.Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, exists := s.schedules[id]
	if !exists {
		return config.Schedule{}, false
	}
	return sr.schedule, true
}

// ListSchedules returns all registered schedules.
func (s *Scheduler) ListSchedules() []config.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := make([]config.Schedule, 0, len(s.schedules))
	for _, sr := range s.schedules {
		schedules = append(schedules, sr.schedule)
	}
	return schedules
}

// ScheduleStats holds submission statistics for a schedule.
type ScheduleStats struct {
	ScheduleID string    `json:"schedule_id"`
	LastRun    time.Time `json:"last_run"`
	LastRunID  string    `json:"last_run_id"`
	NextRun    time.Time `json:"next_run"`
	RunCount   int64     `json:"run_count"`
}

// GetScheduleStats returns statistics for a given schedule ID.
func (s *Scheduler) GetScheduleStats(id string) (*ScheduleStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, exists := s.schedules[id]
	if !exists {
		return nil, false
	}

	var nextRun time.Time
	entry := s.cron.Entry(sr.entryID)
	if entry.ID != 0 {
		nextRun = entry.Next
	}

	return &ScheduleStats{
		ScheduleID: id,
		LastRun:    sr.lastRun,
		LastRunID:  sr.lastRunID,
		NextRun:    nextRun,
		RunCount:   sr.runCount,
	}, true
}

// cronSlogAdapter adapts slog.Logger to cron.Logger interface.
type cronSlogAdapter struct {
	logger *slog.Logger
}

func (a *cronSlogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *cronSlogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	attrs := make([]any, 0, len(keysAndValues)+1)
	attrs = append(attrs, slog.String("error", err.Error()))
	attrs = append(attrs, keysAndValues...)
	a.logger.Error(msg, attrs...)
}
