package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardforge/cardforge/internal/engine"
	"github.com/cardforge/cardforge/internal/runstore"
)

// ViewMode represents the current view in the TUI.
type ViewMode int

const (
	ViewModeList ViewMode = iota
	ViewModeDetail
)

// Model holds the state for the TUI.
type Model struct {
	// Services
	engine *engine.Engine
	store  runstore.Store
	logger *slog.Logger

	// UI state
	viewMode     ViewMode
	runs         []*engine.RunRecord
	selectedRun  int
	detailRun    *engine.RunRecord // snapshot shown in detail view
	width        int
	height       int
	lastUpdate   time.Time
	quitting     bool
	statusLine   string
	errorMessage string

	// Stats
	totalRuns      int
	liveRuns       int
	cardsGenerated int
	itemsFailed    int
}

// New creates a new TUI model.
func New(eng *engine.Engine, st runstore.Store, logger *slog.Logger) Model {
	return Model{
		engine:     eng,
		store:      st,
		logger:     logger,
		runs:       []*engine.RunRecord{},
		lastUpdate: time.Now(),
	}
}

// Init initializes the model (required by Bubbletea).
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

// tickMsg is sent on a regular interval to refresh the UI.
type tickMsg time.Time

// tickCmd returns a command that sends a tick message every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshData loads the latest run snapshots from the live registry and
// the durable store. The live copy wins for runs present in both.
func (m *Model) refreshData() {
	live := m.engine.GetRunHistory()

	seen := make(map[string]bool, len(live))
	merged := make([]*engine.RunRecord, 0, len(live))
	for _, rec := range live {
		seen[rec.ID] = true
		merged = append(merged, rec)
	}

	if m.store != nil {
		stored, err := m.store.GetAllRuns(50)
		if err != nil {
			m.errorMessage = err.Error()
		} else {
			for _, rec := range stored {
				if !seen[rec.ID] {
					merged = append(merged, rec)
				}
			}
		}
	}

	m.runs = merged
	m.totalRuns = len(merged)
	m.liveRuns = 0
	m.cardsGenerated = 0
	m.itemsFailed = 0
	for _, rec := range merged {
		if !rec.Status.IsTerminal() {
			m.liveRuns++
		}
		m.cardsGenerated += rec.Succeeded()
		m.itemsFailed += rec.Failed()
	}

	if m.selectedRun >= len(m.runs) && len(m.runs) > 0 {
		m.selectedRun = len(m.runs) - 1
	}

	// Keep the detail snapshot fresh while the run is live.
	if m.viewMode == ViewModeDetail && m.detailRun != nil {
		if rec, ok := m.engine.GetRunStatus(m.detailRun.ID); ok {
			m.detailRun = rec
		}
	}

	m.lastUpdate = time.Now()
}

// Quitting returns true if the user has requested to quit.
func (m Model) Quitting() bool {
	return m.quitting
}
