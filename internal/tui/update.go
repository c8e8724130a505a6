package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refreshData()
		return m, tickCmd()

	case error:
		m.errorMessage = msg.Error()
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.viewMode == ViewModeDetail {
			m.viewMode = ViewModeList
			m.detailRun = nil
		}
		return m, nil

	case "enter":
		if m.viewMode == ViewModeList && m.selectedRun < len(m.runs) {
			m.viewMode = ViewModeDetail
			m.detailRun = m.runs[m.selectedRun]
		}
		return m, nil

	case "up", "k":
		if m.viewMode == ViewModeList && m.selectedRun > 0 {
			m.selectedRun--
		}
		return m, nil

	case "down", "j":
		if m.viewMode == ViewModeList && m.selectedRun < len(m.runs)-1 {
			m.selectedRun++
		}
		return m, nil

	case "g":
		if m.viewMode == ViewModeList {
			m.selectedRun = 0
		}
		return m, nil

	case "G":
		if m.viewMode == ViewModeList && len(m.runs) > 0 {
			m.selectedRun = len(m.runs) - 1
		}
		return m, nil

	case "c":
		// Request cancellation of the selected run
		var runID string
		if m.viewMode == ViewModeDetail && m.detailRun != nil {
			runID = m.detailRun.ID
		} else if m.selectedRun < len(m.runs) {
			runID = m.runs[m.selectedRun].ID
		}
		if runID != "" {
			if m.engine.CancelRun(runID) {
				m.statusLine = "cancellation requested for " + runID
			} else {
				m.statusLine = "run " + runID + " is not cancellable"
			}
		}
		return m, nil

	case "r":
		m.refreshData()
		return m, nil
	}

	return m, nil
}
