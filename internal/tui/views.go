package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardforge/cardforge/internal/engine"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	if m.viewMode == ViewModeDetail {
		return m.renderDetailView()
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStats())
	sections = append(sections, m.renderRunList())
	sections = append(sections, m.renderHelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m Model) renderHeader() string {
	title := titleStyle.Render("⚒ Cardforge Runs")
	subtitle := subtitleStyle.Render(fmt.Sprintf("Last updated: %s", m.lastUpdate.Format("15:04:05")))

	header := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", subtitle)
	return headerStyle.Render(header)
}

// renderStats renders the statistics bar.
func (m Model) renderStats() string {
	stats := []string{
		fmt.Sprintf("%s %d", keyStyle.Render("Runs:"), m.totalRuns),
		fmt.Sprintf("%s %d", keyStyle.Render("Live:"), m.liveRuns),
		fmt.Sprintf("%s %d", keyStyle.Render("Cards:"), m.cardsGenerated),
	}

	if m.itemsFailed > 0 {
		stats = append(stats, fmt.Sprintf("%s %d",
			keyStyle.Render("Failed items:"), m.itemsFailed))
	}

	content := strings.Join(stats, "  │  ")
	return statsStyle.Render(content)
}

// renderRunList renders the list of runs.
func (m Model) renderRunList() string {
	if len(m.runs) == 0 {
		return runListStyle.Render(subtitleStyle.Render("No runs yet"))
	}

	var rows []string

	rows = append(rows, titleStyle.Render("Runs"))
	rows = append(rows, "")

	header := fmt.Sprintf("   %-14s  %-28s  %-12s  %-11s  %s",
		"Run ID", "Target", "Status", "Items", "Duration")
	rows = append(rows, keyStyle.Render(header))
	rows = append(rows, keyStyle.Render(strings.Repeat("─", 84)))

	for i, rec := range m.runs {
		rows = append(rows, m.renderRunRow(rec, i == m.selectedRun))
	}

	content := strings.Join(rows, "\n")
	return runListStyle.Render(content)
}

// renderRunRow renders a single run row.
func (m Model) renderRunRow(rec *engine.RunRecord, selected bool) string {
	cursor := " "
	if selected {
		cursor = iconArrow
	}

	runID := padRight(truncate(rec.ID, 14), 14)

	target := fmt.Sprintf("%s/%s/%s", rec.Request.Facility, rec.Request.EquipmentClass, "")
	target = strings.TrimSuffix(target, "/")
	target = padRight(truncate(target, 28), 28)

	statusDisplay := renderStatus(rec.Status)

	items := fmt.Sprintf("%d/%d/%d", rec.Succeeded(), rec.Failed(), rec.Skipped())
	items = padRight(items, 11)

	durationDisplay := durationStyle.Render(formatDuration(rec.Duration()))

	row := fmt.Sprintf("%s  %s  %s  %s  %s  %s",
		cursor,
		runID,
		target,
		statusDisplay,
		items,
		durationDisplay,
	)

	if selected {
		return runItemSelectedStyle.Render(row)
	}
	return runItemStyle.Render(row)
}

// renderStatus maps a run status to a styled icon and label padded to a
// fixed width.
func renderStatus(status engine.Status) string {
	switch status {
	case engine.StatusRunning:
		return statusRunningStyle.Render(iconRunning + " Running  ")
	case engine.StatusCompleted:
		return statusSuccessStyle.Render(iconSuccess + " Completed")
	case engine.StatusFailed:
		return statusErrorStyle.Render(iconError + " Failed   ")
	case engine.StatusCancelled:
		return statusCancelledStyle.Render(iconCancelled + " Cancelled")
	default:
		return statusIdleStyle.Render(iconQueued + " Queued   ")
	}
}

// renderHelpBar renders the help/status bar at the bottom.
func (m Model) renderHelpBar() string {
	if m.errorMessage != "" {
		return statusBarStyle.Render(statusErrorStyle.Render("Error: " + m.errorMessage))
	}
	if m.statusLine != "" {
		return statusBarStyle.Render(m.statusLine)
	}

	help := "q: quit  │  ↑/↓: navigate  │  enter: details  │  c: cancel  │  r: refresh"
	return statusBarStyle.Render(help)
}

// renderDetailView renders the detailed view for a selected run.
func (m Model) renderDetailView() string {
	rec := m.detailRun
	if rec == nil {
		return "No run selected"
	}

	var sections []string

	title := fmt.Sprintf("⚒ Cardforge Runs - %s", truncate(rec.ID, 20))
	lastUpdate := fmt.Sprintf("Last updated: %s", m.lastUpdate.Format("15:04:05"))
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(title),
		"  ",
		subtitleStyle.Render(lastUpdate),
	)
	sections = append(sections, headerStyle.Render(header))

	var info []string
	info = append(info, titleStyle.Render("Request"))
	info = append(info, "")
	info = append(info, fmt.Sprintf("%s %s", keyStyle.Render("Facility:"), valueStyle.Render(
		fmt.Sprintf("%s/%s/%s", rec.Request.Sector, rec.Request.SubSector, rec.Request.Facility))))
	info = append(info, fmt.Sprintf("%s %s", keyStyle.Render("Equipment class:"), valueStyle.Render(rec.Request.EquipmentClass)))
	info = append(info, fmt.Sprintf("%s %s", keyStyle.Render("Quantity:"), valueStyle.Render(fmt.Sprintf("%d", rec.Request.Quantity))))
	info = append(info, fmt.Sprintf("%s %s", keyStyle.Render("Status:"), renderStatus(rec.Status)))
	info = append(info, fmt.Sprintf("%s %s (%s)",
		keyStyle.Render("Created:"),
		valueStyle.Render(rec.CreatedAt.Format("2006-01-02 15:04:05")),
		durationStyle.Render(formatDuration(rec.Duration())),
	))
	if rec.Error != "" {
		info = append(info, fmt.Sprintf("%s %s", keyStyle.Render("Error:"), statusErrorStyle.Render(truncate(rec.Error, 70))))
	}

	sections = append(sections, runListStyle.Render(strings.Join(info, "\n")))

	var itemRows []string
	itemRows = append(itemRows, titleStyle.Render(fmt.Sprintf("Items (%d of %d)", len(rec.Items), rec.Request.Quantity)))
	itemRows = append(itemRows, "")

	if len(rec.Items) == 0 {
		itemRows = append(itemRows, subtitleStyle.Render("No items settled yet"))
	} else {
		header := fmt.Sprintf("  %-6s  %-19s  %s", "Index", "Outcome", "Card / Error")
		itemRows = append(itemRows, keyStyle.Render(header))
		itemRows = append(itemRows, keyStyle.Render("  "+strings.Repeat("─", 70)))

		for _, item := range rec.Items {
			var outcomeDisplay string
			detail := item.CardRef
			switch item.Outcome {
			case engine.OutcomeSucceeded:
				outcomeDisplay = statusSuccessStyle.Render(iconSuccess + " succeeded        ")
			case engine.OutcomeFailed:
				outcomeDisplay = statusErrorStyle.Render(iconError + " failed           ")
				detail = item.Error
			default:
				outcomeDisplay = statusCancelledStyle.Render(iconCancelled + " skipped-cancelled")
				detail = ""
			}

			row := fmt.Sprintf("  %-6d  %s  %s",
				item.Index,
				outcomeDisplay,
				truncate(detail, 50),
			)
			itemRows = append(itemRows, row)
		}
	}

	sections = append(sections, detailItemsStyle.Render(strings.Join(itemRows, "\n")))

	helpText := "esc: back  │  c: cancel  │  q: quit  │  r: refresh"
	if m.statusLine != "" {
		helpText = m.statusLine
	}
	sections = append(sections, statusBarStyle.Render(helpText))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Helper functions

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// truncate truncates a string to a maximum length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// padRight pads a string with spaces to reach the desired length.
func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
