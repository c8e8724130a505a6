// Package tui provides a terminal user interface for watching card
// generation runs.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#0EA5E9") // Sky blue
	colorSuccess   = lipgloss.Color("#10B981") // Green
	colorError     = lipgloss.Color("#EF4444") // Red
	colorWarning   = lipgloss.Color("#F59E0B") // Orange
	colorInfo      = lipgloss.Color("#3B82F6") // Blue
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBorder    = lipgloss.Color("#374151") // Dark gray
	colorHighlight = lipgloss.Color("#38BDF8") // Light blue

	// Header style
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginBottom(1)

	// Status bar style
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginTop(1)

	// Run list styles
	runListStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			MarginBottom(1)

	runItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	runItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true).
				Padding(0, 1)

	// Status indicator styles
	statusRunningStyle = lipgloss.NewStyle().
				Foreground(colorInfo).
				Bold(true)

	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	statusCancelledStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	statusIdleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Stats panel style
	statsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2).
			MarginBottom(1)

	// Detail view item history style
	detailItemsStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(1, 2)

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// Value styles for key-value pairs
	keyStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	// Duration styles
	durationStyle = lipgloss.NewStyle().
			Foreground(colorInfo)
)

// Status icons
const (
	iconRunning   = "⟳"
	iconSuccess   = "✓"
	iconError     = "✗"
	iconCancelled = "⊘"
	iconQueued    = "◌"
	iconArrow     = ">"
	iconBullet    = "•"
)
