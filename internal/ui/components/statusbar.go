// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stockdeck/internal/ui/styles"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusSending
	StatusPredicting
	StatusRendering
	StatusError
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSending:
		return "Sending..."
	case StatusPredicting:
		return "Predicting..."
	case StatusRendering:
		return "Rendering..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status, a cue beyond color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusSending, StatusPredicting, StatusRendering:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusOffline:
		return "(-)"
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar: backend health, the selected symbol
// with its latest quote, session counters, theme indicator, and shortcuts.
type StatusBar struct {
	Width         int
	Connected     bool
	BackendURL    string
	Symbol        string
	LastClose     float64
	ChangePercent float64
	HasQuote      bool
	ChatsSent     int
	Predictions   int
	Status        Status
	ShowShortcuts bool

	theme *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:         80,
		Status:        StatusReady,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetTheme swaps the active theme after a toggle.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetBackend updates the backend endpoint and its reachability.
func (s *StatusBar) SetBackend(url string, connected bool) {
	s.BackendURL = url
	s.Connected = connected
}

// SetQuote updates the displayed symbol and its latest close. The change is
// the fractional move over the displayed window, e.g. 0.032 for +3.2%.
func (s *StatusBar) SetQuote(symbol string, close, changeFraction float64) {
	s.Symbol = symbol
	s.LastClose = close
	s.ChangePercent = changeFraction
	s.HasQuote = true
}

// SetCounts updates the per-run activity counters.
func (s *StatusBar) SetCounts(chats, predictions int) {
	s.ChatsSent = chats
	s.Predictions = predictions
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals.
// Format: [health|theme] SYMBOL price status-icon
func (s *StatusBar) viewNarrow() string {
	parts := []string{
		s.healthStyle().Render(s.healthIcon()),
		s.theme.ThemeBadge.Render(s.theme.Mode.Indicator()),
	}
	left := "[" + strings.Join(parts, "|") + "]"

	quote := ""
	if s.HasQuote {
		quote = " " + s.Symbol + " " + s.changeStyle().Render(util.FormatUSD(s.LastClose))
	}

	status := s.statusStyle().Render(s.Status.Icon())

	return s.theme.StatusBar.
		Width(s.Width).
		Render(left + quote + " " + status)
}

// viewMedium renders a medium-width status bar.
// Format: health | SYMBOL price change | theme | status
func (s *StatusBar) viewMedium() string {
	separator := s.theme.MessageMeta.Render(" | ")

	parts := []string{
		s.healthStyle().Render(s.healthIcon() + " " + s.healthText()),
	}

	if s.HasQuote {
		quote := s.Symbol + " " + util.FormatUSD(s.LastClose) + " " +
			s.changeStyle().Render(util.FormatPercent(s.ChangePercent))
		parts = append(parts, quote)
	}

	parts = append(parts, s.theme.ThemeBadge.Render(s.theme.Mode.Indicator()))
	parts = append(parts, s.statusStyle().Render(s.Status.String()))

	return s.theme.StatusBar.
		Width(s.Width).
		Render(strings.Join(parts, separator))
}

// viewWide renders the full status bar for wide terminals.
// Format: health backend | SYMBOL price change --- chats/preds --- theme status shortcuts
func (s *StatusBar) viewWide() string {
	separator := s.theme.MessageMeta.Render(" | ")

	// Left section: backend health and the live quote.
	leftParts := []string{
		s.healthStyle().Render(s.healthIcon()+" "+s.healthText()) +
			" " + s.theme.MessageMeta.Render(s.BackendURL),
	}
	if s.HasQuote {
		quote := s.theme.HeaderTitle.Render(s.Symbol) + " " +
			util.FormatUSD(s.LastClose) + " " +
			s.changeStyle().Render(util.FormatPercent(s.ChangePercent))
		leftParts = append(leftParts, quote)
	}
	leftSection := strings.Join(leftParts, separator)

	// Center section: per-run counters.
	centerSection := s.theme.MessageMeta.Render(
		"chats " + util.IntToString(s.ChatsSent) +
			" | predictions " + util.IntToString(s.Predictions),
	)

	// Right section: theme, status, shortcuts.
	rightParts := []string{
		s.theme.ThemeBadge.Render(s.theme.Mode.Indicator()),
		s.statusStyle().Render(s.Status.String()),
	}
	if s.ShowShortcuts {
		rightParts = append(rightParts, s.renderShortcuts())
	}
	rightSection := strings.Join(rightParts, " ")

	// Spread the three sections across the width.
	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)
	spacing := s.Width - leftWidth - centerWidth - rightWidth - 4
	if spacing < 4 {
		spacing = 4
	}
	leftSpace := strings.Repeat(" ", spacing/2)
	rightSpace := strings.Repeat(" ", spacing-spacing/2)

	return s.theme.StatusBar.
		Width(s.Width).
		Render(leftSection + leftSpace + centerSection + rightSpace + rightSection)
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

func (s *StatusBar) healthIcon() string {
	if s.Connected {
		return styles.StatusIndicators.Active
	}
	return styles.StatusIndicators.Error
}

func (s *StatusBar) healthText() string {
	if s.Connected {
		return "connected"
	}
	return "offline"
}

func (s *StatusBar) healthStyle() lipgloss.Style {
	if s.Connected {
		return s.theme.StatusGood
	}
	return s.theme.StatusBad
}

// changeStyle colors the quote by the sign of the change.
func (s *StatusBar) changeStyle() lipgloss.Style {
	switch {
	case s.ChangePercent > 0:
		return s.theme.PriceUpText
	case s.ChangePercent < 0:
		return s.theme.PriceDownText
	default:
		return s.theme.PriceFlatText
	}
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return s.theme.StatusGood
	case StatusError, StatusOffline:
		return s.theme.StatusBad
	default:
		return s.theme.PendingText
	}
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		s.theme.ShortcutKey.Render("^T") + s.theme.ShortcutDesc.Render("theme"),
		s.theme.ShortcutKey.Render("?") + s.theme.ShortcutDesc.Render("help"),
		s.theme.ShortcutKey.Render("^C") + s.theme.ShortcutDesc.Render("quit"),
	}

	return strings.Join(shortcuts, " ")
}
