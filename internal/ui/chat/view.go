// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stockdeck/internal/model"
)

// =============================================================================
// RENDERING
// =============================================================================

// View renders the chat panel. A closed widget renders nothing; the parent
// shows the open-chat hint instead.
func (w *Widget) View() string {
	if !w.open {
		return ""
	}

	title := w.theme.PanelTitle.Render("Assistant")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		w.viewport.View(),
		w.renderPending(),
		w.input.View(),
	)

	return w.theme.PanelFocused.Width(w.width - 2).Render(content)
}

// renderPending holds the spinner line while sends are in flight. The line
// is kept when idle so the layout does not jump.
func (w *Widget) renderPending() string {
	if w.pending == 0 {
		return ""
	}
	return w.spinner.View() + w.theme.PendingText.Render(" waiting for reply...")
}

// renderMessages renders the transcript in arrival order.
func (w *Widget) renderMessages() string {
	if w.transcript.IsEmpty() {
		return w.renderEmptyState()
	}

	var parts []string
	for _, msg := range w.transcript.GetHistory() {
		parts = append(parts, w.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

// renderMessage renders one message as a meta line plus a bubble. User
// messages sit on the right, replies on the left, failed replies in the
// error bubble.
func (w *Widget) renderMessage(msg *model.Message) string {
	meta := w.theme.MessageMeta.Render(
		msg.Role.DisplayName() + " " + formatTimestamp(msg.Timestamp),
	)

	wrapWidth := w.innerWidth() - 10
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	body := wrapText(msg.Content, wrapWidth)

	switch {
	case msg.Role == model.RoleUser:
		block := lipgloss.JoinVertical(lipgloss.Right, meta, w.theme.UserBubble.Render(body))
		return lipgloss.PlaceHorizontal(w.innerWidth(), lipgloss.Right, block)
	case msg.IsError:
		return lipgloss.JoinVertical(lipgloss.Left, meta, w.theme.ErrorBubble.Render(body))
	default:
		return lipgloss.JoinVertical(lipgloss.Left, meta, w.theme.BotBubble.Render(body))
	}
}

// renderEmptyState fills the viewport before the first message.
func (w *Widget) renderEmptyState() string {
	return w.theme.InputPlaceholder.Render(
		"Ask about stock predictions, models, or data exports.",
	)
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// formatTimestamp shortens message times by recency: today shows the clock,
// the past week adds the weekday, anything older the date.
func formatTimestamp(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon 15:04")
	}
	return t.Format("Jan 2 15:04")
}

// wrapText wraps text to a maximum width, preserving existing line breaks
// and breaking long lines at spaces where possible.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		runes := []rune(line)
		for len(runes) > maxWidth {
			breakPoint := maxWidth
			for j := maxWidth; j > 0; j-- {
				if runes[j] == ' ' {
					breakPoint = j
					break
				}
			}

			result.WriteString(string(runes[:breakPoint]))
			result.WriteString("\n")
			runes = []rune(strings.TrimLeft(string(runes[breakPoint:]), " "))
		}
		result.WriteString(string(runes))
	}

	return result.String()
}
