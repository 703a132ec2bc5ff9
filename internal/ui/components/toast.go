// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stockdeck/internal/ui/styles"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
	// ToastKindWarning is a warning toast
	ToastKindWarning
	// ToastKindSuccess is a success toast
	ToastKindSuccess
)

// ToastDuration is the auto-dismiss duration. Every toast lives exactly
// this long unless dismissed early.
const ToastDuration = 5 * time.Second

// Toast is a non-blocking corner notification. It auto-dismisses after
// ToastDuration; the user can dismiss it earlier.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= ToastDuration
}

// TimeRemaining returns how much time is left before auto-dismiss.
func (t *Toast) TimeRemaining() time.Duration {
	remaining := ToastDuration - time.Since(t.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager manages the visible toast stack. Newest toasts sit at the
// front; the stack is capped so a burst of notifications cannot cover the
// dashboard.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	mutex     sync.Mutex
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		toasts:    make([]Toast, 0),
		nextID:    1,
		maxToasts: 5,
	}
}

// ShowToast inserts a new toast and returns its ID.
func (m *ToastManager) ShowToast(message string, kind ToastKind) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	m.nextID++

	// Newest first.
	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}

	return toast.ID
}

// RemoveToast removes a toast by ID. Removing an ID that has already been
// dismissed or expired is a no-op.
func (m *ToastManager) RemoveToast(id int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// TickToasts removes expired toasts and returns the remaining stack.
func (m *ToastManager) TickToasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	active := make([]Toast, 0, len(m.toasts))
	for _, toast := range m.toasts {
		if !toast.IsExpired() {
			active = append(active, toast)
		}
	}
	m.toasts = active

	return m.toasts
}

// GetToasts returns a copy of the current toasts.
func (m *ToastManager) GetToasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]Toast, len(m.toasts))
	copy(result, m.toasts)
	return result
}

// HasToasts returns true if there are any active toasts.
func (m *ToastManager) HasToasts() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.toasts = make([]Toast, 0)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastDismissMsg requests dismissing a specific toast.
type ToastDismissMsg struct {
	ID int
}

// ToastTickCmd returns a command that ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast using the active theme.
func RenderToast(th *styles.Theme, toast Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var boxStyle lipgloss.Style
	var icon string

	switch toast.Kind {
	case ToastKindError:
		boxStyle = th.ToastError
		icon = styles.StatusIndicators.Error
	case ToastKindWarning:
		boxStyle = th.ToastWarning
		icon = styles.StatusIndicators.Warning
	case ToastKindSuccess:
		boxStyle = th.ToastSuccess
		icon = styles.StatusIndicators.Success
	default:
		boxStyle = th.ToastInfo
		icon = styles.StatusIndicators.Info
	}

	message := toast.Message
	if len(message) > maxWidth-10 {
		message = wrapToastText(message, maxWidth-10)
	}

	content := icon + " " + message

	// Dismiss hint with the remaining lifetime.
	hints := []string{"[x] Dismiss"}
	if secs := int(toast.TimeRemaining().Seconds()); secs > 0 {
		hints = append(hints, util.IntToString(secs)+"s")
	}
	content += "\n" + th.MessageMeta.Render(strings.Join(hints, "  "))

	return boxStyle.MaxWidth(maxWidth).Render(content)
}

// RenderToastStack renders the toast stack anchored to the bottom-right
// corner of the screen.
func RenderToastStack(th *styles.Theme, toasts []Toast, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, RenderToast(th, toast, width))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	positioned := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(stack)

	if width > 0 && height > 0 {
		return lipgloss.Place(
			width, height,
			lipgloss.Right, lipgloss.Bottom,
			positioned,
		)
	}

	return positioned
}

// wrapToastText performs simple word wrapping for toast messages.
func wrapToastText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= maxWidth {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
