// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/ui/styles"
)

// =============================================================================
// CHAT SERVICE
// =============================================================================

// Service is the slice of the backend client the widget needs. api.Client
// satisfies it; tests substitute a stub.
type Service interface {
	Chat(ctx context.Context, message string) (string, error)
	Tips(ctx context.Context) ([]string, error)
}

// =============================================================================
// CHAT WIDGET
// =============================================================================

// Widget is the dashboard's assistant chat panel. Each instance owns its
// open/closed flag and its transcript; nothing about the widget is global.
//
// A send never locks the input: overlapping sends each run their own
// command and append their reply when it settles, so replies land in
// completion order.
type Widget struct {
	transcript *model.Transcript

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	theme    *styles.Theme

	client Service
	rng    *rand.Rand

	open    bool
	pending int
	width   int
	height  int
}

// New creates a closed chat widget talking to the given service. The tip
// selection randomness defaults to a time seed; tests override it with
// SetRandSource.
func New(client Service, theme *styles.Theme) *Widget {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about stocks, models, predictions..."
	ti.CharLimit = 500
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder

	vp := viewport.New(76, 14)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = styles.LineSpinner.Bubbles()
	sp.Style = theme.Spinner

	return &Widget{
		transcript: model.NewTranscript(),
		input:      ti,
		viewport:   vp,
		spinner:    sp,
		theme:      theme,
		client:     client,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		width:      80,
		height:     20,
	}
}

// SetRandSource replaces the randomness behind tip selection.
func (w *Widget) SetRandSource(src rand.Source) {
	w.rng = rand.New(src)
}

// SetTheme swaps the active theme after a toggle.
func (w *Widget) SetTheme(theme *styles.Theme) {
	w.theme = theme
	w.spinner.Style = theme.Spinner
	w.input.PromptStyle = theme.InputPrompt
	w.input.PlaceholderStyle = theme.InputPlaceholder
	w.updateViewport()
}

// SetSize updates the widget's panel dimensions and reflows the transcript.
func (w *Widget) SetSize(width, height int) {
	w.width = width
	w.height = height

	w.viewport.Width = w.innerWidth()
	vpHeight := height - 5
	if vpHeight < 3 {
		vpHeight = 3
	}
	w.viewport.Height = vpHeight
	w.input.Width = w.innerWidth() - 4

	w.updateViewport()
}

// innerWidth is the content width inside the panel frame.
func (w *Widget) innerWidth() int {
	inner := w.width - 4
	if inner < 20 {
		inner = 20
	}
	return inner
}

// IsOpen reports whether the panel is visible and focused.
func (w *Widget) IsOpen() bool {
	return w.open
}

// Pending returns the number of in-flight sends.
func (w *Widget) Pending() int {
	return w.pending
}

// Transcript exposes the conversation for persistence.
func (w *Widget) Transcript() *model.Transcript {
	return w.transcript
}

// MessageCount returns the transcript length.
func (w *Widget) MessageCount() int {
	return w.transcript.MessageCount()
}

// Toggle flips the widget between Closed and Open. Entering Open focuses
// the input and fires the tip fetch; closing blurs the input and leaves
// any in-flight sends running.
func (w *Widget) Toggle() tea.Cmd {
	w.open = !w.open
	if !w.open {
		w.input.Blur()
		return nil
	}

	w.input.Focus()
	return tea.Batch(textinput.Blink, w.loadTipsCmd())
}

// Init implements the Bubble Tea contract for the widget.
func (w *Widget) Init() tea.Cmd {
	return textinput.Blink
}

// updateViewport re-renders the transcript into the viewport and keeps the
// newest message visible.
func (w *Widget) updateViewport() {
	w.viewport.SetContent(w.renderMessages())
	w.viewport.GotoBottom()
}
