// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stockdeck/internal/api"
)

// Update handles messages while the widget is open. The parent model owns
// the open/close key; everything else routes here.
func (w *Widget) Update(msg tea.Msg) (*Widget, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)

	case ReplyMsg:
		return w.handleReply(msg)

	case TipsMsg:
		return w.handleTips(msg)

	case spinner.TickMsg:
		if w.pending == 0 {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	cmds = append(cmds, cmd)
	w.viewport, cmd = w.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return w, tea.Batch(cmds...)
}

// handleKey routes key presses between the input line and the viewport.
func (w *Widget) handleKey(msg tea.KeyMsg) (*Widget, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := w.input.Value()
		w.input.Reset()
		return w, w.sendMessage(text)

	case tea.KeyEsc:
		return w, w.Toggle()

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		w.viewport, cmd = w.viewport.Update(msg)
		return w, cmd
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// sendMessage appends the user message and issues the request.
//
// The contract per send:
//   - whitespace-only text is a no-op, no message and no request
//   - the user message is appended synchronously, before the request
//   - the reply appends exactly one bot message when it settles
//
// The input stays live while requests are in flight; overlapping sends
// settle independently.
func (w *Widget) sendMessage(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	w.transcript.AddUserMessage(trimmed)
	w.updateViewport()
	w.pending++

	if w.pending == 1 {
		return tea.Batch(w.sendCmd(trimmed), w.spinner.Tick)
	}
	return w.sendCmd(trimmed)
}

// handleReply appends the outcome of one settled send.
func (w *Widget) handleReply(msg ReplyMsg) (*Widget, tea.Cmd) {
	if w.pending > 0 {
		w.pending--
	}

	switch {
	case msg.Err == nil:
		w.transcript.AddBotMessage(msg.Reply)
	case api.IsTransportError(msg.Err):
		w.transcript.AddErrorMessage("Could not reach the assistant: " + msg.Err.Error())
	default:
		// The backend answered with an error status; show the canned
		// apology instead of the raw status line.
		w.transcript.AddErrorMessage(FallbackReply)
	}

	w.updateViewport()
	return w, nil
}

// handleTips appends one randomly chosen tip as a bot message. Failures
// and empty lists are logged and otherwise invisible.
func (w *Widget) handleTips(msg TipsMsg) (*Widget, tea.Cmd) {
	if msg.Err != nil {
		log.Printf("CHAT_TIPS_FAILED | error=%v", msg.Err)
		return w, nil
	}
	if len(msg.Tips) == 0 {
		log.Printf("CHAT_TIPS_EMPTY |")
		return w, nil
	}

	tip := msg.Tips[w.rng.Intn(len(msg.Tips))]
	w.transcript.AddBotMessage(tip)
	w.updateViewport()
	return w, nil
}
