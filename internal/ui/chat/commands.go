// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// MESSAGES AND COMMANDS
// =============================================================================

// FallbackReply is appended verbatim when the backend answers with a non-OK
// status or an unreadable body.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// ReplyMsg delivers the outcome of one send. Exactly one ReplyMsg arrives
// per issued request, so every send appends exactly one bot message.
type ReplyMsg struct {
	Reply string
	Err   error
}

// TipsMsg delivers the tip list fetched when the widget opens.
type TipsMsg struct {
	Tips []string
	Err  error
}

// sendCmd posts one user message. The text has already been trimmed and
// appended to the transcript by the caller. The widget adds no deadline
// of its own: the client's HTTP timeout is the only cutoff, and every
// request runs to settlement.
func (w *Widget) sendCmd(text string) tea.Cmd {
	client := w.client
	return func() tea.Msg {
		reply, err := client.Chat(context.Background(), text)
		return ReplyMsg{Reply: reply, Err: err}
	}
}

// loadTipsCmd fetches the quick tips on transition to Open.
func (w *Widget) loadTipsCmd() tea.Cmd {
	client := w.client
	return func() tea.Msg {
		tips, err := client.Tips(context.Background())
		return TipsMsg{Tips: tips, Err: err}
	}
}
