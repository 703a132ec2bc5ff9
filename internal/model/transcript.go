// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts, price
// series, and prediction results.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MaxMessages is the maximum number of messages kept in a transcript.
// When exceeded, the oldest non-system messages are pruned to prevent
// unbounded memory growth in long sessions.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds an append-only chat exchange with the assistant.
// Messages are ordered oldest first; a send appends the user message and,
// once the reply arrives, the bot message after it. Overlapping sends may
// interleave their replies, so ordering between concurrent exchanges is
// whatever the arrival order produced.
type Transcript struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`
}

// NewTranscript creates a new transcript with a generated ID.
func NewTranscript() *Transcript {
	return &Transcript{
		ID:        generateTranscriptID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the transcript.
func (t *Transcript) AddMessage(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	t.updateTitle()
	t.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (t *Transcript) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	t.AddMessage(msg)
	return msg
}

// AddBotMessage creates and appends a bot message.
func (t *Transcript) AddBotMessage(content string) *Message {
	msg := NewBotMessage(content)
	t.AddMessage(msg)
	return msg
}

// AddErrorMessage creates and appends a bot message reporting a failure.
func (t *Transcript) AddErrorMessage(content string) *Message {
	msg := NewErrorMessage(content)
	t.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system message.
func (t *Transcript) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	t.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (t *Transcript) GetLastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// GetLastUserMessage returns the most recent user message.
func (t *Transcript) GetLastUserMessage() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleUser {
			return t.Messages[i]
		}
	}
	return nil
}

// GetMessageByID returns a message by its ID, or nil if absent.
func (t *Transcript) GetMessageByID(id string) *Message {
	for _, msg := range t.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Clear removes all messages from the transcript.
func (t *Transcript) Clear() {
	t.Messages = make([]*Message, 0)
	t.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (t *Transcript) MessageCount() int {
	return len(t.Messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}

// GetHistory returns the message history for display.
func (t *Transcript) GetHistory() []*Message {
	return t.Messages
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (t *Transcript) updateTitle() {
	if t.Title != "" {
		return
	}

	for _, msg := range t.Messages {
		if msg.Role == RoleUser {
			t.Title = msg.Preview(50)
			return
		}
	}
}

// SetTitle manually sets the transcript title.
func (t *Transcript) SetTitle(title string) {
	t.Title = title
	t.UpdatedAt = time.Now()
}

// GetTitle returns the transcript title or a default.
func (t *Transcript) GetTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return "New Chat"
}

// Preview returns a short preview of the transcript.
func (t *Transcript) Preview() string {
	if len(t.Messages) == 0 {
		return "Empty chat"
	}

	first := t.GetLastUserMessage()
	if first == nil {
		first = t.Messages[0]
	}

	return first.Preview(100)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateTranscriptID creates a unique transcript ID.
func generateTranscriptID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "chat_" + hex.EncodeToString(bytes)
}

// Clone creates a deep copy of the transcript.
func (t *Transcript) Clone() *Transcript {
	clone := &Transcript{
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Messages:  make([]*Message, len(t.Messages)),
	}

	for i, msg := range t.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}

	return clone
}

// pruneOldMessages removes old messages when the transcript exceeds
// MaxMessages. System messages are preserved.
func (t *Transcript) pruneOldMessages() {
	if len(t.Messages) <= MaxMessages {
		return
	}

	var systemMessages []*Message
	var otherMessages []*Message
	for _, msg := range t.Messages {
		if msg.Role == RoleSystem {
			systemMessages = append(systemMessages, msg)
		} else {
			otherMessages = append(otherMessages, msg)
		}
	}

	if len(otherMessages) > MaxMessages {
		startIdx := len(otherMessages) - MaxMessages
		otherMessages = otherMessages[startIdx:]
	}

	t.Messages = make([]*Message, 0, len(systemMessages)+len(otherMessages))
	t.Messages = append(t.Messages, systemMessages...)
	t.Messages = append(t.Messages, otherMessages...)
}
