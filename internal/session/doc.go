// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks one dashboard run.
//
// A Manager carries a unique run ID, uptime and idle time, counters
// for the status bar (chats, predictions, renders, exports), and the
// transcript auto-save schedule. The TUI drives it with TickCmd and
// HandleTick; the chat REPL calls Check after each exchange.
//
// # Key Types
//
//   - Manager: run state, counters, auto-save scheduling
//   - Status: point-in-time snapshot for display
//   - TickMsg, AutoSaveMsg: Bubble Tea integration messages
package session
