// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the stockdeck application.
//
// This package contains common helper functions used throughout the
// application for string display, number formatting, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width truncation for terminal columns
//   - NormalizeSymbol: canonical ticker symbol form
//
// Formatting:
//   - FormatUSD: dollar amounts with thousands separators
//   - FormatPercent: signed percentage changes
//   - FormatMetric: model quality metrics rounded to four decimals
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateWidth(longText, 50)
//
//	// Format a quote for the status bar
//	s := util.FormatUSD(latest.Close)
//
//	// Write exports atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
