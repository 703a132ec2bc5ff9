// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the stock prediction backend.
//
// The client wraps the backend's JSON endpoints (chat, tips, prediction,
// history, symbols, CSV export) behind typed methods, normalizes failures
// into a small ClientError taxonomy, and throttles outbound requests with a
// token-bucket limiter.
//
// # Key Types
//
//   - Client: the backend client, safe for concurrent use
//   - ClientConfig: base URL, timeout, and rate limit settings
//   - ClientError: categorized error with the backend's own message when
//     the response body carried one
//
// # Error Handling
//
// Transport failures map to ErrBackendDown, deadline hits to ErrTimeout,
// and non-OK statuses to typed errors carrying the backend's message
// field. Use the predicate helpers rather than matching strings:
//
//	reply, err := client.Chat(ctx, text)
//	switch {
//	case api.IsBackendDown(err):
//	    // backend offline, fall back locally
//	case api.IsBadRequest(err):
//	    // backend rejected the input; err.Error() has its message
//	}
package api
