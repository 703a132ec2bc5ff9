// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is the embedded demo backend. It speaks the same wire
// contract as the real dashboard backend, answering from deterministic
// demo market data, so the TUI and CLI run fully offline.
//
// Endpoints:
//
//	POST /chat                    keyword assistant reply
//	GET  /chat-tips               quick tip list
//	GET  /api/stock-symbols       demo catalog
//	POST /prediction              all four forecasters over demo history
//	GET  /api/prediction-history  last ten predictions, newest first
//	GET  /export-csv/{symbol}     OHLCV CSV attachment
//	GET  /health                  liveness
//	GET  /stats                   request counters
//
// Every handler runs behind the middleware chain: panic recovery,
// security headers, request IDs, request logging, and a per-IP sliding
// window rate limit.
//
// # Usage
//
//	srv := server.NewServer(5000).WithHistory(store)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
