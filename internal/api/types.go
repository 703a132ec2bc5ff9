// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/stockdeck/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body for POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// PredictRequest is the body for POST /prediction.
type PredictRequest struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the success body from POST /chat.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// TipsResponse is the body from GET /chat-tips. The tips field may be
// absent or empty; callers treat both the same.
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// PredictResponse is the success body from POST /prediction. The
// predictions map is keyed by wire model ID while metrics and comparison
// use display names.
type PredictResponse struct {
	Success      bool                          `json:"success"`
	Predictions  map[string][]float64          `json:"predictions"`
	Metrics      map[string]model.ModelMetrics `json:"metrics"`
	Comparison   map[string][]float64          `json:"comparison"`
	CurrentPrice float64                       `json:"current_price"`
}

// HistoryEntry is one record from GET /api/prediction-history. CreatedAt
// uses the backend's "2006-01-02 15:04:05" layout.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	StockSymbol string `json:"stock_symbol"`
	Days        int    `json:"days"`
	CreatedAt   string `json:"created_at"`
}

// SymbolsResponse is the body from GET /api/stock-symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// ErrorResponse is the envelope the backend uses for failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
