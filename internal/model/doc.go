// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the core data structures shared across stockdeck.
//
// # Key Types
//
// Chat:
//   - Message: a single chat message with role, content, and timestamp
//   - Transcript: an append-only ordered exchange with the assistant
//
// Market data:
//   - PricePoint, Series: daily OHLCV observations for one symbol
//   - ChartData, ChartSeries: renderer-independent chart descriptions
//
// Forecasting:
//   - PredictorInfo, Predictors: registry of backend forecast models
//   - PredictionResult, ModelMetrics: multi-model forecast payloads
//
// # Usage
//
// Build a transcript:
//
//	tr := model.NewTranscript()
//	tr.AddUserMessage("How is AAPL doing?")
//	tr.AddBotMessage("AAPL is trending up.")
//
// Inspect a forecast:
//
//	best := result.BestModel()
//	change := result.ExpectedChange(best)
//
// All types are plain data with small convenience methods; none of them
// perform I/O.
package model
