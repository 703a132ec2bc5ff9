// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package market is the forecasting engine behind the demo backend.
//
// It generates deterministic synthetic price history per symbol, runs the
// four forecast models over it, and answers chat messages with the canned
// assistant replies. Everything here is pure computation: no network, no
// disk, no shared mutable state.
//
// # Key Types
//
//   - Forecast: one model's projected values plus RMSE/MAE metrics
//   - Symbols: the stock catalog served by the symbols endpoint
//
// # Determinism
//
// GenerateSeries seeds its RNG from the symbol text, so the same symbol
// always produces the same candles. The forecast models are either closed
// form or seeded with a fixed constant, so a given history always yields
// the same predictions. Tests rely on this.
//
// # Usage
//
// Run the full model suite over synthetic history:
//
//	series := market.GenerateSeries("AAPL", 365)
//	result, err := market.PredictAll("AAPL", series.Closes(), 30)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.CurrentPrice, result.BestModel())
//
// Answer a chat message:
//
//	reply := market.Respond("how accurate are the models?")
package market
