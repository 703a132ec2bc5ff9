// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// SYNTHETIC PRICE DATA
// =============================================================================

// Demo series parameters. Daily log returns are drawn from a normal
// distribution so prices follow a geometric random walk with light upward
// drift, matching how real equities look at a glance.
const (
	// DefaultHistoryDays is the span generated when the caller does not ask
	// for a specific window.
	DefaultHistoryDays = 365

	demoReturnMean   = 0.0005
	demoReturnStdDev = 0.02
)

// symbolSeed derives a stable RNG seed from a symbol so every request for
// the same symbol replays the same walk.
func symbolSeed(symbol string) int64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return int64(h.Sum32())
}

// GenerateSeries produces a deterministic synthetic price series for a
// symbol. The same symbol always yields the same prices; different symbols
// diverge because the seed folds in the symbol text. The final point lands
// on today's date with one point per calendar day before it.
//
// Candle shape per point: the close comes from the walk, the open sits
// within 1% of the close, the high 1-3% above, the low 1-3% below, and
// volume falls in the 50M-100M range.
func GenerateSeries(symbol string, days int) *model.Series {
	if days <= 0 {
		days = DefaultHistoryDays
	}

	sym := util.NormalizeSymbol(symbol)
	rng := rand.New(rand.NewSource(symbolSeed(sym)))
	base := BasePrice(sym)

	// Geometric walk: prices = base * exp(cumulative log returns)
	closes := make([]float64, days)
	logSum := 0.0
	for i := range closes {
		logSum += rng.NormFloat64()*demoReturnStdDev + demoReturnMean
		closes[i] = base * math.Exp(logSum)
	}

	// Candles are generated pass by pass so each field consumes its own
	// stretch of the RNG stream.
	opens := make([]float64, days)
	for i := range opens {
		opens[i] = closes[i] * (1 + uniformIn(rng, -0.01, 0.01))
	}
	highs := make([]float64, days)
	for i := range highs {
		highs[i] = closes[i] * (1 + uniformIn(rng, 0.01, 0.03))
	}
	lows := make([]float64, days)
	for i := range lows {
		lows[i] = closes[i] * (1 + uniformIn(rng, -0.03, -0.01))
	}
	volumes := make([]int64, days)
	for i := range volumes {
		volumes[i] = 50_000_000 + rng.Int63n(50_000_000)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	points := make([]model.PricePoint, days)
	for i := range points {
		points[i] = model.PricePoint{
			Date:   start.AddDate(0, 0, i),
			Open:   opens[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
	}

	return &model.Series{Symbol: sym, Points: points}
}

// uniformIn returns a uniform draw from [lo, hi).
func uniformIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
