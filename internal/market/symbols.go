// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"sort"

	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// SYMBOL CATALOG
// =============================================================================

// Symbols is the catalog of stock symbols the backend serves, in the order
// the symbols endpoint returns them.
var Symbols = []string{
	"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
	"META", "NFLX", "NVDA", "AMD", "INTC",
}

// companyNames maps each catalog symbol to its company name for display.
var companyNames = map[string]string{
	"AAPL":  "Apple",
	"GOOGL": "Google",
	"MSFT":  "Microsoft",
	"AMZN":  "Amazon",
	"TSLA":  "Tesla",
	"META":  "Meta",
	"NFLX":  "Netflix",
	"NVDA":  "NVIDIA",
	"AMD":   "AMD",
	"INTC":  "Intel",
}

// basePrices anchors the synthetic price walk per symbol. Symbols outside
// the catalog start from defaultBasePrice.
var basePrices = map[string]float64{
	"AAPL":  150,
	"GOOGL": 140,
	"MSFT":  380,
	"AMZN":  170,
	"TSLA":  240,
	"META":  300,
	"NFLX":  450,
	"NVDA":  875,
	"AMD":   140,
	"INTC":  35,
}

// defaultBasePrice is the walk anchor for symbols without a catalog entry.
const defaultBasePrice = 100

// SymbolList returns a copy of the catalog so callers cannot mutate it.
func SymbolList() []string {
	out := make([]string, len(Symbols))
	copy(out, Symbols)
	return out
}

// IsKnownSymbol reports whether the symbol is in the catalog. Matching is
// case-insensitive and ignores surrounding whitespace.
func IsKnownSymbol(symbol string) bool {
	_, ok := companyNames[util.NormalizeSymbol(symbol)]
	return ok
}

// CompanyName returns the company name for a catalog symbol, or the
// normalized symbol itself when the catalog has no entry.
func CompanyName(symbol string) string {
	sym := util.NormalizeSymbol(symbol)
	if name, ok := companyNames[sym]; ok {
		return name
	}
	return sym
}

// BasePrice returns the synthetic walk anchor for a symbol.
func BasePrice(symbol string) float64 {
	if p, ok := basePrices[util.NormalizeSymbol(symbol)]; ok {
		return p
	}
	return defaultBasePrice
}

// SortedSymbols returns the catalog in alphabetical order for display lists.
func SortedSymbols() []string {
	out := SymbolList()
	sort.Strings(out)
	return out
}
