// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"testing"
	"time"
)

// TestGenerateSeries_Deterministic verifies that the same symbol always
// replays the same walk and that different symbols diverge.
func TestGenerateSeries_Deterministic(t *testing.T) {
	a := GenerateSeries("AAPL", 100)
	b := GenerateSeries("AAPL", 100)

	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Points {
		if a.Points[i].Close != b.Points[i].Close {
			t.Fatalf("close %d differs: %v vs %v", i, a.Points[i].Close, b.Points[i].Close)
		}
		if a.Points[i].Volume != b.Points[i].Volume {
			t.Fatalf("volume %d differs", i)
		}
	}

	c := GenerateSeries("TSLA", 100)
	same := true
	for i := range a.Points {
		if a.Points[i].Close != c.Points[i].Close {
			same = false
			break
		}
	}
	if same {
		t.Error("different symbols should produce different walks")
	}
}

// TestGenerateSeries_SymbolNormalized verifies that casing and whitespace
// do not change the walk.
func TestGenerateSeries_SymbolNormalized(t *testing.T) {
	a := GenerateSeries("AAPL", 30)
	b := GenerateSeries("  aapl ", 30)

	if a.Symbol != b.Symbol {
		t.Errorf("symbols differ: %q vs %q", a.Symbol, b.Symbol)
	}
	for i := range a.Points {
		if a.Points[i].Close != b.Points[i].Close {
			t.Fatal("normalized symbol should replay the same walk")
		}
	}
}

// TestGenerateSeries_CandleShape verifies the per-point invariants: prices
// positive, high above open and close, low below both, volume in the
// 50M-100M band.
func TestGenerateSeries_CandleShape(t *testing.T) {
	s := GenerateSeries("MSFT", 365)

	if s.Len() != 365 {
		t.Fatalf("Len() = %d, want 365", s.Len())
	}

	for i, p := range s.Points {
		if p.Close <= 0 || p.Open <= 0 || p.High <= 0 || p.Low <= 0 {
			t.Fatalf("point %d has non-positive price: %+v", i, p)
		}
		if p.High < p.Open || p.High < p.Close {
			t.Fatalf("point %d high below open/close: %+v", i, p)
		}
		if p.Low > p.Open || p.Low > p.Close {
			t.Fatalf("point %d low above open/close: %+v", i, p)
		}
		if p.Volume < 50_000_000 || p.Volume >= 100_000_000 {
			t.Fatalf("point %d volume out of band: %d", i, p.Volume)
		}
	}
}

// TestGenerateSeries_Dates verifies one point per calendar day ending today.
func TestGenerateSeries_Dates(t *testing.T) {
	s := GenerateSeries("NVDA", 10)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	last := s.Points[len(s.Points)-1].Date
	if !last.Equal(today) {
		t.Errorf("last date = %v, want %v", last, today)
	}

	for i := 1; i < len(s.Points); i++ {
		gap := s.Points[i].Date.Sub(s.Points[i-1].Date)
		if gap != 24*time.Hour {
			t.Errorf("gap between point %d and %d = %v, want 24h", i-1, i, gap)
		}
	}
}

// TestGenerateSeries_DefaultDays verifies the zero-days fallback.
func TestGenerateSeries_DefaultDays(t *testing.T) {
	s := GenerateSeries("AMD", 0)
	if s.Len() != DefaultHistoryDays {
		t.Errorf("Len() = %d, want %d", s.Len(), DefaultHistoryDays)
	}
}

// TestGenerateSeries_UnknownSymbol verifies that off-catalog symbols still
// generate data anchored at the default base price.
func TestGenerateSeries_UnknownSymbol(t *testing.T) {
	s := GenerateSeries("ZZZZ", 50)
	if s.IsEmpty() {
		t.Fatal("unknown symbols should still generate a series")
	}
	// The walk starts within a few sigma of the anchor
	first := s.Points[0].Close
	if first < defaultBasePrice*0.8 || first > defaultBasePrice*1.2 {
		t.Errorf("first close %v too far from anchor %v", first, float64(defaultBasePrice))
	}
}

// TestBasePrice verifies catalog anchors and the off-catalog default.
func TestBasePrice(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"AAPL", 150},
		{"aapl", 150},
		{"NVDA", 875},
		{"INTC", 35},
		{"ZZZZ", 100},
		{"", 100},
	}

	for _, tt := range tests {
		if got := BasePrice(tt.symbol); got != tt.want {
			t.Errorf("BasePrice(%q) = %v, want %v", tt.symbol, got, tt.want)
		}
	}
}

// TestSymbolCatalog verifies catalog membership helpers.
func TestSymbolCatalog(t *testing.T) {
	if len(Symbols) != 10 {
		t.Fatalf("catalog has %d symbols, want 10", len(Symbols))
	}

	if !IsKnownSymbol("AAPL") || !IsKnownSymbol(" googl ") {
		t.Error("catalog symbols should be known regardless of case")
	}
	if IsKnownSymbol("ZZZZ") {
		t.Error("ZZZZ should not be known")
	}

	if got := CompanyName("NVDA"); got != "NVIDIA" {
		t.Errorf("CompanyName(NVDA) = %q", got)
	}
	if got := CompanyName("zzzz"); got != "ZZZZ" {
		t.Errorf("CompanyName(zzzz) = %q, want normalized symbol", got)
	}

	// SymbolList returns a copy
	list := SymbolList()
	list[0] = "mutated"
	if Symbols[0] == "mutated" {
		t.Error("SymbolList should return a copy")
	}

	sorted := SortedSymbols()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			t.Fatalf("SortedSymbols not sorted at %d: %v", i, sorted)
		}
	}
}
