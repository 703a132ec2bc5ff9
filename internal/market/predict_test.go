// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"errors"
	"math"
	"testing"
)

// linearCloses returns a perfectly linear history: 100, 102, 104, ...
func linearCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}
	return closes
}

// flatCloses returns a constant history.
func flatCloses(n int, v float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = v
	}
	return closes
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestCheckInputs tests the shared horizon and history validation.
func TestCheckInputs(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		days    int
		wantErr error
	}{
		{"valid", linearCloses(100), 30, nil},
		{"min_days", linearCloses(100), 1, nil},
		{"days_zero", linearCloses(100), 0, ErrInvalidDays},
		{"days_negative", linearCloses(100), -5, ErrInvalidDays},
		{"days_too_large", linearCloses(100), 31, ErrInvalidDays},
		{"short_history", linearCloses(59), 10, ErrInsufficientData},
		{"empty_history", nil, 10, ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkInputs(tt.closes, tt.days)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkInputs() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPredictLinear_PerfectLine verifies the fit recovers an exact line:
// future values continue it and the holdout error is numerically zero.
func TestPredictLinear_PerfectLine(t *testing.T) {
	closes := linearCloses(100)

	fc, err := PredictLinear(closes, 5)
	if err != nil {
		t.Fatalf("PredictLinear() error = %v", err)
	}

	if len(fc.Values) != 5 {
		t.Fatalf("got %d values, want 5", len(fc.Values))
	}
	for h, v := range fc.Values {
		want := 100 + 2*float64(100+h)
		if !almostEqual(v, want, 1e-6) {
			t.Errorf("value[%d] = %v, want %v", h, v, want)
		}
	}
	if !almostEqual(fc.RMSE, 0, 1e-6) || !almostEqual(fc.MAE, 0, 1e-6) {
		t.Errorf("perfect line should score zero error, got RMSE=%v MAE=%v", fc.RMSE, fc.MAE)
	}
}

// TestPredictLSTM_PerfectLine verifies the level/trend recursion locks onto
// a linear series and extends it.
func TestPredictLSTM_PerfectLine(t *testing.T) {
	closes := linearCloses(100)

	fc, err := PredictLSTM(closes, 3)
	if err != nil {
		t.Fatalf("PredictLSTM() error = %v", err)
	}

	// Level ends at the last close, trend at the constant slope
	last := closes[len(closes)-1]
	for h, v := range fc.Values {
		want := last + 2*float64(h+1)
		if !almostEqual(v, want, 1e-6) {
			t.Errorf("value[%d] = %v, want %v", h, v, want)
		}
	}
	if !almostEqual(fc.RMSE, 0, 1e-6) {
		t.Errorf("RMSE = %v, want 0", fc.RMSE)
	}
}

// TestPredictARIMA_FlatSeries verifies smoothing of a constant series is
// exact and the forecast stays at the constant.
func TestPredictARIMA_FlatSeries(t *testing.T) {
	closes := flatCloses(80, 250)

	fc, err := PredictARIMA(closes, 10)
	if err != nil {
		t.Fatalf("PredictARIMA() error = %v", err)
	}

	for h, v := range fc.Values {
		if !almostEqual(v, 250, 1e-9) {
			t.Errorf("value[%d] = %v, want 250", h, v)
		}
	}
	if fc.RMSE != 0 || fc.MAE != 0 {
		t.Errorf("flat series should score zero error, got RMSE=%v MAE=%v", fc.RMSE, fc.MAE)
	}
}

// TestPredictARIMA_ConvergesToLastClose verifies the forecast recursion
// approaches the final observed price.
func TestPredictARIMA_ConvergesToLastClose(t *testing.T) {
	closes := linearCloses(100)
	last := closes[len(closes)-1]

	fc, err := PredictARIMA(closes, 30)
	if err != nil {
		t.Fatalf("PredictARIMA() error = %v", err)
	}

	first := fc.Values[0]
	final := fc.Values[len(fc.Values)-1]
	if math.Abs(final-last) >= math.Abs(first-last) {
		t.Errorf("forecast should converge toward last close %v: first=%v final=%v",
			last, first, final)
	}
}

// TestPredictRandomForest_FlatSeries verifies the ensemble reproduces a
// constant series exactly.
func TestPredictRandomForest_FlatSeries(t *testing.T) {
	closes := flatCloses(80, 42)

	fc, err := PredictRandomForest(closes, 10)
	if err != nil {
		t.Fatalf("PredictRandomForest() error = %v", err)
	}

	for h, v := range fc.Values {
		if !almostEqual(v, 42, 1e-9) {
			t.Errorf("value[%d] = %v, want 42", h, v)
		}
	}
	if !almostEqual(fc.RMSE, 0, 1e-9) {
		t.Errorf("RMSE = %v, want 0", fc.RMSE)
	}
}

// TestPredictRandomForest_Deterministic verifies the fixed seed makes runs
// repeatable.
func TestPredictRandomForest_Deterministic(t *testing.T) {
	closes := GenerateSeries("AAPL", 120).Closes()

	a, err := PredictRandomForest(closes, 15)
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	b, err := PredictRandomForest(closes, 15)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("value %d differs between runs", i)
		}
	}
	if a.RMSE != b.RMSE || a.MAE != b.MAE {
		t.Error("metrics differ between runs")
	}
}

// TestPredictAll verifies the combined result shape: wire-ID prediction
// keys, display-name metric and comparison keys, rounded metrics, capped
// comparison head, and the current price.
func TestPredictAll(t *testing.T) {
	closes := GenerateSeries("AAPL", 365).Closes()

	result, err := PredictAll("aapl", closes, 30)
	if err != nil {
		t.Fatalf("PredictAll() error = %v", err)
	}

	if result.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", result.Symbol)
	}
	if result.Days != 30 {
		t.Errorf("Days = %d, want 30", result.Days)
	}
	if result.CurrentPrice != closes[len(closes)-1] {
		t.Errorf("CurrentPrice = %v, want last close", result.CurrentPrice)
	}

	wireIDs := []string{"lstm", "linear", "random_forest", "arima"}
	for _, id := range wireIDs {
		values, ok := result.Predictions[id]
		if !ok {
			t.Fatalf("Predictions missing %q", id)
		}
		if len(values) != 30 {
			t.Errorf("%s has %d values, want 30", id, len(values))
		}
	}

	displayNames := []string{"LSTM", "Linear Regression", "Random Forest", "ARIMA"}
	for _, name := range displayNames {
		m, ok := result.Metrics[name]
		if !ok {
			t.Fatalf("Metrics missing %q", name)
		}
		// Rounded to 4 decimals
		if m.RMSE != round4(m.RMSE) || m.MAE != round4(m.MAE) {
			t.Errorf("%s metrics not rounded: %+v", name, m)
		}

		cmp, ok := result.Comparison[name]
		if !ok {
			t.Fatalf("Comparison missing %q", name)
		}
		if len(cmp) != 10 {
			t.Errorf("%s comparison has %d values, want 10", name, len(cmp))
		}
	}
}

// TestPredictAll_ShortHorizon verifies the comparison head shrinks with the
// horizon instead of padding.
func TestPredictAll_ShortHorizon(t *testing.T) {
	closes := GenerateSeries("MSFT", 200).Closes()

	result, err := PredictAll("MSFT", closes, 3)
	if err != nil {
		t.Fatalf("PredictAll() error = %v", err)
	}

	for name, cmp := range result.Comparison {
		if len(cmp) != 3 {
			t.Errorf("%s comparison has %d values, want 3", name, len(cmp))
		}
	}
}

// TestPredictAll_Errors tests horizon and history validation.
func TestPredictAll_Errors(t *testing.T) {
	closes := GenerateSeries("AAPL", 365).Closes()

	if _, err := PredictAll("AAPL", closes, 0); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("days=0 error = %v, want ErrInvalidDays", err)
	}
	if _, err := PredictAll("AAPL", closes, 31); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("days=31 error = %v, want ErrInvalidDays", err)
	}
	if _, err := PredictAll("AAPL", closes[:59], 10); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("short history error = %v, want ErrInsufficientData", err)
	}
}
