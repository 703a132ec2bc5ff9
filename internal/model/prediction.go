// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts, price
// series, and prediction results.
package model

import "sort"

// =============================================================================
// PREDICTOR INFO TYPE
// =============================================================================

// PredictorInfo contains detailed information about a forecasting model.
// This is used for model selection and display in the UI.
type PredictorInfo struct {
	// ID is the model identifier used in API payloads
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Family categorizes the modelling approach
	Family string `json:"family"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// =============================================================================
// PREDICTOR REGISTRY
// =============================================================================

// Predictors is the registry of forecasting models the backend exposes,
// keyed by wire ID.
var Predictors = map[string]PredictorInfo{
	"lstm": {
		ID:          "lstm",
		Name:        "LSTM",
		Family:      "Neural",
		Description: "Recurrent network trained on price windows",
	},
	"linear": {
		ID:          "linear",
		Name:        "Linear Regression",
		Family:      "Statistical",
		Description: "Straight-line trend fit over recent closes",
	},
	"random_forest": {
		ID:          "random_forest",
		Name:        "Random Forest",
		Family:      "Ensemble",
		Description: "Bagged decision trees over lagged features",
	},
	"arima": {
		ID:          "arima",
		Name:        "ARIMA",
		Family:      "Statistical",
		Description: "Autoregressive moving-average with differencing",
	},
}

// PredictorIDs returns the registry keys in stable sorted order.
func PredictorIDs() []string {
	ids := make([]string, 0, len(Predictors))
	for id := range Predictors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetPredictor looks up a predictor by wire ID. The second return is false
// for unknown IDs.
func GetPredictor(id string) (PredictorInfo, bool) {
	info, ok := Predictors[id]
	return info, ok
}

// PredictorDisplayName returns the display name for a wire ID, falling back
// to the ID itself for models the registry does not know.
func PredictorDisplayName(id string) string {
	if info, ok := Predictors[id]; ok {
		return info.Name
	}
	return id
}

// =============================================================================
// PREDICTION RESULT TYPES
// =============================================================================

// ModelMetrics holds the quality metrics the backend reports per model.
// Key casing matches the wire format.
type ModelMetrics struct {
	RMSE float64 `json:"RMSE"`
	MAE  float64 `json:"MAE"`
}

// PredictionResult is a complete multi-model forecast for one symbol.
// Predictions maps model ID to the forecast closes for each requested day;
// Comparison carries the head of each forecast for side-by-side display.
type PredictionResult struct {
	Symbol       string                  `json:"symbol"`
	Days         int                     `json:"days"`
	CurrentPrice float64                 `json:"current_price"`
	Predictions  map[string][]float64    `json:"predictions"`
	Metrics      map[string]ModelMetrics `json:"metrics"`
	Comparison   map[string][]float64    `json:"comparison"`
}

// ModelIDs returns the forecast model IDs present in the result, sorted.
func (r *PredictionResult) ModelIDs() []string {
	ids := make([]string, 0, len(r.Predictions))
	for id := range r.Predictions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MetricsFor returns the metrics for a model ID. The backend keys the
// metrics map by display name, so the lookup tries the display name first
// and falls back to the raw ID.
func (r *PredictionResult) MetricsFor(modelID string) (ModelMetrics, bool) {
	if m, ok := r.Metrics[PredictorDisplayName(modelID)]; ok {
		return m, true
	}
	m, ok := r.Metrics[modelID]
	return m, ok
}

// BestModel returns the model ID with the lowest RMSE, or "" when the
// result carries no metrics.
func (r *PredictionResult) BestModel() string {
	best := ""
	bestRMSE := 0.0
	for _, id := range r.ModelIDs() {
		m, ok := r.MetricsFor(id)
		if !ok {
			continue
		}
		if best == "" || m.RMSE < bestRMSE {
			best = id
			bestRMSE = m.RMSE
		}
	}
	return best
}

// FinalClose returns the last forecast close for the given model. The
// second return is false when the model has no forecast values.
func (r *PredictionResult) FinalClose(modelID string) (float64, bool) {
	values := r.Predictions[modelID]
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}

// ExpectedChange returns the fractional move from the current price to the
// model's final forecast close. Returns 0 when the forecast is empty or the
// current price is zero.
func (r *PredictionResult) ExpectedChange(modelID string) float64 {
	final, ok := r.FinalClose(modelID)
	if !ok || r.CurrentPrice == 0 {
		return 0
	}
	return (final - r.CurrentPrice) / r.CurrentPrice
}
