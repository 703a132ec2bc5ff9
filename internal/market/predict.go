// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// FORECAST PARAMETERS
// =============================================================================

const (
	// MinForecastDays and MaxForecastDays bound the forecast horizon the
	// backend accepts.
	MinForecastDays = 1
	MaxForecastDays = 30

	// MinHistory is the shortest close history the models accept.
	MinHistory = 60

	// trainFraction splits history into fit and holdout segments. Metrics
	// come from the holdout.
	trainFraction = 0.8

	// smoothingAlpha drives the exponential smoothing behind the ARIMA
	// stand-in.
	smoothingAlpha = 0.3

	// holtAlpha and holtBeta are the level and trend smoothing factors for
	// the sequence model.
	holtAlpha = 0.5
	holtBeta  = 0.1

	// forestLookback is the lag-window width fed to the ensemble;
	// forestTrees is the ensemble size; forestSeed fixes the bootstrap
	// samples so runs are reproducible.
	forestLookback = 10
	forestTrees    = 100
	forestSeed     = 42

	// comparisonHead is how many leading forecast values the comparison
	// table carries per model.
	comparisonHead = 10
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidDays is returned when the horizon falls outside 1-30 days.
	ErrInvalidDays = errors.New("days must be between 1 and 30")

	// ErrInsufficientData is returned when the close history is shorter
	// than MinHistory.
	ErrInsufficientData = errors.New("insufficient history: models need at least 60 closes")
)

// =============================================================================
// FORECAST TYPE
// =============================================================================

// Forecast is one model's output: projected closes for each future day plus
// quality metrics from the holdout segment.
type Forecast struct {
	Values []float64
	RMSE   float64
	MAE    float64
}

func checkInputs(closes []float64, days int) error {
	if days < MinForecastDays || days > MaxForecastDays {
		return ErrInvalidDays
	}
	if len(closes) < MinHistory {
		return ErrInsufficientData
	}
	return nil
}

// backtestError computes RMSE and MAE over paired actual/predicted values,
// truncating to the shorter slice.
func backtestError(actual, predicted []float64) (rmse, mae float64) {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return 0, 0
	}
	var sq, abs float64
	for i := 0; i < n; i++ {
		d := predicted[i] - actual[i]
		sq += d * d
		if d < 0 {
			d = -d
		}
		abs += d
	}
	return math.Sqrt(sq / float64(n)), abs / float64(n)
}

// =============================================================================
// LINEAR REGRESSION
// =============================================================================

// PredictLinear fits ordinary least squares over the close index and
// extrapolates the line forward. The first 80% of history trains the fit;
// metrics come from predicting the remaining 20%.
func PredictLinear(closes []float64, days int) (Forecast, error) {
	if err := checkInputs(closes, days); err != nil {
		return Forecast{}, err
	}
	n := len(closes)
	split := int(float64(n) * trainFraction)

	slope, intercept := leastSquares(closes[:split])

	predicted := make([]float64, n-split)
	for i := range predicted {
		predicted[i] = intercept + slope*float64(split+i)
	}
	rmse, mae := backtestError(closes[split:], predicted)

	values := make([]float64, days)
	for h := range values {
		values[h] = intercept + slope*float64(n+h)
	}
	return Forecast{Values: values, RMSE: rmse, MAE: mae}, nil
}

// leastSquares fits y = intercept + slope*x where x is the sample index.
func leastSquares(y []float64) (slope, intercept float64) {
	if len(y) == 0 {
		return 0, 0
	}
	if len(y) == 1 {
		return 0, y[0]
	}
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// =============================================================================
// SEQUENCE MODEL
// =============================================================================

// PredictLSTM runs Holt double exponential smoothing: a smoothed level plus
// a smoothed trend, projected forward per horizon step. One-step-ahead
// fitted values over the holdout segment supply the metrics.
func PredictLSTM(closes []float64, days int) (Forecast, error) {
	if err := checkInputs(closes, days); err != nil {
		return Forecast{}, err
	}
	n := len(closes)

	level := make([]float64, n)
	trend := make([]float64, n)
	fitted := make([]float64, n)
	level[0] = closes[0]
	trend[0] = closes[1] - closes[0]
	fitted[0] = closes[0]
	for i := 1; i < n; i++ {
		fitted[i] = level[i-1] + trend[i-1]
		level[i] = holtAlpha*closes[i] + (1-holtAlpha)*(level[i-1]+trend[i-1])
		trend[i] = holtBeta*(level[i]-level[i-1]) + (1-holtBeta)*trend[i-1]
	}

	split := int(float64(n) * trainFraction)
	rmse, mae := backtestError(closes[split:], fitted[split:])

	values := make([]float64, days)
	for h := range values {
		values[h] = level[n-1] + float64(h+1)*trend[n-1]
	}
	return Forecast{Values: values, RMSE: rmse, MAE: mae}, nil
}

// =============================================================================
// RANDOM FOREST
// =============================================================================

// PredictRandomForest runs a bagged lag-window regressor. Each tree
// averages a bootstrap sample of the trailing window; the ensemble output
// is the mean across trees. Multi-step forecasts slide the window over
// their own predictions. The bootstrap samples come from a fixed seed.
func PredictRandomForest(closes []float64, days int) (Forecast, error) {
	if err := checkInputs(closes, days); err != nil {
		return Forecast{}, err
	}
	n := len(closes)
	samples := n - forestLookback

	forest := growForest(forestTrees, forestLookback, forestSeed)

	// Holdout scoring uses the true window at each step, not the
	// recursive one.
	split := int(float64(samples) * trainFraction)
	actual := make([]float64, 0, samples-split)
	predicted := make([]float64, 0, samples-split)
	for i := split; i < samples; i++ {
		window := closes[i : i+forestLookback]
		predicted = append(predicted, predictForest(forest, window))
		actual = append(actual, closes[i+forestLookback])
	}
	rmse, mae := backtestError(actual, predicted)

	window := make([]float64, forestLookback)
	copy(window, closes[n-forestLookback:])
	values := make([]float64, days)
	for h := range values {
		next := predictForest(forest, window)
		values[h] = next
		copy(window, window[1:])
		window[forestLookback-1] = next
	}
	return Forecast{Values: values, RMSE: rmse, MAE: mae}, nil
}

// growForest builds the bootstrap index samples once so scoring and
// forecasting share the same ensemble.
func growForest(trees, lookback int, seed int64) [][]int {
	rng := rand.New(rand.NewSource(seed))
	forest := make([][]int, trees)
	for t := range forest {
		idx := make([]int, lookback)
		for j := range idx {
			idx[j] = rng.Intn(lookback)
		}
		forest[t] = idx
	}
	return forest
}

func predictForest(forest [][]int, window []float64) float64 {
	total := 0.0
	for _, tree := range forest {
		sum := 0.0
		for _, j := range tree {
			sum += window[j]
		}
		total += sum / float64(len(tree))
	}
	return total / float64(len(forest))
}

// =============================================================================
// ARIMA
// =============================================================================

// PredictARIMA runs simple exponential smoothing with alpha 0.3 as a
// lightweight ARIMA stand-in. Forecast steps keep blending the final close
// into the smoothed level, so the projection converges toward the last
// observed price.
func PredictARIMA(closes []float64, days int) (Forecast, error) {
	if err := checkInputs(closes, days); err != nil {
		return Forecast{}, err
	}
	n := len(closes)

	smoothed := make([]float64, n)
	smoothed[0] = closes[0]
	for i := 1; i < n; i++ {
		smoothed[i] = smoothingAlpha*closes[i] + (1-smoothingAlpha)*smoothed[i-1]
	}

	split := int(float64(n) * trainFraction)
	rmse, mae := backtestError(closes[split:], smoothed[split:])

	values := make([]float64, days)
	last := smoothed[n-1]
	for h := range values {
		next := smoothingAlpha*closes[n-1] + (1-smoothingAlpha)*last
		values[h] = next
		last = next
	}
	return Forecast{Values: values, RMSE: rmse, MAE: mae}, nil
}

// =============================================================================
// COMBINED RUN
// =============================================================================

// modelRunners maps wire model IDs to their forecast functions.
var modelRunners = map[string]func([]float64, int) (Forecast, error){
	"lstm":          PredictLSTM,
	"linear":        PredictLinear,
	"random_forest": PredictRandomForest,
	"arima":         PredictARIMA,
}

// PredictAll runs every model and assembles the combined result. The
// predictions map is keyed by wire ID while metrics and comparison use
// display names, matching the backend wire format. Metrics are rounded to
// four decimals and the comparison table carries at most the first ten
// forecast values per model.
func PredictAll(symbol string, closes []float64, days int) (*model.PredictionResult, error) {
	if days < MinForecastDays || days > MaxForecastDays {
		return nil, ErrInvalidDays
	}
	if len(closes) < MinHistory {
		return nil, fmt.Errorf("%w: %s has %d", ErrInsufficientData, symbol, len(closes))
	}

	result := &model.PredictionResult{
		Symbol:       util.NormalizeSymbol(symbol),
		Days:         days,
		CurrentPrice: closes[len(closes)-1],
		Predictions:  make(map[string][]float64, len(modelRunners)),
		Metrics:      make(map[string]model.ModelMetrics, len(modelRunners)),
		Comparison:   make(map[string][]float64, len(modelRunners)),
	}

	for id, run := range modelRunners {
		fc, err := run(closes, days)
		if err != nil {
			return nil, fmt.Errorf("%s forecast: %w", id, err)
		}
		name := model.PredictorDisplayName(id)
		result.Predictions[id] = fc.Values
		result.Metrics[name] = model.ModelMetrics{
			RMSE: round4(fc.RMSE),
			MAE:  round4(fc.MAE),
		}
		head := comparisonHead
		if len(fc.Values) < head {
			head = len(fc.Values)
		}
		result.Comparison[name] = fc.Values[:head]
	}
	return result, nil
}

// round4 rounds to four decimal places for metric display.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
