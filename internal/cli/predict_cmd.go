// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/model"
	uistyles "github.com/jeranaias/stockdeck/internal/ui/styles"
	"github.com/jeranaias/stockdeck/internal/util"
)

// defaultForecastDays matches the backend's default horizon when the
// request omits days.
const defaultForecastDays = 30

// predictTimeout is the floor for forecast requests. Model training on the
// backend routinely outlasts the ordinary request timeout.
const predictTimeout = 120 * time.Second

// HandlePredictCommand requests a multi-model forecast and prints a
// per-model comparison. Successful requests are appended to the local
// prediction log when history is enabled.
func HandlePredictCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	symbol := parser.Positional(0)
	if symbol == "" {
		return ErrMissingArgument("symbol", "stockdeck predict AAPL --days 14")
	}
	symbol = util.NormalizeSymbol(symbol)

	days := defaultForecastDays
	if parser.HasFlag("days") {
		parsed, err := parser.FlagInt("days")
		if err != nil {
			return ErrInvalidValue("days", parser.Flag("days"), "must be an integer",
				"stockdeck predict AAPL --days 14")
		}
		days = parsed
	}
	if days < market.MinForecastDays || days > market.MaxForecastDays {
		return ErrInvalidValue("days", util.IntToString(days),
			fmt.Sprintf("must be between %d and %d", market.MinForecastDays, market.MaxForecastDays),
			"stockdeck predict AAPL --days 14")
	}

	cfg := loadConfigOrDefault()
	timeout := time.Duration(cfg.API.TimeoutSecs) * time.Second
	if timeout < predictTimeout {
		timeout = predictTimeout
	}
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:    resolveBaseURL(cfg, args.Backend),
		Timeout:    timeout,
		RatePerSec: cfg.API.RatePerSec,
		RateBurst:  cfg.API.RateBurst,
	})

	if !args.JSON && !args.Quiet {
		fmt.Fprintln(os.Stderr, DimStyle.Render(
			fmt.Sprintf("Requesting %d-day forecast for %s (model training can take a minute)...", days, symbol)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	result, err := client.Predict(ctx, symbol, days)
	elapsed := time.Since(start)

	if err == nil {
		recordPredictionLocally(cfg, symbol, days)
	}

	if args.JSON {
		return OutputJSON(true, "predict", func() (interface{}, error) {
			if err != nil {
				return nil, describeBackendError(err, client.BaseURL())
			}
			return PredictData{
				PredictionResult: result,
				BestModel:        result.BestModel(),
				DurationMs:       elapsed.Milliseconds(),
			}, nil
		})
	}

	if err != nil {
		return describeBackendError(err, client.BaseURL())
	}

	printPredictionResult(result, elapsed, args.Quiet)
	return nil
}

// printPredictionResult renders the forecast comparison table with the
// lowest-RMSE model highlighted.
func printPredictionResult(result *model.PredictionResult, elapsed time.Duration, quiet bool) {
	fmt.Println(TitleStyle.Render(fmt.Sprintf("%s %d-day forecast", result.Symbol, result.Days)))
	fmt.Printf("%s %s\n", RenderLabel("Current price"), ValueStyle.Render(util.FormatUSD(result.CurrentPrice)))
	fmt.Println()

	best := result.BestModel()
	header := fmt.Sprintf("  %-22s %12s %10s %10s %10s", "Model", "Final close", "Change", "RMSE", "MAE")
	fmt.Println(SectionStyle.Render(header))
	fmt.Println(SeparatorStyle.Render("  " + RenderSeparator(66)))

	for _, id := range result.ModelIDs() {
		name := model.PredictorDisplayName(id)
		final, ok := result.FinalClose(id)
		if !ok {
			continue
		}
		change := result.ExpectedChange(id)

		rmse, mae := "-", "-"
		if m, ok := result.MetricsFor(id); ok {
			rmse = util.FormatMetric(m.RMSE)
			mae = util.FormatMetric(m.MAE)
		}

		row := fmt.Sprintf("  %-22s %12s %10s %10s %10s",
			name, util.FormatUSD(final), util.FormatPercent(change), rmse, mae)
		if id == best {
			fmt.Println(HighlightStyle.Render(row + "  (best)"))
		} else {
			fmt.Println(ValueStyle.Render(row))
		}
	}

	if best != "" {
		if path := result.Predictions[best]; len(path) > 1 {
			fmt.Println()
			fmt.Printf("%s %s\n", RenderLabel("Forecast path"),
				InfoStyle.Render(uistyles.Sparkline(path, 40)))
		}
	}

	if !quiet {
		fmt.Println()
		fmt.Println(DimStyle.Render(fmt.Sprintf("(computed in %s, lower RMSE is better)", formatDurationShort(elapsed))))
	}
}
