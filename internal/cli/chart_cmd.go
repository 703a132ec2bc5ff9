// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/stockdeck/internal/chart"
	"github.com/jeranaias/stockdeck/internal/config"
	"github.com/jeranaias/stockdeck/internal/export"
	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/util"
)

// defaultChartDays is the default span of history rendered by the chart
// command.
const defaultChartDays = 90

// HandleChartCommand renders a price chart image for a symbol. The series
// comes from the built-in generator, the same source the demo server
// forecasts from. With -o the image goes to the given path; otherwise it
// lands in the export directory with a timestamped name.
func HandleChartCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	symbol := parser.Positional(0)
	if symbol == "" {
		return ErrMissingArgument("symbol", "stockdeck chart AAPL --days 90 --format svg")
	}
	symbol = util.NormalizeSymbol(symbol)
	if !market.IsKnownSymbol(symbol) {
		return ErrInvalidValue("symbol", symbol, "not in the symbol catalog (see 'stockdeck symbols')",
			"stockdeck chart AAPL")
	}

	days := parser.FlagIntOrDefault("days", defaultChartDays)
	if days <= 0 {
		return ErrInvalidValue("days", parser.Flag("days"), "must be a positive integer",
			"stockdeck chart AAPL --days 90")
	}

	cfg := loadConfigOrDefault()

	format, err := chart.ParseFormat(parser.FlagOrDefault("format", cfg.Chart.Format))
	if err != nil {
		return ErrInvalidValue("format", parser.Flag("format"), "must be png or svg",
			"stockdeck chart AAPL --format svg")
	}

	kind, err := parseChartKind(parser.FlagOrDefault("kind", string(chart.KindLine)))
	if err != nil {
		return ErrInvalidValue("kind", parser.Flag("kind"), "must be line or bar",
			"stockdeck chart AAPL --kind bar")
	}

	series := market.GenerateSeries(symbol, days)
	data := chartDataFromSeries(series, cfg.Chart.SeriesName)

	outPath := parser.FlagOrDefault("o", parser.Flag("output"))

	var path string
	if outPath != "" {
		path, err = renderChartToPath(cfg, outPath, kind, data, format)
	} else {
		path, err = exportChart(cfg, symbol, kind, data, format)
	}

	if args.JSON {
		return OutputJSON(true, "chart", func() (interface{}, error) {
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(path)
			size := int64(0)
			if statErr == nil {
				size = info.Size()
			}
			return ChartExportData{
				Symbol: symbol,
				Days:   days,
				Kind:   string(kind),
				Format: string(format),
				Path:   path,
				Bytes:  size,
			}, nil
		})
	}

	if err != nil {
		return err
	}

	fmt.Println(RenderSuccessLine(fmt.Sprintf("Chart saved to %s", path)))
	return nil
}

// parseChartKind validates the --kind flag.
func parseChartKind(s string) (chart.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line", "":
		return chart.KindLine, nil
	case "bar":
		return chart.KindBar, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q", s)
	}
}

// chartDataFromSeries converts a price series into renderable chart data,
// with dates as X labels.
func chartDataFromSeries(series *model.Series, seriesName string) *model.ChartData {
	if seriesName == "" {
		seriesName = "Close"
	}
	labels := make([]string, 0, series.Len())
	for _, p := range series.Points {
		labels = append(labels, p.Date.Format("2006-01-02"))
	}
	return &model.ChartData{
		Title:  fmt.Sprintf("%s closing price", series.Symbol),
		XLabel: "Date",
		YLabel: "Price (USD)",
		Labels: labels,
		Series: []model.ChartSeries{
			{Name: seriesName, Values: series.Closes()},
		},
	}
}

// renderChartToPath renders directly to a caller-chosen file via a
// registered file target.
func renderChartToPath(cfg *config.Config, path string, kind chart.Kind, data *model.ChartData, format chart.Format) (string, error) {
	targets := chart.NewTargetRegistry()
	targets.Register("file", chart.FileTarget(path))

	renderer := chart.NewRenderer(targets).WithSize(cfg.Chart.Width, cfg.Chart.Height)
	if err := renderer.DrawSync("file", kind, data, format); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return path, nil
}

// exportChart renders into the export directory with collision-safe naming
// and the configured free-space guard.
func exportChart(cfg *config.Config, symbol string, kind chart.Kind, data *model.ChartData, format chart.Format) (string, error) {
	exporter := export.NewImageExporter(kind, format)
	if cfg.Chart.Width > 0 {
		exporter.Width = cfg.Chart.Width
	}
	if cfg.Chart.Height > 0 {
		exporter.Height = cfg.Chart.Height
	}

	opts := export.DefaultOptions()
	opts.OutputDir = cfg.Export.OutputDir
	opts.OpenAfterExport = cfg.Export.OpenAfterExport
	opts.MinFreeSpaceMB = cfg.Export.MinFreeSpaceMB

	path, err := export.ExportToFile(strings.ToLower(symbol)+"_chart", data, exporter, opts)
	if err != nil {
		return "", fmt.Errorf("failed to export chart: %w", err)
	}
	return path, nil
}
