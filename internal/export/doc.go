// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes charts, price series, and prediction history
// to local files.
//
// Chart images go through the Exporter interface, CSV data through
// the SeriesCSV and RecordsCSV encoders. Every export lands in a
// configurable output directory under a sanitized filename, with an
// optional free disk space floor and an optional post-export open in
// the system default application.
//
// # Key Types
//
//   - Exporter: renders chart data into one output format
//   - ImageExporter: PNG and SVG chart exports via the chart renderer
//   - Options: output directory, open-after-export, disk space floor
//
// # Usage
//
// Export the current chart as a PNG:
//
//	exporter := export.NewImageExporter(chart.KindLine, chart.FormatPNG)
//	path, err := export.ExportToFile("AAPL_close", data, exporter, nil)
//
// Save a CSV download exactly as served:
//
//	path, err := export.DownloadFile(body, "AAPL_data.csv", "text/csv", opts)
package export
