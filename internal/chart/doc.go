// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chart renders price series and model metrics as PNG or SVG
// images using the go-chart library.
//
// Charts are drawn against named targets. A target is a writer
// factory registered under an identifier, and every render pass opens
// a fresh writer, so redrawing a target replaces its previous output
// instead of appending to it. FileTarget and MemoryTarget cover the
// common cases.
//
// # Key Types
//
//   - Renderer: draws ChartData onto registered targets
//   - TargetRegistry: maps target identifiers to writer factories
//   - RenderResult: completion handle for a background render
//   - Format: png or svg output encoding
//   - Kind: line or bar chart variant
//
// # Usage
//
//	targets := chart.NewTargetRegistry()
//	targets.Register("prices", chart.FileTarget("prices.png"))
//
//	r := chart.NewRenderer(targets)
//	res := r.Draw("prices", chart.KindLine, data, chart.FormatPNG)
//	if err := res.Wait(); err != nil {
//		log.Printf("CHART_RENDER_FAILED | error=%v", err)
//	}
package chart
