// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts, price
// series, and prediction results.
package model

import "time"

// =============================================================================
// PRICE SERIES TYPES
// =============================================================================

// PricePoint is a single daily OHLCV observation for an instrument.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is an ordered run of daily prices for one ticker symbol,
// oldest first.
type Series struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Points)
}

// IsEmpty returns true if the series has no points.
func (s *Series) IsEmpty() bool {
	return len(s.Points) == 0
}

// Closes returns the closing prices in order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent point. The second return is false when the
// series is empty.
func (s *Series) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Tail returns the last n points, or the whole series when it holds fewer.
func (s *Series) Tail(n int) []PricePoint {
	if n <= 0 {
		return nil
	}
	if len(s.Points) <= n {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

// ChangeFraction returns the fractional change between the first and last
// close, e.g. 0.05 for a 5% rise. Returns 0 for series shorter than two
// points or a zero starting price.
func (s *Series) ChangeFraction() float64 {
	if len(s.Points) < 2 {
		return 0
	}
	first := s.Points[0].Close
	last := s.Points[len(s.Points)-1].Close
	if first == 0 {
		return 0
	}
	return (last - first) / first
}

// =============================================================================
// CHART SERIES TYPES
// =============================================================================

// ChartSeries is one named line of Y values for plotting. X positions are
// implicit indices; Labels, when present, name each position for the axis.
// Color is an optional "#rrggbb" override; unset series take a color from
// the renderer's palette.
type ChartSeries struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Values []float64 `json:"values"`
}

// ChartData is the renderer-independent description of one chart: a title,
// axis labels, shared X labels, and one or more series.
type ChartData struct {
	Title  string        `json:"title"`
	XLabel string        `json:"x_label"`
	YLabel string        `json:"y_label"`
	Labels []string      `json:"labels,omitempty"`
	Series []ChartSeries `json:"series"`
}

// MaxLen returns the length of the longest series.
func (d *ChartData) MaxLen() int {
	max := 0
	for _, s := range d.Series {
		if len(s.Values) > max {
			max = len(s.Values)
		}
	}
	return max
}

// IsEmpty returns true when no series carries any values.
func (d *ChartData) IsEmpty() bool {
	return d.MaxLen() == 0
}
