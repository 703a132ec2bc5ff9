// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/storage"
)

// seriesHeader matches the column layout of the original dashboard
// download. Adj Close mirrors Close because the demo series carry no
// split or dividend adjustments.
var seriesHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Adj Close"}

// historyHeader is the column layout for prediction history exports.
var historyHeader = []string{"ID", "Symbol", "Days", "Created"}

// SeriesCSV streams a price series as CSV, one row per trading day,
// oldest first.
func SeriesCSV(w io.Writer, s *model.Series) error {
	if s == nil {
		return errors.New("nil series")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(seriesHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range s.Points {
		row := []string{
			p.Date.Format("2006-01-02"),
			formatPrice(p.Open),
			formatPrice(p.High),
			formatPrice(p.Low),
			formatPrice(p.Close),
			strconv.FormatInt(p.Volume, 10),
			formatPrice(p.Close),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SeriesCSVBytes renders a price series as CSV in memory.
func SeriesCSVBytes(s *model.Series) ([]byte, error) {
	var buf bytes.Buffer
	if err := SeriesCSV(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RecordsCSV streams prediction history records as CSV in the order
// given.
func RecordsCSV(w io.Writer, records []storage.PredictionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Symbol,
			strconv.Itoa(r.Days),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatPrice renders a price without trailing zero padding.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
