// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/config"
	"github.com/jeranaias/stockdeck/internal/export"
	"github.com/jeranaias/stockdeck/internal/storage"
)

// HandleHistoryCommand lists recent prediction requests. The backend's log
// is the default source; --local reads the machine-local log instead, which
// also works offline. --csv FILE writes the rows as CSV ("-" for stdout).
func HandleHistoryCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	limit := parser.FlagIntOrDefault("limit", storage.DefaultRecentLimit)
	if limit <= 0 {
		return ErrInvalidValue("limit", parser.Flag("limit"), "must be a positive integer",
			"stockdeck history --limit 25")
	}
	local := parser.BoolFlag("local")
	csvPath := parser.Flag("csv")

	cfg := loadConfigOrDefault()

	var (
		records []storage.PredictionRecord
		source  string
		err     error
	)
	if local {
		source = "local"
		records, err = localHistoryRecords(cfg, limit)
	} else {
		source = "backend"
		records, err = backendHistoryRecords(cfg, args.Backend, limit)
	}

	if args.JSON {
		return OutputJSON(true, "history", func() (interface{}, error) {
			if err != nil {
				return nil, err
			}
			data := HistoryData{
				Source:  source,
				Count:   len(records),
				Entries: historyEntriesFromStore(records),
			}
			if csvPath != "" && csvPath != "-" {
				if werr := writeHistoryCSV(csvPath, records); werr != nil {
					return nil, werr
				}
				data.CSVPath = csvPath
			}
			return data, nil
		})
	}

	if err != nil {
		return err
	}

	if csvPath != "" {
		if csvPath == "-" {
			return export.RecordsCSV(os.Stdout, records)
		}
		if err := writeHistoryCSV(csvPath, records); err != nil {
			return err
		}
		fmt.Println(RenderSuccessLine(fmt.Sprintf("Wrote %d record(s) to %s", len(records), csvPath)))
		return nil
	}

	fmt.Print(storage.FormatHistoryTable(records))
	if !args.Quiet {
		fmt.Println(DimStyle.Render(fmt.Sprintf("(source: %s)", source)))
	}
	return nil
}

// backendHistoryRecords fetches the backend's prediction log and converts
// it to local record form, truncated to limit.
func backendHistoryRecords(cfg *config.Config, backendOverride string, limit int) ([]storage.PredictionRecord, error) {
	client := newAPIClient(cfg, backendOverride)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.API.TimeoutSecs)*time.Second)
	defer cancel()

	entries, err := client.History(ctx)
	if err != nil {
		return nil, describeBackendError(err, client.BaseURL())
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return recordsFromAPIEntries(entries), nil
}

// localHistoryRecords reads the machine-local prediction log. The store is
// opened even when recording is disabled so past entries stay inspectable.
func localHistoryRecords(cfg *config.Config, limit int) ([]storage.PredictionRecord, error) {
	path, err := resolveHistoryPath(cfg)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	store, err := storage.NewHistoryStore(path, cfg.History.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to open local history: %w", err)
	}
	defer store.Close()
	return store.Recent(limit)
}

// recordsFromAPIEntries converts wire entries to record form. Timestamps
// that fail to parse keep a zero time rather than dropping the row.
func recordsFromAPIEntries(entries []api.HistoryEntry) []storage.PredictionRecord {
	records := make([]storage.PredictionRecord, 0, len(entries))
	for _, e := range entries {
		created, err := time.Parse("2006-01-02 15:04:05", e.CreatedAt)
		if err != nil {
			created, _ = time.Parse(time.RFC3339, e.CreatedAt)
		}
		records = append(records, storage.PredictionRecord{
			ID:        e.ID,
			Symbol:    e.StockSymbol,
			Days:      e.Days,
			CreatedAt: created,
		})
	}
	return records
}

// writeHistoryCSV writes records to a new CSV file at path.
func writeHistoryCSV(path string, records []storage.PredictionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.RecordsCSV(f, records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
