// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/config"
	"github.com/jeranaias/stockdeck/internal/storage"
)

// =============================================================================
// CONFIG AND CLIENT SETUP
// =============================================================================

// loadConfigOrDefault loads the user configuration, falling back to defaults
// when the file is missing or unreadable. A malformed file warns on stderr
// rather than aborting so commands stay usable while the user fixes it.
func loadConfigOrDefault() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		return config.Default()
	}
	return cfg
}

// resolveBaseURL returns the backend base URL, preferring the --backend
// flag over the configured value.
func resolveBaseURL(cfg *config.Config, backendOverride string) string {
	if backendOverride != "" {
		return backendOverride
	}
	return cfg.API.BaseURL
}

// newAPIClient builds a backend client from the configuration. A non-empty
// backendOverride (the --backend flag) wins over the configured base URL.
func newAPIClient(cfg *config.Config, backendOverride string) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:    resolveBaseURL(cfg, backendOverride),
		Timeout:    time.Duration(cfg.API.TimeoutSecs) * time.Second,
		RatePerSec: cfg.API.RatePerSec,
		RateBurst:  cfg.API.RateBurst,
	})
}

// resolveHistoryPath returns the prediction log path, defaulting to
// history.db under the config directory when unset.
func resolveHistoryPath(cfg *config.Config) (string, error) {
	if cfg.History.Path != "" {
		return cfg.History.Path, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve history path: %w", err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// openHistoryStore opens the local prediction log. Returns (nil, nil) when
// history is disabled in the configuration; callers must handle a nil store.
func openHistoryStore(cfg *config.Config) (*storage.HistoryStore, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path, err := resolveHistoryPath(cfg)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return storage.NewHistoryStore(path, cfg.History.MaxEntries)
}

// recordPredictionLocally appends a prediction request to the local log.
// Logging failures are reported on stderr but never fail the command.
func recordPredictionLocally(cfg *config.Config, symbol string, days int) {
	store, err := openHistoryStore(cfg)
	if err != nil || store == nil {
		return
	}
	defer store.Close()
	if _, err := store.Record(symbol, days); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record prediction locally: %v\n", err)
	}
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatDurationShort renders a duration at human scale: "840ms", "2.3s",
// "1m05s".
func formatDurationShort(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		mins := int(d.Minutes())
		secs := int(d.Seconds()) - mins*60
		return fmt.Sprintf("%dm%02ds", mins, secs)
	}
}

// historyEntriesFromAPI converts backend history rows to the shared JSON
// entry shape.
func historyEntriesFromAPI(entries []api.HistoryEntry) []HistoryEntryData {
	out := make([]HistoryEntryData, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryData{
			ID:          e.ID,
			StockSymbol: e.StockSymbol,
			Days:        e.Days,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

// historyEntriesFromStore converts local log records to the shared JSON
// entry shape.
func historyEntriesFromStore(records []storage.PredictionRecord) []HistoryEntryData {
	out := make([]HistoryEntryData, 0, len(records))
	for _, r := range records {
		out = append(out, HistoryEntryData{
			ID:          r.ID,
			StockSymbol: r.Symbol,
			Days:        r.Days,
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
