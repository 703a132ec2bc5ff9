// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrHistoryClosed is returned by store methods after Close.
	ErrHistoryClosed = errors.New("history store is closed")
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultRecentLimit is the page size for Recent when the caller passes
// no limit. It matches the backend's prediction-history page size.
const DefaultRecentLimit = 10

// historySchema creates the prediction log table. Row ids are
// monotonically increasing integers so they line up with the backend's
// history entry ids.
const historySchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	stock_symbol TEXT    NOT NULL,
	days         INTEGER NOT NULL,
	created_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created_at
	ON predictions(created_at DESC, id DESC);
`

// =============================================================================
// PREDICTION RECORD
// =============================================================================

// PredictionRecord is one logged prediction request.
type PredictionRecord struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"stock_symbol"`
	Days      int       `json:"days"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore logs prediction requests in a local SQLite database. The
// TUI and CLI record every successful prediction here, and the embedded
// demo backend uses its own instance to serve the history endpoint.
//
// The store is safe for concurrent use. The pool is pinned to a single
// connection because modernc.org/sqlite serializes writers; one
// connection avoids SQLITE_BUSY and keeps ":memory:" databases alive.
type HistoryStore struct {
	mu         sync.RWMutex
	db         *sql.DB
	path       string
	maxEntries int
	closed     bool
}

// NewHistoryStore opens the prediction log at path, creating the file
// and its parent directory if needed. Pass ":memory:" for an ephemeral
// store. maxEntries caps retained rows; 0 keeps everything.
func NewHistoryStore(path string, maxEntries int) (*HistoryStore, error) {
	if path == "" {
		return nil, errors.New("history path cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &HistoryStore{
		db:         db,
		path:       path,
		maxEntries: maxEntries,
	}, nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Record appends a prediction request to the log and returns the stored
// row. The symbol is stored in its canonical upper-case form. When the
// store has a max entry cap, the oldest rows beyond it are pruned in the
// same transaction.
func (s *HistoryStore) Record(symbol string, days int) (*PredictionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrHistoryClosed
	}

	rec := &PredictionRecord{
		Symbol:    util.NormalizeSymbol(symbol),
		Days:      days,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO predictions (stock_symbol, days, created_at) VALUES (?, ?, ?)",
		rec.Symbol, rec.Days, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert prediction: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("prediction row id: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = tx.Exec(`
			DELETE FROM predictions WHERE id NOT IN (
				SELECT id FROM predictions
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			)`, s.maxEntries)
		if err != nil {
			return nil, fmt.Errorf("prune history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit history transaction: %w", err)
	}

	return rec, nil
}

// Clear deletes all records.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrHistoryClosed
	}

	if _, err := s.db.Exec("DELETE FROM predictions"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Recent returns the newest records, most recent first. A limit of 0 or
// less uses DefaultRecentLimit. Ties on the stored timestamp are broken
// by row id, so insertion order always wins.
func (s *HistoryStore) Recent(limit int) ([]PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrHistoryClosed
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.Query(`
		SELECT id, stock_symbol, days, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0, limit)
	for rows.Next() {
		var rec PredictionRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Days, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (s *HistoryStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrHistoryClosed
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM predictions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

// =============================================================================
// STATS
// =============================================================================

// HistoryStats summarizes the prediction log.
type HistoryStats struct {
	Entries int
	Oldest  time.Time
	Newest  time.Time
	Path    string
}

// Stats reports the size and time span of the log. Oldest and Newest are
// zero when the log is empty.
func (s *HistoryStore) Stats() (HistoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return HistoryStats{}, ErrHistoryClosed
	}

	stats := HistoryStats{Path: s.path}

	var oldest, newest int64
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(MIN(created_at), 0), COALESCE(MAX(created_at), 0)
		FROM predictions`).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return HistoryStats{}, fmt.Errorf("history stats: %w", err)
	}

	if stats.Entries > 0 {
		stats.Oldest = time.Unix(oldest, 0).UTC()
		stats.Newest = time.Unix(newest, 0).UTC()
	}

	return stats, nil
}

// Path returns the database path the store was opened with.
func (s *HistoryStore) Path() string {
	return s.path
}

// Close releases the database handle. Close is idempotent; other methods
// return ErrHistoryClosed afterwards.
func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// =============================================================================
// TABLE FORMATTING
// =============================================================================

// FormatHistoryTable renders records as a fixed-width table for terminal
// output, newest first as given.
func FormatHistoryTable(records []PredictionRecord) string {
	if len(records) == 0 {
		return "No predictions recorded."
	}

	var sb strings.Builder
	sb.WriteString("Recent predictions:\n")
	sb.WriteString("----------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 6) + " " +
		util.PadRight("Symbol", 8) + " " +
		util.PadRight("Days", 5) + " Created\n")
	sb.WriteString("----------------------------------------------\n")

	for _, rec := range records {
		sb.WriteString(util.PadRight(util.Int64ToString(rec.ID), 6) + " " +
			util.PadRight(rec.Symbol, 8) + " " +
			util.PadRight(util.IntToString(rec.Days), 5) + " " +
			rec.CreatedAt.Format("2006-01-02 15:04:05") + "\n")
	}
	return sb.String()
}
