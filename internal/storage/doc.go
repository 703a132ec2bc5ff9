// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for stockdeck.
//
// Two stores live here. HistoryStore keeps a SQLite log of prediction
// requests so the history command works offline and the embedded demo
// backend can serve its prediction-history endpoint. TranscriptStore
// saves chat transcripts as JSON files for opt-in save and resume.
//
// # Key Types
//
//   - HistoryStore: SQLite-backed prediction request log
//   - PredictionRecord: One logged prediction request
//   - TranscriptStore: JSON file store for chat transcripts
//   - TranscriptMeta: Lightweight metadata for listing transcripts
//
// # Usage
//
// Log a prediction and read the newest entries back:
//
//	store, err := storage.NewHistoryStore(path, 500)
//	rec, err := store.Record("AAPL", 7)
//	recent, err := store.Recent(10)
//
// Save and reload a chat transcript:
//
//	ts, err := storage.NewTranscriptStoreWithDir(dir)
//	id, err := ts.Save(transcript)
//	tr, err := ts.Load(id)
//
// # Storage Location
//
// By default the history database lives at ~/.stockdeck/history.db and
// transcripts under ~/.stockdeck/transcripts/ as JSON files.
package storage
