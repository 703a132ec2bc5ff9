// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// TRANSCRIPT METADATA
// =============================================================================

// TranscriptMeta contains metadata for listing saved transcripts.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// TranscriptStore handles opt-in persistence of chat transcripts as JSON
// files, one file per transcript.
type TranscriptStore struct {
	// BaseDir is the directory holding transcript files.
	// Default: ~/.stockdeck/transcripts/
	BaseDir string

	// MaxTranscripts limits stored transcripts (0 = unlimited).
	MaxTranscripts int
}

// NewTranscriptStore creates a store rooted in the user's home directory.
func NewTranscriptStore() (*TranscriptStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return NewTranscriptStoreWithDir(filepath.Join(homeDir, ".stockdeck", "transcripts"))
}

// NewTranscriptStoreWithDir creates a store with a custom directory.
func NewTranscriptStoreWithDir(baseDir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &TranscriptStore{
		BaseDir:        baseDir,
		MaxTranscripts: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a transcript and returns its ID. Missing identity fields
// are filled in: a generated ID, a title derived from the first user
// message, and creation/update timestamps.
func (s *TranscriptStore) Save(tr *model.Transcript) (string, error) {
	if tr.ID == "" {
		tr.ID = generateTranscriptFileID()
	}

	if tr.Title == "" {
		if first := firstUserMessage(tr); first != nil {
			tr.Title = first.Preview(50)
		}
	}

	tr.UpdatedAt = time.Now()
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = tr.UpdatedAt
	}

	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return "", err
	}

	// Atomic write with fsync prevents a torn file on crash.
	filePath := s.filePath(tr.ID)
	if err := util.AtomicWriteFile(filePath, data, 0644); err != nil {
		return "", err
	}

	if s.MaxTranscripts > 0 {
		s.enforceLimit()
	}

	return tr.ID, nil
}

// enforceLimit removes the oldest transcripts when over the cap.
func (s *TranscriptStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxTranscripts {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxTranscripts
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a transcript by ID.
func (s *TranscriptStore) Load(id string) (*model.Transcript, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var tr model.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, err
	}

	return &tr, nil
}

// LoadByIndex loads a transcript by its position in the listing
// (0 = most recently updated).
func (s *TranscriptStore) LoadByIndex(index int) (*model.Transcript, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrTranscriptNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns metadata for all saved transcripts, most recently updated
// first. Unreadable or corrupted files are skipped.
func (s *TranscriptStore) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	var metas []TranscriptMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		tr, err := s.Load(id)
		if err != nil {
			continue
		}

		preview := ""
		if first := firstUserMessage(tr); first != nil {
			preview = first.Preview(80)
		}

		metas = append(metas, TranscriptMeta{
			ID:           tr.ID,
			Title:        tr.Title,
			CreatedAt:    tr.CreatedAt,
			UpdatedAt:    tr.UpdatedAt,
			MessageCount: len(tr.Messages),
			Preview:      preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds transcripts whose title or preview contains the query
// (case-insensitive).
func (s *TranscriptStore) Search(query string) ([]TranscriptMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []TranscriptMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a transcript by ID.
func (s *TranscriptStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}

	return nil
}

// Clear removes all saved transcripts.
func (s *TranscriptStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// filePath returns the file path for a transcript ID.
func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// firstUserMessage returns the first user message, or nil.
func firstUserMessage(tr *model.Transcript) *model.Message {
	for _, msg := range tr.Messages {
		if msg.Role == model.RoleUser && msg.Content != "" {
			return msg
		}
	}
	return nil
}

// generateTranscriptFileID creates an ID for transcripts saved without
// one. The format matches model.NewTranscript ids.
func generateTranscriptFileID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "chat_" + hex.EncodeToString(bytes)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrTranscriptNotFound is returned when a transcript does not exist.
// Use errors.Is(err, ErrTranscriptNotFound) to check for it.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// TranscriptError represents a transcript persistence error.
type TranscriptError struct {
	Message string
}

// Error implements the error interface.
func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing transcript errors.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// TRANSCRIPT LIST FORMATTING
// =============================================================================

// FormatTranscriptList renders saved transcripts as a fixed-width table.
// Rows are numbered from 1 so a chat can be addressed by position.
func FormatTranscriptList(metas []TranscriptMeta) string {
	if len(metas) == 0 {
		return "No saved chats."
	}

	var sb strings.Builder
	sb.WriteString("Saved chats:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("#", 4) + " " +
		util.PadRight("Updated", 17) + " " +
		util.PadRight("Msgs", 5) + " Title\n")
	sb.WriteString("-----------------------------------------------------\n")

	for i, meta := range metas {
		title := util.TruncateRunes(meta.Title, 30)

		sb.WriteString(util.PadRight(util.IntToString(i+1), 4) + " " +
			util.PadRight(meta.UpdatedAt.Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(util.IntToString(meta.MessageCount), 5) + " " +
			title + "\n")
	}
	return sb.String()
}
