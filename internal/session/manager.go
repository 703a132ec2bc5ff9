// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks one dashboard run: a unique run ID, activity and
// counters for the status bar, and transcript auto-save scheduling.
type Manager struct {
	mu sync.Mutex

	// Run tracking
	runID        string
	startTime    time.Time
	lastActivity time.Time

	// Counters surfaced in the status bar and the status command
	chatsSent    int
	predictions  int
	chartRenders int
	exports      int

	// Auto-save configuration
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool

	// Callback
	onAutoSave func() error
}

// Config holds configuration for the session manager.
type Config struct {
	// AutoSaveEnabled enables periodic transcript saving
	AutoSaveEnabled bool

	// AutoSaveInterval is how often to auto-save (default: 30 seconds)
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a new session manager with a fresh run ID.
func NewManager(cfg Config) *Manager {
	if cfg.AutoSaveInterval <= 0 {
		cfg.AutoSaveInterval = DefaultConfig().AutoSaveInterval
	}

	now := time.Now()
	return &Manager{
		runID:            uuid.NewString(),
		startTime:        now,
		lastActivity:     now,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     now,
	}
}

// =============================================================================
// RUN STATE
// =============================================================================

// RunID returns the unique ID of this run.
func (m *Manager) RunID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runID
}

// StartTime returns when the run started.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Duration returns how long the run has been active.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since the last recorded activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// =============================================================================
// ACTIVITY & COUNTERS
// =============================================================================

// RecordActivity updates the last activity timestamp.
// This should be called on user input or other activity.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
}

// RecordChat counts one chat message sent to the assistant.
func (m *Manager) RecordChat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatsSent++
	m.lastActivity = time.Now()
}

// RecordPrediction counts one prediction request.
func (m *Manager) RecordPrediction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
	m.lastActivity = time.Now()
}

// RecordRender counts one chart render.
func (m *Manager) RecordRender() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chartRenders++
}

// RecordExport counts one file export or download.
func (m *Manager) RecordExport() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports++
	m.lastActivity = time.Now()
}

// MarkDirty indicates the transcript has unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean indicates the transcript has been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty returns whether the transcript has unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// =============================================================================
// AUTO-SAVE
// =============================================================================

// SetAutoSaveCallback sets the function called for auto-save.
func (m *Manager) SetAutoSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoSave = fn
}

// SetAutoSaveEnabled enables or disables auto-save.
func (m *Manager) SetAutoSaveEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveEnabled = enabled
}

// SetAutoSaveInterval updates the auto-save interval.
func (m *Manager) SetAutoSaveInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.autoSaveInterval = d
	}
}

// ShouldAutoSave returns true if auto-save should trigger.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.autoSaveEnabled || !m.isDirty {
		return false
	}

	return time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// Check runs the auto-save callback when one is due. A save that
// returns nil marks the session clean; a failed save stays dirty so
// the next check retries. The chat REPL calls this between prompts;
// bubbletea programs consume AutoSaveMsg from HandleTick instead.
func (m *Manager) Check() {
	m.mu.Lock()
	shouldSave := m.autoSaveEnabled && m.isDirty &&
		time.Since(m.lastAutoSave) >= m.autoSaveInterval
	onAutoSave := m.onAutoSave
	m.mu.Unlock()

	// Execute callback outside lock
	if shouldSave && onAutoSave != nil {
		if err := onAutoSave(); err == nil {
			m.MarkClean()
		}
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to refresh uptime and check auto-save.
type TickMsg struct {
	Time time.Time
}

// AutoSaveMsg indicates the transcript should be saved now.
type AutoSaveMsg struct{}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick and schedules the next one, emitting an
// AutoSaveMsg when a save is due.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	if m.ShouldAutoSave() {
		cmds = append(cmds, func() tea.Msg {
			return AutoSaveMsg{}
		})
	}

	// Continue ticking
	cmds = append(cmds, TickCmd())

	return tea.Batch(cmds...)
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents the current run status.
type Status struct {
	RunID        string
	StartTime    time.Time
	Duration     time.Duration
	IdleTime     time.Duration
	ChatsSent    int
	Predictions  int
	ChartRenders int
	Exports      int
	IsDirty      bool
}

// GetStatus returns a snapshot of the run.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	return Status{
		RunID:        m.runID,
		StartTime:    m.startTime,
		Duration:     now.Sub(m.startTime),
		IdleTime:     now.Sub(m.lastActivity),
		ChatsSent:    m.chatsSent,
		Predictions:  m.predictions,
		ChartRenders: m.chartRenders,
		Exports:      m.exports,
		IsDirty:      m.isDirty,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToString(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
