// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// stockdeck.
package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER INTERFACE
// =============================================================================

// Watcher is the interface for config file watching implementations.
type Watcher interface {
	// Watch starts watching for config changes
	Watch() error

	// Close stops watching and releases resources
	Close() error
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher implements Watcher using fsnotify. It watches the config
// directory rather than the file itself because editors typically replace
// the file via rename, which drops a direct file watch.
type FsnotifyWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	mu       sync.Mutex
	pending  time.Time
	dirty    bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewFsnotifyWatcher creates a new fsnotify-based config watcher. onChange
// fires after changes to the config file settle for the debounce window.
func NewFsnotifyWatcher(debounce time.Duration, onChange func()) (*FsnotifyWatcher, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	fw := &FsnotifyWatcher{
		dir:      dir,
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}

	return fw, nil
}

// Watch starts watching for config changes.
func (fw *FsnotifyWatcher) Watch() error {
	if err := os.MkdirAll(fw.dir, 0755); err != nil {
		return err
	}
	if err := fw.watcher.Add(fw.dir); err != nil {
		return err
	}

	go fw.processEvents()
	go fw.processPending()

	return nil
}

// isConfigFile reports whether a changed path is one of the config files.
func isConfigFile(path string) bool {
	name := filepath.Base(path)
	return name == "config.toml" || name == "config.json"
}

// processEvents processes file system events.
func (fw *FsnotifyWatcher) processEvents() {
	defer func() {
		// A panic here must not take down the UI; the watcher simply stops.
		recover()
	}()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !isConfigFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.dirty = true
				fw.mu.Unlock()
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still arrives
			// or the polling fallback covers the gap.
		}
	}
}

// processPending fires the change callback once edits settle.
func (fw *FsnotifyWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			fw.mu.Lock()
			fire := fw.dirty && time.Since(fw.pending) >= fw.debounce
			if fire {
				fw.dirty = false
			}
			fw.mu.Unlock()

			if fire && fw.onChange != nil {
				fw.onChange()
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher implements Watcher by polling config file mod times.
type PollingWatcher struct {
	interval time.Duration
	onChange func()
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	modTimes map[string]time.Time
}

// NewPollingWatcher creates a new polling-based config watcher.
func NewPollingWatcher(interval time.Duration, onChange func()) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PollingWatcher{
		interval: interval,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		modTimes: make(map[string]time.Time),
	}
}

// Watch starts watching for config changes.
func (pw *PollingWatcher) Watch() error {
	// Record the starting state so the first poll is not a change.
	pw.scan()

	go pw.poll()
	return nil
}

// configPaths returns the candidate config file paths.
func configPaths() []string {
	var paths []string
	if p, err := ConfigPathTOML(); err == nil {
		paths = append(paths, p)
	}
	if p, err := ConfigPathJSON(); err == nil {
		paths = append(paths, p)
	}
	return paths
}

// scan records current mod times and reports whether anything changed.
func (pw *PollingWatcher) scan() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	changed := false
	for _, path := range configPaths() {
		info, err := os.Stat(path)
		if err != nil {
			if _, existed := pw.modTimes[path]; existed {
				delete(pw.modTimes, path)
				changed = true
			}
			continue
		}

		if prev, ok := pw.modTimes[path]; !ok || !prev.Equal(info.ModTime()) {
			pw.modTimes[path] = info.ModTime()
			changed = true
		}
	}
	return changed
}

// poll periodically checks for config changes.
func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			if pw.scan() && pw.onChange != nil {
				pw.onChange()
			}
		}
	}
}

// Close stops watching.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// StartWatcher starts a config watcher, preferring fsnotify and falling back
// to polling when the platform watcher cannot be created.
func StartWatcher(onChange func()) (Watcher, error) {
	fw, err := NewFsnotifyWatcher(300*time.Millisecond, onChange)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return fw, nil
		}
		fw.Close()
	}

	pw := NewPollingWatcher(2*time.Second, onChange)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return pw, nil
}
