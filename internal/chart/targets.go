// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrUnknownTarget is returned when a render targets an identifier
// that was never registered.
var ErrUnknownTarget = errors.New("unknown render target")

// ============================================================
// TARGET REGISTRY
// ============================================================

// WriterFactory opens the destination for a single render pass. The
// renderer closes the returned writer when the pass finishes, so each
// pass gets a fresh handle and redrawing a target replaces its
// previous output.
type WriterFactory func() (io.WriteCloser, error)

// TargetRegistry maps render target identifiers to writer factories.
// Registering an identifier that already exists replaces its factory.
type TargetRegistry struct {
	mu        sync.RWMutex
	factories map[string]WriterFactory
}

// NewTargetRegistry creates an empty registry.
func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{factories: make(map[string]WriterFactory)}
}

// Register binds id to factory, replacing any previous binding.
func (tr *TargetRegistry) Register(id string, factory WriterFactory) {
	if factory == nil {
		return
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.factories[id] = factory
}

// Unregister removes id from the registry. Unknown identifiers are a
// no-op.
func (tr *TargetRegistry) Unregister(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	delete(tr.factories, id)
}

// IDs returns the registered identifiers in sorted order.
func (tr *TargetRegistry) IDs() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	ids := make([]string, 0, len(tr.factories))
	for id := range tr.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Open starts a render pass against id by opening a fresh writer.
func (tr *TargetRegistry) Open(id string) (io.WriteCloser, error) {
	tr.mu.RLock()
	factory, ok := tr.factories[id]
	tr.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return factory()
}

// ============================================================
// BUILT-IN TARGETS
// ============================================================

// FileTarget returns a factory that writes renders to path. The file
// is truncated on every pass, so the newest render wins. Parent
// directories are created as needed.
func FileTarget(path string) WriterFactory {
	return func() (io.WriteCloser, error) {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create chart directory: %w", err)
			}
		}
		return os.Create(path)
	}
}

// MemoryTarget keeps the most recent render in memory. A completed
// pass replaces the previous bytes only when its writer is closed, so
// readers never observe a partial render.
type MemoryTarget struct {
	mu      sync.Mutex
	data    []byte
	renders int
}

// NewMemoryTarget creates an empty in-memory target.
func NewMemoryTarget() *MemoryTarget {
	return &MemoryTarget{}
}

// Factory returns a WriterFactory bound to this target.
func (m *MemoryTarget) Factory() WriterFactory {
	return func() (io.WriteCloser, error) {
		return &memoryWriter{target: m}, nil
	}
}

// Bytes returns a copy of the most recent completed render.
func (m *MemoryTarget) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Renders reports how many passes have completed against this target.
func (m *MemoryTarget) Renders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renders
}

type memoryWriter struct {
	target *MemoryTarget
	buf    bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	w.target.mu.Lock()
	defer w.target.mu.Unlock()

	w.target.data = append([]byte(nil), w.buf.Bytes()...)
	w.target.renders++
	return nil
}
