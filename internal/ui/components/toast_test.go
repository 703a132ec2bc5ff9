// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stockdeck/internal/ui/styles"
)

func TestToast_IsExpired(t *testing.T) {
	fresh := Toast{CreatedAt: time.Now()}
	if fresh.IsExpired() {
		t.Error("IsExpired() = true for a fresh toast, want false")
	}

	old := Toast{CreatedAt: time.Now().Add(-ToastDuration - time.Second)}
	if !old.IsExpired() {
		t.Error("IsExpired() = false past the toast lifetime, want true")
	}
}

func TestToast_TimeRemaining(t *testing.T) {
	fresh := Toast{CreatedAt: time.Now()}
	remaining := fresh.TimeRemaining()
	if remaining <= 0 || remaining > ToastDuration {
		t.Errorf("TimeRemaining() = %v, want in (0, %v]", remaining, ToastDuration)
	}

	old := Toast{CreatedAt: time.Now().Add(-ToastDuration - time.Second)}
	if got := old.TimeRemaining(); got != 0 {
		t.Errorf("TimeRemaining() = %v for an expired toast, want 0", got)
	}
}

func TestToastManager_ShowToast(t *testing.T) {
	tm := NewToastManager()

	id := tm.ShowToast("saved", ToastKindSuccess)
	if id == 0 {
		t.Error("ShowToast() returned ID 0, want nonzero")
	}

	toasts := tm.GetToasts()
	if len(toasts) != 1 {
		t.Fatalf("GetToasts() returned %d toasts, want 1", len(toasts))
	}
	if toasts[0].Message != "saved" {
		t.Errorf("Message = %q, want %q", toasts[0].Message, "saved")
	}
	if toasts[0].Kind != ToastKindSuccess {
		t.Errorf("Kind = %v, want %v", toasts[0].Kind, ToastKindSuccess)
	}
	if toasts[0].CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want set")
	}
}

func TestToastManager_UniqueIDs(t *testing.T) {
	tm := NewToastManager()

	seen := make(map[int]bool)
	for i := 0; i < 3; i++ {
		id := tm.ShowToast("msg", ToastKindStatus)
		if seen[id] {
			t.Errorf("ShowToast() reused ID %d", id)
		}
		seen[id] = true
	}
}

func TestToastManager_NewestFirst(t *testing.T) {
	tm := NewToastManager()
	tm.ShowToast("first", ToastKindStatus)
	tm.ShowToast("second", ToastKindStatus)

	toasts := tm.GetToasts()
	if len(toasts) != 2 {
		t.Fatalf("GetToasts() returned %d toasts, want 2", len(toasts))
	}
	if toasts[0].Message != "second" {
		t.Errorf("toasts[0].Message = %q, want %q", toasts[0].Message, "second")
	}
	if toasts[1].Message != "first" {
		t.Errorf("toasts[1].Message = %q, want %q", toasts[1].Message, "first")
	}
}

func TestToastManager_MaxToasts(t *testing.T) {
	tm := NewToastManager()
	for i := 0; i < 7; i++ {
		tm.ShowToast("msg", ToastKindStatus)
	}

	toasts := tm.GetToasts()
	if len(toasts) != 5 {
		t.Errorf("GetToasts() returned %d toasts after 7 shows, want cap of 5", len(toasts))
	}
	// The oldest toasts fall off: IDs 1 and 2 are gone, 7 leads.
	if toasts[0].ID != 7 {
		t.Errorf("toasts[0].ID = %d, want 7", toasts[0].ID)
	}
	if toasts[len(toasts)-1].ID != 3 {
		t.Errorf("oldest retained ID = %d, want 3", toasts[len(toasts)-1].ID)
	}
}

func TestToastManager_RemoveToast(t *testing.T) {
	tm := NewToastManager()
	id1 := tm.ShowToast("keep me out", ToastKindStatus)
	tm.ShowToast("keep me in", ToastKindStatus)

	tm.RemoveToast(id1)

	toasts := tm.GetToasts()
	if len(toasts) != 1 {
		t.Fatalf("GetToasts() returned %d toasts after remove, want 1", len(toasts))
	}
	if toasts[0].Message != "keep me in" {
		t.Errorf("remaining Message = %q, want %q", toasts[0].Message, "keep me in")
	}
}

func TestToastManager_RemoveMissingIsNoOp(t *testing.T) {
	tm := NewToastManager()

	// Removing from an empty stack must not panic.
	tm.RemoveToast(42)

	tm.ShowToast("still here", ToastKindStatus)
	tm.RemoveToast(999)

	if got := len(tm.GetToasts()); got != 1 {
		t.Errorf("GetToasts() returned %d toasts after removing a missing ID, want 1", got)
	}
}

func TestToastManager_TickToasts(t *testing.T) {
	tm := NewToastManager()
	tm.ShowToast("old", ToastKindStatus)
	tm.ShowToast("new", ToastKindStatus)

	// Backdate the older toast past its lifetime. Newest sits at index 0.
	tm.toasts[1].CreatedAt = time.Now().Add(-ToastDuration - time.Second)

	active := tm.TickToasts()
	if len(active) != 1 {
		t.Fatalf("TickToasts() returned %d toasts, want 1", len(active))
	}
	if active[0].Message != "new" {
		t.Errorf("surviving Message = %q, want %q", active[0].Message, "new")
	}
}

func TestToastManager_HasToastsAndClear(t *testing.T) {
	tm := NewToastManager()
	if tm.HasToasts() {
		t.Error("HasToasts() = true for a new manager, want false")
	}

	tm.ShowToast("msg", ToastKindError)
	if !tm.HasToasts() {
		t.Error("HasToasts() = false after ShowToast, want true")
	}

	tm.Clear()
	if tm.HasToasts() {
		t.Error("HasToasts() = true after Clear, want false")
	}
}

func TestToastTickCmd(t *testing.T) {
	if ToastTickCmd() == nil {
		t.Error("ToastTickCmd() = nil, want command")
	}
}

func TestRenderToast(t *testing.T) {
	th := styles.NewTheme(styles.ModeDark)

	tests := []struct {
		name string
		kind ToastKind
	}{
		{"status", ToastKindStatus},
		{"error", ToastKindError},
		{"warning", ToastKindWarning},
		{"success", ToastKindSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toast := Toast{ID: 1, Message: "snapshot", Kind: tt.kind, CreatedAt: time.Now()}
			out := RenderToast(th, toast, 80)
			if out == "" {
				t.Fatal("RenderToast() returned empty string")
			}
			if !strings.Contains(out, "snapshot") {
				t.Errorf("RenderToast() output missing message %q", "snapshot")
			}
		})
	}
}

func TestRenderToastStack(t *testing.T) {
	th := styles.NewTheme(styles.ModeLight)

	if out := RenderToastStack(th, nil, 80, 24); out != "" {
		t.Errorf("RenderToastStack() with no toasts = %q, want empty", out)
	}

	toasts := []Toast{
		{ID: 1, Message: "one", Kind: ToastKindStatus, CreatedAt: time.Now()},
		{ID: 2, Message: "two", Kind: ToastKindError, CreatedAt: time.Now()},
	}
	out := RenderToastStack(th, toasts, 80, 24)
	if out == "" {
		t.Fatal("RenderToastStack() returned empty string")
	}
	if got := lipgloss.Height(out); got != 24 {
		t.Errorf("RenderToastStack() height = %d, want 24", got)
	}
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Error("RenderToastStack() output missing toast messages")
	}
}
