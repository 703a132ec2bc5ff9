// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/stockdeck/internal/ui/styles"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusSending, "Sending..."},
		{StatusPredicting, "Predicting..."},
		{StatusRendering, "Rendering..."},
		{StatusError, "Error"},
		{StatusOffline, "Offline"},
		{Status(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, styles.StatusIndicators.Success},
		{StatusSending, styles.StatusIndicators.Pending},
		{StatusPredicting, styles.StatusIndicators.Pending},
		{StatusRendering, styles.StatusIndicators.Pending},
		{StatusError, styles.StatusIndicators.Error},
		{StatusOffline, "(-)"},
	}

	for _, tt := range tests {
		if got := tt.status.Icon(); got != tt.want {
			t.Errorf("Status(%d).Icon() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestNewStatusBar(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme(styles.ModeDark))

	if sb.Width != 80 {
		t.Errorf("Width = %d, want 80", sb.Width)
	}
	if sb.Status != StatusReady {
		t.Errorf("Status = %v, want StatusReady", sb.Status)
	}
	if !sb.ShowShortcuts {
		t.Error("ShowShortcuts = false, want true")
	}
	if sb.HasQuote {
		t.Error("HasQuote = true for a new status bar, want false")
	}
}

func TestStatusBar_Setters(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme(styles.ModeLight))

	sb.SetWidth(120)
	if sb.Width != 120 {
		t.Errorf("SetWidth: Width = %d, want 120", sb.Width)
	}

	sb.SetBackend("http://localhost:5000", true)
	if sb.BackendURL != "http://localhost:5000" || !sb.Connected {
		t.Errorf("SetBackend: got (%q, %v), want (%q, true)",
			sb.BackendURL, sb.Connected, "http://localhost:5000")
	}

	sb.SetQuote("AAPL", 189.5, 0.0325)
	if !sb.HasQuote {
		t.Error("SetQuote: HasQuote = false, want true")
	}
	if sb.Symbol != "AAPL" || sb.LastClose != 189.5 {
		t.Errorf("SetQuote: got (%q, %v), want (AAPL, 189.5)", sb.Symbol, sb.LastClose)
	}

	sb.SetCounts(3, 2)
	if sb.ChatsSent != 3 || sb.Predictions != 2 {
		t.Errorf("SetCounts: got (%d, %d), want (3, 2)", sb.ChatsSent, sb.Predictions)
	}

	sb.SetStatus(StatusPredicting)
	if sb.Status != StatusPredicting {
		t.Errorf("SetStatus: Status = %v, want StatusPredicting", sb.Status)
	}
}

func TestStatusBar_ViewNarrow(t *testing.T) {
	th := styles.NewTheme(styles.ModeDark)
	sb := NewStatusBar(th)
	sb.SetWidth(40)
	sb.SetBackend("http://localhost:5000", true)
	sb.SetQuote("TSLA", 242.1, -0.012)

	out := sb.View()
	if out == "" {
		t.Fatal("View() returned empty string")
	}
	if !strings.Contains(out, th.Mode.Indicator()) {
		t.Errorf("narrow view missing theme indicator %q", th.Mode.Indicator())
	}
	if !strings.Contains(out, "TSLA") {
		t.Error("narrow view missing symbol")
	}
	if strings.Contains(out, "http://localhost:5000") {
		t.Error("narrow view should not show the backend URL")
	}
}

func TestStatusBar_ViewMedium(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme(styles.ModeLight))
	sb.SetWidth(80)
	sb.SetBackend("http://localhost:5000", false)
	sb.SetQuote("AAPL", 189.5, 0.0325)

	out := sb.View()
	if !strings.Contains(out, "offline") {
		t.Error("medium view missing health text for a disconnected backend")
	}
	if !strings.Contains(out, "$189.50") {
		t.Error("medium view missing formatted price")
	}
	if !strings.Contains(out, "+3.25%") {
		t.Error("medium view missing formatted change")
	}
}

func TestStatusBar_ViewWide(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme(styles.ModeDark))
	sb.SetWidth(140)
	sb.SetBackend("http://localhost:5000", true)
	sb.SetQuote("NVDA", 875.25, 0.051)
	sb.SetCounts(4, 2)

	out := sb.View()
	if !strings.Contains(out, "connected") {
		t.Error("wide view missing health text")
	}
	if !strings.Contains(out, "http://localhost:5000") {
		t.Error("wide view missing backend URL")
	}
	if !strings.Contains(out, "chats 4") {
		t.Error("wide view missing chat counter")
	}
	if !strings.Contains(out, "predictions 2") {
		t.Error("wide view missing prediction counter")
	}
	if !strings.Contains(out, "theme") {
		t.Error("wide view missing shortcut hints")
	}
}

func TestStatusBar_ViewWithoutQuote(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme(styles.ModeDark))
	sb.SetWidth(140)
	sb.SetBackend("http://localhost:5000", true)

	out := sb.View()
	if out == "" {
		t.Fatal("View() returned empty string")
	}
	if strings.Contains(out, "$") {
		t.Error("view shows a price although no quote was set")
	}
}
