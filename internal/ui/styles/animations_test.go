// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

func TestSpinnerConfig_Duration(t *testing.T) {
	tests := []struct {
		name string
		cfg  SpinnerConfig
		want time.Duration
	}{
		{"line", LineSpinner, 100 * time.Millisecond},
		{"dots", DotsSpinner, time.Second / 6},
		{"pulse", PulseSpinner, 125 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Duration(); got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSpinnerConfig_Bubbles(t *testing.T) {
	sp := LineSpinner.Bubbles()

	if len(sp.Frames) != len(LineSpinner.Frames) {
		t.Errorf("Bubbles() kept %d frames, want %d", len(sp.Frames), len(LineSpinner.Frames))
	}
	if sp.FPS != LineSpinner.Duration() {
		t.Errorf("Bubbles() FPS = %v, want %v", sp.FPS, LineSpinner.Duration())
	}
}

func TestSpinnerFrames_ASCIIOnly(t *testing.T) {
	for _, cfg := range []SpinnerConfig{LineSpinner, DotsSpinner, PulseSpinner} {
		for _, frame := range cfg.Frames {
			for _, r := range frame {
				if r > 127 {
					t.Errorf("spinner frame %q contains non-ASCII rune %q", frame, r)
				}
			}
		}
	}
}

// =============================================================================
// SPARKLINE TESTS
// =============================================================================

func TestSparkline_Empty(t *testing.T) {
	if got := Sparkline(nil, 20); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
	if got := Sparkline([]float64{1, 2, 3}, 0); got != "" {
		t.Errorf("Sparkline(width 0) = %q, want empty", got)
	}
}

func TestSparkline_Width(t *testing.T) {
	values := []float64{1, 5, 3, 8, 2, 9, 4}

	for _, width := range []int{1, 5, 7, 20, 100} {
		got := Sparkline(values, width)
		if len(got) != width {
			t.Errorf("Sparkline width %d produced %d characters", width, len(got))
		}
	}
}

func TestSparkline_FlatSeries(t *testing.T) {
	got := Sparkline([]float64{100, 100, 100, 100}, 8)

	mid := sparkLevels[len(sparkLevels)/2]
	want := strings.Repeat(mid, 8)
	if got != want {
		t.Errorf("Sparkline(flat) = %q, want %q", got, want)
	}
}

func TestSparkline_ExtremesUseEndLevels(t *testing.T) {
	got := Sparkline([]float64{0, 100}, 2)

	low := sparkLevels[0]
	high := sparkLevels[len(sparkLevels)-1]
	if got != low+high {
		t.Errorf("Sparkline([0,100], 2) = %q, want %q", got, low+high)
	}
}

func TestSparkline_SingleValue(t *testing.T) {
	got := Sparkline([]float64{42}, 4)

	mid := sparkLevels[len(sparkLevels)/2]
	if got != strings.Repeat(mid, 4) {
		t.Errorf("Sparkline(single value) = %q, want middle level strip", got)
	}
}

func TestSparkline_MonotoneRampNeverDescends(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}

	got := Sparkline(values, 25)
	rank := func(s byte) int {
		for i, lv := range sparkLevels {
			if lv[0] == s {
				return i
			}
		}
		return -1
	}

	for i := 1; i < len(got); i++ {
		if rank(got[i]) < rank(got[i-1]) {
			t.Fatalf("ramp sparkline descends at %d: %q", i, got)
		}
	}
}
