// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinner - Simple line rotation, used while a chat send is pending.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Classic three-dot animation, used while a chart renders.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// PulseSpinner - Pulsing indicator for long-running predictions.
var PulseSpinner = SpinnerConfig{
	Frames: []string{"( )", "(.)", "(o)", "(O)", "(o)", "(.)"},
	FPS:    8,
}

// SpinnerConfig holds the configuration for a spinner animation.
// All frames are ASCII for terminal compatibility.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Bubbles converts the config into a bubbles spinner definition.
func (s SpinnerConfig) Bubbles() spinner.Spinner {
	return spinner.Spinner{
		Frames: s.Frames,
		FPS:    s.Duration(),
	}
}

// =============================================================================
// SPARKLINES
// =============================================================================

// sparkLevels maps normalized values to ASCII glyphs, lowest to highest.
var sparkLevels = []string{"_", ".", "-", "~", "=", "+", "#"}

// Sparkline renders a series of values as a fixed-width ASCII strip. Values
// are resampled to the requested width and scaled to the series min/max. A
// flat series renders at the middle level; an empty series or non-positive
// width renders as an empty string.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	sb.Grow(width)

	mid := sparkLevels[len(sparkLevels)/2]
	span := max - min
	for i := 0; i < width; i++ {
		// Nearest-sample resampling keeps the strip aligned with the
		// series ends at any width.
		idx := i * (len(values) - 1)
		if width > 1 {
			idx /= width - 1
		} else {
			idx = 0
		}
		if span == 0 {
			sb.WriteString(mid)
			continue
		}
		level := int((values[idx] - min) / span * float64(len(sparkLevels)-1))
		if level < 0 {
			level = 0
		}
		if level >= len(sparkLevels) {
			level = len(sparkLevels) - 1
		}
		sb.WriteString(sparkLevels[level])
	}

	return sb.String()
}
