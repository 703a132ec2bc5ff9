// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestStatusIndicators_ASCIIOnly(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}

	for _, ind := range indicators {
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderSuccess(t *testing.T) {
	out := RenderSuccess("saved")

	if !strings.Contains(out, "[OK]") {
		t.Errorf("RenderSuccess output %q missing [OK] indicator", out)
	}
	if !strings.Contains(out, "saved") {
		t.Errorf("RenderSuccess output %q missing message", out)
	}
}

func TestRenderError(t *testing.T) {
	out := RenderError("backend unreachable")

	if !strings.Contains(out, "[X]") {
		t.Errorf("RenderError output %q missing [X] indicator", out)
	}
	if !strings.Contains(out, "backend unreachable") {
		t.Errorf("RenderError output %q missing message", out)
	}
}

func TestRenderWarning(t *testing.T) {
	if out := RenderWarning("stale data"); !strings.Contains(out, "[!]") {
		t.Errorf("RenderWarning output %q missing [!] indicator", out)
	}
}

func TestRenderInfo(t *testing.T) {
	if out := RenderInfo("10 symbols"); !strings.Contains(out, "[i]") {
		t.Errorf("RenderInfo output %q missing [i] indicator", out)
	}
}

func TestRenderStatus(t *testing.T) {
	if out := RenderStatus(true, "healthy"); !strings.Contains(out, "[OK]") {
		t.Errorf("RenderStatus(true) = %q, want [OK] indicator", out)
	}
	if out := RenderStatus(false, "down"); !strings.Contains(out, "[X]") {
		t.Errorf("RenderStatus(false) = %q, want [X] indicator", out)
	}
}

func TestRenderLink(t *testing.T) {
	if out := RenderLink("https://example.com"); !strings.Contains(out, "https://example.com") {
		t.Errorf("RenderLink output %q missing link text", out)
	}
}

func TestAdaptivePairsDiffer(t *testing.T) {
	pairs := map[string]struct{ light, dark string }{
		"Cyan":        {Cyan.Light, Cyan.Dark},
		"Purple":      {Purple.Light, Purple.Dark},
		"PriceUp":     {PriceUp.Light, PriceUp.Dark},
		"PriceDown":   {PriceDown.Light, PriceDown.Dark},
		"Surface":     {Surface.Light, Surface.Dark},
		"TextPrimary": {TextPrimary.Light, TextPrimary.Dark},
	}

	for name, p := range pairs {
		if p.light == p.dark {
			t.Errorf("%s uses the same color for light and dark", name)
		}
		if !strings.HasPrefix(p.light, "#") || !strings.HasPrefix(p.dark, "#") {
			t.Errorf("%s variants are not hex colors: %q / %q", name, p.light, p.dark)
		}
	}
}
