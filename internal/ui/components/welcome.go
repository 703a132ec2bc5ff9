// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stockdeck/internal/ui/styles"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// WELCOME SCREEN COMPONENT - First screen shown on startup
// =============================================================================

// welcomeLogo is the banner shown on terminals wide enough to hold it.
// Each row is 61 cells wide.
var welcomeLogo = []string{
	` ____   _____   ___    ____  _  __ ____   _____   ____  _  __`,
	`/ ___| |_   _| / _ \  / ___|| |/ /|  _ \ | ____| / ___|| |/ /`,
	`\___ \   | |  | | | || |    | ' / | | | ||  _|  | |    | ' / `,
	` ___) |  | |  | |_| || |___ | . \ | |_| || |___ | |___ | . \ `,
	`|____/   |_|   \___/  \____||_|\_\|____/ |_____| \____||_|\_\`,
}

// Welcome is the startup screen: logo, version, backend info, and key hints.
type Welcome struct {
	Width       int
	Height      int
	Version     string
	BackendURL  string
	SymbolCount int

	theme *styles.Theme
}

// NewWelcome creates a new Welcome screen component.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{
		Width:   80,
		Height:  24,
		Version: "dev",
		theme:   theme,
	}
}

// SetTheme swaps the active theme after a toggle.
func (w *Welcome) SetTheme(theme *styles.Theme) {
	w.theme = theme
}

// SetSize updates the screen dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// SetVersion sets the version string shown under the logo.
func (w *Welcome) SetVersion(version string) {
	w.Version = version
}

// SetBackendURL sets the backend endpoint shown in the info block.
func (w *Welcome) SetBackendURL(url string) {
	w.BackendURL = url
}

// SetSymbolCount sets the number of symbols the backend serves.
func (w *Welcome) SetSymbolCount(count int) {
	w.SymbolCount = count
}

// Init implements tea.Model.
func (w *Welcome) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. The welcome screen is static; the parent
// decides when a key press dismisses it.
func (w *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		w.SetSize(sizeMsg.Width, sizeMsg.Height)
	}
	return w, nil
}

// View renders the welcome screen centered in the available space.
func (w *Welcome) View() string {
	// Lines the box frame and padding consume before any content fits.
	const frameLines = 6
	available := w.Height - frameLines

	var sections []string
	switch {
	case available >= 18:
		sections = []string{
			w.renderLogo(),
			w.renderVersion(),
			"",
			w.renderInfo(),
			"",
			w.renderKeys(),
			"",
			w.renderPressKey(),
		}
	case available >= 14:
		sections = []string{
			w.renderLogo(),
			w.renderVersion(),
			"",
			w.renderInfo(),
			w.renderPressKey(),
		}
	case available >= 10:
		sections = []string{
			w.renderLogoCompact(),
			w.renderVersion(),
			w.renderInfo(),
			w.renderPressKey(),
		}
	default:
		sections = []string{
			w.renderLogoTiny(),
			w.renderPressKey(),
		}
	}

	content := strings.Join(sections, "\n")
	box := w.theme.WelcomeBox.Render(content)

	// Center when it fits; pin to the top when the box overflows so the
	// first lines stay readable.
	if lipgloss.Height(box) > w.Height {
		return lipgloss.PlaceHorizontal(w.Width, lipgloss.Center, box)
	}
	return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box)
}

// renderLogo returns the banner, falling back to smaller variants when the
// terminal cannot hold the full 61-cell rows plus the box frame.
func (w *Welcome) renderLogo() string {
	if w.Width < 74 {
		return w.renderLogoCompact()
	}
	return w.theme.WelcomeLogo.Render(strings.Join(welcomeLogo, "\n"))
}

// renderLogoCompact returns a boxed name for medium terminals.
func (w *Welcome) renderLogoCompact() string {
	if w.Width < 30 {
		return w.renderLogoTiny()
	}
	compact := strings.Join([]string{
		`+--------------------+`,
		`|     stockdeck      |`,
		`+--------------------+`,
	}, "\n")
	return w.theme.WelcomeLogo.Render(compact)
}

// renderLogoTiny returns a single-line name for very small terminals.
func (w *Welcome) renderLogoTiny() string {
	return w.theme.WelcomeLogo.Render("stockdeck - Market Dashboard")
}

// renderVersion renders the version line.
func (w *Welcome) renderVersion() string {
	return w.theme.WelcomeVersion.Render("v" + strings.TrimPrefix(w.Version, "v"))
}

// renderInfo renders the backend endpoint, symbol count, and active theme.
func (w *Welcome) renderInfo() string {
	label := w.theme.WelcomeInfo.Width(9)
	value := w.theme.HeaderTitle

	lines := []string{
		label.Render("Backend") + value.Render(w.BackendURL),
		label.Render("Symbols") + value.Render(util.IntToString(w.SymbolCount)),
		label.Render("Theme") + value.Render(w.theme.Mode.String()),
	}
	return strings.Join(lines, "\n")
}

// renderKeys renders the shortcut hints.
func (w *Welcome) renderKeys() string {
	key := w.theme.WelcomeKey.Width(9)
	desc := w.theme.WelcomeInfo

	lines := []string{
		key.Render("enter") + desc.Render("open the chat assistant"),
		key.Render("p") + desc.Render("run a prediction"),
		key.Render("ctrl+t") + desc.Render("toggle light/dark theme"),
		key.Render("?") + desc.Render("show help"),
	}
	return strings.Join(lines, "\n")
}

// renderPressKey renders the dismissal prompt.
func (w *Welcome) renderPressKey() string {
	return w.theme.WelcomePressKey.Render("press any key to continue")
}
