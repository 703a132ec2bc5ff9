// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the light or dark palette. The persisted preference drives
// it; the terminal's reported background never overrides a saved choice.
type Mode int

const (
	ModeLight Mode = iota
	ModeDark
)

// ParseMode maps a persisted theme name to a Mode. Anything other than
// "dark" (case-insensitive) falls back to the light theme.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "dark") {
		return ModeDark
	}
	return ModeLight
}

// String returns the persistable name of the mode.
func (m Mode) String() string {
	if m == ModeDark {
		return "dark"
	}
	return "light"
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// Indicator returns the status bar glyph for the mode.
func (m Mode) Indicator() string {
	if m == ModeDark {
		return "[D]"
	}
	return "[L]"
}

// DetectMode probes the terminal background. Only used for startup
// diagnostics; the persisted theme decides what actually renders.
func DetectMode() Mode {
	if termenv.HasDarkBackground() {
		return ModeDark
	}
	return ModeLight
}

// Theme holds all the styled components for the application, baked for one
// Mode. Build a fresh Theme on toggle; two themes built for the same mode
// render identically.
type Theme struct {
	Mode         Mode
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile
	TerminalDark bool

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// DASHBOARD PANEL STYLES
	// ==========================================================================

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	BotBubble   lipgloss.Style
	ErrorBubble lipgloss.Style
	MessageMeta lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusGood   lipgloss.Style
	StatusBad    lipgloss.Style
	ThemeBadge   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// MARKET STYLES
	// ==========================================================================

	PriceUpText   lipgloss.Style
	PriceDownText lipgloss.Style
	PriceFlatText lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox      lipgloss.Style
	WelcomeLogo     lipgloss.Style
	WelcomeVersion  lipgloss.Style
	WelcomeInfo     lipgloss.Style
	WelcomeKey      lipgloss.Style
	WelcomePressKey lipgloss.Style

	// ==========================================================================
	// HELP OVERLAY STYLES
	// ==========================================================================

	HelpBox   lipgloss.Style
	HelpTitle lipgloss.Style

	// ==========================================================================
	// TABLE STYLES
	// ==========================================================================

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowAlt lipgloss.Style

	// ==========================================================================
	// SPINNER AND PENDING STYLES
	// ==========================================================================

	Spinner     lipgloss.Style
	PendingText lipgloss.Style
}

// NewTheme creates a theme for the given mode and records the terminal's
// capabilities alongside it.
func NewTheme(mode Mode) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		Mode:         mode,
		IsDark:       mode == ModeDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		TerminalDark: termenv.HasDarkBackground(),
	}

	t.initStyles()
	return t
}

// Apply points lipgloss's adaptive color resolution at this theme's mode.
// Call it once at startup and again after every toggle so code rendering
// raw AdaptiveColor values agrees with the baked styles.
func (t *Theme) Apply() {
	lipgloss.SetHasDarkBackground(t.IsDark)
}

// pick resolves an adaptive color against the theme's mode.
func (t *Theme) pick(c lipgloss.AdaptiveColor) lipgloss.Color {
	if t.IsDark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Cyan)).
		Background(t.pick(SurfaceDim)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Purple)).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Purple))

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(t.pick(TextSecondary)).
		Italic(true)

	// Dashboard panels
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Overlay)).
		Padding(0, 1)

	t.PanelFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Cyan)).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.pick(Cyan))

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(t.pick(UserBubbleFg)).
		Background(t.pick(UserBubbleBg)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(UserBubbleBorder)).
		Padding(0, 2).
		MarginLeft(4)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(t.pick(BotBubbleFg)).
		Background(t.pick(BotBubbleBg)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(BotBubbleBorder)).
		Padding(0, 2).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(t.pick(Rose)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Rose)).
		Padding(0, 2).
		MarginRight(4)

	t.MessageMeta = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted))

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.pick(Overlay)).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted)).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(t.pick(SurfaceDim)).
		Foreground(t.pick(TextSecondary)).
		Padding(0, 1)

	t.StatusGood = lipgloss.NewStyle().
		Foreground(t.pick(SuccessHighContrast)).
		Bold(true)

	t.StatusBad = lipgloss.NewStyle().
		Foreground(t.pick(ErrorHighContrast)).
		Bold(true)

	t.ThemeBadge = lipgloss.NewStyle().
		Foreground(t.pick(Amber)).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted))

	// Market text
	t.PriceUpText = lipgloss.NewStyle().
		Foreground(t.pick(PriceUp)).
		Bold(true)

	t.PriceDownText = lipgloss.NewStyle().
		Foreground(t.pick(PriceDown)).
		Bold(true)

	t.PriceFlatText = lipgloss.NewStyle().
		Foreground(t.pick(PriceFlat))

	// Toasts
	t.ToastInfo = lipgloss.NewStyle().
		Foreground(t.pick(InfoHighContrast)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(InfoHighContrast)).
		Padding(0, 1)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(t.pick(Emerald)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Emerald)).
		Padding(0, 1)

	t.ToastWarning = lipgloss.NewStyle().
		Foreground(t.pick(Amber)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Amber)).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(t.pick(Rose)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Rose)).
		Padding(0, 1)

	// Welcome screen
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(t.pick(Purple)).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.WelcomeVersion = lipgloss.NewStyle().
		Foreground(t.pick(TextMuted)).
		Italic(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(t.pick(TextSecondary))

	t.WelcomeKey = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.WelcomePressKey = lipgloss.NewStyle().
		Foreground(t.pick(Purple)).
		Blink(true)

	// Help overlay
	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.pick(Purple)).
		Padding(1, 2)

	t.HelpTitle = lipgloss.NewStyle().
		Foreground(t.pick(Purple)).
		Bold(true)

	// Tables
	t.TableHeader = lipgloss.NewStyle().
		Foreground(t.pick(Cyan)).
		Bold(true)

	t.TableRow = lipgloss.NewStyle().
		Foreground(t.pick(TextPrimary))

	t.TableRowAlt = lipgloss.NewStyle().
		Foreground(t.pick(TextSecondary))

	// Spinner and pending
	t.Spinner = lipgloss.NewStyle().
		Foreground(t.pick(Purple))

	t.PendingText = lipgloss.NewStyle().
		Foreground(t.pick(TextSecondary))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
