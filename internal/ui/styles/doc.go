// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the stockdeck TUI.

Colors are defined once as Lip Gloss AdaptiveColor light/dark pairs. A Theme
bakes one side of each pair into concrete styles based on its Mode, so the
persisted theme preference decides what renders, not the terminal's reported
background.

# Modes

	mode := styles.ParseMode(cfg.UI.Theme) // "dark" -> ModeDark, else ModeLight
	theme := styles.NewTheme(mode)
	theme.Apply()                          // syncs lipgloss adaptive resolution

Toggling rebuilds the theme for the opposite mode:

	theme = styles.NewTheme(theme.Mode.Toggle())
	theme.Apply()

Two toggles land back on styles identical to the starting theme.

# Key Types

  - Mode: light/dark selector with ParseMode, Toggle, and the status bar
    Indicator glyph.
  - Theme: every lipgloss style the dashboard, chat widget, and components
    render with, plus terminal capability fields from termenv.
  - SpinnerConfig: ASCII spinner frame sets convertible to bubbles spinners.

# Helpers

RenderSuccess, RenderError, RenderWarning, and RenderInfo pair high contrast
colors with ASCII shape indicators ([OK], [X], [!], [i]) for CLI output.
Sparkline renders a float series as a fixed-width ASCII strip for the chart
panel and prediction summaries.
*/
package styles
