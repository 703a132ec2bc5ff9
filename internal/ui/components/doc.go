// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable widgets the dashboard composes:
the status bar, the welcome screen, the help overlay, and toast
notifications.

Every widget renders through a *styles.Theme so a theme toggle restyles
all of them at once. Widgets hold no goroutines; timed behavior such as
toast expiry runs on Bubble Tea tick commands owned by the parent model.

# Key Types

  - StatusBar: bottom bar with backend health, the selected symbol's
    quote, per-run counters, theme indicator, and shortcut hints. Three
    layouts keyed on width (<60 narrow, <100 medium, wide).
  - Welcome: startup screen with the banner logo, version, backend info,
    and key hints. Content tiers shrink with the terminal.
  - ToastManager: bounded stack of transient notifications. Every toast
    lives ToastDuration unless dismissed early; removal of an unknown ID
    is a no-op.

# Usage

	tm := components.NewToastManager()
	tm.ShowToast("Export complete", components.ToastKindSuccess)
	// on ToastTickMsg:
	toasts := tm.TickToasts()
	overlay := components.RenderToastStack(theme, toasts, width, height)

RenderHelp builds the help overlay from the canonical key binding list
and the market FAQ entries, rendered through glamour in the active
theme's style.
*/
package components
