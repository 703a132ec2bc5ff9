// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/ui/styles"
)

// =============================================================================
// HELP OVERLAY - Key bindings and FAQ
// =============================================================================

// KeyBinding is one entry in the help overlay's shortcut table. The list
// here is the canonical one; the dashboard key handler follows it.
type KeyBinding struct {
	Key    string
	Action string
}

var keyBindings = []KeyBinding{
	{"enter", "open the chat assistant, or send the typed message"},
	{"esc", "close the chat or this help"},
	{"tab", "move focus between panels"},
	{"p", "run a prediction for the selected symbol"},
	{"s / S", "next / previous symbol"},
	{"ctrl+e", "export the visible history to CSV"},
	{"ctrl+s", "save the visible chart as an image"},
	{"ctrl+t", "toggle light/dark theme"},
	{"x", "dismiss the newest notification"},
	{"?", "toggle this help"},
	{"ctrl+c", "quit"},
}

// KeyBindings returns a copy of the shortcut list.
func KeyBindings() []KeyBinding {
	out := make([]KeyBinding, len(keyBindings))
	copy(out, keyBindings)
	return out
}

// HelpMarkdown builds the help content as markdown. RenderHelp feeds it
// through glamour; callers that want plain text can use it directly.
func HelpMarkdown() string {
	var b strings.Builder

	b.WriteString("# stockdeck\n\n")
	b.WriteString("A terminal dashboard for the stock prediction service.\n\n")

	b.WriteString("## Key Bindings\n\n")
	b.WriteString("| Key | Action |\n")
	b.WriteString("|-----|--------|\n")
	for _, kb := range keyBindings {
		b.WriteString("| `" + kb.Key + "` | " + kb.Action + " |\n")
	}
	b.WriteString("\n")

	b.WriteString("## FAQ\n\n")
	for _, f := range market.FAQs() {
		b.WriteString("### " + f.Question + "\n\n")
		b.WriteString(f.Answer + "\n\n")
		b.WriteString("*Category: " + f.Category + "*\n\n")
	}

	return b.String()
}

// RenderHelp renders the help overlay for the given width. The glamour
// style follows the active theme. The renderer is rebuilt on each call
// because the style tracks the theme, and help renders rarely.
func RenderHelp(th *styles.Theme, width int) string {
	contentWidth := width - 8
	if contentWidth > 72 {
		contentWidth = 72
	}
	if contentWidth < 40 {
		contentWidth = 40
	}

	markdown := HelpMarkdown()
	body := markdown

	styleName := "light"
	if th.IsDark {
		styleName = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styleName),
		glamour.WithWordWrap(contentWidth),
	)
	if err != nil {
		log.Printf("HELP_RENDER_FAILED | stage=init error=%v", err)
	} else if rendered, rerr := renderer.Render(markdown); rerr != nil {
		log.Printf("HELP_RENDER_FAILED | stage=render error=%v", rerr)
	} else {
		body = rendered
	}

	title := th.HelpTitle.Render("Help")
	return th.HelpBox.
		MaxWidth(contentWidth + 6).
		Render(title + "\n" + strings.TrimRight(body, "\n"))
}
