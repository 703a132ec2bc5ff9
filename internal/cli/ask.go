// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/stockdeck/internal/api"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is initialized once at startup. A nil renderer means
// glamour setup failed and responses fall back to wrapped plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		markdownRenderer = renderer
	}
}

// displayResponse renders a chatbot reply to stdout. Markdown styling only
// applies on a terminal; piped output stays plain so it can be processed.
func displayResponse(response string) {
	if markdownRenderer != nil && IsStdoutTTY() {
		rendered, err := markdownRenderer.Render(response)
		if err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Println(WrapText(response, 0))
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAskCommand sends a single question to the backend chatbot and prints
// the reply. Unlike chat, ask holds no session state and exits immediately,
// which makes it suitable for scripting.
func HandleAskCommand(args Args) error {
	question := args.Query
	if question == "" {
		return ErrMissingArgument("question", `stockdeck ask "how accurate are the forecasts?"`)
	}

	cfg := loadConfigOrDefault()
	client := newAPIClient(cfg, args.Backend)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.API.TimeoutSecs)*time.Second)
	defer cancel()

	start := time.Now()
	reply, err := client.Chat(ctx, question)
	elapsed := time.Since(start)

	if args.JSON {
		return OutputJSON(true, "ask", func() (interface{}, error) {
			if err != nil {
				return nil, describeBackendError(err, client.BaseURL())
			}
			return AskData{
				Question:   question,
				Response:   reply,
				DurationMs: elapsed.Milliseconds(),
			}, nil
		})
	}

	if err != nil {
		return describeBackendError(err, client.BaseURL())
	}

	displayResponse(reply)
	if !args.Quiet && IsStdoutTTY() {
		fmt.Println(DimStyle.Render(fmt.Sprintf("(answered in %s)", formatDurationShort(elapsed))))
	}
	return nil
}

// describeBackendError attaches a recovery hint to connectivity failures so
// users are not left staring at a bare dial error.
func describeBackendError(err error, baseURL string) error {
	if api.IsBackendDown(err) || api.IsTransportError(err) {
		return fmt.Errorf("backend at %s is unreachable: %w\nStart one with 'stockdeck demo' or point elsewhere with --backend URL", baseURL, err)
	}
	return err
}
