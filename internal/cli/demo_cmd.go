// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/stockdeck/internal/server"
)

// demoShutdownTimeout bounds how long in-flight requests may run after
// Ctrl+C before the server exits anyway.
const demoShutdownTimeout = 10 * time.Second

// HandleDemoCommand runs the embedded demo server in the foreground until
// interrupted. It serves the same endpoints as the real backend from
// generated data, so the dashboard and every other command work without a
// Python deployment.
func HandleDemoCommand(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := loadConfigOrDefault()

	port := parser.FlagIntOrDefault("port", cfg.Server.Port)
	if port <= 0 || port > 65535 {
		return ErrInvalidValue("port", parser.Flag("port"), "must be between 1 and 65535",
			"stockdeck demo --port 5000")
	}

	store, err := openHistoryStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: prediction log unavailable, continuing without: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	srv := server.NewServer(port).
		WithRateLimit(cfg.Server.RateLimitPerMin).
		WithLogger(logger)
	if store != nil {
		srv = srv.WithHistory(store)
	}

	if !args.Quiet {
		printDemoBanner(port, store != nil)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		// Start returned before any signal: bind failure or serve error.
		return err
	case sig := <-sigCh:
		fmt.Fprintf(os.Stderr, "\nReceived %s, shutting down...\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), demoShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}

// printDemoBanner lists the listening address and served endpoints.
func printDemoBanner(port int, recording bool) {
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	fmt.Println(TitleStyle.Render("stockdeck demo server"))
	fmt.Printf("%s %s\n", RenderLabel("Address"), HighlightStyle.Render(baseURL))

	historyNote := "disabled"
	if recording {
		historyNote = "enabled"
	}
	fmt.Printf("%s %s\n", RenderLabel("Prediction log"), ValueStyle.Render(historyNote))

	fmt.Println()
	fmt.Println(SectionStyle.Render("Endpoints"))
	endpoints := [][2]string{
		{"POST /chat", "Keyword assistant"},
		{"GET  /chat-tips", "Quick tips"},
		{"GET  /api/stock-symbols", "Symbol catalog"},
		{"POST /prediction", "Multi-model forecast"},
		{"GET  /api/prediction-history", "Recent forecast requests"},
		{"GET  /export-csv/{symbol}", "Price history as CSV"},
		{"GET  /health", "Liveness probe"},
		{"GET  /stats", "Request counters"},
	}
	for _, ep := range endpoints {
		fmt.Printf("  %s %s\n", RenderLabel(ep[0], 30), DimStyle.Render(ep[1]))
	}

	fmt.Println()
	fmt.Println(DimStyle.Render("Press Ctrl+C to stop."))
}
