// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/stockdeck/internal/config"
	"github.com/jeranaias/stockdeck/internal/storage"
	"github.com/jeranaias/stockdeck/internal/util"
)

// HandleStatus reports backend reachability, configuration state, and the
// local prediction log in one view. Exits zero even when the backend is
// down; the command reports state rather than asserting it.
func HandleStatus(args Args) error {
	cfg := loadConfigOrDefault()
	status := collectStatus(cfg, args.Backend)

	if args.JSON {
		return NewJSONResponse("status", status).Print()
	}

	printStatus(status)
	return nil
}

// collectStatus probes the backend and inspects local state.
func collectStatus(cfg *config.Config, backendOverride string) StatusData {
	client := newAPIClient(cfg, backendOverride)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	backend := BackendStatusInfo{URL: client.BaseURL()}
	start := time.Now()
	if err := client.CheckRunning(ctx); err != nil {
		backend.Error = err.Error()
	} else {
		backend.Reachable = true
		backend.LatencyMs = time.Since(start).Milliseconds()
	}

	configInfo := ConfigStatusInfo{
		Theme:    cfg.UI.Theme,
		DemoMode: cfg.API.DemoMode,
	}
	if path, err := config.ConfigPathTOML(); err == nil {
		configInfo.Path = path
		if _, err := os.Stat(path); err == nil {
			configInfo.Exists = true
		}
	}

	history := HistoryStatusInfo{Enabled: cfg.History.Enabled}
	if path, err := resolveHistoryPath(cfg); err == nil {
		history.Path = path
		if _, err := os.Stat(path); err == nil {
			if store, err := storage.NewHistoryStore(path, cfg.History.MaxEntries); err == nil {
				if count, err := store.Count(); err == nil {
					history.Entries = count
				}
				store.Close()
			}
		}
	}

	return StatusData{Backend: backend, Config: configInfo, History: history}
}

// printStatus renders the status sections for humans.
func printStatus(status StatusData) {
	fmt.Println(TitleStyle.Render("stockdeck status"))

	fmt.Println(SectionStyle.Render("Backend"))
	state := "down"
	if status.Backend.Reachable {
		state = "up"
	}
	fmt.Printf("  %s %s %s\n", RenderLabel("State"), RenderStatus(state),
		DimStyle.Render(status.Backend.URL))
	if status.Backend.Reachable {
		fmt.Printf("  %s %s\n", RenderLabel("Latency"),
			ValueStyle.Render(fmt.Sprintf("%dms", status.Backend.LatencyMs)))
	} else if status.Backend.Error != "" {
		fmt.Printf("  %s %s\n", RenderLabel("Error"), ErrorStyle.Render(status.Backend.Error))
		fmt.Printf("  %s %s\n", RenderLabel("Hint"),
			DimStyle.Render("run 'stockdeck demo' for a local backend"))
	}

	fmt.Println(SectionStyle.Render("Configuration"))
	configState := "defaults"
	if status.Config.Exists {
		configState = status.Config.Path
	}
	fmt.Printf("  %s %s\n", RenderLabel("File"), ValueStyle.Render(configState))
	fmt.Printf("  %s %s\n", RenderLabel("Theme"), ValueStyle.Render(status.Config.Theme))
	demoState := "off"
	if status.Config.DemoMode {
		demoState = "on"
	}
	fmt.Printf("  %s %s\n", RenderLabel("Demo mode"), ValueStyle.Render(demoState))

	fmt.Println(SectionStyle.Render("Prediction log"))
	logState := "disabled"
	if status.History.Enabled {
		logState = "enabled"
	}
	fmt.Printf("  %s %s\n", RenderLabel("Recording"), ValueStyle.Render(logState))
	if status.History.Path != "" {
		fmt.Printf("  %s %s\n", RenderLabel("Path"), DimStyle.Render(status.History.Path))
	}
	fmt.Printf("  %s %s\n", RenderLabel("Entries"), ValueStyle.Render(util.IntToString(status.History.Entries)))
}
