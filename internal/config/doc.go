// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// stockdeck.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Prediction backend connection settings
//   - UIConfig: Theme and layout settings
//   - ChartConfig: Chart rendering and export settings
//   - HistoryConfig: Local prediction history settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (STOCKDECK_*)
//   - ~/.stockdeck/config.toml
//   - ~/.stockdeck/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	backend := cfg.API.BaseURL
//	theme := cfg.UI.Theme
//
// A Watcher can reload the UI when the config file changes on disk:
//
//	w, _ := config.StartWatcher(func() { config.ReloadGlobal() })
//	defer w.Close()
package config
