// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/stockdeck/internal/config"
)

// HandleConfig dispatches the config subcommands: show (default), get,
// set, path, and reset.
func HandleConfig(args Args) error {
	switch strings.ToLower(args.Subcommand) {
	case "", "show", "list":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		return handleConfigPath(args)
	case "reset":
		return handleConfigReset(args)
	default:
		return ErrInvalidValue("subcommand", args.Subcommand, "must be show, get, set, path, or reset",
			"stockdeck config set ui.theme dark")
	}
}

// handleConfigShow prints every key grouped by section.
func handleConfigShow(args Args) error {
	cfg := loadConfigOrDefault()

	if args.JSON {
		values := make(map[string]interface{})
		for _, key := range config.GetAllKeys() {
			if v, err := cfg.Get(key); err == nil {
				values[key] = v
			}
		}
		return NewJSONResponse("config", values).Print()
	}

	fmt.Println(TitleStyle.Render("Configuration"))

	section := ""
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}

		keySection := ""
		if idx := strings.Index(key, "."); idx > 0 {
			keySection = key[:idx]
		}
		if keySection != section {
			section = keySection
			fmt.Println(SectionStyle.Render(strings.ToUpper(section[:1]) + section[1:]))
		}

		fmt.Printf("  %s %s\n", RenderLabel(key, 26), ValueStyle.Render(fmt.Sprintf("%v", value)))
	}

	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Println()
		if _, statErr := os.Stat(path); statErr == nil {
			fmt.Println(DimStyle.Render("File: " + path))
		} else {
			fmt.Println(DimStyle.Render("No config file yet; showing defaults. 'config set' creates " + path))
		}
	}
	return nil
}

// handleConfigGet prints one value by dot-notation key.
func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "stockdeck config get ui.theme")
	}

	cfg := loadConfigOrDefault()
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return ErrInvalidValue("key", args.ConfigKey, "unknown configuration key",
			"stockdeck config get ui.theme")
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"key":   args.ConfigKey,
			"value": value,
		}).Print()
	}

	fmt.Printf("%v\n", value)
	return nil
}

// handleConfigSet updates one value, validates the result, and saves.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "stockdeck config set ui.theme dark")
	}
	if args.ConfigVal == "" {
		return ErrMissingArgument("value", "stockdeck config set ui.theme dark")
	}

	cfg := loadConfigOrDefault()

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return ErrInvalidValue("key", args.ConfigKey, err.Error(),
			"stockdeck config set ui.theme dark")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid after change: %w", err)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if args.JSON {
		value, _ := cfg.Get(args.ConfigKey)
		return NewJSONResponse("config", map[string]interface{}{
			"key":   args.ConfigKey,
			"value": value,
		}).Print()
	}

	value, _ := cfg.Get(args.ConfigKey)
	fmt.Println(RenderSuccessLine(fmt.Sprintf("%s = %v", args.ConfigKey, value)))
	return nil
}

// handleConfigPath prints where the configuration file lives.
func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if args.JSON {
		_, statErr := os.Stat(path)
		return NewJSONResponse("config", map[string]interface{}{
			"path":   path,
			"exists": statErr == nil,
		}).Print()
	}

	fmt.Println(path)
	return nil
}

// handleConfigReset rewrites the configuration file with defaults.
// Requires --confirm since it discards every customization.
func handleConfigReset(args Args) error {
	parser := NewArgParser(args.Raw)
	if !parser.BoolFlag("confirm") {
		fmt.Println(WarningStyle.Render("This resets all configuration to defaults."))
		fmt.Println("Re-run with --confirm to proceed:")
		fmt.Println("  stockdeck config reset --confirm")
		return nil
	}

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save defaults: %w", err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{"reset": true}).Print()
	}

	fmt.Println(RenderSuccessLine("Configuration reset to defaults."))
	return nil
}
