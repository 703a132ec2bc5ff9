// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// stockdeck.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.stockdeck/config.toml
//   - ~/.stockdeck/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete stockdeck configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Backend API configuration
	API APIConfig `toml:"api" json:"api"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Chart rendering configuration
	Chart ChartConfig `toml:"chart" json:"chart"`

	// Export configuration
	Export ExportConfig `toml:"export" json:"export"`

	// Prediction history configuration
	History HistoryConfig `toml:"history" json:"history"`

	// Embedded demo server configuration
	Server ServerConfig `toml:"server" json:"server"`
}

// APIConfig contains prediction backend connection configuration.
type APIConfig struct {
	// BaseURL is the base URL of the prediction backend
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// DemoMode serves all requests from the embedded demo server instead
	// of the configured backend
	DemoMode bool `toml:"demo_mode" json:"demo_mode"`
	// RatePerSec caps outgoing requests per second (0 = unlimited)
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// RateBurst is the burst allowance for the request limiter
	RateBurst int `toml:"rate_burst" json:"rate_burst"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "light" or "dark"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowWelcomeTips fetches quick tips when the chat view opens
	ShowWelcomeTips bool `toml:"show_welcome_tips" json:"show_welcome_tips"`
}

// ChartConfig contains chart rendering configuration.
type ChartConfig struct {
	// Width is the exported chart width in pixels
	Width int `toml:"width" json:"width"`
	// Height is the exported chart height in pixels
	Height int `toml:"height" json:"height"`
	// Format is the export image format: "png" or "svg"
	Format string `toml:"format" json:"format"`
	// SeriesName is the label used for unnamed series
	SeriesName string `toml:"series_name" json:"series_name"`
}

// ExportConfig contains file export configuration.
type ExportConfig struct {
	// OutputDir is where exports are written (empty = ~/.stockdeck/exports)
	OutputDir string `toml:"output_dir" json:"output_dir"`
	// OpenAfterExport opens exported files with the system default app
	OpenAfterExport bool `toml:"open_after_export" json:"open_after_export"`
	// MinFreeSpaceMB aborts exports when free disk space drops below this
	MinFreeSpaceMB int64 `toml:"min_free_space_mb" json:"min_free_space_mb"`
}

// HistoryConfig contains local prediction history configuration.
type HistoryConfig struct {
	// Enabled controls whether prediction requests are recorded locally
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the history database file (empty = ~/.stockdeck/history.db)
	Path string `toml:"path" json:"path"`
	// MaxEntries caps the number of retained history records
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// ServerConfig contains embedded demo server configuration.
type ServerConfig struct {
	// Port is the TCP port the demo server listens on
	Port int `toml:"port" json:"port"`
	// RateLimitPerMin is the per-IP request limit per minute
	RateLimitPerMin int `toml:"rate_limit_per_min" json:"rate_limit_per_min"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "http://127.0.0.1:5000",
			TimeoutSecs: 10,
			DemoMode:    false,
			RatePerSec:  4,
			RateBurst:   8,
		},

		UI: UIConfig{
			Theme:           "light",
			CompactMode:     false,
			ShowWelcomeTips: true,
		},

		Chart: ChartConfig{
			Width:      1200,
			Height:     600,
			Format:     "png",
			SeriesName: "Data",
		},

		Export: ExportConfig{
			OutputDir:       "",
			OpenAfterExport: false,
			MinFreeSpaceMB:  50,
		},

		History: HistoryConfig{
			Enabled:    true,
			Path:       "",
			MaxEntries: 500,
		},

		Server: ServerConfig{
			Port:            5000,
			RateLimitPerMin: 120,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the stockdeck configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".stockdeck"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// No file found or load failed; use defaults with env overrides.
	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finishLoad applies env overrides, migration, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	// Determine file type and load accordingly
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	// General
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// API
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.RateBurst == 0 {
		cfg.API.RateBurst = defaults.API.RateBurst
	}

	// Chart
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = defaults.Chart.Width
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = defaults.Chart.Height
	}
	if cfg.Chart.Format == "" {
		cfg.Chart.Format = defaults.Chart.Format
	}
	if cfg.Chart.SeriesName == "" {
		cfg.Chart.SeriesName = defaults.Chart.SeriesName
	}

	// History
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = defaults.History.MaxEntries
	}

	// Server
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.RateLimitPerMin == 0 {
		cfg.Server.RateLimitPerMin = defaults.Server.RateLimitPerMin
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// Config files are created with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	// Write header comment
	fmt.Fprintln(file, "# stockdeck configuration file")
	fmt.Fprintln(file, "# Generated by stockdeck - edit with care")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# Documentation: https://github.com/jeranaias/stockdeck")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ToggleTheme flips the persisted UI theme between light and dark, writes
// the config file, and returns the name now in effect. Unrecognized stored
// values count as light, matching Load's defaulting. The in-memory global
// flips even when the write fails so the running session stays on what the
// user asked for.
func ToggleTheme() (string, error) {
	cfg := Global()

	next := "dark"
	if strings.EqualFold(strings.TrimSpace(cfg.UI.Theme), "dark") {
		next = "light"
	}
	cfg.UI.Theme = next

	return next, Save(cfg)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate backend URL
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
			})
		}
	}

	// Validate request timeout
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-300 seconds, got %d", c.API.TimeoutSecs),
		})
	}

	// Validate request rate limit
	if c.API.RatePerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.rate_per_sec",
			Message: "cannot be negative",
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"light": true, "dark": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: light, dark", c.UI.Theme),
		})
	}

	// Validate chart format
	validFormats := map[string]bool{"png": true, "svg": true}
	if !validFormats[strings.ToLower(c.Chart.Format)] {
		errs = append(errs, ValidationError{
			Field:   "chart.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: png, svg", c.Chart.Format),
		})
	}

	// Validate chart dimensions
	if c.Chart.Width < 100 || c.Chart.Width > 10000 {
		errs = append(errs, ValidationError{
			Field:   "chart.width",
			Message: fmt.Sprintf("must be 100-10000 pixels, got %d", c.Chart.Width),
		})
	}
	if c.Chart.Height < 100 || c.Chart.Height > 10000 {
		errs = append(errs, ValidationError{
			Field:   "chart.height",
			Message: fmt.Sprintf("must be 100-10000 pixels, got %d", c.Chart.Height),
		})
	}

	// Validate export free-space threshold
	if c.Export.MinFreeSpaceMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "export.min_free_space_mb",
			Message: "cannot be negative",
		})
	}

	// Validate history cap
	if c.History.MaxEntries < 0 || c.History.MaxEntries > 100000 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: fmt.Sprintf("must be 0-100000, got %d", c.History.MaxEntries),
		})
	}

	// Validate demo server port
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be 1-65535, got %d", c.Server.Port),
		})
	}

	// Validate demo server rate limit
	if c.Server.RateLimitPerMin < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_per_min",
			Message: fmt.Sprintf("must be positive, got %d", c.Server.RateLimitPerMin),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.RateBurst == 0 {
		c.API.RateBurst = defaults.API.RateBurst
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	if c.Chart.Width == 0 {
		c.Chart.Width = defaults.Chart.Width
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = defaults.Chart.Height
	}
	if c.Chart.Format == "" {
		c.Chart.Format = defaults.Chart.Format
	}
	if c.Chart.SeriesName == "" {
		c.Chart.SeriesName = defaults.Chart.SeriesName
	}

	if c.Export.MinFreeSpaceMB == 0 {
		c.Export.MinFreeSpaceMB = defaults.Export.MinFreeSpaceMB
	}

	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}

	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.RateLimitPerMin == 0 {
		c.Server.RateLimitPerMin = defaults.Server.RateLimitPerMin
	}
}

// Migrate handles migration from old configuration formats to new ones.
func (c *Config) Migrate() error {
	// Theme names are case-insensitive; anything unrecognized falls back
	// to the light theme rather than failing the load.
	switch strings.ToLower(c.UI.Theme) {
	case "light":
		c.UI.Theme = "light"
	case "dark":
		c.UI.Theme = "dark"
	case "":
		// SetDefaults fills this in
	default:
		c.UI.Theme = "light"
	}

	// Normalize chart format casing
	c.Chart.Format = strings.ToLower(c.Chart.Format)

	// Old configs wrote the backend URL with a trailing slash
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - STOCKDECK_API_URL: overrides api.base_url
//   - STOCKDECK_TIMEOUT_SECS: overrides api.timeout_secs
//   - STOCKDECK_DEMO: set to "1" or "true" to enable demo mode
//   - STOCKDECK_THEME: overrides ui.theme
//   - STOCKDECK_EXPORT_DIR: overrides export.output_dir
//   - STOCKDECK_HISTORY_PATH: overrides history.path
//   - STOCKDECK_PORT: overrides server.port
func (c *Config) ApplyEnvOverrides() {
	// STOCKDECK_API_URL
	if apiURL := os.Getenv("STOCKDECK_API_URL"); apiURL != "" {
		c.API.BaseURL = apiURL
	}

	// STOCKDECK_TIMEOUT_SECS
	if timeout := os.Getenv("STOCKDECK_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}

	// STOCKDECK_DEMO
	if demo := os.Getenv("STOCKDECK_DEMO"); demo != "" {
		c.API.DemoMode = demo == "1" || strings.ToLower(demo) == "true"
	}

	// STOCKDECK_THEME
	if theme := os.Getenv("STOCKDECK_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	// STOCKDECK_EXPORT_DIR
	if dir := os.Getenv("STOCKDECK_EXPORT_DIR"); dir != "" {
		c.Export.OutputDir = dir
	}

	// STOCKDECK_HISTORY_PATH
	if path := os.Getenv("STOCKDECK_HISTORY_PATH"); path != "" {
		c.History.Path = path
	}

	// STOCKDECK_PORT
	if port := os.Getenv("STOCKDECK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			c.Server.Port = p
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, return the value
		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, set the value
		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type
// conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"api.demo_mode",
		"api.rate_per_sec",
		"api.rate_burst",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_welcome_tips",
		"chart.width",
		"chart.height",
		"chart.format",
		"chart.series_name",
		"export.output_dir",
		"export.open_after_export",
		"export.min_free_space_mb",
		"history.enabled",
		"history.path",
		"history.max_entries",
		"server.port",
		"server.rate_limit_per_min",
	}
}

// Merge merges another config into this one, overwriting only non-zero
// values.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Version != "" {
		c.Version = other.Version
	}

	// API
	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}
	if other.API.TimeoutSecs != 0 {
		c.API.TimeoutSecs = other.API.TimeoutSecs
	}
	if other.API.DemoMode {
		c.API.DemoMode = true
	}
	if other.API.RatePerSec != 0 {
		c.API.RatePerSec = other.API.RatePerSec
	}
	if other.API.RateBurst != 0 {
		c.API.RateBurst = other.API.RateBurst
	}

	// UI
	if other.UI.Theme != "" {
		c.UI.Theme = other.UI.Theme
	}
	if other.UI.CompactMode {
		c.UI.CompactMode = true
	}
	if other.UI.ShowWelcomeTips {
		c.UI.ShowWelcomeTips = true
	}

	// Chart
	if other.Chart.Width != 0 {
		c.Chart.Width = other.Chart.Width
	}
	if other.Chart.Height != 0 {
		c.Chart.Height = other.Chart.Height
	}
	if other.Chart.Format != "" {
		c.Chart.Format = other.Chart.Format
	}
	if other.Chart.SeriesName != "" {
		c.Chart.SeriesName = other.Chart.SeriesName
	}

	// Export
	if other.Export.OutputDir != "" {
		c.Export.OutputDir = other.Export.OutputDir
	}
	if other.Export.OpenAfterExport {
		c.Export.OpenAfterExport = true
	}
	if other.Export.MinFreeSpaceMB != 0 {
		c.Export.MinFreeSpaceMB = other.Export.MinFreeSpaceMB
	}

	// History
	if other.History.Enabled {
		c.History.Enabled = true
	}
	if other.History.Path != "" {
		c.History.Path = other.History.Path
	}
	if other.History.MaxEntries != 0 {
		c.History.MaxEntries = other.History.MaxEntries
	}

	// Server
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.RateLimitPerMin != 0 {
		c.Server.RateLimitPerMin = other.Server.RateLimitPerMin
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// stockdeck stores no credentials, so the full config is safe to print.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	// Use sync.Once to ensure initialization happens exactly once
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
