// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/stockdeck/internal/model"
)

// =============================================================================
// JSON RESPONSE ENVELOPE
// =============================================================================

// JSONResponse is the standardized response format for all CLI commands, so
// scripted callers can switch on one shape regardless of the command.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout, syntax-colored when stdout is
// a terminal. Human-readable messages should go to stderr in JSON mode.
func (r *JSONResponse) Print() error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	if IsStdoutTTY() && ColorsEnabled() {
		fmt.Println(ColorizeJSON(string(data)))
		return nil
	}

	fmt.Println(string(data))
	return nil
}

// String returns the JSON response as an uncolored string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// OutputJSON runs handler and prints its data in the JSON envelope when
// jsonMode is set. Otherwise it runs the handler for its side effects only.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	data, err := handler()
	if !jsonMode {
		return err
	}

	if err != nil {
		NewJSONErrorResponse(command, err).Print()
		return err
	}

	return NewJSONResponse(command, data).Print()
}

// =============================================================================
// JSON SYNTAX COLORING (chroma)
// =============================================================================

// ColorizeJSON applies terminal syntax highlighting to a JSON document.
// Returns the input unchanged when any stage of the pipeline fails.
func ColorizeJSON(doc string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return doc
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, doc)
	if err != nil {
		return doc
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return doc
	}

	return strings.TrimRight(buf.String(), "\n")
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// AskData represents the data returned by the ask command.
type AskData struct {
	Question   string `json:"question"`
	Response   string `json:"response"`
	DurationMs int64  `json:"duration_ms"`
}

// PredictData represents the data returned by the predict command: the
// backend's forecast payload plus a computed summary.
type PredictData struct {
	*model.PredictionResult
	BestModel  string `json:"best_model,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// HistoryEntryData is one logged prediction request, in the wire's field
// names regardless of whether it came from the backend or the local log.
type HistoryEntryData struct {
	ID          int64  `json:"id"`
	StockSymbol string `json:"stock_symbol"`
	Days        int    `json:"days"`
	CreatedAt   string `json:"created_at"`
}

// HistoryData represents the data returned by the history command.
type HistoryData struct {
	Source  string             `json:"source"` // "backend" or "local"
	Count   int                `json:"count"`
	Entries []HistoryEntryData `json:"entries"`
	CSVPath string             `json:"csv_path,omitempty"`
}

// SymbolInfo pairs a ticker with its company name.
type SymbolInfo struct {
	Symbol  string `json:"symbol"`
	Company string `json:"company,omitempty"`
}

// SymbolsData represents the data returned by the symbols command.
type SymbolsData struct {
	Source  string       `json:"source"` // "backend" or "builtin"
	Count   int          `json:"count"`
	Symbols []SymbolInfo `json:"symbols"`
}

// ChartExportData represents the data returned by the chart command.
type ChartExportData struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
	Kind   string `json:"kind"`
	Format string `json:"format"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
}

// BackendStatusInfo describes backend reachability for the status command.
type BackendStatusInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ConfigStatusInfo describes the configuration state for the status command.
type ConfigStatusInfo struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Theme    string `json:"theme"`
	DemoMode bool   `json:"demo_mode"`
}

// HistoryStatusInfo describes the local prediction log for the status
// command.
type HistoryStatusInfo struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
	Entries int    `json:"entries"`
}

// StatusData represents the data returned by the status command.
type StatusData struct {
	Backend BackendStatusInfo `json:"backend"`
	Config  ConfigStatusInfo  `json:"config"`
	History HistoryStatusInfo `json:"history"`
}
