// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/util"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdPredict
	CmdHistory
	CmdSymbols
	CmdChart
	CmdDemo
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Backend string // Backend base URL override (--backend)
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format

	// Command-specific
	Query      string // ask query, or the unrecognized token for CmdUnknown
	Symbol     string // TUI start symbol when the first arg is a known ticker
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after global flag parsing); subcommand-heavy
	// handlers re-parse these with ArgParser
	Raw []string
}

const usageText = `stockdeck - terminal dashboard for the stock prediction service

Stockdeck talks to the Stocks-Price-Prediction backend: it runs multi-model
forecasts, charts price history, keeps a local prediction log, and chats
with the assistant, from a full-screen dashboard or one-shot commands.

Usage:
  stockdeck                   Start the TUI dashboard (default)
  stockdeck SYMBOL            Start the TUI with SYMBOL selected
  stockdeck ask "question"    Ask the assistant a single question
  stockdeck chat              Interactive chat with input history
  stockdeck predict SYMBOL    Run a multi-model prediction
  stockdeck history           Show recent prediction requests
  stockdeck symbols           List supported stock symbols
  stockdeck chart SYMBOL      Render a price chart to PNG or SVG
  stockdeck demo              Run the embedded demo backend
  stockdeck status, s         Backend and local state health check
  stockdeck config [subcmd]   Configuration management
  stockdeck version           Show version information
  stockdeck help              Show this help

Predict Command:
  stockdeck predict AAPL            Forecast with all four models
    --days N                        Forecast horizon, 1-30 (default: 30)
    --json                          Machine-readable output

History Command:
  stockdeck history                 Recent predictions from the backend
    --limit N                       Show last N entries (default: 10)
    --local                         Read the local log instead of the backend
    --csv FILE                      Also write the entries to FILE as CSV
    --json                          Machine-readable output

Chart Command:
  stockdeck chart TSLA              Render TSLA close prices
    --days N                        History span in days (default: 90)
    --format png|svg                Image format (default from config)
    --kind line|bar                 Chart kind (default: line)
    -o, --output FILE               Output path (default: export dir)

Demo Command:
  stockdeck demo                    Serve the demo backend on port 5000
    --port N                        Listen port override

Config Commands:
  stockdeck config show             Display current configuration (default)
  stockdeck config get KEY          Print one value (e.g. ui.theme)
  stockdeck config set KEY VALUE    Set and save a value
  stockdeck config path             Show configuration file location
  stockdeck config reset --confirm  Reset to default configuration

  Keys use dot notation: api.base_url, api.demo_mode, ui.theme,
  chart.format, export.output_dir, history.enabled, server.port

Global Flags:
  --backend URL   Backend base URL for this invocation
  --json          Output in JSON format (colorized on TTYs)
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  stockdeck                              Dashboard against the configured backend
  stockdeck TSLA                         Dashboard with TSLA selected
  stockdeck ask "What is LSTM?"          One question, markdown answer
  stockdeck predict NVDA --days 14       Two-week forecast
  stockdeck predict AAPL --json | jq .   Pipe-friendly forecast
  stockdeck history --csv preds.csv      Export the request log
  stockdeck chart MSFT --format svg -o msft.svg
  stockdeck demo --port 8080             Local backend for development
  stockdeck --backend http://10.0.0.5:5000 status
  stockdeck config set ui.theme dark     Persist the dark theme

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("stockdeck version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args style arguments and returns the command and args.
func Parse(argv []string) (Command, Args) {
	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(argv)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui", "dashboard":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "predict", "forecast":
		// Detailed parsing is done in HandlePredict
		return CmdPredict, parsedArgs

	case "history", "hist":
		// Detailed parsing is done in HandleHistory
		return CmdHistory, parsedArgs

	case "symbols", "tickers":
		return CmdSymbols, parsedArgs

	case "chart", "plot":
		// Detailed parsing is done in HandleChart
		return CmdChart, parsedArgs

	case "demo", "serve":
		// Detailed parsing is done in HandleDemo
		return CmdDemo, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// A known ticker as the first argument opens the dashboard with
		// that symbol selected. Anything else is a usage error.
		sym := util.NormalizeSymbol(cmd)
		if market.IsKnownSymbol(sym) {
			parsedArgs.Symbol = sym
			return CmdTUI, parsedArgs
		}
		parsedArgs.Query = cmd
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--backend":
			if i+1 < len(args) {
				i++
				parsedArgs.Backend = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--backend=") {
				parsedArgs.Backend = strings.TrimPrefix(arg, "--backend=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			query = append(query, arg)
		}
	}
	args.Query = strings.Join(query, " ")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	var positional []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
		}
	}
	if len(positional) > 0 {
		args.Subcommand = positional[0]
	}
	if len(positional) > 1 {
		args.ConfigKey = positional[1]
	}
	if len(positional) > 2 {
		args.ConfigVal = strings.Join(positional[2:], " ")
	}
}

// =============================================================================
// VERSION AND HELP HANDLERS
// =============================================================================

// HandleVersion handles the "version" command.
func HandleVersion(args Args) error {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		return NewJSONResponse("version", data).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
