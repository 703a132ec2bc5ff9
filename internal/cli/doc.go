// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the stockdeck command line: argument parsing, the
command handlers behind every non-TUI invocation, and the shared output
plumbing (styles, JSON envelope, exit codes) they print through.

The surface mirrors the binary's help text:

	stockdeck                  TUI dashboard (default)
	stockdeck ask "question"   one-shot chat query, markdown-rendered
	stockdeck chat             interactive REPL with input history
	stockdeck predict SYMBOL   run a prediction (--days, --json)
	stockdeck history          recent predictions (--limit, --local, --csv)
	stockdeck symbols          list supported symbols
	stockdeck chart SYMBOL     render a chart image (--format, -o)
	stockdeck demo             run the embedded demo backend
	stockdeck status           backend health check
	stockdeck config           show | get KEY | set KEY VALUE | path | reset
	stockdeck version | help

# Key Types

Parse turns os.Args into a (Command, Args) pair; main dispatches on the
Command and calls the matching Handle* function. Every handler returns an
error and never exits itself, so main owns process termination through
GetExitCode.

ArgParser is the shared flag/positional scanner used by the per-command
parse helpers. JSONResponse is the envelope every --json command prints;
on a TTY its output is syntax-colored with chroma.

# Output Conventions

Human-readable text goes to stdout styled with lipgloss; colors shut off
automatically for pipes and under NO_COLOR. Progress and diagnostics go
to stderr so --json output stays machine-parseable.
*/
package cli
