// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/config"
	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/session"
	"github.com/jeranaias/stockdeck/internal/storage"
	"github.com/jeranaias/stockdeck/internal/util"
)

// chatHistoryFile is the readline history file under the config directory.
const chatHistoryFile = "chat_history"

// chatPrompt is the REPL prompt.
const chatPrompt = "stockdeck> "

// =============================================================================
// CHAT REPL
// =============================================================================

// ChatREPL is the interactive chat loop. It wraps a line editor with
// persistent readline history, keeps the conversation in a transcript, and
// answers locally when the backend is unreachable. Conversations can be
// saved to disk and resumed in a later session.
type ChatREPL struct {
	client     *api.Client
	transcript *model.Transcript
	session    *session.Manager
	line       *liner.State
	store      *storage.TranscriptStore
	histPath   string
	quiet      bool

	// persisted is set once the conversation has a home on disk; only
	// then do new messages mark the session dirty for auto-save.
	persisted bool
}

// HandleChatCommand starts an interactive chat session with the backend
// chatbot. Requires a terminal; scripted callers should use ask instead.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("interactive chat"); err != nil {
		return err
	}

	cfg := loadConfigOrDefault()
	repl := newChatREPL(cfg, args)
	defer repl.Close()

	return repl.Run()
}

// newChatREPL builds the REPL and loads persisted readline history.
func newChatREPL(cfg *config.Config, args Args) *ChatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	repl := &ChatREPL{
		client:     newAPIClient(cfg, args.Backend),
		transcript: model.NewTranscript(),
		session:    session.NewManager(session.DefaultConfig()),
		line:       line,
		quiet:      args.Quiet,
	}
	repl.session.SetAutoSaveCallback(repl.autoSave)

	if dir, err := config.ConfigDir(); err == nil {
		repl.histPath = filepath.Join(dir, chatHistoryFile)
		repl.loadHistory()
	}

	return repl
}

// Close persists readline history and releases the terminal.
func (r *ChatREPL) Close() {
	r.saveHistory()
	r.line.Close()
}

// Run executes the read-eval-print loop until the user exits.
func (r *ChatREPL) Run() error {
	r.printWelcome()

	for {
		input, err := r.line.Prompt(chatPrompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.handleSlashCommand(input); quit {
				break
			}
			continue
		}

		lowered := strings.ToLower(input)
		if lowered == "exit" || lowered == "quit" {
			break
		}

		r.send(input)
		r.session.Check()
	}

	r.printSummary()
	return nil
}

// send submits a message to the backend and prints the reply. When the
// backend is down the built-in responder answers so the session keeps
// working offline.
func (r *ChatREPL) send(text string) {
	r.transcript.AddUserMessage(text)
	r.session.RecordChat()
	r.markUnsaved()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply, err := r.client.Chat(ctx, text)
	if err != nil {
		if api.IsBackendDown(err) || api.IsTransportError(err) {
			reply = market.Respond(text)
			r.transcript.AddBotMessage(reply)
			displayResponse(reply)
			fmt.Println(DimStyle.Render("(backend unreachable, answered locally)"))
			return
		}
		r.transcript.AddErrorMessage(err.Error())
		fmt.Println(ErrorStyle.Render("[ERROR]") + " " + err.Error())
		return
	}

	r.transcript.AddBotMessage(reply)
	displayResponse(reply)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches a /command. Returns true when the session
// should end.
func (r *ChatREPL) handleSlashCommand(input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/help", "/h":
		r.printHelp()
	case "/clear":
		r.transcript.Clear()
		fmt.Println(DimStyle.Render("Conversation cleared."))
	case "/tips":
		r.printTips()
	case "/faq":
		r.printFAQs()
	case "/history":
		r.printTranscript()
	case "/save", "/s":
		r.saveTranscript(fields[1:])
	case "/load", "/l":
		r.loadTranscript(fields[1:])
	case "/chats", "/list":
		r.listTranscripts()
	case "/status":
		r.printStatus()
	case "/quit", "/exit", "/q":
		return true
	default:
		fmt.Println(WarningStyle.Render(fmt.Sprintf("Unknown command: %s (try /help)", cmd)))
	}
	return false
}

func (r *ChatREPL) printHelp() {
	fmt.Println(SectionStyle.Render("Chat Commands"))
	commands := [][2]string{
		{"/help", "Show this help"},
		{"/tips", "Show quick tips about using the predictor"},
		{"/faq", "Show frequently asked questions"},
		{"/history", "Show this session's conversation"},
		{"/save [title]", "Save this conversation to disk"},
		{"/chats", "List saved conversations"},
		{"/load <n|id>", "Resume a saved conversation"},
		{"/status", "Show session and backend status"},
		{"/clear", "Clear the conversation"},
		{"/quit", "Exit chat (also: exit, quit, Ctrl+D)"},
	}
	for _, c := range commands {
		fmt.Printf("  %s %s\n", RenderLabel(c[0], 14), ValueStyle.Render(c[1]))
	}
}

// printTips fetches tips from the backend, falling back to the built-in set
// when it is unreachable.
func (r *ChatREPL) printTips() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tips, err := r.client.Tips(ctx)
	if err != nil {
		tips = market.QuickTips()
	}

	fmt.Println(SectionStyle.Render("Quick Tips"))
	for _, tip := range tips {
		fmt.Println("  " + ValueStyle.Render("* "+tip))
	}
}

func (r *ChatREPL) printFAQs() {
	fmt.Println(SectionStyle.Render("Frequently Asked Questions"))
	for _, faq := range market.FAQs() {
		fmt.Println(HighlightStyle.Render("Q: " + faq.Question))
		fmt.Println(WrapText("A: "+faq.Answer, 0))
		fmt.Println()
	}
}

func (r *ChatREPL) printTranscript() {
	if r.transcript.IsEmpty() {
		fmt.Println(DimStyle.Render("No messages yet."))
		return
	}
	fmt.Println(SectionStyle.Render(r.transcript.GetTitle()))
	for _, msg := range r.transcript.GetHistory() {
		label := string(msg.Role)
		fmt.Printf("%s %s\n", RenderLabel(label, 10), msg.Content)
	}
}

func (r *ChatREPL) printStatus() {
	status := r.session.GetStatus()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	backendState := "up"
	if err := r.client.CheckRunning(ctx); err != nil {
		backendState = "down"
	}

	fmt.Println(SectionStyle.Render("Session Status"))
	fmt.Printf("  %s %s\n", RenderLabel("Backend"), RenderStatus(backendState)+" "+DimStyle.Render(r.client.BaseURL()))
	fmt.Printf("  %s %s\n", RenderLabel("Duration"), ValueStyle.Render(session.FormatDuration(status.Duration)))
	fmt.Printf("  %s %s\n", RenderLabel("Messages sent"), ValueStyle.Render(util.IntToString(status.ChatsSent)))
}

// =============================================================================
// SAVED CHATS
// =============================================================================

// transcriptStore opens the saved-chat store on first use, so the
// transcripts directory is only created when the user saves or lists chats.
func (r *ChatREPL) transcriptStore() (*storage.TranscriptStore, error) {
	if r.store == nil {
		store, err := storage.NewTranscriptStore()
		if err != nil {
			return nil, err
		}
		r.store = store
	}
	return r.store, nil
}

// saveTranscript persists the current conversation, titling it from the
// arguments when any are given. Re-saving a loaded chat updates it in place.
func (r *ChatREPL) saveTranscript(args []string) {
	if r.transcript.IsEmpty() {
		fmt.Println(DimStyle.Render("Nothing to save yet."))
		return
	}

	store, err := r.transcriptStore()
	if err != nil {
		fmt.Println(ErrorStyle.Render("[ERROR]") + " " + err.Error())
		return
	}

	if len(args) > 0 {
		r.transcript.SetTitle(strings.Join(args, " "))
	}

	id, err := store.Save(r.transcript)
	if err != nil {
		fmt.Println(ErrorStyle.Render("[ERROR]") + " " + err.Error())
		return
	}

	r.persisted = true
	r.session.MarkClean()
	fmt.Println(DimStyle.Render(fmt.Sprintf("Saved %q as %s (%d message(s)).",
		r.transcript.GetTitle(), id, r.transcript.MessageCount())))
}

// loadTranscript replaces the current conversation with a saved one,
// addressed by list position or by ID.
func (r *ChatREPL) loadTranscript(args []string) {
	if len(args) == 0 {
		fmt.Println(WarningStyle.Render("Usage: /load <number|id> (see /chats)"))
		return
	}

	store, err := r.transcriptStore()
	if err != nil {
		fmt.Println(ErrorStyle.Render("[ERROR]") + " " + err.Error())
		return
	}

	tr, err := resolveTranscript(store, args[0])
	if err != nil {
		fmt.Println(WarningStyle.Render(err.Error()))
		return
	}

	r.transcript = tr
	r.persisted = true
	r.session.MarkClean()
	fmt.Println(DimStyle.Render(fmt.Sprintf("Loaded %q, %d message(s). /history shows them.",
		tr.GetTitle(), tr.MessageCount())))
}

// markUnsaved flags a previously saved conversation for re-save once new
// messages arrive. Conversations the user never saved stay out of
// auto-save's reach.
func (r *ChatREPL) markUnsaved() {
	if r.persisted {
		r.session.MarkDirty()
	}
}

// autoSave re-saves a previously saved conversation in place.
func (r *ChatREPL) autoSave() error {
	if r.store == nil || !r.persisted || r.transcript.IsEmpty() {
		return nil
	}
	_, err := r.store.Save(r.transcript)
	return err
}

// listTranscripts prints saved chats, most recently updated first.
func (r *ChatREPL) listTranscripts() {
	store, err := r.transcriptStore()
	if err != nil {
		fmt.Println(ErrorStyle.Render("[ERROR]") + " " + err.Error())
		return
	}

	metas, err := store.List()
	if err != nil {
		fmt.Println(ErrorStyle.Render("[ERROR]") + " " + err.Error())
		return
	}

	fmt.Println(strings.TrimRight(storage.FormatTranscriptList(metas), "\n"))
}

// resolveTranscript treats a numeric argument as a 1-based position in the
// chat listing and anything else as a transcript ID.
func resolveTranscript(store *storage.TranscriptStore, idOrIndex string) (*model.Transcript, error) {
	if idx, err := strconv.Atoi(idOrIndex); err == nil {
		tr, err := store.LoadByIndex(idx - 1)
		if err != nil {
			return nil, fmt.Errorf("chat #%d not found", idx)
		}
		return tr, nil
	}

	tr, err := store.Load(idOrIndex)
	if err != nil {
		return nil, fmt.Errorf("chat %q not found", idOrIndex)
	}
	return tr, nil
}

// =============================================================================
// WELCOME / SUMMARY / HISTORY PERSISTENCE
// =============================================================================

func (r *ChatREPL) printWelcome() {
	if r.quiet {
		return
	}
	fmt.Println(TitleStyle.Render("stockdeck chat"))
	fmt.Printf("%s %s\n", RenderLabel("Backend"), DimStyle.Render(r.client.BaseURL()))
	fmt.Println(DimStyle.Render("Ask about symbols, forecasts, or model accuracy. Type /help for commands, /quit to exit."))
	fmt.Println()
}

func (r *ChatREPL) printSummary() {
	if r.quiet {
		return
	}
	status := r.session.GetStatus()
	fmt.Println(DimStyle.Render(fmt.Sprintf("Session ended after %s, %d message(s) sent.",
		session.FormatDuration(status.Duration), status.ChatsSent)))
}

// loadHistory restores readline history from the config directory.
func (r *ChatREPL) loadHistory() {
	if r.histPath == "" {
		return
	}
	f, err := os.Open(r.histPath)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.ReadHistory(f)
}

// saveHistory persists readline history with user-only permissions.
func (r *ChatREPL) saveHistory() {
	if r.histPath == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.histPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}
