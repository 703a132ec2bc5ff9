// stockdeck - a terminal dashboard for the stock prediction service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/chart"
	"github.com/jeranaias/stockdeck/internal/cli"
	"github.com/jeranaias/stockdeck/internal/config"
	"github.com/jeranaias/stockdeck/internal/export"
	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/server"
	"github.com/jeranaias/stockdeck/internal/session"
	"github.com/jeranaias/stockdeck/internal/storage"
	uichat "github.com/jeranaias/stockdeck/internal/ui/chat"
	"github.com/jeranaias/stockdeck/internal/ui/components"
	"github.com/jeranaias/stockdeck/internal/ui/styles"
	"github.com/jeranaias/stockdeck/internal/util"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOn("ask", cli.HandleAskCommand(args), args)
	case cli.CmdChat:
		exitOn("chat", cli.HandleChatCommand(args), args)
	case cli.CmdPredict:
		exitOn("predict", cli.HandlePredictCommand(args), args)
	case cli.CmdHistory:
		exitOn("history", cli.HandleHistoryCommand(args), args)
	case cli.CmdSymbols:
		exitOn("symbols", cli.HandleSymbolsCommand(args), args)
	case cli.CmdChart:
		exitOn("chart", cli.HandleChartCommand(args), args)
	case cli.CmdDemo:
		exitOn("demo", cli.HandleDemoCommand(args), args)
	case cli.CmdStatus:
		exitOn("status", cli.HandleStatus(args), args)
	case cli.CmdConfig:
		exitOn("config", cli.HandleConfig(args), args)
	case cli.CmdVersion:
		exitOn("version", cli.HandleVersion(args), args)
	case cli.CmdHelp:
		cli.HandleHelp()
	case cli.CmdUnknown:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args.Query)
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	default:
		runTUI(args)
	}
}

// exitOn reports a handler failure and terminates with its exit code.
// Successful handlers fall through to a normal return.
func exitOn(command string, err error, args cli.Args) {
	if err == nil {
		return
	}
	cli.DisplayError(command, err, args.JSON)
	os.Exit(cli.GetExitCode(err))
}

// =============================================================================
// TUI BOOTSTRAP
// =============================================================================

// runTUI starts the dashboard.
func runTUI(args cli.Args) {
	cfg := config.Global()

	theme := styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	theme.Apply()

	baseURL := cfg.API.BaseURL
	if args.Backend != "" {
		baseURL = args.Backend
	}

	// The prediction log is shared between the dashboard and the embedded
	// demo server so both write the same file.
	store := openHistoryStore(cfg)
	if store != nil {
		defer store.Close()
	}

	// Demo mode serves the backend wire contract in-process. The --backend
	// flag wins so a real deployment can still be targeted.
	var demoSrv *server.Server
	if cfg.API.DemoMode && args.Backend == "" {
		demoSrv = startDemoServer(cfg, store)
		baseURL = fmt.Sprintf("http://127.0.0.1:%d", demoSrv.Port())
		defer stopDemoServer(demoSrv)
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:    baseURL,
		Timeout:    time.Duration(cfg.API.TimeoutSecs) * time.Second,
		RatePerSec: cfg.API.RatePerSec,
		RateBurst:  cfg.API.RateBurst,
	})

	app := NewApp(cfg, theme, client, store, args.Symbol)

	p := tea.NewProgram(app, tea.WithAltScreen())

	// Reload when another process rewrites the config file, e.g.
	// `stockdeck config set ui.theme dark` from a second terminal.
	watcher, err := config.StartWatcher(func() {
		p.Send(configChangedMsg{})
	})
	if err == nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running stockdeck: %v\n", err)
		os.Exit(1)
	}
}

// openHistoryStore opens the local prediction log, or returns nil when
// recording is disabled or the store cannot be opened. The dashboard keeps
// working without it.
func openHistoryStore(cfg *config.Config) *storage.HistoryStore {
	if !cfg.History.Enabled {
		return nil
	}
	path := cfg.History.Path
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, "history.db")
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil
	}
	store, err := storage.NewHistoryStore(path, cfg.History.MaxEntries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: prediction log unavailable: %v\n", err)
		return nil
	}
	return store
}

// startDemoServer launches the embedded backend in the background. Its
// request log is discarded; stderr would corrupt the alternate screen.
func startDemoServer(cfg *config.Config, store *storage.HistoryStore) *server.Server {
	srv := server.NewServer(cfg.Server.Port).
		WithRateLimit(cfg.Server.RateLimitPerMin).
		WithLogger(log.New(io.Discard, "", 0))
	if store != nil {
		srv = srv.WithHistory(store)
	}
	go func() {
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: demo server stopped: %v\n", err)
		}
	}()
	return srv
}

func stopDemoServer(srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// appState is the top-level screen.
type appState int

const (
	stateWelcome appState = iota
	stateDashboard
)

// panelFocus marks which dashboard panel receives navigation keys.
type panelFocus int

const (
	focusSymbols panelFocus = iota
	focusMarket
)

func (f panelFocus) next() panelFocus {
	if f == focusSymbols {
		return focusMarket
	}
	return focusSymbols
}

const (
	// dashboardHistoryDays is the price history span behind the market
	// panel sparkline.
	dashboardHistoryDays = 90

	// dashboardForecastDays matches the backend's default horizon.
	dashboardForecastDays = 30

	// symbolsPanelWidth is the fixed width of the symbol list. Narrower
	// terminals drop the panel entirely.
	symbolsPanelWidth = 24

	// backendCheckInterval spaces the periodic health probes.
	backendCheckInterval = 30 * time.Second
)

// App is the root dashboard model: a symbol list, a market panel with the
// price history and latest forecast, a chat assistant overlay, and a
// status bar. All state changes happen on the bubbletea update loop.
type App struct {
	state appState
	theme *styles.Theme
	cfg   *config.Config

	width  int
	height int

	client *api.Client
	store  *storage.HistoryStore

	chat    *uichat.Widget
	welcome *components.Welcome
	status  *components.StatusBar
	toasts  *components.ToastManager
	session *session.Manager

	symbols  []string
	selected int
	series   *model.Series
	result   *model.PredictionResult

	predictPending bool
	backendUp      bool
	focus          panelFocus
	showHelp       bool
}

// NewApp wires the dashboard. startSymbol preselects a ticker when the
// user launched with one on the command line.
func NewApp(cfg *config.Config, theme *styles.Theme, client *api.Client, store *storage.HistoryStore, startSymbol string) *App {
	symbols := market.SymbolList()

	selected := 0
	if startSymbol != "" {
		for i, sym := range symbols {
			if sym == startSymbol {
				selected = i
				break
			}
		}
	}

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(Version)
	welcome.SetBackendURL(client.BaseURL())
	welcome.SetSymbolCount(len(symbols))

	status := components.NewStatusBar(theme)
	status.SetBackend(client.BaseURL(), false)

	app := &App{
		state:   stateWelcome,
		theme:   theme,
		cfg:     cfg,
		client:  client,
		store:   store,
		chat:    uichat.New(client, theme),
		welcome: welcome,
		status:  status,
		toasts:  components.NewToastManager(),
		// The dashboard keeps its chat in memory and never marks the
		// session dirty; transcript auto-save belongs to the chat REPL.
		session:  session.NewManager(session.Config{AutoSaveEnabled: false}),
		symbols:  symbols,
		selected: selected,
	}
	app.loadSeries()
	return app
}

// loadSeries regenerates the price history for the selected symbol and
// refreshes the status bar quote.
func (a *App) loadSeries() {
	sym := a.currentSymbol()
	a.series = market.GenerateSeries(sym, dashboardHistoryDays)
	a.result = nil

	if last, ok := a.series.Last(); ok {
		a.status.SetQuote(sym, last.Close, a.series.ChangeFraction())
	}
}

func (a *App) currentSymbol() string {
	if len(a.symbols) == 0 {
		return ""
	}
	return a.symbols[a.selected]
}

// layout pushes the current dimensions into every component.
func (a *App) layout() {
	a.theme.SetSize(a.width, a.height)
	a.welcome.SetSize(a.width, a.height)
	a.status.SetWidth(a.width)

	// One header line and one status line frame the body.
	bodyHeight := a.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	a.chat.SetSize(a.mainPanelWidth(), bodyHeight)
}

// mainPanelWidth is the dashboard width left of the symbol list.
func (a *App) mainPanelWidth() int {
	if a.width < 60 {
		return a.width
	}
	return a.width - symbolsPanelWidth
}

// =============================================================================
// MESSAGES AND COMMANDS
// =============================================================================

// backendCheckMsg reports one health probe.
type backendCheckMsg struct {
	err error
}

// backendRecheckMsg schedules the next periodic probe.
type backendRecheckMsg struct{}

// predictDoneMsg reports one settled forecast request.
type predictDoneMsg struct {
	symbol string
	result *model.PredictionResult
	err    error
}

// exportDoneMsg reports one settled CSV export.
type exportDoneMsg struct {
	path string
	err  error
}

// chartSavedMsg reports one settled chart image export.
type chartSavedMsg struct {
	path string
	err  error
}

// themeToggledMsg reports a settled theme flip, persisted or not.
type themeToggledMsg struct {
	theme string
	err   error
}

// configChangedMsg arrives when the config file changed on disk.
type configChangedMsg struct{}

// checkBackendCmd probes the backend once.
func (a *App) checkBackendCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return backendCheckMsg{err: client.CheckRunning(ctx)}
	}
}

// scheduleRecheckCmd fires the next periodic health probe.
func scheduleRecheckCmd() tea.Cmd {
	return tea.Tick(backendCheckInterval, func(time.Time) tea.Msg {
		return backendRecheckMsg{}
	})
}

// predictCmd requests a forecast for the selected symbol. Successful
// requests are appended to the local log before the message re-enters the
// update loop.
func (a *App) predictCmd() tea.Cmd {
	client := a.client
	store := a.store
	symbol := a.currentSymbol()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		result, err := client.Predict(ctx, symbol, dashboardForecastDays)
		if err == nil && store != nil {
			store.Record(symbol, dashboardForecastDays)
		}
		return predictDoneMsg{symbol: symbol, result: result, err: err}
	}
}

// exportHistoryCmd writes the recent prediction log as CSV into the export
// directory.
func (a *App) exportHistoryCmd() tea.Cmd {
	store := a.store
	cfg := a.cfg

	return func() tea.Msg {
		if store == nil {
			return exportDoneMsg{err: fmt.Errorf("prediction log is disabled (history.enabled)")}
		}

		records, err := store.Recent(storage.DefaultRecentLimit)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		var buf bytes.Buffer
		if err := export.RecordsCSV(&buf, records); err != nil {
			return exportDoneMsg{err: err}
		}

		opts := export.DefaultOptions()
		opts.OutputDir = cfg.Export.OutputDir
		opts.OpenAfterExport = cfg.Export.OpenAfterExport
		opts.MinFreeSpaceMB = cfg.Export.MinFreeSpaceMB

		path, err := export.DownloadFile(buf.Bytes(), "history.csv", "text/csv", opts)
		return exportDoneMsg{path: path, err: err}
	}
}

// saveChartCmd renders the market panel's data to an image in the export
// directory: the forecast comparison when one is loaded, the price history
// otherwise. The data is captured before the command runs so a symbol
// change mid-render cannot mix charts.
func (a *App) saveChartCmd() tea.Cmd {
	cfg := a.cfg
	sym := a.currentSymbol()

	var data *model.ChartData
	if a.result != nil {
		data = &model.ChartData{
			Title:  fmt.Sprintf("%s %d-Day Forecast", sym, a.result.Days),
			XLabel: "Day",
			YLabel: "Price (USD)",
		}
		for _, id := range a.result.ModelIDs() {
			data.Series = append(data.Series, model.ChartSeries{
				Name:   model.PredictorDisplayName(id),
				Values: a.result.Predictions[id],
			})
		}
	} else {
		data = &model.ChartData{
			Title:  fmt.Sprintf("%s Closing Price", sym),
			XLabel: "Day",
			YLabel: "Price (USD)",
			Series: []model.ChartSeries{{Name: "Close", Values: a.series.Closes()}},
		}
	}

	return func() tea.Msg {
		format, err := chart.ParseFormat(cfg.Chart.Format)
		if err != nil {
			format = chart.DefaultFormat
		}

		exporter := export.NewImageExporter(chart.KindLine, format)
		exporter.Width = cfg.Chart.Width
		exporter.Height = cfg.Chart.Height

		opts := export.DefaultOptions()
		opts.OutputDir = cfg.Export.OutputDir
		opts.MinFreeSpaceMB = cfg.Export.MinFreeSpaceMB

		path, err := export.ExportToFile(strings.ToLower(sym)+"_chart", data, exporter, opts)
		return chartSavedMsg{path: path, err: err}
	}
}

// dismissToastCmd dismisses the newest visible toast; the banner's
// "[x] Dismiss" hint points here.
func (a *App) dismissToastCmd() tea.Cmd {
	toasts := a.toasts.GetToasts()
	if len(toasts) == 0 {
		return nil
	}
	id := toasts[0].ID
	return func() tea.Msg {
		return components.ToastDismissMsg{ID: id}
	}
}

// toggleThemeCmd flips and persists the theme preference off the update
// loop; the visual switch happens when the result message lands.
func toggleThemeCmd() tea.Cmd {
	return func() tea.Msg {
		name, err := config.ToggleTheme()
		return themeToggledMsg{theme: name, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Init starts the background loops: health probe, toast expiry, session
// ticks, and the chat widget's cursor blink.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.welcome.Init(),
		a.chat.Init(),
		a.checkBackendCmd(),
		components.ToastTickCmd(),
		session.TickCmd(),
	)
}

// Update routes messages. Keys go through handleKey; everything else that
// is not consumed here is forwarded to the chat widget, which ignores what
// it does not understand.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		a.session.RecordActivity()
		return a.handleKey(msg)

	case backendCheckMsg:
		a.backendUp = msg.err == nil
		a.status.SetBackend(a.client.BaseURL(), a.backendUp)
		if a.backendUp {
			a.refreshStatus()
		} else {
			a.status.SetStatus(components.StatusOffline)
		}
		return a, scheduleRecheckCmd()

	case backendRecheckMsg:
		return a, a.checkBackendCmd()

	case uichat.ReplyMsg:
		a.session.RecordChat()
		m, cmd := a.forwardToChat(msg)
		a.refreshStatus()
		return m, cmd

	case predictDoneMsg:
		return a.handlePredictDone(msg)

	case exportDoneMsg:
		return a.handleExportDone(msg)

	case chartSavedMsg:
		return a.handleChartSaved(msg)

	case components.ToastDismissMsg:
		a.toasts.RemoveToast(msg.ID)
		return a, nil

	case themeToggledMsg:
		if mode := styles.ParseMode(msg.theme); mode != a.theme.Mode {
			a.applyTheme(mode)
		}
		if msg.err != nil {
			a.toasts.ShowToast("Theme not saved: "+shortError(msg.err), components.ToastKindWarning)
		} else {
			a.toasts.ShowToast("Theme: "+msg.theme, components.ToastKindStatus)
		}
		return a, nil

	case configChangedMsg:
		return a.handleConfigChanged()

	case components.ToastTickMsg:
		a.toasts.TickToasts()
		return a, components.ToastTickCmd()

	case session.TickMsg:
		return a, a.session.HandleTick()
	}

	return a.forwardToChat(msg)
}

// forwardToChat hands a message to the chat widget.
func (a *App) forwardToChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

// handlePredictDone folds a settled forecast into the dashboard.
func (a *App) handlePredictDone(msg predictDoneMsg) (tea.Model, tea.Cmd) {
	a.predictPending = false
	a.refreshStatus()

	if msg.err != nil {
		a.toasts.ShowToast("Forecast failed: "+shortError(msg.err), components.ToastKindError)
		return a, nil
	}

	a.session.RecordPrediction()
	// Discard results for a symbol the user has already moved away from.
	if msg.symbol == a.currentSymbol() {
		a.result = msg.result
	}
	a.toasts.ShowToast(fmt.Sprintf("%d-day forecast ready for %s", msg.result.Days, msg.symbol), components.ToastKindSuccess)
	a.refreshStatus()
	return a, nil
}

// handleExportDone reports a settled CSV export.
func (a *App) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.toasts.ShowToast("Export failed: "+shortError(msg.err), components.ToastKindError)
		return a, nil
	}
	a.session.RecordExport()
	a.toasts.ShowToast("History exported to "+msg.path, components.ToastKindSuccess)
	return a, nil
}

// handleChartSaved reports a settled chart image export.
func (a *App) handleChartSaved(msg chartSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.toasts.ShowToast("Chart not saved: "+shortError(msg.err), components.ToastKindError)
		return a, nil
	}
	a.session.RecordRender()
	a.session.RecordExport()
	a.toasts.ShowToast("Chart saved to "+msg.path, components.ToastKindSuccess)
	return a, nil
}

// refreshStatus syncs the status bar with the session counters and the
// pending work indicator.
func (a *App) refreshStatus() {
	st := a.session.GetStatus()
	a.status.SetCounts(st.ChatsSent, st.Predictions)

	switch {
	case !a.backendUp:
		a.status.SetStatus(components.StatusOffline)
	case a.predictPending || a.chat.Pending() > 0:
		a.status.SetStatus(components.StatusSending)
	default:
		a.status.SetStatus(components.StatusReady)
	}
}

// handleKey routes keyboard input by screen and overlay.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.state == stateWelcome {
		if key == "q" {
			return a, tea.Quit
		}
		a.state = stateDashboard
		a.layout()
		return a, nil
	}

	if a.showHelp {
		switch key {
		case "?", "esc", "q", "enter":
			a.showHelp = false
		}
		return a, nil
	}

	// An open chat owns the keyboard; esc inside the widget closes it.
	if a.chat.IsOpen() {
		m, cmd := a.forwardToChat(msg)
		a.refreshStatus()
		return m, cmd
	}

	switch key {
	case "?":
		a.showHelp = true
		return a, nil

	case "enter":
		return a, a.chat.Toggle()

	case "tab":
		a.focus = a.focus.next()
		return a, nil

	case "s", "down", "j":
		if a.focus == focusSymbols || key == "s" {
			a.selectSymbol(a.selected + 1)
		}
		return a, nil

	case "S", "up", "k":
		if a.focus == focusSymbols || key == "S" {
			a.selectSymbol(a.selected - 1)
		}
		return a, nil

	case "p":
		if a.predictPending {
			return a, nil
		}
		a.predictPending = true
		a.refreshStatus()
		return a, a.predictCmd()

	case "ctrl+e":
		return a, a.exportHistoryCmd()

	case "ctrl+s":
		return a, a.saveChartCmd()

	case "ctrl+t":
		return a, toggleThemeCmd()

	case "x":
		return a, a.dismissToastCmd()
	}

	return a, nil
}

// selectSymbol moves the selection with wraparound and regenerates the
// panel data.
func (a *App) selectSymbol(index int) {
	if len(a.symbols) == 0 {
		return
	}
	a.selected = ((index % len(a.symbols)) + len(a.symbols)) % len(a.symbols)
	a.loadSeries()
}

// applyTheme rebuilds the theme for a mode and pushes it into every
// component.
func (a *App) applyTheme(mode styles.Mode) {
	a.theme = styles.NewTheme(mode)
	a.theme.Apply()
	a.theme.SetSize(a.width, a.height)

	a.welcome.SetTheme(a.theme)
	a.status.SetTheme(a.theme)
	a.chat.SetTheme(a.theme)
}

// handleConfigChanged re-reads the config file after an external edit. Only
// the theme takes effect mid-run; connection settings apply on restart.
func (a *App) handleConfigChanged() (tea.Model, tea.Cmd) {
	if err := config.ReloadGlobal(); err != nil {
		return a, nil
	}
	a.cfg = config.Global()

	if mode := styles.ParseMode(a.cfg.UI.Theme); mode != a.theme.Mode {
		a.applyTheme(mode)
		a.toasts.ShowToast("Config reloaded, theme: "+mode.String(), components.ToastKindStatus)
	}
	return a, nil
}

// shortError trims an error for toast display.
func shortError(err error) string {
	return util.TruncateRunes(err.Error(), 80)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the welcome screen or the dashboard frame: header, body
// (panels, chat, or help), optional toast strip, status bar.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}

	if a.state == stateWelcome {
		return a.welcome.View()
	}

	header := a.renderHeader()
	statusView := a.status.View()

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(statusView)

	// The chat widget keeps the full body height, so the strip only
	// renders when the panels (which resize per frame) are showing.
	toastStrip := ""
	if a.toasts.HasToasts() && !a.chat.IsOpen() {
		stack := components.RenderToastStack(a.theme, a.toasts.GetToasts(), a.width, 0)
		toastStrip = lipgloss.PlaceHorizontal(a.width, lipgloss.Right, stack)
		bodyHeight -= lipgloss.Height(toastStrip)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case a.showHelp:
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			components.RenderHelp(a.theme, a.width))
	default:
		body = a.renderDashboard(bodyHeight)
	}

	parts := []string{header, body}
	if toastStrip != "" {
		parts = append(parts, toastStrip)
	}
	parts = append(parts, statusView)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader draws the single-line title bar with the theme indicator.
func (a *App) renderHeader() string {
	sym := a.currentSymbol()
	left := a.theme.HeaderTitle.Render("stockdeck") +
		a.theme.HeaderSubtitle.Render("  "+sym+"  "+market.CompanyName(sym))
	badge := a.theme.ThemeBadge.Render(a.theme.Mode.Indicator())

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(badge) - 2
	if gap < 1 {
		// Narrow terminals drop the company name and the badge.
		return " " + a.theme.HeaderTitle.Render(util.TruncateWidth("stockdeck  "+sym, a.width-2))
	}
	return " " + left + strings.Repeat(" ", gap) + badge + " "
}

// renderDashboard draws the symbol list beside the market panel or open
// chat.
func (a *App) renderDashboard(height int) string {
	var right string
	if a.chat.IsOpen() {
		right = a.chat.View()
	} else {
		right = a.renderMarketPanel(a.mainPanelWidth(), height)
	}

	if a.width < 60 {
		return right
	}

	left := a.renderSymbolsPanel(height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderSymbolsPanel draws the ticker list with the selection marker. The
// list is windowed around the selection when the panel is too short for
// the whole catalog.
func (a *App) renderSymbolsPanel(height int) string {
	panel := a.theme.Panel
	if a.focus == focusSymbols && !a.chat.IsOpen() {
		panel = a.theme.PanelFocused
	}

	// Border, title block, and footer take six lines of the panel.
	visible := height - 6
	if visible < 1 {
		visible = 1
	}
	start := 0
	if len(a.symbols) > visible {
		start = a.selected - visible/2
		if start > len(a.symbols)-visible {
			start = len(a.symbols) - visible
		}
		if start < 0 {
			start = 0
		}
	}
	end := start + visible
	if end > len(a.symbols) {
		end = len(a.symbols)
	}

	lines := []string{a.theme.PanelTitle.Render("Symbols"), ""}
	for i := start; i < end; i++ {
		sym := a.symbols[i]
		marker := "  "
		line := sym
		if name := market.CompanyName(sym); name != "" && name != sym {
			line += " " + util.TruncateWidth(name, symbolsPanelWidth-12)
		}
		if i == a.selected {
			marker = "> "
			line = a.theme.PriceUpText.Render(line)
		} else {
			line = a.theme.TableRow.Render(line)
		}
		lines = append(lines, marker+line)
	}
	lines = append(lines, "", a.theme.MessageMeta.Render("s next  S prev"))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return panel.Width(symbolsPanelWidth - 2).Height(height - 2).Render(content)
}

// renderMarketPanel draws the quote, the history sparkline, and the latest
// forecast for the selected symbol.
func (a *App) renderMarketPanel(width, height int) string {
	panel := a.theme.Panel
	if a.focus == focusMarket || a.width < 60 {
		panel = a.theme.PanelFocused
	}

	innerWidth := width - 4
	if innerWidth < 20 {
		innerWidth = 20
	}

	sym := a.currentSymbol()
	var lines []string
	lines = append(lines, a.theme.PanelTitle.Render(fmt.Sprintf("%s  %s", sym, market.CompanyName(sym))))
	lines = append(lines, "")

	if last, ok := a.series.Last(); ok {
		change := a.series.ChangeFraction()
		changeStyle := a.theme.PriceFlatText
		if change > 0 {
			changeStyle = a.theme.PriceUpText
		} else if change < 0 {
			changeStyle = a.theme.PriceDownText
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			a.theme.TableHeader.Render(util.FormatUSD(last.Close)),
			changeStyle.Render(util.FormatPercent(change))))
		lines = append(lines, "")
		lines = append(lines, a.theme.MessageMeta.Render(fmt.Sprintf("last %d days", dashboardHistoryDays)))
		lines = append(lines, styles.Sparkline(a.series.Closes(), innerWidth))
		lines = append(lines, "")
	}

	lines = append(lines, a.renderForecastSection(innerWidth)...)

	// Clip to the panel interior; the border never grows past the frame.
	if interior := height - 2; interior >= 1 && len(lines) > interior {
		lines = lines[:interior]
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return panel.Width(width - 2).Height(height - 2).Render(content)
}

// renderForecastSection draws the latest forecast comparison, a pending
// note, or the shortcut hint.
func (a *App) renderForecastSection(width int) []string {
	if a.predictPending {
		return []string{a.theme.PendingText.Render("Requesting forecast...")}
	}
	if a.result == nil {
		return []string{a.theme.MessageMeta.Render("p forecast   enter assistant   ? help")}
	}

	lines := []string{
		a.theme.PanelTitle.Render(fmt.Sprintf("%d-day forecast", a.result.Days)),
		a.theme.TableHeader.Render(fmt.Sprintf("%-20s %12s %10s %10s", "Model", "Final", "Change", "RMSE")),
	}

	best := a.result.BestModel()
	for _, id := range a.result.ModelIDs() {
		final, ok := a.result.FinalClose(id)
		if !ok {
			continue
		}
		rmse := "-"
		if m, ok := a.result.MetricsFor(id); ok {
			rmse = util.FormatMetric(m.RMSE)
		}
		row := fmt.Sprintf("%-20s %12s %10s %10s",
			util.TruncateWidth(model.PredictorDisplayName(id), 20),
			util.FormatUSD(final),
			util.FormatPercent(a.result.ExpectedChange(id)),
			rmse)
		style := a.theme.TableRow
		if id == best {
			style = a.theme.PriceUpText
			row += " *"
		}
		lines = append(lines, style.Render(util.TruncateWidth(row, width)))
	}

	if path := a.result.Predictions[best]; len(path) > 1 {
		lines = append(lines, "")
		lines = append(lines, styles.Sparkline(path, width))
	}
	return lines
}
