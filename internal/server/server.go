// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/stockdeck/internal/export"
	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/storage"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultPort is the port the demo backend listens on. It matches the
	// default base URL the client is configured with.
	DefaultPort = 5000

	// MaxRequestBodySize limits request bodies to 1MB.
	MaxRequestBodySize = 1 << 20

	// defaultForecastDays applies when a prediction request omits days.
	defaultForecastDays = 30

	// historyTimeLayout is the wire format for history timestamps.
	historyTimeLayout = "2006-01-02 15:04:05"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// TipsResponse is the body of GET /chat-tips.
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// SymbolsResponse is the body of GET /api/stock-symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// PredictRequest is the body of POST /prediction.
type PredictRequest struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
}

// PredictResponse is the success body of POST /prediction. Predictions is
// keyed by model ID, Metrics and Comparison by model display name.
type PredictResponse struct {
	Success      bool                          `json:"success"`
	Predictions  map[string][]float64          `json:"predictions"`
	Metrics      map[string]model.ModelMetrics `json:"metrics"`
	Comparison   map[string][]float64          `json:"comparison"`
	CurrentPrice float64                       `json:"current_price"`
}

// HistoryEntry is one element of the GET /api/prediction-history array.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	StockSymbol string `json:"stock_symbol"`
	Days        int    `json:"days"`
	CreatedAt   string `json:"created_at"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ErrorResponse is the envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// =============================================================================
// SERVER
// =============================================================================

// Server is the embedded demo backend. It answers the dashboard wire
// contract from deterministic demo market data, so the TUI and CLI work
// with no real backend running.
type Server struct {
	port    int
	router  *http.ServeMux
	server  *http.Server
	history *storage.HistoryStore
	logger  *log.Logger
	limiter *RateLimiter
	stats   *ServerStats

	mu sync.RWMutex
}

// NewServer creates a demo server listening on the given port.
// A port of 0 or less selects DefaultPort.
func NewServer(port int) *Server {
	if port <= 0 {
		port = DefaultPort
	}

	s := &Server{
		port:    port,
		router:  http.NewServeMux(),
		logger:  log.Default(),
		limiter: DefaultRateLimiter(),
		stats:   NewServerStats(),
	}

	s.setupRoutes()
	return s
}

// WithHistory attaches a prediction log. Predictions served by the demo
// backend are recorded there and returned by the history endpoint.
func (s *Server) WithHistory(store *storage.HistoryStore) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = store
	return s
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(logger *log.Logger) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
	return s
}

// WithRateLimit replaces the default per-IP limit (requests per minute).
func (s *Server) WithRateLimit(perMinute int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if perMinute > 0 {
		s.limiter = NewRateLimiter(perMinute, time.Minute)
	}
	return s
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.port
}

// Stats returns the server's request counters.
func (s *Server) Stats() *ServerStats {
	return s.stats
}

// =============================================================================
// ROUTES
// =============================================================================

// setupRoutes registers all endpoints of the dashboard wire contract.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /chat", s.handleChat)
	s.router.HandleFunc("GET /chat-tips", s.handleChatTips)
	s.router.HandleFunc("GET /api/stock-symbols", s.handleStockSymbols)
	s.router.HandleFunc("POST /prediction", s.handlePrediction)
	s.router.HandleFunc("GET /api/prediction-history", s.handlePredictionHistory)
	s.router.HandleFunc("GET /export-csv/{symbol}", s.handleExportCSV)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
}

// buildHandler wraps the router in the middleware chain.
func (s *Server) buildHandler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		RateLimitMiddleware(s.limiter),
	)(s.router)
}

// Handler returns the fully wired handler (routes plus middleware).
// Tests mount it on an httptest server.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildHandler()
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start binds to localhost and serves until Shutdown. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.mu.Lock()
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.buildHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Printf("SERVER_START | addr=http://%s", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("demo server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()

	if srv == nil {
		return nil
	}

	s.logger.Printf("SERVER_STOP | addr=127.0.0.1:%d", s.port)
	return srv.Shutdown(ctx)
}

// =============================================================================
// CHAT HANDLERS
// =============================================================================

// handleChat answers POST /chat with the keyword assistant's response.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest("chat")

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Empty message")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Success:  true,
		Response: market.Respond(message),
	})
}

// handleChatTips answers GET /chat-tips.
func (s *Server) handleChatTips(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest("tips")

	writeJSON(w, http.StatusOK, TipsResponse{Tips: market.QuickTips()})
}

// =============================================================================
// MARKET HANDLERS
// =============================================================================

// handleStockSymbols answers GET /api/stock-symbols with the catalog.
func (s *Server) handleStockSymbols(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest("symbols")

	writeJSON(w, http.StatusOK, SymbolsResponse{Symbols: market.SymbolList()})
}

// handlePrediction answers POST /prediction by running all demo
// forecasters over generated history. Validation mirrors the backend:
// symbol first, then the 1-30 day bound, then data sufficiency.
func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest("prediction")

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	// Days defaults to 30 when the request omits it.
	req := PredictRequest{Days: defaultForecastDays}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbol := util.NormalizeSymbol(req.Symbol)
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "Stock symbol is required")
		return
	}

	if req.Days < market.MinForecastDays || req.Days > market.MaxForecastDays {
		writeError(w, http.StatusBadRequest, "Days must be between 1 and 30")
		return
	}

	series := market.GenerateSeries(symbol, market.DefaultHistoryDays)
	result, err := market.PredictAll(symbol, series.Closes(), req.Days)
	if err != nil {
		if errors.Is(err, market.ErrInsufficientData) {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Insufficient data for %s. Need at least 60 days of data.", symbol))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Mirror the backend's history log. A record failure must not fail
	// the prediction itself.
	if s.history != nil {
		if _, err := s.history.Record(symbol, req.Days); err != nil {
			s.logger.Printf("HISTORY_RECORD_FAILED | symbol=%s error=%v", symbol, err)
		}
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		Success:      true,
		Predictions:  result.Predictions,
		Metrics:      result.Metrics,
		Comparison:   result.Comparison,
		CurrentPrice: result.CurrentPrice,
	})
}

// handlePredictionHistory answers GET /api/prediction-history with a bare
// JSON array, newest first, capped at the wire page size.
func (s *Server) handlePredictionHistory(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest("history")

	entries := make([]HistoryEntry, 0, storage.DefaultRecentLimit)

	if s.history != nil {
		records, err := s.history.Recent(storage.DefaultRecentLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, rec := range records {
			entries = append(entries, HistoryEntry{
				ID:          rec.ID,
				StockSymbol: rec.Symbol,
				Days:        rec.Days,
				CreatedAt:   rec.CreatedAt.Format(historyTimeLayout),
			})
		}
	}

	writeJSON(w, http.StatusOK, entries)
}

// handleExportCSV answers GET /export-csv/{symbol} with an OHLCV CSV
// attachment. Symbols outside the demo catalog are not found, matching
// the backend's behavior for unknown tickers.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest("export")

	symbol := util.NormalizeSymbol(r.PathValue("symbol"))
	if !market.IsKnownSymbol(symbol) {
		writeError(w, http.StatusNotFound, "Stock not found")
		return
	}

	series := market.GenerateSeries(symbol, market.DefaultHistoryDays)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_data.csv", symbol))

	if err := export.SeriesCSV(w, series); err != nil {
		// Headers are gone by now; the broken stream is all we can log.
		s.logger.Printf("CSV_EXPORT_FAILED | symbol=%s error=%v", symbol, err)
	}
}

// =============================================================================
// STATUS HANDLERS
// =============================================================================

// handleHealth answers GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Service:       "stockdeck-demo",
		UptimeSeconds: int64(s.stats.Uptime().Seconds()),
	})
}

// handleStats answers GET /stats with the request counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.GetStats())
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WRITE_RESPONSE_FAILED | error=%v", err)
	}
}

// writeError writes the backend's error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// =============================================================================
// SERVER STATS
// =============================================================================

// ServerStats tracks request counts per endpoint family.
type ServerStats struct {
	mu                 sync.Mutex
	totalRequests      int64
	chatRequests       int64
	predictionRequests int64
	tipsRequests       int64
	symbolRequests     int64
	historyRequests    int64
	exportRequests     int64
	startTime          time.Time
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	TotalRequests      int64   `json:"total_requests"`
	ChatRequests       int64   `json:"chat_requests"`
	PredictionRequests int64   `json:"prediction_requests"`
	TipsRequests       int64   `json:"tips_requests"`
	SymbolRequests     int64   `json:"symbol_requests"`
	HistoryRequests    int64   `json:"history_requests"`
	ExportRequests     int64   `json:"export_requests"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
}

// NewServerStats creates stats with the start time set to now.
func NewServerStats() *ServerStats {
	return &ServerStats{startTime: time.Now()}
}

// RecordRequest counts one request of the given kind.
func (s *ServerStats) RecordRequest(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	switch kind {
	case "chat":
		s.chatRequests++
	case "prediction":
		s.predictionRequests++
	case "tips":
		s.tipsRequests++
	case "symbols":
		s.symbolRequests++
	case "history":
		s.historyRequests++
	case "export":
		s.exportRequests++
	}
}

// GetStats returns a copy of the current counters.
func (s *ServerStats) GetStats() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatsSnapshot{
		TotalRequests:      s.totalRequests,
		ChatRequests:       s.chatRequests,
		PredictionRequests: s.predictionRequests,
		TipsRequests:       s.tipsRequests,
		SymbolRequests:     s.symbolRequests,
		HistoryRequests:    s.historyRequests,
		ExportRequests:     s.exportRequests,
		UptimeSeconds:      time.Since(s.startTime).Seconds(),
	}
}

// Uptime returns the time since the stats were created.
func (s *ServerStats) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.startTime)
}
