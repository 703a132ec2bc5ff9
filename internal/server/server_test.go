// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/market"
	"github.com/jeranaias/stockdeck/internal/storage"
)

// =============================================================================
// SERVER STATS TESTS
// =============================================================================

func TestNewServerStats(t *testing.T) {
	stats := NewServerStats()

	if stats == nil {
		t.Fatal("NewServerStats() returned nil")
	}

	snap := stats.GetStats()
	if snap.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", snap.TotalRequests)
	}

	if stats.Uptime() < 0 {
		t.Error("Uptime() should not be negative")
	}
}

func TestServerStats_RecordRequest(t *testing.T) {
	stats := NewServerStats()

	stats.RecordRequest("chat")
	stats.RecordRequest("prediction")
	stats.RecordRequest("prediction")
	stats.RecordRequest("tips")
	stats.RecordRequest("symbols")
	stats.RecordRequest("history")
	stats.RecordRequest("export")

	// Unknown kinds still count toward the total.
	stats.RecordRequest("mystery")

	snap := stats.GetStats()
	if snap.TotalRequests != 8 {
		t.Errorf("TotalRequests = %d, want 8", snap.TotalRequests)
	}
	if snap.ChatRequests != 1 {
		t.Errorf("ChatRequests = %d, want 1", snap.ChatRequests)
	}
	if snap.PredictionRequests != 2 {
		t.Errorf("PredictionRequests = %d, want 2", snap.PredictionRequests)
	}
	if snap.TipsRequests != 1 {
		t.Errorf("TipsRequests = %d, want 1", snap.TipsRequests)
	}
	if snap.SymbolRequests != 1 {
		t.Errorf("SymbolRequests = %d, want 1", snap.SymbolRequests)
	}
	if snap.HistoryRequests != 1 {
		t.Errorf("HistoryRequests = %d, want 1", snap.HistoryRequests)
	}
	if snap.ExportRequests != 1 {
		t.Errorf("ExportRequests = %d, want 1", snap.ExportRequests)
	}
}

func TestServerStats_Uptime(t *testing.T) {
	stats := NewServerStats()

	time.Sleep(10 * time.Millisecond)

	if got := stats.Uptime(); got < 10*time.Millisecond {
		t.Errorf("Uptime = %v, expected >= 10ms", got)
	}
}

// =============================================================================
// SERVER TESTS
// =============================================================================

func TestNewServer(t *testing.T) {
	s := NewServer(0)

	if s == nil {
		t.Fatal("NewServer(0) returned nil")
	}

	if s.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", s.Port(), DefaultPort)
	}
}

func TestNewServer_CustomPort(t *testing.T) {
	s := NewServer(8742)

	if s.Port() != 8742 {
		t.Errorf("Port() = %d, want 8742", s.Port())
	}
}

func TestServer_WithMethods(t *testing.T) {
	store := newTestHistory(t)

	s := NewServer(0).
		WithHistory(store).
		WithLogger(log.New(&bytes.Buffer{}, "", 0)).
		WithRateLimit(10)

	if s.history != store {
		t.Error("WithHistory() did not set the store")
	}
	if s.limiter == nil {
		t.Error("WithRateLimit() left a nil limiter")
	}

	// A non-positive rate keeps the previous limiter.
	before := s.limiter
	s.WithRateLimit(0)
	if s.limiter != before {
		t.Error("WithRateLimit(0) replaced the limiter")
	}
}

func newTestHistory(t *testing.T) *storage.HistoryStore {
	t.Helper()
	store, err := storage.NewHistoryStore(":memory:", 0)
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// CHAT HANDLER TESTS
// =============================================================================

func TestHandleChat(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "hello"}`))
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Response != market.Respond("hello") {
		t.Errorf("Response = %q, want the greeting reply", resp.Response)
	}
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	s := NewServer(0)

	tests := []struct {
		name string
		body string
	}{
		{"empty string", `{"message": ""}`},
		{"whitespace only", `{"message": "   \t  "}`},
		{"missing field", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			s.handleChat(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Success {
				t.Error("Success = true, want false")
			}
			if resp.Message != "Empty message" {
				t.Errorf("Message = %q, want %q", resp.Message, "Empty message")
			}
		})
	}
}

func TestHandleChat_InvalidJSON(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "Invalid request body" {
		t.Errorf("Message = %q, want %q", resp.Message, "Invalid request body")
	}
}

func TestHandleChatTips(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/chat-tips", nil)
	w := httptest.NewRecorder()

	s.handleChatTips(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp TipsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Tips) == 0 {
		t.Fatal("Tips is empty")
	}
	if len(resp.Tips) != len(market.QuickTips()) {
		t.Errorf("len(Tips) = %d, want %d", len(resp.Tips), len(market.QuickTips()))
	}
}

// =============================================================================
// MARKET HANDLER TESTS
// =============================================================================

func TestHandleStockSymbols(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/api/stock-symbols", nil)
	w := httptest.NewRecorder()

	s.handleStockSymbols(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp SymbolsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Symbols) != 10 {
		t.Errorf("len(Symbols) = %d, want 10", len(resp.Symbols))
	}

	found := false
	for _, sym := range resp.Symbols {
		if sym == "AAPL" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Symbols does not contain AAPL")
	}
}

func TestHandlePrediction(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("POST", "/prediction", strings.NewReader(`{"symbol": "AAPL", "days": 7}`))
	w := httptest.NewRecorder()

	s.handlePrediction(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp PredictResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.CurrentPrice <= 0 {
		t.Errorf("CurrentPrice = %v, want > 0", resp.CurrentPrice)
	}

	// Predictions are keyed by wire model ID.
	for _, id := range []string{"lstm", "linear", "random_forest", "arima"} {
		values, ok := resp.Predictions[id]
		if !ok {
			t.Errorf("Predictions missing model %q", id)
			continue
		}
		if len(values) != 7 {
			t.Errorf("Predictions[%q] has %d values, want 7", id, len(values))
		}
	}

	// Metrics and comparison are keyed by display name.
	for _, name := range []string{"LSTM", "Linear Regression", "Random Forest", "ARIMA"} {
		m, ok := resp.Metrics[name]
		if !ok {
			t.Errorf("Metrics missing model %q", name)
			continue
		}
		if m.RMSE < 0 || m.MAE < 0 {
			t.Errorf("Metrics[%q] = %+v, want non-negative", name, m)
		}
		if _, ok := resp.Comparison[name]; !ok {
			t.Errorf("Comparison missing model %q", name)
		}
	}
}

func TestHandlePrediction_DaysDefaultTo30(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("POST", "/prediction", strings.NewReader(`{"symbol": "MSFT"}`))
	w := httptest.NewRecorder()

	s.handlePrediction(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp PredictResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for id, values := range resp.Predictions {
		if len(values) != 30 {
			t.Errorf("Predictions[%q] has %d values, want default 30", id, len(values))
		}
	}
}

func TestHandlePrediction_MissingSymbol(t *testing.T) {
	s := NewServer(0)

	// Symbol is checked before days, so an out-of-range days value must
	// not mask the missing symbol.
	req := httptest.NewRequest("POST", "/prediction", strings.NewReader(`{"days": 99}`))
	w := httptest.NewRecorder()

	s.handlePrediction(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "Stock symbol is required" {
		t.Errorf("Message = %q, want %q", resp.Message, "Stock symbol is required")
	}
}

func TestHandlePrediction_DaysOutOfRange(t *testing.T) {
	s := NewServer(0)

	for _, body := range []string{
		`{"symbol": "AAPL", "days": 0}`,
		`{"symbol": "AAPL", "days": 31}`,
		`{"symbol": "AAPL", "days": -5}`,
	} {
		req := httptest.NewRequest("POST", "/prediction", strings.NewReader(body))
		w := httptest.NewRecorder()

		s.handlePrediction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: Status = %d, want %d", body, w.Code, http.StatusBadRequest)
			continue
		}

		var resp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Message != "Days must be between 1 and 30" {
			t.Errorf("Message = %q, want %q", resp.Message, "Days must be between 1 and 30")
		}
	}
}

func TestHandlePrediction_RecordsHistory(t *testing.T) {
	store := newTestHistory(t)
	s := NewServer(0).WithHistory(store)

	req := httptest.NewRequest("POST", "/prediction", strings.NewReader(`{"symbol": "tsla", "days": 14}`))
	w := httptest.NewRecorder()

	s.handlePrediction(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	records, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}
	if records[0].Symbol != "TSLA" {
		t.Errorf("recorded symbol = %q, want %q", records[0].Symbol, "TSLA")
	}
	if records[0].Days != 14 {
		t.Errorf("recorded days = %d, want 14", records[0].Days)
	}
}

func TestHandlePrediction_HistoryFailureIsNonFatal(t *testing.T) {
	store := newTestHistory(t)
	store.Close()

	s := NewServer(0).WithHistory(store).WithLogger(log.New(&bytes.Buffer{}, "", 0))

	req := httptest.NewRequest("POST", "/prediction", strings.NewReader(`{"symbol": "AAPL", "days": 5}`))
	w := httptest.NewRecorder()

	s.handlePrediction(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d despite closed history", w.Code, http.StatusOK)
	}
}

// =============================================================================
// HISTORY HANDLER TESTS
// =============================================================================

func TestHandlePredictionHistory_NoStore(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/api/prediction-history", nil)
	w := httptest.NewRecorder()

	s.handlePredictionHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	// The wire format is a bare array, not an envelope.
	body := strings.TrimSpace(w.Body.String())
	if !strings.HasPrefix(body, "[") {
		t.Errorf("body = %q, want a bare JSON array", body)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestHandlePredictionHistory(t *testing.T) {
	store := newTestHistory(t)
	s := NewServer(0).WithHistory(store)

	if _, err := store.Record("AAPL", 7); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := store.Record("TSLA", 30); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/api/prediction-history", nil)
	w := httptest.NewRecorder()

	s.handlePredictionHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var entries []HistoryEntry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	// Newest first.
	if entries[0].StockSymbol != "TSLA" {
		t.Errorf("entries[0].StockSymbol = %q, want %q", entries[0].StockSymbol, "TSLA")
	}
	if entries[0].Days != 30 {
		t.Errorf("entries[0].Days = %d, want 30", entries[0].Days)
	}
	if _, err := time.Parse(historyTimeLayout, entries[0].CreatedAt); err != nil {
		t.Errorf("CreatedAt %q does not match layout %q", entries[0].CreatedAt, historyTimeLayout)
	}
}

// =============================================================================
// CSV EXPORT HANDLER TESTS
// =============================================================================

func TestHandleExportCSV(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/export-csv/AAPL", nil)
	req.SetPathValue("symbol", "AAPL")
	w := httptest.NewRecorder()

	s.handleExportCSV(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := w.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q, want %q", got, "text/csv; charset=utf-8")
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=AAPL_data.csv" {
		t.Errorf("Content-Disposition = %q, want attachment with AAPL_data.csv", got)
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != market.DefaultHistoryDays+1 {
		t.Errorf("row count = %d, want %d (header + points)", len(rows), market.DefaultHistoryDays+1)
	}
	if rows[0][0] != "Date" || rows[0][6] != "Adj Close" {
		t.Errorf("header = %v, want Date ... Adj Close", rows[0])
	}
}

func TestHandleExportCSV_LowercaseSymbol(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/export-csv/nvda", nil)
	req.SetPathValue("symbol", "nvda")
	w := httptest.NewRecorder()

	s.handleExportCSV(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "NVDA_data.csv") {
		t.Errorf("Content-Disposition = %q, want normalized NVDA filename", got)
	}
}

func TestHandleExportCSV_UnknownSymbol(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/export-csv/ZZZZ", nil)
	req.SetPathValue("symbol", "ZZZZ")
	w := httptest.NewRecorder()

	s.handleExportCSV(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "Stock not found" {
		t.Errorf("Message = %q, want %q", resp.Message, "Stock not found")
	}
}

// =============================================================================
// STATUS HANDLER TESTS
// =============================================================================

func TestHandleHealth(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want %q", resp.Status, "ok")
	}
	if resp.Service != "stockdeck-demo" {
		t.Errorf("Service = %q, want %q", resp.Service, "stockdeck-demo")
	}
}

func TestHandleStats(t *testing.T) {
	s := NewServer(0)
	s.stats.RecordRequest("chat")
	s.stats.RecordRequest("prediction")

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()

	s.handleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp StatsSnapshot
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", resp.TotalRequests)
	}
	if resp.ChatRequests != 1 {
		t.Errorf("ChatRequests = %d, want 1", resp.ChatRequests)
	}
}

// =============================================================================
// END-TO-END TESTS (full handler + api client)
// =============================================================================

func newTestBackend(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()

	store := newTestHistory(t)
	s := NewServer(0).
		WithHistory(store).
		WithLogger(log.New(&bytes.Buffer{}, "", 0))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: ts.URL,
		Timeout: 5 * time.Second,
	})
	return ts, client
}

func TestServer_EndToEnd(t *testing.T) {
	_, client := newTestBackend(t)
	ctx := context.Background()

	if err := client.CheckRunning(ctx); err != nil {
		t.Fatalf("CheckRunning() error = %v", err)
	}

	reply, err := client.Chat(ctx, "How is AAPL doing?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(reply, "AAPL") {
		t.Errorf("Chat() reply %q does not mention AAPL", reply)
	}

	symbols, err := client.Symbols(ctx)
	if err != nil {
		t.Fatalf("Symbols() error = %v", err)
	}
	if len(symbols) != 10 {
		t.Errorf("len(symbols) = %d, want 10", len(symbols))
	}

	result, err := client.Predict(ctx, "AAPL", 7)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(result.Predictions["lstm"]) != 7 {
		t.Errorf("lstm forecast has %d values, want 7", len(result.Predictions["lstm"]))
	}

	history, err := client.History(ctx)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
	if history[0].StockSymbol != "AAPL" {
		t.Errorf("history[0].StockSymbol = %q, want AAPL", history[0].StockSymbol)
	}

	var buf bytes.Buffer
	n, err := client.ExportCSV(ctx, "AAPL", &buf)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if n == 0 {
		t.Error("ExportCSV() wrote 0 bytes")
	}
	if !strings.HasPrefix(buf.String(), "Date,Open,High,Low,Close,Volume,Adj Close") {
		t.Errorf("CSV does not start with the expected header: %.60q", buf.String())
	}
}

func TestServer_EndToEnd_ErrorTaxonomy(t *testing.T) {
	_, client := newTestBackend(t)
	ctx := context.Background()

	// Out-of-range days surfaces as a bad request with the backend string.
	_, err := client.Predict(ctx, "AAPL", 31)
	if !api.IsBadRequest(err) {
		t.Errorf("Predict(days=31) error = %v, want bad request", err)
	}
	if err == nil || !strings.Contains(err.Error(), "Days must be between 1 and 30") {
		t.Errorf("Predict(days=31) error = %v, want backend message", err)
	}

	// Unknown symbols 404 on export.
	var buf bytes.Buffer
	_, err = client.ExportCSV(ctx, "ZZZZ", &buf)
	if !api.IsNotFound(err) {
		t.Errorf("ExportCSV(ZZZZ) error = %v, want not found", err)
	}
}

func TestServer_RouterRejectsWrongMethod(t *testing.T) {
	s := NewServer(0)
	req := httptest.NewRequest("GET", "/chat", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /chat status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestServer_HandlerMiddleware(t *testing.T) {
	ts, _ := newTestBackend(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got == "" {
		t.Error("response missing X-Request-Id")
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := resp.Header.Get("X-RateLimit-Limit"); got == "" {
		t.Error("response missing X-RateLimit-Limit")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := NewServer(18425).WithLogger(log.New(&bytes.Buffer{}, "", 0))

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Give the listener a moment to bind, then stop it.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned %v after clean shutdown, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Shutdown")
	}
}
