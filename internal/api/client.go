// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the stock prediction backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/stockdeck/internal/model"
	"github.com/jeranaias/stockdeck/internal/util"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeBackendDown
	ErrTypeTimeout
	ErrTypeBadRequest
	ErrTypeNotFound
	ErrTypeServer
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrBackendDown = &ClientError{Type: ErrTypeBackendDown, Message: "backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:5000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for requests (default: 10s)
	Timeout time.Duration

	// RatePerSec caps outbound requests per second; zero or negative
	// disables the limiter (default: 4)
	RatePerSec float64

	// RateBurst is the limiter burst size (default: 8)
	RateBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    "http://127.0.0.1:5000",
		Timeout:    10 * time.Second,
		RatePerSec: 4,
		RateBurst:  8,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the stock prediction backend.
//
// The Client is safe for concurrent use. Outbound requests pass through a
// token-bucket limiter so bursts of UI activity cannot hammer the backend.
//
// Example:
//
//	client := api.NewClient()
//	if err := client.CheckRunning(ctx); err != nil {
//	    log.Fatal("backend not available:", err)
//	}
//	reply, err := client.Chat(ctx, "hello")
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateBurst == 0 {
		config.RateBurst = 8
	}

	limit := rate.Inf
	burst := 0
	if config.RatePerSec > 0 {
		limit = rate.Limit(config.RatePerSec)
		burst = config.RateBurst
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// wait blocks until the limiter grants a slot or the context ends.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "rate limiter wait failed", Cause: err}
	}
	return nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the backend is reachable and serving.
func (c *Client) CheckRunning(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/stock-symbols", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Chat sends one user message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(ChatRequest{Message: message})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp, "chat request failed")
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Response, nil
}

// Tips fetches the quick tip list. A missing or empty tips field comes back
// as an empty slice, not an error.
func (c *Client) Tips(ctx context.Context) ([]string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/chat-tips", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "tips request failed")
	}

	var result TipsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Tips, nil
}

// =============================================================================
// PREDICTION OPERATIONS
// =============================================================================

// Predict requests a multi-model forecast for a symbol over the given
// horizon. The backend validates the horizon (1-30) and history length;
// those failures surface as ErrTypeBadRequest with the backend's message.
func (c *Client) Predict(ctx context.Context, symbol string, days int) (*model.PredictionResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	sym := util.NormalizeSymbol(symbol)
	body, err := json.Marshal(PredictRequest{Symbol: sym, Days: days})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/prediction", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "prediction request failed")
	}

	var result PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &model.PredictionResult{
		Symbol:       sym,
		Days:         days,
		CurrentPrice: result.CurrentPrice,
		Predictions:  result.Predictions,
		Metrics:      result.Metrics,
		Comparison:   result.Comparison,
	}, nil
}

// History fetches the most recent prediction requests, newest first.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/prediction-history", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "history request failed")
	}

	// The history endpoint returns a bare JSON array, not an envelope
	var entries []HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return entries, nil
}

// Symbols fetches the stock catalog the backend serves.
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/stock-symbols", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "symbols request failed")
	}

	var result SymbolsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Symbols, nil
}

// =============================================================================
// CSV EXPORT
// =============================================================================

// ExportCSV streams the historical data CSV for a symbol into w and returns
// the byte count written.
func (c *Client) ExportCSV(ctx context.Context, symbol string, w io.Writer) (int64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	sym := util.NormalizeSymbol(symbol)
	endpoint := c.config.BaseURL + "/export-csv/" + url.PathEscape(sym)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, ErrTimeout
		}
		return 0, ErrBackendDown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp, "csv export failed")
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read csv body", Cause: err}
	}
	return n, nil
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// decodeError turns a non-OK response into a ClientError, preferring the
// backend's message field when the body carries one.
func decodeError(resp *http.Response, fallback string) error {
	typ := ErrTypeServer
	switch {
	case resp.StatusCode == http.StatusNotFound:
		typ = ErrTypeNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		typ = ErrTypeBadRequest
	}

	var apiErr ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return &ClientError{Type: typ, Message: apiErr.Message}
	}
	return &ClientError{Type: typ, Message: fallback + ": " + resp.Status}
}

// IsBackendDown checks if an error indicates the backend is unreachable.
func IsBackendDown(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeBackendDown
	}
	return errors.Is(err, ErrBackendDown)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsTransportError reports whether the request never produced an HTTP
// response: the backend is down, the request timed out, or the connection
// failed. Errors carrying a backend status are not transport errors.
func IsTransportError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case ErrTypeBackendDown, ErrTypeTimeout, ErrTypeConnection:
			return true
		}
		return false
	}
	return errors.Is(err, ErrBackendDown) || errors.Is(err, ErrTimeout)
}

// IsBadRequest checks if an error carries a backend validation message.
func IsBadRequest(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeBadRequest
	}
	return false
}

// IsNotFound checks if an error is a backend 404.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return false
}
