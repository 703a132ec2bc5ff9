// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"strings"
	"testing"
)

// TestRespond tests the keyword matching logic. Rules fire in registration
// order, so messages hitting multiple categories get the earliest one.
func TestRespond(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains string
	}{
		{
			name:     "greeting_hello",
			message:  "hello",
			contains: "Welcome to Stock Price Prediction",
		},
		{
			name:     "greeting_hey_there",
			message:  "Hey there!",
			contains: "Welcome to Stock Price Prediction",
		},
		{
			name:     "help_request",
			message:  "can you help me out",
			contains: "I can help you with",
		},
		{
			name:     "models_lstm",
			message:  "what does lstm mean",
			contains: "We use 4 prediction models",
		},
		{
			name:     "models_arima",
			message:  "tell me about ARIMA",
			contains: "We use 4 prediction models",
		},
		{
			name:     "prediction_forecast",
			message:  "give me a forecast",
			contains: "To make a prediction",
		},
		{
			name:     "accuracy",
			message:  "are these accurate?",
			contains: "Accuracy varies by stock",
		},
		{
			name:     "data_csv",
			message:  "can I get a csv",
			contains: "Export as CSV",
		},
		{
			name:     "symbols_ticker",
			message:  "list of tickers",
			contains: "Popular stocks available",
		},
		{
			// Matching is plain substring search, so "which" hits the
			// greeting keyword "hi" before any later rule is reached.
			name:     "greeting_substring_quirk",
			message:  "which models exist",
			contains: "Welcome to Stock Price Prediction",
		},
		{
			name:     "theme_dark",
			message:  "is there a dark theme",
			contains: "toggle between light and dark",
		},
		{
			name:     "account_password",
			message:  "I forgot my password",
			contains: "Account management features",
		},
		{
			name:     "faq",
			message:  "where are the faqs",
			contains: "Check our FAQs page",
		},
		{
			name:     "default_no_match",
			message:  "How is AAPL doing?",
			contains: DefaultResponse,
		},
		{
			name:     "default_empty",
			message:  "",
			contains: DefaultResponse,
		},
		{
			name:     "default_whitespace",
			message:  "   \t  ",
			contains: DefaultResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Respond(tt.message)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Respond(%q) = %q, want substring %q", tt.message, got, tt.contains)
			}
		})
	}
}

// TestRespond_RuleOrder verifies that earlier rules shadow later ones when
// a message hits keywords from both.
func TestRespond_RuleOrder(t *testing.T) {
	// "how to" (help) appears before "predict" (prediction)
	got := Respond("how to predict stock prices")
	if !strings.Contains(got, "I can help you with") {
		t.Errorf("help rule should win over prediction, got %q", got)
	}

	// "data" (data) appears before "stock" (stock_symbols)
	got = Respond("download stock data")
	if !strings.Contains(got, "Download historical stock data") {
		t.Errorf("data rule should win over stock_symbols, got %q", got)
	}
}

// TestRespond_CaseInsensitive verifies that matching ignores letter case.
func TestRespond_CaseInsensitive(t *testing.T) {
	lower := Respond("hello")
	upper := Respond("HELLO")
	if lower != upper {
		t.Error("matching should be case-insensitive")
	}
}

// TestQuickTips verifies the tip list content and that callers get a copy.
func TestQuickTips(t *testing.T) {
	tips := QuickTips()

	if len(tips) != 6 {
		t.Fatalf("QuickTips() returned %d tips, want 6", len(tips))
	}

	for i, tip := range tips {
		if tip == "" {
			t.Errorf("tip %d is empty", i)
		}
	}

	if !strings.Contains(tips[0], "Compare all 4 models") {
		t.Errorf("first tip = %q", tips[0])
	}

	// Mutating the returned slice must not leak into the package list
	tips[0] = "mutated"
	if QuickTips()[0] == "mutated" {
		t.Error("QuickTips should return a copy")
	}
}
