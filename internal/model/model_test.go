// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts, price
// series, and prediction results.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_GeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("hello")
		if msg.ID == "" {
			t.Fatal("Message ID should not be empty")
		}
		if !strings.HasPrefix(msg.ID, "msg_") {
			t.Errorf("Message ID %q should have msg_ prefix", msg.ID)
		}
		if seen[msg.ID] {
			t.Fatalf("Duplicate message ID generated: %s", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestMessage_Roles(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		role Role
	}{
		{"user", NewUserMessage("hi"), RoleUser},
		{"bot", NewBotMessage("hello"), RoleBot},
		{"system", NewSystemMessage("connected"), RoleSystem},
		{"error", NewErrorMessage("request failed"), RoleBot},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.msg.Role != tc.role {
				t.Errorf("Role = %q, want %q", tc.msg.Role, tc.role)
			}
		})
	}
}

func TestNewErrorMessage_SetsFlag(t *testing.T) {
	msg := NewErrorMessage("request failed")
	if !msg.IsError {
		t.Error("Error message should have IsError set")
	}
	if NewBotMessage("fine").IsError {
		t.Error("Normal bot message should not have IsError set")
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short content", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncated", "hello world foo", 10, "hello w..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.content)
			got := msg.Preview(tc.maxLen)
			if got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestRole_DisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", RoleUser.DisplayName())
	}
	if RoleBot.DisplayName() != "Assistant" {
		t.Errorf("RoleBot.DisplayName() = %q", RoleBot.DisplayName())
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AddMessages(t *testing.T) {
	tr := NewTranscript()

	if !tr.IsEmpty() {
		t.Error("New transcript should be empty")
	}

	tr.AddUserMessage("How is AAPL doing?")
	tr.AddBotMessage("AAPL is trending up.")

	if tr.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", tr.MessageCount())
	}
	if tr.Messages[0].Role != RoleUser {
		t.Error("First message should be the user message")
	}
	if tr.Messages[1].Role != RoleBot {
		t.Error("Second message should be the bot reply")
	}
}

func TestTranscript_OrderPreserved(t *testing.T) {
	tr := NewTranscript()
	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		tr.AddUserMessage(c)
	}

	for i, want := range contents {
		if tr.Messages[i].Content != want {
			t.Errorf("Messages[%d].Content = %q, want %q", i, tr.Messages[i].Content, want)
		}
	}
}

func TestTranscript_TitleFromFirstUserMessage(t *testing.T) {
	tr := NewTranscript()
	tr.AddSystemMessage("session started")
	tr.AddUserMessage("Show me NVDA predictions")

	if tr.GetTitle() != "Show me NVDA predictions" {
		t.Errorf("GetTitle() = %q", tr.GetTitle())
	}
}

func TestTranscript_DefaultTitle(t *testing.T) {
	tr := NewTranscript()
	if tr.GetTitle() != "New Chat" {
		t.Errorf("GetTitle() = %q, want 'New Chat'", tr.GetTitle())
	}
}

func TestTranscript_Clear(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("hello")
	tr.AddBotMessage("hi")

	tr.Clear()

	if !tr.IsEmpty() {
		t.Error("Transcript should be empty after Clear")
	}
}

func TestTranscript_GetLastUserMessage(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("first question")
	tr.AddBotMessage("first answer")
	tr.AddUserMessage("second question")
	tr.AddBotMessage("second answer")

	last := tr.GetLastUserMessage()
	if last == nil {
		t.Fatal("GetLastUserMessage returned nil")
	}
	if last.Content != "second question" {
		t.Errorf("GetLastUserMessage().Content = %q", last.Content)
	}
}

func TestTranscript_PrunesOldMessages(t *testing.T) {
	tr := NewTranscript()
	tr.AddSystemMessage("session started")

	for i := 0; i < MaxMessages+50; i++ {
		tr.AddUserMessage("message")
	}

	// System messages survive pruning; the rest is capped.
	if tr.MessageCount() != MaxMessages+1 {
		t.Errorf("MessageCount = %d, want %d", tr.MessageCount(), MaxMessages+1)
	}
	if tr.Messages[0].Role != RoleSystem {
		t.Error("System message should be preserved at the front")
	}
}

func TestTranscript_Clone(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("original")

	clone := tr.Clone()
	clone.Messages[0].Content = "mutated"

	if tr.Messages[0].Content != "original" {
		t.Error("Clone should not share message storage with the original")
	}
}

// =============================================================================
// SERIES TESTS
// =============================================================================

func testSeries(closes ...float64) *Series {
	s := &Series{Symbol: "TEST"}
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Points = append(s.Points, PricePoint{
			Date:  base.AddDate(0, 0, i),
			Close: c,
		})
	}
	return s
}

func TestSeries_Closes(t *testing.T) {
	s := testSeries(100, 101.5, 103)
	closes := s.Closes()

	want := []float64{100, 101.5, 103}
	if len(closes) != len(want) {
		t.Fatalf("Closes() returned %d values, want %d", len(closes), len(want))
	}
	for i := range want {
		if closes[i] != want[i] {
			t.Errorf("Closes()[%d] = %v, want %v", i, closes[i], want[i])
		}
	}
}

func TestSeries_Last(t *testing.T) {
	s := testSeries(100, 105)
	last, ok := s.Last()
	if !ok {
		t.Fatal("Last() should succeed on non-empty series")
	}
	if last.Close != 105 {
		t.Errorf("Last().Close = %v, want 105", last.Close)
	}

	empty := &Series{Symbol: "EMPTY"}
	if _, ok := empty.Last(); ok {
		t.Error("Last() should fail on empty series")
	}
}

func TestSeries_Tail(t *testing.T) {
	s := testSeries(1, 2, 3, 4, 5)

	tail := s.Tail(2)
	if len(tail) != 2 {
		t.Fatalf("Tail(2) returned %d points", len(tail))
	}
	if tail[0].Close != 4 || tail[1].Close != 5 {
		t.Errorf("Tail(2) = %v", tail)
	}

	all := s.Tail(10)
	if len(all) != 5 {
		t.Errorf("Tail(10) on 5-point series returned %d points", len(all))
	}

	if s.Tail(0) != nil {
		t.Error("Tail(0) should return nil")
	}
}

func TestSeries_ChangeFraction(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"five percent up", []float64{100, 102, 105}, 0.05},
		{"ten percent down", []float64{100, 90}, -0.10},
		{"single point", []float64{100}, 0},
		{"empty", nil, 0},
		{"zero start", []float64{0, 100}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := testSeries(tc.closes...).ChangeFraction()
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ChangeFraction() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestChartData_MaxLen(t *testing.T) {
	d := &ChartData{
		Series: []ChartSeries{
			{Name: "a", Values: []float64{1, 2}},
			{Name: "b", Values: []float64{1, 2, 3, 4}},
		},
	}
	if d.MaxLen() != 4 {
		t.Errorf("MaxLen() = %d, want 4", d.MaxLen())
	}

	empty := &ChartData{}
	if !empty.IsEmpty() {
		t.Error("ChartData with no series should be empty")
	}
}

// =============================================================================
// PREDICTOR REGISTRY TESTS
// =============================================================================

func TestPredictors_Registry(t *testing.T) {
	// Verify every backend model is in the registry
	wireModels := []string{"lstm", "linear", "random_forest", "arima"}

	for _, id := range wireModels {
		if _, ok := Predictors[id]; !ok {
			t.Errorf("Backend model %q missing from registry", id)
		}
	}
}

func TestPredictors_HaveRequiredFields(t *testing.T) {
	for id, info := range Predictors {
		t.Run(id, func(t *testing.T) {
			if info.ID == "" {
				t.Error("PredictorInfo.ID should not be empty")
			}
			if info.Name == "" {
				t.Error("PredictorInfo.Name should not be empty")
			}
			if info.Family == "" {
				t.Error("PredictorInfo.Family should not be empty")
			}
		})
	}
}

func TestPredictorIDs_Sorted(t *testing.T) {
	ids := PredictorIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("PredictorIDs not sorted: %v", ids)
		}
	}
}

func TestPredictorDisplayName(t *testing.T) {
	if got := PredictorDisplayName("lstm"); got != "LSTM" {
		t.Errorf("PredictorDisplayName(lstm) = %q", got)
	}
	// Unknown IDs fall back to the raw ID
	if got := PredictorDisplayName("prophet"); got != "prophet" {
		t.Errorf("PredictorDisplayName(prophet) = %q", got)
	}
}

// =============================================================================
// PREDICTION RESULT TESTS
// =============================================================================

func testResult() *PredictionResult {
	return &PredictionResult{
		Symbol:       "AAPL",
		Days:         5,
		CurrentPrice: 150,
		Predictions: map[string][]float64{
			"lstm":   {151, 152, 153, 154, 155},
			"linear": {150.5, 151, 151.5, 152, 152.5},
		},
		// The backend keys metrics by display name, not wire ID
		Metrics: map[string]ModelMetrics{
			"LSTM":              {RMSE: 2.5, MAE: 1.8},
			"Linear Regression": {RMSE: 3.1, MAE: 2.2},
		},
	}
}

func TestPredictionResult_MetricsFor(t *testing.T) {
	r := testResult()

	m, ok := r.MetricsFor("lstm")
	if !ok {
		t.Fatal("MetricsFor(lstm) should resolve via display name")
	}
	if m.RMSE != 2.5 {
		t.Errorf("MetricsFor(lstm).RMSE = %v, want 2.5", m.RMSE)
	}

	// Raw-ID keyed metrics still resolve
	r.Metrics["prophet"] = ModelMetrics{RMSE: 9.9, MAE: 8.8}
	if _, ok := r.MetricsFor("prophet"); !ok {
		t.Error("MetricsFor should fall back to the raw ID")
	}

	if _, ok := r.MetricsFor("missing"); ok {
		t.Error("MetricsFor on absent model should fail")
	}
}

func TestPredictionResult_BestModel(t *testing.T) {
	r := testResult()
	if got := r.BestModel(); got != "lstm" {
		t.Errorf("BestModel() = %q, want lstm", got)
	}

	empty := &PredictionResult{}
	if got := empty.BestModel(); got != "" {
		t.Errorf("BestModel() on empty result = %q, want empty", got)
	}
}

func TestPredictionResult_FinalClose(t *testing.T) {
	r := testResult()

	final, ok := r.FinalClose("lstm")
	if !ok {
		t.Fatal("FinalClose(lstm) should succeed")
	}
	if final != 155 {
		t.Errorf("FinalClose(lstm) = %v, want 155", final)
	}

	if _, ok := r.FinalClose("arima"); ok {
		t.Error("FinalClose on absent model should fail")
	}
}

func TestPredictionResult_ExpectedChange(t *testing.T) {
	r := testResult()

	// 150 -> 155 is one thirtieth
	got := r.ExpectedChange("lstm")
	want := 5.0 / 150.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("ExpectedChange(lstm) = %v, want %v", got, want)
	}

	if r.ExpectedChange("missing") != 0 {
		t.Error("ExpectedChange on absent model should be 0")
	}
}

func TestPredictionResult_ModelIDs_Sorted(t *testing.T) {
	r := testResult()
	ids := r.ModelIDs()
	if len(ids) != 2 || ids[0] != "linear" || ids[1] != "lstm" {
		t.Errorf("ModelIDs() = %v, want [linear lstm]", ids)
	}
}
