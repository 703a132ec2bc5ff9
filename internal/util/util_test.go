// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the stockdeck application.
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")
	data := []byte("hello, world!")

	err := AtomicWriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	// Verify content
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "charts", "AAPL", "test.png")
	data := []byte{0x89, 'P', 'N', 'G'}

	err := AtomicWriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")

	// Write initial content
	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}

	// Overwrite
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	// Verify new content
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "updated" {
		t.Errorf("Content not updated: got %q", string(content))
	}
}

func TestAtomicWriteFile_NoTempLeftovers(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")

	if err := AtomicWriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	// A successful write must leave exactly the target file behind.
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 file in dir, got %d", len(entries))
	}
	if entries[0].Name() != "test.txt" {
		t.Errorf("Unexpected leftover file: %s", entries[0].Name())
	}
}

// =============================================================================
// STRING TRUNCATION TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		input    string
		maxRunes int
		expected string
	}{
		{"hello world", 5, "he..."},
		{"hello", 5, "hello"},
		{"hi", 5, "hi"},
		{"", 5, ""},
		{"hello world", 0, ""},
		{"hello world", 11, "hello world"},
		{"ab", 3, "ab"},
		{"abcd", 3, "abc"}, // When maxRunes <= 3, no ellipsis is added
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := TruncateRunes(tc.input, tc.maxRunes)
			if result != tc.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q",
					tc.input, tc.maxRunes, result, tc.expected)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"ascii short", "hello", 10, "hello"},
		{"ascii exact", "hello", 5, "hello"},
		{"ascii truncate", "hello world", 8, "hello..."},
		{"empty", "", 5, ""},
		{"zero width", "hello", 0, ""},
		{"tiny width", "hello", 2, "he"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := TruncateWidth(tc.input, tc.maxWidth)
			if result != tc.expected {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q",
					tc.input, tc.maxWidth, result, tc.expected)
			}
		})
	}
}

func TestTruncateWidth_CJK(t *testing.T) {
	// CJK characters occupy two columns each, so the truncated result
	// must never exceed the requested width.
	result := TruncateWidth("日本語テスト", 7)
	if StringWidth(result) > 7 {
		t.Errorf("TruncateWidth result %q has width %d, want <= 7",
			result, StringWidth(result))
	}
}

func TestPadRight(t *testing.T) {
	testCases := []struct {
		input    string
		width    int
		expected string
	}{
		{"AAPL", 6, "AAPL  "},
		{"GOOGL", 5, "GOOGL"},
		{"TOOLONG", 3, "TOOLONG"},
		{"", 3, "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := PadRight(tc.input, tc.width)
			if result != tc.expected {
				t.Errorf("PadRight(%q, %d) = %q, want %q",
					tc.input, tc.width, result, tc.expected)
			}
		})
	}
}

func TestNormalizeSymbol(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"aapl", "AAPL"},
		{"  AAPL  ", "AAPL"},
		{" googl\t", "GOOGL"},
		{"NVDA", "NVDA"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := NormalizeSymbol(tc.input)
			if result != tc.expected {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestFormatUSD(t *testing.T) {
	testCases := []struct {
		input    float64
		expected string
	}{
		{150.0, "$150.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{0, "$0.00"},
		{-42.5, "-$42.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result := FormatUSD(tc.input)
			if result != tc.expected {
				t.Errorf("FormatUSD(%v) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	testCases := []struct {
		input    float64
		expected string
	}{
		{0.0325, "+3.25%"},
		{-0.011, "-1.10%"},
		{0, "+0.00%"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result := FormatPercent(tc.input)
			if result != tc.expected {
				t.Errorf("FormatPercent(%v) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestFormatMetric(t *testing.T) {
	testCases := []struct {
		input    float64
		expected string
	}{
		{3.14159265, "3.1416"},
		{0.5, "0.5000"},
		{12, "12.0000"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result := FormatMetric(tc.input)
			if result != tc.expected {
				t.Errorf("FormatMetric(%v) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}
