// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/stockdeck/internal/chart"
	"github.com/jeranaias/stockdeck/internal/model"
)

func closeChartData() *model.ChartData {
	return &model.ChartData{
		Title:  "AAPL Closing Price",
		XLabel: "Date",
		YLabel: "Price (USD)",
		Labels: []string{"2024-01-02", "2024-01-03", "2024-01-04"},
		Series: []model.ChartSeries{
			{Name: "Close", Values: []float64{187.2, 188.1, 186.4}},
		},
	}
}

type stubExporter struct {
	data []byte
	err  error
	ext  string
	mime string
}

func (s *stubExporter) Export(*model.ChartData) ([]byte, error) { return s.data, s.err }
func (s *stubExporter) FileExtension() string                   { return s.ext }
func (s *stubExporter) MimeType() string                        { return s.mime }

func testOptions(t *testing.T) *Options {
	t.Helper()
	return &Options{OutputDir: t.TempDir()}
}

func TestImageExporter_PNG(t *testing.T) {
	e := NewImageExporter(chart.KindLine, chart.FormatPNG)

	data, err := e.Export(closeChartData())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != chart.DefaultWidth || cfg.Height != chart.DefaultHeight {
		t.Errorf("rendered size = %dx%d, want %dx%d", cfg.Width, cfg.Height, chart.DefaultWidth, chart.DefaultHeight)
	}

	if got := e.FileExtension(); got != ".png" {
		t.Errorf("FileExtension() = %q, want %q", got, ".png")
	}
	if got := e.MimeType(); got != "image/png" {
		t.Errorf("MimeType() = %q, want %q", got, "image/png")
	}
}

func TestImageExporter_SVG(t *testing.T) {
	e := NewImageExporter(chart.KindBar, chart.FormatSVG)
	e.Width = 400
	e.Height = 300

	data, err := e.Export(closeChartData())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output does not look like SVG: %.60q", string(data))
	}
}

func TestImageExporter_NoSeries(t *testing.T) {
	e := NewImageExporter(chart.KindLine, chart.FormatPNG)

	if _, err := e.Export(&model.ChartData{}); !errors.Is(err, chart.ErrNoSeries) {
		t.Fatalf("Export() error = %v, want ErrNoSeries", err)
	}
}

func TestExportToFile(t *testing.T) {
	opts := testOptions(t)
	exporter := NewImageExporter(chart.KindLine, chart.FormatPNG)
	exporter.Width = 320
	exporter.Height = 200

	path, err := ExportToFile("AAPL Close: 1Y", closeChartData(), exporter, opts)
	if err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "AAPL_Close-_1Y_") {
		t.Errorf("filename = %q, want sanitized prefix %q", base, "AAPL_Close-_1Y_")
	}
	if !strings.HasSuffix(base, ".png") {
		t.Errorf("filename = %q, want .png suffix", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("exported file is not a PNG: %v", err)
	}
}

func TestExportToFile_ExporterError(t *testing.T) {
	opts := testOptions(t)
	stub := &stubExporter{err: errors.New("render exploded"), ext: ".png"}

	if _, err := ExportToFile("chart", closeChartData(), stub, opts); err == nil {
		t.Fatal("ExportToFile() succeeded, want error")
	}

	entries, err := os.ReadDir(opts.OutputDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries after failed export, want 0", len(entries))
	}
}

func TestDownloadFile(t *testing.T) {
	opts := testOptions(t)
	content := []byte("Date,Open,High,Low,Close,Volume,Adj Close\n")

	path, err := DownloadFile(content, "AAPL_data.csv", "text/csv; charset=utf-8", opts)
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}
	if got := filepath.Base(path); got != "AAPL_data.csv" {
		t.Errorf("filename = %q, want %q", got, "AAPL_data.csv")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("content mismatch: got %q", data)
	}

	// A leaked handle would block this removal on Windows.
	if err := os.Remove(path); err != nil {
		t.Errorf("Remove() after download error = %v, want the handle released", err)
	}
}

func TestDownloadFile_DerivesExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mime     string
		want     string
	}{
		{"svg from mime", "chart", "image/svg+xml", "chart.svg"},
		{"png from mime", "chart", "image/png", "chart.png"},
		{"csv with params", "prices", "text/csv; charset=utf-8", "prices.csv"},
		{"existing extension kept", "chart.png", "image/svg+xml", "chart.png"},
		{"unknown mime", "blob", "application/octet-stream", "blob.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			path, err := DownloadFile([]byte("x"), tt.filename, tt.mime, opts)
			if err != nil {
				t.Fatalf("DownloadFile() error = %v", err)
			}
			if got := filepath.Base(path); got != tt.want {
				t.Errorf("filename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDownloadFile_LowDiskSpace(t *testing.T) {
	opts := testOptions(t)
	// An exabyte floor no test machine clears.
	opts.MinFreeSpaceMB = 1 << 30

	_, err := DownloadFile([]byte("x"), "blocked.csv", "text/csv", opts)
	if !errors.Is(err, ErrLowDiskSpace) {
		t.Fatalf("DownloadFile() error = %v, want ErrLowDiskSpace", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces", "AAPL data", "AAPL_data"},
		{"path separators", "a/b\\c", "a-b-c"},
		{"windows reserved", `q:u*o"t<e>s|`, "q-u-o-t-e-s-"},
		{"control characters", "tab\x01bell", "tab-bell"},
		{"empty", "", "export"},
		{"dots survive", "file.name.csv", "file.name.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := sanitizeFilename(long)
	if len(got) != 50 {
		t.Errorf("len = %d, want 50", len(got))
	}
}

func TestMimeExtension(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"text/csv", ".csv"},
		{"text/csv; charset=utf-8", ".csv"},
		{"image/png", ".png"},
		{"image/svg+xml", ".svg"},
		{"application/json", ".json"},
		{"application/octet-stream", ".bin"},
		{"", ".bin"},
	}

	for _, tt := range tests {
		if got := mimeExtension(tt.mime); got != tt.want {
			t.Errorf("mimeExtension(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
