// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/stockdeck/internal/chart"
	"github.com/jeranaias/stockdeck/internal/model"
)

// ErrLowDiskSpace is returned when the output volume has less free
// space than the configured floor.
var ErrLowDiskSpace = errors.New("not enough free disk space")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts chart data into one output format.
type Exporter interface {
	// Export renders the chart data and returns the encoded content.
	Export(data *model.ChartData) ([]byte, error)

	// FileExtension returns the output file extension (e.g., ".png").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures where exports land and what happens afterwards.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: ~/.stockdeck/exports
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// MinFreeSpaceMB aborts the export when the output volume has
	// less than this many megabytes available. Zero or negative
	// disables the check.
	MinFreeSpaceMB int64
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       "",
		OpenAfterExport: false,
		MinFreeSpaceMB:  50,
	}
}

// outputDir resolves the configured directory, falling back to
// ~/.stockdeck/exports and finally the working directory.
func (o *Options) outputDir() string {
	if o.OutputDir != "" {
		return o.OutputDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".stockdeck", "exports")
}

// =============================================================================
// IMAGE EXPORTER
// =============================================================================

// renderTarget names the in-memory target image exports render into.
const renderTarget = "export"

// ImageExporter renders chart data to PNG or SVG through the chart
// renderer.
type ImageExporter struct {
	Kind   chart.Kind
	Format chart.Format
	Width  int
	Height int
}

// NewImageExporter creates an image exporter at the renderer's
// default dimensions.
func NewImageExporter(kind chart.Kind, format chart.Format) *ImageExporter {
	return &ImageExporter{
		Kind:   kind,
		Format: format,
		Width:  chart.DefaultWidth,
		Height: chart.DefaultHeight,
	}
}

// Export renders the chart data into an in-memory target and returns
// the encoded image.
func (e *ImageExporter) Export(data *model.ChartData) ([]byte, error) {
	mem := chart.NewMemoryTarget()
	targets := chart.NewTargetRegistry()
	targets.Register(renderTarget, mem.Factory())

	r := chart.NewRenderer(targets).WithSize(e.Width, e.Height)
	if err := r.DrawSync(renderTarget, e.Kind, data, e.Format); err != nil {
		return nil, err
	}
	return mem.Bytes(), nil
}

// FileExtension returns the extension for the configured format.
func (e *ImageExporter) FileExtension() string {
	return e.Format.Extension()
}

// MimeType returns the MIME type for the configured format.
func (e *ImageExporter) MimeType() string {
	return e.Format.MimeType()
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders data with the exporter and writes it under a
// timestamped name in the output directory. Returns the output path.
func ExportToFile(name string, data *model.ChartData, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(data)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s%s",
		sanitizeFilename(name),
		timestamp,
		exporter.FileExtension(),
	)

	return writeExport(content, filename, opts)
}

// DownloadFile saves already-encoded content under filename in the
// output directory, deriving a missing extension from the MIME type.
// Returns the output path.
func DownloadFile(data []byte, filename, mimeType string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	filename = sanitizeFilename(filename)
	if filepath.Ext(filename) == "" {
		filename += mimeExtension(mimeType)
	}

	return writeExport(data, filename, opts)
}

// writeExport lands content in the output directory. The file handle
// is transient: it is closed before writeExport returns, on success
// and on every error path.
func writeExport(content []byte, filename string, opts *Options) (string, error) {
	dir := opts.outputDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := ensureFreeSpace(dir, opts.MinFreeSpaceMB); err != nil {
		return "", err
	}

	outputPath := filepath.Join(dir, filename)
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal, the file was still written.
			log.Printf("EXPORT_OPEN_FAILED | path=%s error=%v", outputPath, err)
		}
	}

	return outputPath, nil
}

// ensureFreeSpace checks the volume holding dir before a write. A
// failed probe logs and lets the write proceed.
func ensureFreeSpace(dir string, minMB int64) error {
	if minMB <= 0 {
		return nil
	}

	free, err := getFreeDiskSpace(dir)
	if err != nil {
		log.Printf("DISK_SPACE_CHECK_FAILED | dir=%s error=%v", dir, err)
		return nil
	}
	if free < uint64(minMB)*1024*1024 {
		return fmt.Errorf("%w: %d MB free, need %d MB", ErrLowDiskSpace, free/(1024*1024), minMB)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in
// filenames.
func sanitizeFilename(s string) string {
	// Limit length
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			// Replace control characters
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "export"
	}

	return string(result)
}

// mimeExtension maps the MIME types the dashboard serves to file
// extensions.
func mimeExtension(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "text/csv"):
		return ".csv"
	case mimeType == "image/png":
		return ".png"
	case mimeType == "image/svg+xml":
		return ".svg"
	case strings.HasPrefix(mimeType, "application/json"):
		return ".json"
	default:
		return ".bin"
	}
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Properly quote path for Windows cmd - use quoted empty string for window title
		// and the path should be the last argument
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
