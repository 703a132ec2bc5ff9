// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jeranaias/stockdeck/internal/model"
)

// ============================================================
// CONSTANTS & ERRORS
// ============================================================

const (
	// DefaultWidth and DefaultHeight are the render dimensions in
	// pixels when no size is configured.
	DefaultWidth  = 1200
	DefaultHeight = 600

	// DefaultSeriesName labels a lone series that carries no name.
	DefaultSeriesName = "Data"

	// DefaultXLabel and DefaultYLabel title the axes when the chart
	// data leaves them blank.
	DefaultXLabel = "X"
	DefaultYLabel = "Y"
)

var (
	// ErrUnknownFormat is returned for formats other than png or svg.
	ErrUnknownFormat = errors.New("unknown chart format")

	// ErrUnknownKind is returned for kinds other than line or bar.
	ErrUnknownKind = errors.New("unknown chart kind")

	// ErrNoSeries is returned when the chart data holds no drawable
	// series.
	ErrNoSeries = errors.New("chart has no series data")
)

// seriesPalette assigns stable colors by series position. The palette
// cycles when a chart carries more series than colors.
var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorAlternateGray,
}

// ============================================================
// FORMAT & KIND
// ============================================================

// Format selects the image encoding for rendered charts.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatPNG

// ParseFormat normalizes a user-supplied format name. The empty
// string parses to DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatPNG):
		return FormatPNG, nil
	case string(FormatSVG):
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	if f == FormatSVG {
		return ".svg"
	}
	return ".png"
}

// MimeType returns the content type for the format.
func (f Format) MimeType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case FormatPNG:
		return chart.PNG, nil
	case FormatSVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Kind selects the chart variant.
type Kind string

const (
	// KindLine draws every series as a line with point markers.
	KindLine Kind = "line"

	// KindBar draws the first series as categorical bars.
	KindBar Kind = "bar"
)

// ============================================================
// RENDER RESULT
// ============================================================

// RenderResult tracks one background render pass.
type RenderResult struct {
	done chan struct{}
	mu   sync.Mutex
	err  error
}

func newRenderResult() *RenderResult {
	return &RenderResult{done: make(chan struct{})}
}

func (r *RenderResult) finish(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	close(r.done)
}

// Done returns a channel that closes when the pass completes.
func (r *RenderResult) Done() <-chan struct{} {
	return r.done
}

// Err returns the render error recorded so far. It is nil until the
// pass completes.
func (r *RenderResult) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until the pass completes and returns its error.
func (r *RenderResult) Wait() error {
	<-r.done
	return r.Err()
}

// ============================================================
// RENDERER
// ============================================================

// Renderer draws chart data onto registered targets.
type Renderer struct {
	targets *TargetRegistry
	width   int
	height  int
}

// NewRenderer creates a renderer at the default size. A nil registry
// starts empty.
func NewRenderer(targets *TargetRegistry) *Renderer {
	if targets == nil {
		targets = NewTargetRegistry()
	}
	return &Renderer{
		targets: targets,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
}

// WithSize overrides the render dimensions. Non-positive values keep
// the current dimension.
func (r *Renderer) WithSize(width, height int) *Renderer {
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}
	return r
}

// Targets exposes the registry so callers can add or replace targets.
func (r *Renderer) Targets() *TargetRegistry {
	return r.targets
}

// Draw renders data to the named target in the background and returns
// immediately. The RenderResult reports completion and any error.
func (r *Renderer) Draw(targetID string, kind Kind, data *model.ChartData, format Format) *RenderResult {
	res := newRenderResult()
	go func() {
		res.finish(r.renderOnce(targetID, kind, data, format))
	}()
	return res
}

// DrawSync renders data to the named target and blocks until the pass
// completes.
func (r *Renderer) DrawSync(targetID string, kind Kind, data *model.ChartData, format Format) error {
	return r.renderOnce(targetID, kind, data, format)
}

func (r *Renderer) renderOnce(targetID string, kind Kind, data *model.ChartData, format Format) error {
	provider, err := format.provider()
	if err != nil {
		return err
	}
	if kind != KindLine && kind != KindBar {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}

	series := drawableSeries(data)
	if len(series) == 0 {
		return ErrNoSeries
	}

	// Validation runs before Open so a bad request never truncates a
	// file target.
	w, err := r.targets.Open(targetID)
	if err != nil {
		return err
	}

	var renderErr error
	switch kind {
	case KindBar:
		renderErr = r.renderBar(provider, data, series[0], w)
	default:
		renderErr = r.renderLine(provider, data, series, w)
	}
	if renderErr != nil {
		w.Close()
		return fmt.Errorf("render %s chart to %q: %w", string(kind), targetID, renderErr)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close render target %q: %w", targetID, err)
	}
	return nil
}

// ============================================================
// CHART CONSTRUCTION
// ============================================================

func (r *Renderer) renderLine(provider chart.RendererProvider, data *model.ChartData, series []model.ChartSeries, w io.Writer) error {
	charted := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs, ys := indexedPoints(s.Values)
		charted = append(charted, chart.ContinuousSeries{
			Name:    seriesName(s.Name, i, len(series)),
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(seriesColor(s.Color, i)),
		})
	}

	ch := chart.Chart{
		Title:  data.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           axisLabel(data.XLabel, DefaultXLabel),
			ValueFormatter: labelFormatter(data.Labels),
		},
		YAxis: chart.YAxis{
			Name: axisLabel(data.YLabel, DefaultYLabel),
		},
		Series: charted,
	}
	if rng := flatRange(series); rng != nil {
		ch.YAxis.Range = rng
	}
	if len(charted) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(provider, w)
}

func (r *Renderer) renderBar(provider chart.RendererProvider, data *model.ChartData, s model.ChartSeries, w io.Writer) error {
	bars := make([]chart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		bars = append(bars, chart.Value{
			Value: v,
			Label: labelAt(data.Labels, i),
			Style: barStyle(seriesColor(s.Color, i)),
		})
	}

	ch := chart.BarChart{
		Title:  data.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: chart.YAxis{
			Name: axisLabel(data.YLabel, DefaultYLabel),
		},
		Bars: bars,
	}
	if rng := flatRange([]model.ChartSeries{s}); rng != nil {
		ch.YAxis.Range = rng
	}
	return ch.Render(provider, w)
}

// drawableSeries filters out series with no values.
func drawableSeries(data *model.ChartData) []model.ChartSeries {
	if data == nil {
		return nil
	}
	out := make([]model.ChartSeries, 0, len(data.Series))
	for _, s := range data.Series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// indexedPoints places values at x = 0..n-1. A lone point is doubled
// because the chart library rejects a zero-width x range.
func indexedPoints(values []float64) ([]float64, []float64) {
	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(i)
		ys[i] = v
	}
	if len(values) == 1 {
		xs = append(xs, 1)
		ys = append(ys, values[0])
	}
	return xs, ys
}

// flatRange widens the y range around constant-valued series. The
// chart library rejects a zero-height y range, which a flat line or a
// single point would otherwise produce.
func flatRange(series []model.ChartSeries) *chart.ContinuousRange {
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if min != max {
		return nil
	}
	return &chart.ContinuousRange{Min: min - 1, Max: max + 1}
}

// labelFormatter maps x positions back to categorical labels. Without
// labels the axis falls back to plain integer indices.
func labelFormatter(labels []string) chart.ValueFormatter {
	if len(labels) == 0 {
		return chart.IntValueFormatter
	}
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		i := int(math.Round(f))
		if i < 0 || i >= len(labels) {
			return ""
		}
		return labels[i]
	}
}

func labelAt(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return ""
	}
	return labels[i]
}

func seriesName(name string, i, total int) string {
	if name != "" {
		return name
	}
	if total == 1 {
		return DefaultSeriesName
	}
	return fmt.Sprintf("Series %d", i+1)
}

func axisLabel(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

// seriesColor honors an explicit "#rrggbb" series color and otherwise
// cycles the palette by position.
func seriesColor(hex string, i int) drawing.Color {
	if c, ok := parseHexColor(hex); ok {
		return c
	}
	return seriesPalette[i%len(seriesPalette)]
}

func parseHexColor(s string) (drawing.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return drawing.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return drawing.Color{}, false
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 1.5,
		DotColor:    c,
		DotWidth:    3,
	}
}

func barStyle(c drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   c,
		StrokeColor: c,
		StrokeWidth: 1,
	}
}
