// Package chart renders an event series into a single PNG: a magnitude-over-time
// scatter next to a magnitude histogram, or a placeholder when there is no data.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
)

// DefaultDPI is the output resolution. Figure sizes are given in inches.
const DefaultDPI = 150

const (
	placeholderText     = "No data available"
	placeholderFontSize = 14.0
	titleFontSize       = 12.0
	panelTitleFontSize  = 10.0

	placeholderWidthIn  = 8.0
	placeholderHeightIn = 4.0
	figureWidthIn       = 12.0
	figureHeightIn      = 4.0
	titleBandIn         = 0.4
)

// Renderer draws event series as PNG images. It is stateless and safe for
// concurrent use.
type Renderer struct {
	dpi float64
}

// NewRenderer returns a Renderer at DefaultDPI.
func NewRenderer() *Renderer {
	return &Renderer{dpi: DefaultDPI}
}

// Render returns PNG bytes for the series. An empty series yields the
// placeholder image; title is only used for the two-panel figure.
func (r *Renderer) Render(series domain.EventSeries, title string) ([]byte, error) {
	if series.Empty() {
		return r.placeholder()
	}
	return r.figure(series, title)
}

func (r *Renderer) placeholder() ([]byte, error) {
	w, h := r.px(placeholderWidthIn), r.px(placeholderHeightIn)
	canvas := newCanvas(w, h)

	text, err := r.textLayer(w, h, placeholderText, placeholderFontSize)
	if err != nil {
		return nil, err
	}
	draw.Draw(canvas, canvas.Bounds(), text, image.Point{}, draw.Over)

	return encode(canvas)
}

func (r *Renderer) figure(series domain.EventSeries, title string) ([]byte, error) {
	w, h := r.px(figureWidthIn), r.px(figureHeightIn)
	band := r.px(titleBandIn)
	panelW, panelH := w/2, h-band
	canvas := newCanvas(w, h)

	if title != "" {
		text, err := r.textLayer(w, band, title, titleFontSize)
		if err != nil {
			return nil, err
		}
		draw.Draw(canvas, image.Rect(0, 0, w, band), text, image.Point{}, draw.Over)
	}

	panels := []gochart.Chart{
		r.scatterChart(series, panelW, panelH),
		r.histogramChart(series.Magnitudes(), panelW, panelH),
	}
	for i, c := range panels {
		img, err := renderPanel(c)
		if err != nil {
			return nil, fmt.Errorf("render panel %q: %w", c.Title, err)
		}
		dst := image.Rect(i*panelW, band, (i+1)*panelW, h)
		draw.Draw(canvas, dst, img, image.Point{}, draw.Src)
	}

	return encode(canvas)
}

// textLayer returns a transparent w×h image with text centred on it.
func (r *Renderer) textLayer(w, h int, text string, sizePt float64) (image.Image, error) {
	rr, err := gochart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("create text renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	rr.SetDPI(r.dpi)
	rr.SetFont(font)
	rr.SetFontSize(sizePt)
	rr.SetFontColor(drawing.ColorBlack)

	box := rr.MeasureText(text)
	rr.Text(text, (w-box.Width())/2, (h+box.Height())/2)

	var buf bytes.Buffer
	if err := rr.Save(&buf); err != nil {
		return nil, fmt.Errorf("draw text: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode text layer: %w", err)
	}
	return img, nil
}

func renderPanel(c gochart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// px converts inches to pixels at the renderer's DPI.
func (r *Renderer) px(in float64) int {
	return int(math.Round(in * r.dpi))
}

// pt converts a length in points to pixels.
func (r *Renderer) pt(v float64) float64 {
	return v * r.dpi / 72
}

func newCanvas(w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return canvas
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func panelStyle() gochart.Style {
	return gochart.Style{
		Padding: gochart.Box{Top: 48, Left: 24, Right: 36, Bottom: 24},
	}
}

func gridStyle() gochart.Style {
	return gochart.Style{
		StrokeColor: drawing.Color{R: 0, G: 0, B: 0, A: 64},
		StrokeWidth: 1,
	}
}
