package chart

import (
	"fmt"
	"math"
	"strconv"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
)

const (
	markerAlpha        = 178 // 0.7
	markerMinArea      = 10.0
	markerOutlineWidth = 0.2
)

func (r *Renderer) scatterChart(series domain.EventSeries, w, h int) gochart.Chart {
	b, _ := series.Bounds()

	xmin, xmax := gochart.TimeToFloat64(b.Earliest), gochart.TimeToFloat64(b.Latest)
	pad := (xmax - xmin) * 0.03
	if pad == 0 {
		pad = float64(time.Hour)
	}
	xmin, xmax = xmin-pad, xmax+pad

	bubbles := bubbleSeries{
		dpi:      r.dpi,
		colorMin: b.MinMagnitude,
		colorMax: b.MaxMagnitude,
	}
	for _, rec := range series.Records() {
		bubbles.xs = append(bubbles.xs, gochart.TimeToFloat64(rec.Time))
		bubbles.ys = append(bubbles.ys, rec.Magnitude)
	}

	return gochart.Chart{
		Title:      "Magnitude over time (UTC)",
		TitleStyle: gochart.Style{FontSize: panelTitleFontSize},
		Width:      w,
		Height:     h,
		DPI:        r.dpi,
		Background: panelStyle(),
		XAxis: gochart.XAxis{
			Name:           "Time (UTC)",
			Range:          &gochart.ContinuousRange{Min: xmin, Max: xmax},
			Ticks:          timeTicks(gochart.TimeFromFloat64(xmin), gochart.TimeFromFloat64(xmax)),
			GridMajorStyle: gridStyle(),
		},
		YAxis: gochart.YAxis{
			Name:           "Magnitude",
			Range:          &gochart.ContinuousRange{Min: b.MinMagnitude - 0.5, Max: b.MaxMagnitude + 0.5},
			ValueFormatter: magnitudeFormatter,
			GridMajorStyle: gridStyle(),
		},
		Series: []gochart.Series{bubbles},
	}
}

// bubbleSeries draws one filled circle per event, sized and coloured by magnitude.
type bubbleSeries struct {
	xs, ys   []float64
	dpi      float64
	colorMin float64
	colorMax float64
}

func (s bubbleSeries) GetName() string                { return "events" }
func (s bubbleSeries) GetYAxis() gochart.YAxisType    { return gochart.YAxisPrimary }
func (s bubbleSeries) GetStyle() gochart.Style        { return gochart.Style{} }
func (s bubbleSeries) Len() int                       { return len(s.xs) }
func (s bubbleSeries) GetValues(i int) (x, y float64) { return s.xs[i], s.ys[i] }

func (s bubbleSeries) Validate() error {
	if len(s.xs) != len(s.ys) {
		return fmt.Errorf("bubble series: %d x values for %d y values", len(s.xs), len(s.ys))
	}
	return nil
}

func (s bubbleSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	outline := drawing.Color{R: 0, G: 0, B: 0, A: 255}
	for i := range s.xs {
		x := canvasBox.Left + xrange.Translate(s.xs[i])
		y := canvasBox.Bottom - yrange.Translate(s.ys[i])

		r.SetFillColor(s.color(s.ys[i]))
		r.SetStrokeColor(outline)
		r.SetStrokeWidth(markerOutlineWidth * s.dpi / 72)
		r.Circle(markerRadius(s.ys[i], s.dpi), x, y)
		r.FillStroke()
	}
}

func (s bubbleSeries) color(m float64) drawing.Color {
	hi := s.colorMax
	if hi <= s.colorMin {
		hi = s.colorMin + 1
	}
	c := gochart.Viridis(m, s.colorMin, hi)
	c.A = markerAlpha
	return c
}

// markerRadius returns the circle radius in pixels for a marker whose area is
// max(10, m²) square points.
func markerRadius(m, dpi float64) float64 {
	area := math.Max(markerMinArea, m*m)
	return math.Sqrt(area) / 2 * dpi / 72
}

// maxTimeTicks bounds the x-axis labels for spans measured in months or more.
const maxTimeTicks = 12

// calendarSpan is where fixed-duration steps give way to month boundaries.
const calendarSpan = 60 * 24 * time.Hour

// timeTicks returns UTC ticks aligned to a step chosen from the span, all
// within [lo, hi].
func timeTicks(lo, hi time.Time) []gochart.Tick {
	lo, hi = lo.UTC(), hi.UTC()
	if hi.Sub(lo) > calendarSpan {
		return calendarTicks(lo, hi)
	}
	step, layout := timeStep(hi.Sub(lo))

	first := lo.Truncate(step)
	if first.Before(lo) {
		first = first.Add(step)
	}

	var ticks []gochart.Tick
	for t := first; !t.After(hi); t = t.Add(step) {
		ticks = append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(t), Label: t.Format(layout)})
	}
	return ticks
}

func timeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 6*time.Hour:
		return time.Hour, "Jan 2 15:04"
	case span <= 3*24*time.Hour:
		return 6 * time.Hour, "Jan 2 15:04"
	case span <= 14*24*time.Hour:
		return 24 * time.Hour, "Jan 2"
	default:
		return 7 * 24 * time.Hour, "Jan 2"
	}
}

// calendarTicks places ticks on the first of every n-th month, n chosen so
// that at most maxTimeTicks fit between lo and hi.
func calendarTicks(lo, hi time.Time) []gochart.Tick {
	months := monthIndex(hi) - monthIndex(lo) + 1
	every := 0
	for _, n := range []int{1, 2, 3, 6, 12, 24, 60, 120, 240, 600, 1200} {
		if months/n <= maxTimeTicks {
			every = n
			break
		}
	}
	if every == 0 {
		every = months/maxTimeTicks + 1
	}
	layout := "Jan 2006"
	if every >= 12 {
		layout = "2006"
	}

	m := monthIndex(lo)
	if r := m % every; r != 0 {
		m += every - r
	}
	if monthStart(m).Before(lo) {
		m += every
	}

	var ticks []gochart.Tick
	for t := monthStart(m); !t.After(hi); t = monthStart(m) {
		ticks = append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(t), Label: t.Format(layout)})
		m += every
	}
	return ticks
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func monthStart(index int) time.Time {
	return time.Date(index/12, time.Month(index%12+1), 1, 0, 0, 0, 0, time.UTC)
}

func magnitudeFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return ""
}
