package chart

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const histogramBins = 20

var barColor = drawing.ColorFromHex("4e79a7")

// histogram holds equal-width bin counts starting at lo.
type histogram struct {
	lo     float64
	width  float64
	counts []int
}

// binMagnitudes counts values into n equal-width bins spanning [min, max].
// The last bin is closed on the right. When every value is equal the range is
// widened by 0.5 on each side.
func binMagnitudes(values []float64, n int) histogram {
	h := histogram{counts: make([]int, n)}
	if len(values) == 0 || n <= 0 {
		h.width = 1
		return h
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}
	h.lo = lo
	h.width = (hi - lo) / float64(n)

	for _, v := range values {
		i := int((v - lo) / h.width)
		i = min(max(i, 0), n-1)
		h.counts[i]++
	}
	return h
}

// edges returns the lower and upper bound of bin i.
func (h histogram) edges(i int) (float64, float64) {
	return h.lo + float64(i)*h.width, h.lo + float64(i+1)*h.width
}

func (h histogram) hi() float64 {
	return h.lo + float64(len(h.counts))*h.width
}

func (h histogram) maxCount() int {
	if len(h.counts) == 0 {
		return 0
	}
	return slices.Max(h.counts)
}

func (r *Renderer) histogramChart(magnitudes []float64, w, h int) gochart.Chart {
	hist := binMagnitudes(magnitudes, histogramBins)
	pad := (hist.hi() - hist.lo) * 0.05
	ymax := math.Max(1, float64(hist.maxCount())) * 1.1

	return gochart.Chart{
		Title:      "Magnitude distribution",
		TitleStyle: gochart.Style{FontSize: panelTitleFontSize},
		Width:      w,
		Height:     h,
		DPI:        r.dpi,
		Background: panelStyle(),
		XAxis: gochart.XAxis{
			Name:           "Magnitude",
			Range:          &gochart.ContinuousRange{Min: hist.lo - pad, Max: hist.hi() + pad},
			ValueFormatter: magnitudeFormatter,
		},
		YAxis: gochart.YAxis{
			Name:           "Count",
			Range:          &gochart.ContinuousRange{Min: 0, Max: ymax},
			Ticks:          countTicks(ymax),
			GridMajorStyle: gridStyle(),
		},
		Series: []gochart.Series{binSeries{hist: hist, edgeWidth: r.pt(0.8)}},
	}
}

// binSeries draws a histogram as adjacent filled rectangles.
type binSeries struct {
	hist      histogram
	edgeWidth float64
}

func (s binSeries) GetName() string             { return "magnitudes" }
func (s binSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s binSeries) GetStyle() gochart.Style     { return gochart.Style{} }

func (s binSeries) Validate() error {
	if len(s.hist.counts) == 0 {
		return fmt.Errorf("bin series: no bins")
	}
	return nil
}

func (s binSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	bottom := canvasBox.Bottom - yrange.Translate(0)
	for i, n := range s.hist.counts {
		if n == 0 {
			continue
		}
		x0, x1 := s.hist.edges(i)
		left := canvasBox.Left + xrange.Translate(x0)
		right := canvasBox.Left + xrange.Translate(x1)
		top := canvasBox.Bottom - yrange.Translate(float64(n))

		r.SetFillColor(barColor)
		r.SetStrokeColor(drawing.ColorWhite)
		r.SetStrokeWidth(s.edgeWidth)
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.Close()
		r.FillStroke()
	}
}

// countTicks returns integer ticks from 0 to at most ymax using a 1/2/5 step.
func countTicks(ymax float64) []gochart.Tick {
	step := niceStep(ymax / 5)
	var ticks []gochart.Tick
	for v := 0.0; v <= ymax; v += step {
		ticks = append(ticks, gochart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 0, 64)})
	}
	return ticks
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten, never below 1.
func niceStep(raw float64) float64 {
	if raw <= 1 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / mag; {
	case f <= 1:
		return mag
	case f <= 2:
		return 2 * mag
	case f <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
