package chart

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
)

var t0 = time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)

func weekOfEvents() domain.EventSeries {
	var recs []domain.EventRecord
	for i := range 40 {
		recs = append(recs, domain.EventRecord{
			Time:      t0.Add(time.Duration(i) * 4 * time.Hour),
			Magnitude: float64(i%9)*0.6 + 0.4,
		})
	}
	return domain.NewEventSeries(recs)
}

func decodeSize(t *testing.T, data []byte) image.Point {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return image.Point{X: cfg.Width, Y: cfg.Height}
}

func TestRender_EmptySeries_Placeholder(t *testing.T) {
	out, err := NewRenderer().Render(domain.EventSeries{}, "ignored")
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 1200, Y: 600}, decodeSize(t, out))

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "background must be white")

	var dark bool
	for y := 270; y < 330 && !dark; y++ {
		for x := 450; x < 750 && !dark; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			dark = r < 0x8000
		}
	}
	assert.True(t, dark, "expected placeholder text near the centre")
}

func TestRender_TwoPanels(t *testing.T) {
	out, err := NewRenderer().Render(weekOfEvents(), "Earthquakes in Europe box, 2024-10-11 to 2024-10-18")
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 1800, Y: 600}, decodeSize(t, out))
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer()
	a, err := r.Render(weekOfEvents(), "title")
	require.NoError(t, err)
	b, err := r.Render(weekOfEvents(), "title")
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "same input must render identical bytes")

	p1, err := r.Render(domain.EventSeries{}, "")
	require.NoError(t, err)
	p2, err := r.Render(domain.EventSeries{}, "")
	require.NoError(t, err)
	assert.True(t, bytes.Equal(p1, p2))
}

func TestRender_EdgeSeries(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.EventRecord
	}{
		{name: "single event", records: []domain.EventRecord{{Time: t0, Magnitude: 3.1}}},
		{name: "identical magnitudes", records: []domain.EventRecord{
			{Time: t0, Magnitude: 2.0},
			{Time: t0.Add(time.Hour), Magnitude: 2.0},
			{Time: t0.Add(2 * time.Hour), Magnitude: 2.0},
		}},
		{name: "identical times", records: []domain.EventRecord{
			{Time: t0, Magnitude: 1.0},
			{Time: t0, Magnitude: 4.0},
		}},
		{name: "negative and zero magnitudes", records: []domain.EventRecord{
			{Time: t0, Magnitude: -0.8},
			{Time: t0.Add(30 * time.Minute), Magnitude: 0},
			{Time: t0.Add(5 * 24 * time.Hour), Magnitude: 1.2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewRenderer().Render(domain.NewEventSeries(tt.records), "title")
			require.NoError(t, err)
			assert.Equal(t, image.Point{X: 1800, Y: 600}, decodeSize(t, out))
		})
	}
}

func TestBinMagnitudes(t *testing.T) {
	h := binMagnitudes([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)

	assert.InDelta(t, 0, h.lo, 1e-9)
	assert.InDelta(t, 1, h.width, 1e-9)
	assert.InDelta(t, 10, h.hi(), 1e-9)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, h.counts, "max value lands in the last bin")
	assert.Equal(t, 2, h.maxCount())

	lo, hi := h.edges(3)
	assert.InDelta(t, 3, lo, 1e-9)
	assert.InDelta(t, 4, hi, 1e-9)
}

func TestBinMagnitudes_AllEqual(t *testing.T) {
	h := binMagnitudes([]float64{2.5, 2.5, 2.5}, histogramBins)

	assert.InDelta(t, 2.0, h.lo, 1e-9)
	assert.InDelta(t, 3.0, h.hi(), 1e-9)
	assert.Len(t, h.counts, histogramBins)
	assert.Equal(t, 3, h.counts[10])

	total := 0
	for _, c := range h.counts {
		total += c
	}
	assert.Equal(t, 3, total)
}

func TestBinMagnitudes_Empty(t *testing.T) {
	h := binMagnitudes(nil, histogramBins)
	assert.Equal(t, 0, h.maxCount())
	assert.Len(t, h.counts, histogramBins)
}

func TestMarkerRadius(t *testing.T) {
	// Area floor of 10 pt² applies below magnitude sqrt(10).
	assert.InDelta(t, markerRadius(0, 72), markerRadius(3, 72), 1e-9)
	assert.InDelta(t, 2.5, markerRadius(5, 72), 1e-9)
	assert.InDelta(t, 2.5*150.0/72, markerRadius(5, 150), 1e-9)
	assert.InDelta(t, markerRadius(4, 72), markerRadius(-4, 72), 1e-9)
}

func TestTimeTicks(t *testing.T) {
	lo := time.Date(2024, 10, 11, 7, 30, 0, 0, time.UTC)
	hi := lo.Add(7 * 24 * time.Hour)

	ticks := timeTicks(lo, hi)
	require.Len(t, ticks, 7)
	assert.Equal(t, "Oct 12", ticks[0].Label)
	assert.Equal(t, "Oct 18", ticks[6].Label)

	short := timeTicks(lo, lo.Add(3*time.Hour))
	require.NotEmpty(t, short)
	assert.Equal(t, "Oct 11 08:00", short[0].Label)
}

func TestTimeTicks_LongSpans(t *testing.T) {
	t.Run("month", func(t *testing.T) {
		lo := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		ticks := timeTicks(lo, lo.Add(90*24*time.Hour))
		require.Len(t, ticks, 2)
		assert.Equal(t, "Aug 2024", ticks[0].Label)
		assert.Equal(t, "Sep 2024", ticks[1].Label)
	})

	t.Run("weeks", func(t *testing.T) {
		lo := time.Date(2024, 10, 1, 7, 30, 0, 0, time.UTC)
		ticks := timeTicks(lo, lo.Add(30*24*time.Hour))
		assert.NotEmpty(t, ticks)
		assert.LessOrEqual(t, len(ticks), 5)
	})

	t.Run("decades", func(t *testing.T) {
		lo := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
		hi := time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC)
		ticks := timeTicks(lo, hi)
		require.NotEmpty(t, ticks)
		assert.LessOrEqual(t, len(ticks), maxTimeTicks)
		assert.Equal(t, "1970", ticks[0].Label)
		assert.Equal(t, "2020", ticks[len(ticks)-1].Label)
	})

	t.Run("ticks stay inside the range", func(t *testing.T) {
		lo := time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC)
		hi := time.Date(2019, 11, 2, 0, 0, 0, 0, time.UTC)
		ticks := timeTicks(lo, hi)
		require.NotEmpty(t, ticks)
		assert.LessOrEqual(t, len(ticks), maxTimeTicks)
		for _, tk := range ticks {
			assert.GreaterOrEqual(t, tk.Value, gochart.TimeToFloat64(lo))
			assert.LessOrEqual(t, tk.Value, gochart.TimeToFloat64(hi))
		}
	})
}

func TestRender_MultiDecadeSeries(t *testing.T) {
	series := domain.NewEventSeries([]domain.EventRecord{
		{Time: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), Magnitude: 5.0},
		{Time: time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC), Magnitude: 6.1},
	})
	out, err := NewRenderer().Render(series, "title")
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 1800, Y: 600}, decodeSize(t, out))
}

func TestCountTicks(t *testing.T) {
	ticks := countTicks(3.3)
	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = tk.Label
	}
	assert.Equal(t, []string{"0", "1", "2", "3"}, labels)

	assert.InDelta(t, 20, niceStep(14), 0)
	assert.InDelta(t, 50, niceStep(33), 0)
	assert.InDelta(t, 100, niceStep(70), 0)
	assert.InDelta(t, 1, niceStep(0.3), 0)
}
