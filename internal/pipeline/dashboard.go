package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

// SeriesFetcher produces the event series for one request.
type SeriesFetcher interface {
	Fetch(ctx context.Context) domain.FetchResult
}

// ChartRenderer turns a series into PNG bytes.
type ChartRenderer interface {
	Render(series domain.EventSeries, title string) ([]byte, error)
}

// Dashboard runs the per-request fetch-then-render flow behind the index page.
// It holds no per-request data between calls.
type Dashboard struct {
	fetcher  SeriesFetcher
	renderer ChartRenderer
	region   domain.Region
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// NewDashboard creates a Dashboard for the given region.
func NewDashboard(f SeriesFetcher, r ChartRenderer, region domain.Region, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		fetcher:  f,
		renderer: r,
		region:   region,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one page has been built.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("dashboard has not rendered a page yet")
	}
	return nil
}

// Build fetches fresh data and renders the chart. Only a rendering failure is an error.
func (d *Dashboard) Build(ctx context.Context) (domain.Page, error) {
	fetchedAt := domain.Now()
	result := d.fetcher.Fetch(ctx)

	start := time.Now()
	img, err := d.renderer.Render(result.Series, d.title(result))
	if err != nil {
		return domain.Page{}, fmt.Errorf("render chart: %w", err)
	}
	d.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	d.metrics.EventsRendered.Set(float64(result.Series.Len()))
	d.ready.Store(true)

	d.logger.Info("page built",
		"source", result.Source,
		"events", result.Series.Len(),
		"png_bytes", len(img),
	)

	return domain.Page{
		Image:       img,
		FetchedAt:   fetchedAt,
		SourceURL:   result.SourceURL,
		SourceTitle: result.SourceTitle,
		Source:      result.Source,
		EventCount:  result.Series.Len(),
	}, nil
}

// title names the window and the area the data actually covers.
func (d *Dashboard) title(result domain.FetchResult) string {
	area := fmt.Sprintf("in %s (%s)", d.region.Name, d.region.Label())
	if result.Source == domain.SourceGlobal {
		area = "worldwide (USGS fallback)"
	}
	return fmt.Sprintf("Earthquakes %s, %s to %s", area, result.Window.StartDate(), result.Window.EndDate())
}
