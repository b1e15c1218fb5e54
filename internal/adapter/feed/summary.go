package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

// SummaryFeed reads a fixed, pre-built GeoJSON summary such as the USGS
// all_week feed. The window is ignored because the feed is already a rolling week.
type SummaryFeed struct {
	client
	url string
}

// NewSummaryFeed creates a feed for a fixed summary URL.
func NewSummaryFeed(feedURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *SummaryFeed {
	return &SummaryFeed{
		client: newClient("global", timeout, logger, metrics),
		url:    feedURL,
	}
}

func (f *SummaryFeed) Name() string  { return f.name }
func (f *SummaryFeed) Title() string { return "USGS all earthquakes, past week" }

func (f *SummaryFeed) URL(domain.Window) string { return f.url }

// Fetch retrieves every event in the summary.
func (f *SummaryFeed) Fetch(ctx context.Context, _ domain.Window) ([]domain.EventRecord, error) {
	return f.get(ctx, f.url)
}
