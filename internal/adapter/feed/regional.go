package feed

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

// RegionalFeed queries an FDSN event service for one bounding box.
// It implements domain.FeedSource.
type RegionalFeed struct {
	client
	baseURL string
	region  domain.Region
}

// NewRegionalFeed creates a feed for the FDSN query endpoint at baseURL.
func NewRegionalFeed(baseURL string, region domain.Region, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *RegionalFeed {
	return &RegionalFeed{
		client:  newClient("regional", timeout, logger, metrics),
		baseURL: baseURL,
		region:  region,
	}
}

func (f *RegionalFeed) Name() string { return f.name }

func (f *RegionalFeed) Title() string {
	return "INGV FDSN API (" + f.region.Name + ", last 7 days)"
}

// URL builds the FDSN query for the window. Magnitude threshold and ordering are fixed.
func (f *RegionalFeed) URL(w domain.Window) string {
	params := url.Values{
		"format":       {"geojson"},
		"minlatitude":  {formatDegrees(f.region.MinLatitude())},
		"maxlatitude":  {formatDegrees(f.region.MaxLatitude())},
		"minlongitude": {formatDegrees(f.region.MinLongitude())},
		"maxlongitude": {formatDegrees(f.region.MaxLongitude())},
		"starttime":    {w.StartDate()},
		"endtime":      {w.EndDate()},
		"minmagnitude": {"0"},
		"orderby":      {"time"},
	}
	return f.baseURL + "?" + params.Encode()
}

// Fetch retrieves the region's events for the window.
func (f *RegionalFeed) Fetch(ctx context.Context, w domain.Window) ([]domain.EventRecord, error) {
	return f.get(ctx, f.URL(w))
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
