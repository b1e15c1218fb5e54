package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

// Fetcher assembles the event series for one request: the primary feed
// first, the fallback feed only when the primary yields nothing.
type Fetcher struct {
	primary  domain.FeedSource
	fallback domain.FeedSource
	region   domain.Region
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewFetcher creates a Fetcher. region is only used to report how much of the
// fallback data falls inside the regional box.
func NewFetcher(primary, fallback domain.FeedSource, region domain.Region, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		primary:  primary,
		fallback: fallback,
		region:   region,
		logger:   logger,
		metrics:  metrics,
	}
}

// Fetch never fails. Upstream errors are logged and treated as "no data";
// the result is sorted ascending by time and may be empty.
func (f *Fetcher) Fetch(ctx context.Context) domain.FetchResult {
	w := domain.CurrentWindow()
	result := f.attemptOrSubstitute(ctx, w)

	if result.Source == domain.SourceGlobal {
		f.logger.Info("serving global feed data",
			"events", result.Series.Len(),
			"in_region", result.Series.CountWithin(f.region),
		)
	}
	return result
}

// attemptOrSubstitute queries the primary feed and substitutes the fallback
// when the primary errors or returns zero valid events. The fallback is queried
// at most once.
func (f *Fetcher) attemptOrSubstitute(ctx context.Context, w domain.Window) domain.FetchResult {
	if records := f.attempt(ctx, f.primary, w); len(records) > 0 {
		return newResult(records, domain.SourceRegional, w, f.primary)
	}

	f.metrics.Fallbacks.Inc()
	f.logger.Info("regional feed gave no events, querying fallback", "feed", f.fallback.Name())

	if records := f.attempt(ctx, f.fallback, w); len(records) > 0 {
		return newResult(records, domain.SourceGlobal, w, f.fallback)
	}

	f.logger.Warn("no events from any feed", "start", w.StartDate(), "end", w.EndDate())
	return newResult(nil, domain.SourceNone, w, f.primary)
}

// attempt swallows feed errors; a failed feed is indistinguishable from an empty one downstream.
func (f *Fetcher) attempt(ctx context.Context, src domain.FeedSource, w domain.Window) []domain.EventRecord {
	records, err := src.Fetch(ctx, w)
	if err != nil {
		f.logger.Warn("feed fetch failed",
			"feed", src.Name(),
			"url", src.URL(w),
			"error", err,
		)
		return nil
	}
	return records
}

func newResult(records []domain.EventRecord, source domain.Source, w domain.Window, feed domain.FeedSource) domain.FetchResult {
	return domain.FetchResult{
		Series:      domain.NewEventSeries(records),
		Source:      source,
		Window:      w,
		SourceURL:   feed.URL(w),
		SourceTitle: feed.Title(),
	}
}
