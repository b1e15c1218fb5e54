package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

// maxBodyBytes caps a feed response. The USGS weekly summary is ~10 MB.
const maxBodyBytes = 64 << 20

// StatusError is returned for non-2xx feed responses.
type StatusError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed API error: status %d: %s", e.StatusCode, e.Body)
}

// client performs GeoJSON GETs shared by the regional and summary feeds.
type client struct {
	name       string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

func newClient(name string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) client {
	return client{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// get fetches fullURL and parses the body as a feature collection.
func (c client) get(ctx context.Context, fullURL string) ([]domain.EventRecord, error) {
	start := time.Now()
	records, err := c.doRequest(ctx, fullURL)
	c.metrics.FeedDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.FeedRequests.WithLabelValues(c.name, "error").Inc()
	case len(records) == 0:
		c.metrics.FeedRequests.WithLabelValues(c.name, "empty").Inc()
	default:
		c.metrics.FeedRequests.WithLabelValues(c.name, "success").Inc()
	}
	return records, err
}

func (c client) doRequest(ctx context.Context, fullURL string) ([]domain.EventRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s feed body: %w", c.name, err)
	}

	records, err := domain.ParseFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", c.name, err)
	}

	c.logger.Debug("feed fetched", "feed", c.name, "features", len(records))
	return records, nil
}
