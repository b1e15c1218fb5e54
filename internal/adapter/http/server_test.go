package http_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/quake-chart-service/internal/adapter/http"
	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

type mockPages struct {
	page     domain.Page
	buildErr error
	readyErr error
	builds   int
}

func (m *mockPages) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockPages) Build(_ context.Context) (domain.Page, error) {
	m.builds++
	return m.page, m.buildErr
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}

func regionalPage() domain.Page {
	return domain.Page{
		Image:       pngBytes,
		FetchedAt:   time.Date(2024, 10, 18, 12, 0, 0, 0, time.UTC),
		SourceURL:   "https://webservices.ingv.it/fdsnws/event/1/query?format=geojson&minmagnitude=0",
		SourceTitle: "INGV FDSN API (Europe box, last 7 days)",
		Source:      domain.SourceRegional,
		EventCount:  42,
	}
}

func newTestServer(pages *mockPages) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", pages, "https://example.com/project", logger, metrics), metrics
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturnsOK(t *testing.T) {
	pages := &mockPages{buildErr: errors.New("must not be called")}
	srv, _ := newTestServer(pages)

	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]bool{"ok": true}, body)
	assert.Zero(t, pages.builds, "health check must not touch upstream feeds")
}

func TestIndexRendersPage(t *testing.T) {
	pages := &mockPages{page: regionalPage()}
	srv, metrics := newTestServer(pages)

	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<meta http-equiv="refresh" content="300">`)
	assert.Contains(t, body, `src="data:image/png;base64,`+base64.StdEncoding.EncodeToString(pngBytes)+`"`)
	assert.Contains(t, body, "<title>European Earthquakes (INGV)</title>")
	assert.Contains(t, body, "INGV FDSN API (Europe box, last 7 days)")
	assert.Contains(t, body, "format=geojson&amp;minmagnitude=0")
	assert.Contains(t, body, "Fetched locally at: "+regionalPage().FetchedAt.Local().Format("2006-01-02 15:04:05"))
	assert.Contains(t, body, `href="https://example.com/project"`)
	assert.NotContains(t, body, "USGS global weekly feed")
	assert.NotContains(t, body, "ZgotmplZ")

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PageRequests.WithLabelValues("success")), 0)
}

func TestIndexNotesFallback(t *testing.T) {
	page := regionalPage()
	page.Source = domain.SourceGlobal
	page.SourceTitle = "USGS all earthquakes, past week"
	srv, _ := newTestServer(&mockPages{page: page})

	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "USGS global weekly feed")
}

func TestIndexRefetchesEveryRequest(t *testing.T) {
	pages := &mockPages{page: regionalPage()}
	srv, _ := newTestServer(pages)

	get(srv, "/")
	get(srv, "/")

	assert.Equal(t, 2, pages.builds)
}

func TestIndexBuildErrorReturns500(t *testing.T) {
	srv, metrics := newTestServer(&mockPages{buildErr: errors.New("render chart: boom")})

	rec := get(srv, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom", "internal errors must not leak to the client")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PageRequests.WithLabelValues("error")), 0)
}

func TestUnknownPathReturns404(t *testing.T) {
	pages := &mockPages{page: regionalPage()}
	srv, _ := newTestServer(pages)

	rec := get(srv, "/favicon.ico")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, pages.builds)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(&mockPages{})

	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(&mockPages{readyErr: errors.New("dashboard has not rendered a page yet")})

	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "dashboard has not rendered a page yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(&mockPages{})

	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPostIndexNotAllowed(t *testing.T) {
	srv, _ := newTestServer(&mockPages{page: regionalPage()})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
