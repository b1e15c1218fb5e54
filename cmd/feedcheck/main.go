// Command feedcheck queries the live earthquake feeds once and reports whether
// each one is reachable, parseable, and consistent with the query window. It
// can also write the chart the service would render for the result.
//
// Usage:
//
//	go run ./cmd/feedcheck \
//	  -regional-url https://webservices.ingv.it/fdsnws/event/1/query \
//	  -global-url https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson \
//	  -png /tmp/quakes.png
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/quake-chart-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-chart-service/internal/chart"
	"github.com/couchcryptid/quake-chart-service/internal/config"
	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
	"github.com/couchcryptid/quake-chart-service/internal/pipeline"
)

// phase tracks pass/fail for a check phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	regionalURL := flag.String("regional-url", config.DefaultRegionalFeedURL, "FDSN event query endpoint")
	globalURL := flag.String("global-url", config.DefaultGlobalFeedURL, "global weekly GeoJSON summary feed")
	timeout := flag.Duration("timeout", 15*time.Second, "per-feed request timeout")
	pngPath := flag.String("png", "", "write the rendered chart to this path")
	verbose := flag.Bool("v", false, "log feed requests")
	flag.Parse()

	if *timeout <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if code := run(*regionalURL, *globalURL, *timeout, *pngPath, logger); code != 0 {
		os.Exit(code)
	}
}

func run(regionalURL, globalURL string, timeout time.Duration, pngPath string, logger *slog.Logger) int {
	ctx := context.Background()
	metrics := observability.NewMetricsForTesting()
	w := domain.CurrentWindow()

	regional := feed.NewRegionalFeed(regionalURL, domain.EuropeBox, timeout, logger, metrics)
	global := feed.NewSummaryFeed(globalURL, timeout, logger, metrics)

	fmt.Println("=== Earthquake Feed Check ===")
	fmt.Printf("Window: %s to %s, region %s\n\n", w.StartDate(), w.EndDate(), domain.EuropeBox.Label())

	regionalRecords, regionalPhase := checkFeed(ctx, regional, w)
	globalRecords, globalPhase := checkFeed(ctx, global, w)

	phases := []*phase{
		regionalPhase,
		checkRegionalWindow(regionalRecords, w),
		globalPhase,
	}

	result := pipeline.NewFetcher(regional, global, domain.EuropeBox, logger, metrics).Fetch(ctx)
	phases = append(phases, checkRender(result, pngPath))

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Events: %d regional, %d global (%d inside the box); service would serve %q with %d events\n",
		len(regionalRecords), len(globalRecords),
		domain.NewEventSeries(globalRecords).CountWithin(domain.EuropeBox),
		result.Source, result.Series.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nFeed check FAILED.")
	return 1
}

func checkFeed(ctx context.Context, src domain.FeedSource, w domain.Window) ([]domain.EventRecord, *phase) {
	p := &phase{name: fmt.Sprintf("%s feed reachable and parseable", src.Name())}

	records, err := src.Fetch(ctx, w)
	if err != nil {
		p.errorf("%s: %v", src.URL(w), err)
		return nil, p
	}
	if len(records) == 0 {
		p.errorf("%s: no events with both magnitude and time", src.URL(w))
	}
	for i, r := range records {
		if r.Time.IsZero() {
			p.errorf("record %d: zero time", i)
		}
		if r.Time.Location() != time.UTC {
			p.errorf("record %d: time %s not in UTC", i, r.Time)
		}
	}
	return records, p
}

// checkRegionalWindow verifies the FDSN service honoured the query parameters.
func checkRegionalWindow(records []domain.EventRecord, w domain.Window) *phase {
	p := &phase{name: "regional events inside window and box"}

	// starttime/endtime are dates, so the service may return the whole end day.
	start := w.Start.Truncate(24 * time.Hour)
	end := w.End.Truncate(24 * time.Hour).Add(24 * time.Hour)

	for i, r := range records {
		if r.Time.Before(start) || !r.Time.Before(end) {
			p.errorf("record %d: time %s outside %s..%s", i, r.Time.Format(time.RFC3339), w.StartDate(), w.EndDate())
		}
		if r.HasLocation() && !domain.EuropeBox.Contains(r.Location) {
			p.errorf("record %d: epicentre %v outside %s", i, r.Location, domain.EuropeBox.Label())
		}
		if r.Magnitude < 0 {
			p.errorf("record %d: magnitude %.1f below threshold 0", i, r.Magnitude)
		}
	}
	return p
}

func checkRender(result domain.FetchResult, pngPath string) *phase {
	p := &phase{name: "chart renders"}

	title := fmt.Sprintf("Earthquakes, %s to %s", result.Window.StartDate(), result.Window.EndDate())
	img, err := chart.NewRenderer().Render(result.Series, title)
	if err != nil {
		p.errorf("render: %v", err)
		return p
	}
	if pngPath == "" {
		return p
	}
	if err := os.WriteFile(pngPath, img, 0o600); err != nil {
		p.errorf("write %s: %v", pngPath, err)
		return p
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(img), pngPath)
	return p
}
