// Package launcher opens the dashboard in the local browser once the HTTP
// server answers its health check.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/browser"
)

const (
	defaultAttempts     = 50
	defaultPollInterval = 200 * time.Millisecond
	defaultProbeTimeout = 500 * time.Millisecond
)

// Launcher polls <base>/healthz and then opens <base>/ in the default browser.
type Launcher struct {
	baseURL  string
	client   *http.Client
	clock    clockwork.Clock
	open     func(url string) error
	logger   *slog.Logger
	attempts int
	interval time.Duration
}

// New creates a Launcher for the server listening on addr (host:port).
func New(addr string, logger *slog.Logger) *Launcher {
	return &Launcher{
		baseURL:  BaseURL(addr),
		client:   &http.Client{Timeout: defaultProbeTimeout},
		clock:    clockwork.NewRealClock(),
		open:     browser.OpenURL,
		logger:   logger,
		attempts: defaultAttempts,
		interval: defaultPollInterval,
	}
}

// BaseURL turns a listen address into a URL a local browser can reach.
// An empty or wildcard host maps to 127.0.0.1.
func BaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// OpenWhenReady waits for the health check to pass, giving up after the
// configured number of attempts, and opens the page either way. It returns
// early with the context error if ctx is cancelled.
func (l *Launcher) OpenWhenReady(ctx context.Context) error {
	healthy := false
	for i := range l.attempts {
		if l.probe(ctx) {
			healthy = true
			break
		}
		if i == l.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(l.interval):
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !healthy {
		l.logger.Warn("server did not report healthy, opening browser anyway",
			"url", l.baseURL, "attempts", l.attempts)
	}

	url := l.baseURL + "/"
	if err := l.open(url); err != nil {
		return fmt.Errorf("open browser at %s: %w", url, err)
	}
	l.logger.Info("opened browser", "url", url)
	return nil
}

func (l *Launcher) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("health probe failed", "error", err)
		return false
	}
	resp.Body.Close() //nolint:errcheck // probe only needs the status
	return resp.StatusCode == http.StatusOK
}
