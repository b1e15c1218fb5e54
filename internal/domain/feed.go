package domain

import "context"

// Source identifies which feed produced a series.
type Source string

const (
	SourceRegional Source = "regional"
	SourceGlobal   Source = "global"
	SourceNone     Source = "none"
)

// FeedSource fetches events from one upstream feed.
type FeedSource interface {
	// Name is a short stable identifier, used in logs and metric labels.
	Name() string

	// Title describes the feed for page readers.
	Title() string

	// URL returns the exact request URL for the window.
	URL(w Window) string

	// Fetch returns the feed's valid events for the window, unsorted.
	Fetch(ctx context.Context, w Window) ([]EventRecord, error)
}

// FetchResult is the outcome of a best-effort fetch. It is never an error:
// a total failure is an empty Series with Source set to SourceNone.
type FetchResult struct {
	Series      EventSeries
	Source      Source
	Window      Window
	SourceURL   string
	SourceTitle string
}
