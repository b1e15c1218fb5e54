package domain

import "time"

// WindowLength is how far back the regional query reaches.
const WindowLength = 7 * 24 * time.Hour

const dateLayout = "2006-01-02"

// Window is the [Start, End] interval of a query, in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowEndingAt returns the seven-day window ending at now.
func WindowEndingAt(now time.Time) Window {
	now = now.UTC()
	return Window{Start: now.Add(-WindowLength), End: now}
}

// CurrentWindow returns the window ending at the package clock's current time.
func CurrentWindow() Window {
	return WindowEndingAt(clock.Now())
}

// StartDate formats Start as YYYY-MM-DD.
func (w Window) StartDate() string { return w.Start.Format(dateLayout) }

// EndDate formats End as YYYY-MM-DD.
func (w Window) EndDate() string { return w.End.Format(dateLayout) }
