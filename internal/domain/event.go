package domain

import (
	"slices"
	"time"

	"github.com/paulmach/orb"
)

// EventRecord is a single earthquake reduced to what the charts need.
type EventRecord struct {
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"mag"`

	// Location is the epicentre as [lon, lat]. Zero when the feature had no point geometry.
	Location orb.Point `json:"location,omitempty"`
}

// HasLocation reports whether the feature carried a point geometry.
func (r EventRecord) HasLocation() bool {
	return r.Location != (orb.Point{})
}

// EventSeries is an immutable, time-ordered list of events.
type EventSeries struct {
	records []EventRecord
}

// NewEventSeries copies records and sorts the copy ascending by time.
// Records sharing a timestamp keep their input order.
func NewEventSeries(records []EventRecord) EventSeries {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b EventRecord) int {
		return a.Time.Compare(b.Time)
	})
	return EventSeries{records: sorted}
}

// Len returns the number of events.
func (s EventSeries) Len() int { return len(s.records) }

// Empty reports whether the series has no events.
func (s EventSeries) Empty() bool { return len(s.records) == 0 }

// Records returns a copy of the events in time order.
func (s EventSeries) Records() []EventRecord {
	return slices.Clone(s.records)
}

// At returns the i-th event.
func (s EventSeries) At(i int) EventRecord { return s.records[i] }

// Magnitudes returns the magnitudes in time order.
func (s EventSeries) Magnitudes() []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = r.Magnitude
	}
	return out
}

// CountWithin returns how many events have an epicentre inside the region.
// Events without a location are not counted.
func (s EventSeries) CountWithin(region Region) int {
	n := 0
	for _, r := range s.records {
		if r.HasLocation() && region.Contains(r.Location) {
			n++
		}
	}
	return n
}

// SeriesBounds holds the extent of a non-empty series.
type SeriesBounds struct {
	Earliest     time.Time
	Latest       time.Time
	MinMagnitude float64
	MaxMagnitude float64
}

// Bounds returns the time and magnitude extent. ok is false for an empty series.
func (s EventSeries) Bounds() (b SeriesBounds, ok bool) {
	if len(s.records) == 0 {
		return SeriesBounds{}, false
	}
	b = SeriesBounds{
		Earliest:     s.records[0].Time,
		Latest:       s.records[len(s.records)-1].Time,
		MinMagnitude: s.records[0].Magnitude,
		MaxMagnitude: s.records[0].Magnitude,
	}
	for _, r := range s.records[1:] {
		b.MinMagnitude = min(b.MinMagnitude, r.Magnitude)
		b.MaxMagnitude = max(b.MaxMagnitude, r.Magnitude)
	}
	return b, true
}

// Page is everything the index page needs for one request.
type Page struct {
	Image       []byte // PNG
	FetchedAt   time.Time
	SourceURL   string
	SourceTitle string
	Source      Source
	EventCount  int
}
