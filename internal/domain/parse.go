package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// isoLayouts are the string time formats accepted in "properties.time".
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// featureCollection is the part of a feed response the charts read. The
// top-level "type" and each feature's geometry are optional.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties geojson.Properties `json:"properties"`
	Geometry   json.RawMessage    `json:"geometry"`
}

// ParseFeatureCollection decodes a GeoJSON-like document with a "features"
// array and returns one record per feature that has both a magnitude and a
// time. Other features are skipped. A geometry that does not decode leaves the
// record without a location.
func ParseFeatureCollection(data []byte) ([]EventRecord, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse feature collection: %w", err)
	}
	if fc.Features == nil {
		return nil, fmt.Errorf("parse feature collection: %w", errors.New("missing features array"))
	}

	records := make([]EventRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		rec, ok := recordFromFeature(f)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordFromFeature(f feature) (EventRecord, bool) {
	mag, ok := parseMagnitude(f.Properties["mag"])
	if !ok {
		return EventRecord{}, false
	}
	t, ok := parseEventTime(f.Properties["time"])
	if !ok {
		return EventRecord{}, false
	}
	return EventRecord{Time: t, Magnitude: mag, Location: parsePoint(f.Geometry)}, true
}

// parsePoint returns the epicentre of a Point geometry, or the zero point for
// anything else, including null and malformed geometries.
func parsePoint(raw json.RawMessage) orb.Point {
	if len(raw) == 0 {
		return orb.Point{}
	}
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil || g == nil {
		return orb.Point{}
	}
	p, _ := g.Coordinates.(orb.Point)
	return p
}

// parseMagnitude accepts JSON numbers only. null and strings count as missing.
func parseMagnitude(v any) (float64, bool) {
	mag, ok := v.(float64)
	return mag, ok
}

// parseEventTime accepts epoch milliseconds or an ISO-8601 string.
// Zone-less strings are read as UTC.
func parseEventTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case string:
		for _, layout := range isoLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
