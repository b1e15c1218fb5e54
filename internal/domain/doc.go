// Package domain models earthquake events read from public GeoJSON feeds.
//
// # Data Sources
//
// The regional feed is the INGV FDSN event web service
// (https://webservices.ingv.it/fdsnws/event/1/query), queried with a fixed
// bounding box and a rolling seven-day window. When that query fails or comes
// back empty, the USGS "all earthquakes, past week" summary feed
// (https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson)
// is used instead.
//
// # Feed Conventions
//
// Both feeds return a GeoJSON FeatureCollection. Each feature carries the
// event in its properties:
//
//	"mag":  magnitude as a JSON number, or null when not yet computed.
//	"time": origin time. USGS emits epoch milliseconds ("time": 1729240000000).
//	        INGV emits an ISO-8601 string without zone ("2024-10-18T08:12:44.170000"),
//	        which is read as UTC.
//
// Features missing either value are dropped. Magnitudes may be negative for
// very small local events; they are kept as-is.
//
// Geometry is a Point of [lon, lat, depth_km]. The depth element is ignored.
//
// # Query Window
//
// The window is always [now-7d, now] in UTC and is sent as calendar dates
// (YYYY-MM-DD). It is computed per fetch from the package clock, see [SetClock].
package domain
