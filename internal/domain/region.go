package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Region is a named latitude/longitude rectangle. Bound points are [lon, lat].
type Region struct {
	Name  string
	Bound orb.Bound
}

// EuropeBox is the fixed query region: 35°N–55°N, 10°W–20°E.
var EuropeBox = Region{
	Name:  "Europe box",
	Bound: orb.Bound{Min: orb.Point{-10, 35}, Max: orb.Point{20, 55}},
}

func (r Region) MinLatitude() float64  { return r.Bound.Bottom() }
func (r Region) MaxLatitude() float64  { return r.Bound.Top() }
func (r Region) MinLongitude() float64 { return r.Bound.Left() }
func (r Region) MaxLongitude() float64 { return r.Bound.Right() }

// Contains reports whether p ([lon, lat]) lies inside the region, edges included.
func (r Region) Contains(p orb.Point) bool {
	return r.Bound.Contains(p)
}

// Label renders the bound for humans, e.g. "35°N–55°N, 10°W–20°E".
func (r Region) Label() string {
	return fmt.Sprintf("%s–%s, %s–%s",
		formatCoord(r.MinLatitude(), "N", "S"),
		formatCoord(r.MaxLatitude(), "N", "S"),
		formatCoord(r.MinLongitude(), "E", "W"),
		formatCoord(r.MaxLongitude(), "E", "W"),
	)
}

func formatCoord(v float64, pos, neg string) string {
	hemi := pos
	if v < 0 {
		hemi = neg
	}
	return fmt.Sprintf("%g°%s", math.Abs(v), hemi)
}
