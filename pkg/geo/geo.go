// Package geo extracts coordinates from map links and map pages.
//
// Both extractors walk an ordered table of patterns. For URLs the first
// pattern that matches decides the outcome, and patterns that can repeat
// use their last occurrence, since a place marker is appended after the
// viewport it was picked from. For HTML the first pattern yielding a valid
// coordinate wins.
package geo

import (
	"fmt"
	"math"
	"strconv"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid reports whether both fields are finite and within range.
func (c Coordinate) IsValid() bool {
	return IsValid(c)
}

// String formats the coordinate as "lat,lng".
func (c Coordinate) String() string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lng, 'f', -1, 64))
}

// IsValid reports whether lat is in [-90, 90] and lng in [-180, 180].
func IsValid(c Coordinate) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// parsePair converts captured strings into a coordinate.
func parsePair(lat, lng string) (Coordinate, bool) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinate{}, false
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: la, Lng: ln}, true
}

// number matches a signed decimal as it appears in map links.
const number = `(-?\d+\.?\d*)`
