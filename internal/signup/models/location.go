package models

import "strconv"

// Coordinates is a position fix. Both coordinates always travel together.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatitudeString renders the latitude as the shortest decimal that round-trips.
func (c Coordinates) LatitudeString() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}

// LongitudeString renders the longitude as the shortest decimal that round-trips.
func (c Coordinates) LongitudeString() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Valid reports whether both values are within WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// LocationResult is the optional outcome of a successful acquisition cycle.
// The zero value is absent.
type LocationResult struct {
	coords  Coordinates
	present bool
}

// NewLocationResult wraps a position fix.
func NewLocationResult(c Coordinates) LocationResult {
	return LocationResult{coords: c, present: true}
}

// Coordinates returns the fix and whether one is present.
func (l LocationResult) Coordinates() (Coordinates, bool) {
	return l.coords, l.present
}

func (l LocationResult) IsPresent() bool {
	return l.present
}
