package domain

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (latitude, longitude).
// Equality is by value, never by road-graph node identity.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Point converts to an orb point (x=lon, y=lat).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Key returns a stable "lat,lon" string used for cache keys and deep links.
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func (c Coordinates) String() string { return "(" + c.Key() + ")" }
