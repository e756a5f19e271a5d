// Package link turns a tour into a map deep link and publishes it.
package link

import (
	"collection-route-service/internal/domain"
	"net/url"
	"strconv"
	"strings"
)

const googleMapsDirURL = "https://www.google.com/maps/dir/"

// GoogleMapsLink builds a driving directions link that starts and ends at
// the depot and visits the interior of tour as waypoints, in order.
// An empty tour yields a depot-to-depot link.
func GoogleMapsLink(depot domain.Coordinates, tour []domain.Coordinates) string {
	stops := tour
	if len(stops) > 0 && stops[0] == depot {
		stops = stops[1:]
	}
	if len(stops) > 0 && stops[len(stops)-1] == depot {
		stops = stops[:len(stops)-1]
	}

	waypoints := make([]string, 0, len(stops))
	for _, c := range stops {
		waypoints = append(waypoints, formatCoords(c))
	}

	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", formatCoords(depot))
	q.Set("destination", formatCoords(depot))
	q.Set("travelmode", "driving")
	if len(waypoints) > 0 {
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}

	return googleMapsDirURL + "?" + q.Encode()
}

func formatCoords(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
