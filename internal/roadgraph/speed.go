package roadgraph

import (
	"strconv"
	"strings"
)

// Default speeds in km/h per highway class when no usable maxspeed tag exists.
var defaultSpeeds = map[string]float64{
	"motorway":       100,
	"trunk":          85,
	"motorway_link":  60,
	"trunk_link":     60,
	"primary":        65,
	"secondary":      60,
	"tertiary":       50,
	"primary_link":   50,
	"secondary_link": 50,
	"tertiary_link":  40,
	"unclassified":   30,
	"residential":    30,
	"service":        20,
	"road":           20,
	"living_street":  10,
}

// Drivable reports whether a highway class is part of the drive network.
func Drivable(highway string) bool {
	_, ok := defaultSpeeds[highway]
	return ok
}

// TravelSpeed returns the assumed speed in km/h for a way.
// A posted maxspeed is driven at 90% of the limit.
func TravelSpeed(highway, maxspeed string) float64 {
	if kmh, ok := parseMaxspeed(maxspeed); ok {
		return 0.9 * kmh
	}
	if s, ok := defaultSpeeds[highway]; ok {
		return s
	}
	return 20
}

func parseMaxspeed(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "":
		return 0, false
	case "walk":
		return 10, true
	case "none":
		return 110, true
	}

	// "50; 30" -> first value
	if i := strings.IndexAny(v, ";|"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}

	factor := 1.0
	if strings.HasSuffix(v, "mph") {
		factor = 1.609344
		v = strings.TrimSpace(strings.TrimSuffix(v, "mph"))
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, "km/h"))

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f * factor, true
}

// Oneway classifies a way's direction from its tags: 1 forward only,
// -1 reverse only, 0 both directions.
func Oneway(highway, oneway, junction string) int {
	switch oneway {
	case "yes", "true", "1":
		return 1
	case "-1", "reverse":
		return -1
	case "no", "false", "0":
		return 0
	}
	if highway == "motorway" || junction == "roundabout" {
		return 1
	}
	return 0
}
