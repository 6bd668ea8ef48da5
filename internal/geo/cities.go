package geo

import (
	"sort"
	"strings"
)

// cities is the fixed lookup used to place profiles and listings that
// only name a city. Keys are "City, Region" as the front-end shows them.
var cities = map[string]Point{
	"Saskatoon, SK":     {Lat: 52.1332, Lng: -106.6700},
	"Regina, SK":        {Lat: 50.4452, Lng: -104.6189},
	"Winnipeg, MB":      {Lat: 49.8951, Lng: -97.1384},
	"Calgary, AB":       {Lat: 51.0486, Lng: -114.0708},
	"Toronto, ON":       {Lat: 43.6532, Lng: -79.3832},
	"Seattle, WA":       {Lat: 47.6062, Lng: -122.3321},
	"San Francisco, CA": {Lat: 37.7749, Lng: -122.4194},
	"Chicago, IL":       {Lat: 41.8781, Lng: -87.6298},
}

// CityCoords looks up a known city. Matching ignores surrounding
// whitespace but is otherwise exact.
func CityCoords(city string) (*Point, bool) {
	p, ok := cities[strings.TrimSpace(city)]
	if !ok {
		return nil, false
	}
	return &p, true
}

// Cities returns the known city names in alphabetical order. These are
// the only cities that get coordinates.
func Cities() []string {
	out := make([]string, 0, len(cities))
	for name := range cities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
