package mercator

import "strings"

// fixtures are preset bounding boxes for well known regions, selectable on
// the command line instead of four explicit coordinates.
var fixtures = map[string]BoundingBox{
	"usa":    NewDeg(49.4325, -65.7421, 23.8991, -125.3321),
	"aachen": NewDeg(50.811, 6.1649, 50.7492, 6.031),
}

// Fixture returns the preset bounding box for the given region name.
func Fixture(name string) (BoundingBox, bool) {
	b, ok := fixtures[strings.ToLower(name)]
	return b, ok
}
