// Package mercator implements the web mercator tile grid: projecting
// geographic coordinates onto slippy map tiles and enumerating all tiles
// of a bounding box over a zoom range.
package mercator

import (
	"fmt"
	"iter"
	"math"

	"github.com/willie68/go_tilefetch/internal/model"
)

// BoundingBox holds the box boundaries in radians, each in [-π, π].
// North/south are latitudes, east/west longitudes. The boundaries are not
// required to be ordered, the enumeration sorts the projected corners itself.
type BoundingBox struct {
	North float64
	East  float64
	South float64
	West  float64
}

// New creates a bounding box from radian values. Panics if any value is
// outside [-π, π].
func New(north, east, south, west float64) BoundingBox {
	for _, v := range []float64{north, east, south, west} {
		if v < -math.Pi || v > math.Pi {
			panic(fmt.Sprintf("bounding box value %f out of range [-π, π]", v))
		}
	}
	return BoundingBox{
		North: north,
		East:  east,
		South: south,
		West:  west,
	}
}

// NewDeg creates a bounding box from degree values in [-180, 180].
func NewDeg(north, east, south, west float64) BoundingBox {
	return New(
		north*math.Pi/180.0,
		east*math.Pi/180.0,
		south*math.Pi/180.0,
		west*math.Pi/180.0,
	)
}

// ProjectTile maps a latitude/longitude pair (radians) to the tile column
// and row at the given zoom level. Latitudes outside the mercator range of
// about ±85° are not projectable, callers have to clamp beforehand.
// The coordinates truncate towards zero, matching the reference slippy map
// formula.
func ProjectTile(latRad, lonRad float64, zoom int) (x, y int) {
	if zoom < 1 {
		panic("zoom must be >= 1")
	}
	n := math.Exp2(float64(zoom))
	lonDeg := lonRad * 180.0 / math.Pi

	x = int((lonDeg + 180.0) / 360.0 * n)
	y = int((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	return x, y
}

// span is the inclusive tile range of the box at one zoom level.
type span struct {
	minX, maxX int
	minY, maxY int
}

func (b BoundingBox) span(zoom int) span {
	nwX, nwY := ProjectTile(b.North, b.West, zoom)
	seX, seY := ProjectTile(b.South, b.East, zoom)

	// longitude maps to ascending x, latitude to descending y. Sort each
	// axis on its own, otherwise a box given in unexpected orientation
	// yields an empty range and silently no tiles at all.
	s := span{minX: nwX, maxX: seX, minY: nwY, maxY: seY}
	if s.minX > s.maxX {
		s.minX, s.maxX = s.maxX, s.minX
	}
	if s.minY > s.maxY {
		s.minY, s.maxY = s.maxY, s.minY
	}
	return s
}

func checkZoomRange(minZoom, maxZoom int) {
	if minZoom < 1 || maxZoom < 1 || minZoom > maxZoom {
		panic(fmt.Sprintf("invalid zoom range %d..%d", minZoom, maxZoom))
	}
}

// Tiles returns a restartable sequence of all tiles of the box, ordered by
// zoom, then x, then y. The tiles are produced on demand, nothing is
// materialized up front.
func (b BoundingBox) Tiles(minZoom, maxZoom int) iter.Seq[model.Tile] {
	checkZoomRange(minZoom, maxZoom)
	return func(yield func(model.Tile) bool) {
		for z := minZoom; z <= maxZoom; z++ {
			s := b.span(z)
			for x := s.minX; x <= s.maxX; x++ {
				for y := s.minY; y <= s.maxY; y++ {
					if !yield(model.Tile{Z: z, X: x, Y: y}) {
						return
					}
				}
			}
		}
	}
}

// Count returns the number of tiles Tiles would produce, computed from the
// per zoom ranges without walking them.
func (b BoundingBox) Count(minZoom, maxZoom int) uint64 {
	checkZoomRange(minZoom, maxZoom)
	var count uint64
	for z := minZoom; z <= maxZoom; z++ {
		s := b.span(z)
		count += uint64(s.maxX-s.minX+1) * uint64(s.maxY-s.minY+1)
	}
	return count
}
