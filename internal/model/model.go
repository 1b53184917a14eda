package model

import "fmt"

// Tile is a slippy map tile address at a given zoom level.
// ref: https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
type Tile struct {
	Z int
	X int
	Y int
}

func (t Tile) String() string {
	return fmt.Sprintf("Z:%d, X:%d, Y:%d", t.Z, t.X, t.Y)
}

// Result is the terminal state of a tile in a fetch run.
type Result int

const (
	Saved Result = iota
	Skipped
	Failed
)

func (r Result) String() string {
	switch r {
	case Saved:
		return "saved"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}
