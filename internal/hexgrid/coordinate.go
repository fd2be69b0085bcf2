// Package hexgrid holds the hex coordinate system, terrain and targeting shapes.
//
// Coordinates are axial: Q is the row, R the column. Odd rows are drawn shifted
// half a tile to the right, which gives the six neighbours listed in
// SnakeNeighborOffsets.
package hexgrid

import (
	"fmt"
	"sort"
)

type HexCoordinate struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

func (c HexCoordinate) String() string { return fmt.Sprintf("(%d, %d)", c.Q, c.R) }

// Add returns c translated by the offset.
func (c HexCoordinate) Add(offset HexCoordinate) HexCoordinate {
	return HexCoordinate{Q: c.Q + offset.Q, R: c.R + offset.R}
}

// Distance returns the number of hex steps between a and b.
func Distance(a, b HexCoordinate) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// DistanceToNearest returns the smallest distance from c to any of the origins.
// It returns -1 when origins is empty.
func DistanceToNearest(c HexCoordinate, origins []HexCoordinate) int {
	best := -1
	for _, o := range origins {
		if d := Distance(c, o); best < 0 || d < best {
			best = d
		}
	}
	return best
}

// SortCoordinates orders coordinates by Q then R, in place.
func SortCoordinates(coords []HexCoordinate) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Q != coords[j].Q {
			return coords[i].Q < coords[j].Q
		}
		return coords[i].R < coords[j].R
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
