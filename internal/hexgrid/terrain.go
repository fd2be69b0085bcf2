package hexgrid

import (
	"fmt"
	"strings"
)

// MovementCost classifies a tile for movement and targeting.
type MovementCost string

const (
	MovementCostNone   MovementCost = "NONE"
	MovementCostSingle MovementCost = "SINGLE_MOVEMENT"
	MovementCostDouble MovementCost = "DOUBLE_MOVEMENT"
	MovementCostPit    MovementCost = "PIT"
	MovementCostWall   MovementCost = "WALL"
)

var terrainSymbols = map[string]MovementCost{
	"1": MovementCostSingle,
	"2": MovementCostDouble,
	"-": MovementCostPit,
	"x": MovementCostWall,
	"_": MovementCostNone,
}

// Cost returns the movement points needed to enter a tile of this kind.
// Pits and walls cost 1 when the mover is allowed through them at all.
func (m MovementCost) Cost() int {
	switch m {
	case MovementCostDouble:
		return 2
	case MovementCostSingle, MovementCostPit, MovementCostWall:
		return 1
	default:
		return 0
	}
}

// TerrainTileMap is a rectangular grid of tiles addressed by HexCoordinate.
type TerrainTileMap struct {
	rows [][]MovementCost
}

// NewTerrainTileMap parses rows of whitespace separated symbols:
// "1" single movement, "2" double movement, "-" pit, "x" wall, "_" off map.
// Row index is Q, column index is R.
func NewTerrainTileMap(rows []string) (*TerrainTileMap, error) {
	m := &TerrainTileMap{rows: make([][]MovementCost, 0, len(rows))}
	for q, row := range rows {
		fields := strings.Fields(row)
		tiles := make([]MovementCost, 0, len(fields))
		for r, symbol := range fields {
			cost, ok := terrainSymbols[strings.ToLower(symbol)]
			if !ok {
				return nil, fmt.Errorf("terrain row %d column %d: unknown tile symbol %q", q, r, symbol)
			}
			tiles = append(tiles, cost)
		}
		m.rows = append(m.rows, tiles)
	}
	return m, nil
}

// MustTerrainTileMap is NewTerrainTileMap for literals known to be valid.
func MustTerrainTileMap(rows ...string) *TerrainTileMap {
	m, err := NewTerrainTileMap(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// GetTileAt returns MovementCostNone for coordinates outside the map.
func (m *TerrainTileMap) GetTileAt(c HexCoordinate) MovementCost {
	if c.Q < 0 || c.Q >= len(m.rows) {
		return MovementCostNone
	}
	row := m.rows[c.Q]
	if c.R < 0 || c.R >= len(row) {
		return MovementCostNone
	}
	return row[c.R]
}

func (m *TerrainTileMap) IsOnMap(c HexCoordinate) bool {
	return m.GetTileAt(c) != MovementCostNone
}

// NumberOfRows returns the number of Q rows, including empty ones.
func (m *TerrainTileMap) NumberOfRows() int { return len(m.rows) }

// Coordinates lists every on-map coordinate, ordered by Q then R.
func (m *TerrainTileMap) Coordinates() []HexCoordinate {
	var out []HexCoordinate
	for q, row := range m.rows {
		for r, tile := range row {
			if tile != MovementCostNone {
				out = append(out, HexCoordinate{Q: q, R: r})
			}
		}
	}
	return out
}
