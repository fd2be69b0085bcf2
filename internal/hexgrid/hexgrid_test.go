package hexgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	origin := HexCoordinate{Q: 2, R: 2}
	for _, offset := range SnakeNeighborOffsets {
		assert.Equal(t, 1, Distance(origin, origin.Add(offset)), "neighbour %v", offset)
	}
	assert.Equal(t, 0, Distance(origin, origin))
	assert.Equal(t, 3, Distance(HexCoordinate{Q: 0, R: 0}, HexCoordinate{Q: 0, R: 3}))
	assert.Equal(t, 2, Distance(HexCoordinate{Q: 0, R: 2}, HexCoordinate{Q: 2, R: 0}))
	assert.Equal(t, 4, Distance(HexCoordinate{Q: 0, R: 0}, HexCoordinate{Q: 2, R: 2}))
}

func TestDistanceToNearest(t *testing.T) {
	origins := []HexCoordinate{{Q: 0, R: 0}, {Q: 0, R: 5}}
	assert.Equal(t, 1, DistanceToNearest(HexCoordinate{Q: 0, R: 4}, origins))
	assert.Equal(t, -1, DistanceToNearest(HexCoordinate{Q: 0, R: 4}, nil))
}

func TestSnakeNeighborsAreCompleteAndUnique(t *testing.T) {
	gen, err := GetTargetingShapeGenerator(TargetingShapeSnake)
	require.NoError(t, err)
	assert.Equal(t, TargetingShapeSnake, gen.Shape())

	center := HexCoordinate{Q: 3, R: 3}
	neighbors := gen.CreateNeighboringHexCoordinates(center)
	require.Len(t, neighbors, 6)

	seen := map[HexCoordinate]bool{}
	for _, n := range neighbors {
		assert.False(t, seen[n], "duplicate neighbour %v", n)
		seen[n] = true
		assert.Equal(t, 1, Distance(center, n))
	}
	assert.ElementsMatch(t, []HexCoordinate{
		{Q: 3, R: 4}, {Q: 3, R: 2}, {Q: 2, R: 3}, {Q: 2, R: 4}, {Q: 4, R: 2}, {Q: 4, R: 3},
	}, neighbors)
}

func TestUnknownShapeFails(t *testing.T) {
	gen, err := GetTargetingShapeGenerator(TargetingShapeUnknown)
	assert.Nil(t, gen)
	require.Error(t, err)
	assert.EqualError(t, err, "Unexpected shape generator: UNKNOWN")
	assert.False(t, IsKnownTargetingShape("CONE"))
}

func TestTerrainTileMap(t *testing.T) {
	m, err := NewTerrainTileMap([]string{
		"1 2 - x",
		" 1 _ 1 ",
	})
	require.NoError(t, err)

	assert.Equal(t, MovementCostSingle, m.GetTileAt(HexCoordinate{Q: 0, R: 0}))
	assert.Equal(t, MovementCostDouble, m.GetTileAt(HexCoordinate{Q: 0, R: 1}))
	assert.Equal(t, MovementCostPit, m.GetTileAt(HexCoordinate{Q: 0, R: 2}))
	assert.Equal(t, MovementCostWall, m.GetTileAt(HexCoordinate{Q: 0, R: 3}))
	assert.Equal(t, MovementCostNone, m.GetTileAt(HexCoordinate{Q: 1, R: 1}))
	assert.Equal(t, MovementCostNone, m.GetTileAt(HexCoordinate{Q: -1, R: 0}))
	assert.Equal(t, MovementCostNone, m.GetTileAt(HexCoordinate{Q: 0, R: 9}))

	assert.True(t, m.IsOnMap(HexCoordinate{Q: 1, R: 2}))
	assert.False(t, m.IsOnMap(HexCoordinate{Q: 1, R: 1}))
	assert.Equal(t, 2, m.NumberOfRows())
	assert.Len(t, m.Coordinates(), 6)

	assert.Equal(t, 2, MovementCostDouble.Cost())
	assert.Equal(t, 1, MovementCostWall.Cost())
	assert.Equal(t, 0, MovementCostNone.Cost())
}

func TestTerrainTileMapRejectsUnknownSymbol(t *testing.T) {
	_, err := NewTerrainTileMap([]string{"1 ? 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tile symbol "?"`)
	assert.Panics(t, func() { MustTerrainTileMap("1 q") })
}

func TestSortCoordinates(t *testing.T) {
	coords := []HexCoordinate{{Q: 1, R: 0}, {Q: 0, R: 2}, {Q: 0, R: 1}}
	SortCoordinates(coords)
	assert.Equal(t, []HexCoordinate{{Q: 0, R: 1}, {Q: 0, R: 2}, {Q: 1, R: 0}}, coords)
}
