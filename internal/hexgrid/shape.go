package hexgrid

import "fmt"

// TargetingShape names a neighbour topology used by movement and targeting searches.
type TargetingShape string

const (
	TargetingShapeUnknown TargetingShape = "UNKNOWN"
	TargetingShapeSnake   TargetingShape = "SNAKE"
)

// TargetingShapeGenerator produces the coordinates a search may step to next.
type TargetingShapeGenerator interface {
	Shape() TargetingShape
	CreateNeighboringHexCoordinates(c HexCoordinate) []HexCoordinate
}

// SnakeNeighborOffsets: right, left, up-left, up-right, down-left, down-right.
var SnakeNeighborOffsets = [6]HexCoordinate{
	{Q: 0, R: 1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 1, R: -1},
	{Q: 1, R: 0},
}

// SnakeShapeGenerator steps to all six adjacent hexes.
type SnakeShapeGenerator struct{}

func (SnakeShapeGenerator) Shape() TargetingShape { return TargetingShapeSnake }

func (SnakeShapeGenerator) CreateNeighboringHexCoordinates(c HexCoordinate) []HexCoordinate {
	out := make([]HexCoordinate, 0, len(SnakeNeighborOffsets))
	for _, offset := range SnakeNeighborOffsets {
		out = append(out, c.Add(offset))
	}
	return out
}

var shapeGenerators = map[TargetingShape]func() TargetingShapeGenerator{
	TargetingShapeSnake: func() TargetingShapeGenerator { return SnakeShapeGenerator{} },
}

// GetTargetingShapeGenerator resolves a shape tag to its generator.
func GetTargetingShapeGenerator(shape TargetingShape) (TargetingShapeGenerator, error) {
	factory, ok := shapeGenerators[shape]
	if !ok {
		return nil, fmt.Errorf("Unexpected shape generator: %s", shape)
	}
	return factory(), nil
}

// IsKnownTargetingShape reports whether the factory can build the shape.
func IsKnownTargetingShape(shape TargetingShape) bool {
	_, ok := shapeGenerators[shape]
	return ok
}
