package pathfinder

import (
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
)

// SearchParameters configures one search. ShapeGenerator must be set; the
// search does not validate its input.
type SearchParameters struct {
	StartCoordinates  []hexgrid.HexCoordinate
	MovementPerAction int
	// NumberOfActions caps the move actions spent; 0 means unlimited.
	NumberOfActions      int
	PassThroughWalls     bool
	CrossOverPits        bool
	ShapeGenerator       hexgrid.TargetingShapeGenerator
	CanStopOnSquaddies   bool
	MinimumDistanceMoved *int
	MaximumDistanceMoved *int
	// StopLocations ends the search early once every one of them is settled.
	StopLocations       []hexgrid.HexCoordinate
	IgnoreTerrainCost   bool
	SquaddieAffiliation models.SquaddieAffiliation
}

// MovementSearchParameters covers where a squaddie can walk with the action
// points it has left.
func MovementSearchParameters(template *models.SquaddieTemplate, battle *models.BattleSquaddie, start hexgrid.HexCoordinate) SearchParameters {
	p := SearchParameters{
		StartCoordinates:    []hexgrid.HexCoordinate{start},
		MovementPerAction:   template.Attributes.Movement.MovementPerAction,
		NumberOfActions:     battle.SquaddieTurn.RemainingActionPoints,
		PassThroughWalls:    template.CanPassThroughWalls(),
		CrossOverPits:       template.CanCrossOverPits(),
		ShapeGenerator:      hexgrid.SnakeShapeGenerator{},
		SquaddieAffiliation: template.Affiliation,
	}
	if p.NumberOfActions <= 0 {
		p.NumberOfActions = 1
		p.MovementPerAction = 0
	}
	return p
}

// TargetingSearchParameters covers the tiles an action can reach from start.
// Range ignores terrain cost and squaddies, passes over pits and is stopped
// by walls.
func TargetingSearchParameters(action *models.ActionEffectSquaddieTemplate, start hexgrid.HexCoordinate) (SearchParameters, error) {
	generator, err := hexgrid.GetTargetingShapeGenerator(action.TargetingShape)
	if err != nil {
		return SearchParameters{}, err
	}
	minimum, maximum := action.MinimumRange, action.MaximumRange
	return SearchParameters{
		StartCoordinates:     []hexgrid.HexCoordinate{start},
		MovementPerAction:    maximum,
		NumberOfActions:      1,
		CrossOverPits:        true,
		ShapeGenerator:       generator,
		CanStopOnSquaddies:   true,
		MinimumDistanceMoved: &minimum,
		MaximumDistanceMoved: &maximum,
		IgnoreTerrainCost:    true,
		SquaddieAffiliation:  models.AffiliationUnknown,
	}, nil
}
