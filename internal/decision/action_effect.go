// Package decision models what a squaddie intends to do: action effects grouped
// into decisions, and the per-round record of decisions made so far.
package decision

import (
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
)

type ActionEffectType string

const (
	ActionEffectTypeMovement ActionEffectType = "MOVEMENT"
	ActionEffectTypeSquaddie ActionEffectType = "SQUADDIE"
	ActionEffectTypeEndTurn  ActionEffectType = "END_TURN"
)

// ActionEffect is one of *ActionEffectMovement, *ActionEffectSquaddie or
// *ActionEffectEndTurn. The unexported method keeps the set closed; switch on
// the concrete type to handle each variant.
type ActionEffect interface {
	Type() ActionEffectType
	ActionPointsSpent() int
	isActionEffect()
}

type ActionEffectMovement struct {
	Destination               hexgrid.HexCoordinate
	NumberOfActionPointsSpent int
}

func NewActionEffectMovement(destination hexgrid.HexCoordinate, numberOfActionPointsSpent int) *ActionEffectMovement {
	return &ActionEffectMovement{Destination: destination, NumberOfActionPointsSpent: numberOfActionPointsSpent}
}

func (*ActionEffectMovement) Type() ActionEffectType { return ActionEffectTypeMovement }
func (e *ActionEffectMovement) ActionPointsSpent() int { return e.NumberOfActionPointsSpent }
func (*ActionEffectMovement) isActionEffect() {}

type ActionEffectSquaddie struct {
	Template                  *models.ActionEffectSquaddieTemplate
	TargetLocation            hexgrid.HexCoordinate
	NumberOfActionPointsSpent int
}

// NewActionEffectSquaddie spends the template's action point cost when
// numberOfActionPointsSpent is 0.
func NewActionEffectSquaddie(template *models.ActionEffectSquaddieTemplate, targetLocation hexgrid.HexCoordinate, numberOfActionPointsSpent int) *ActionEffectSquaddie {
	if numberOfActionPointsSpent == 0 && template != nil {
		numberOfActionPointsSpent = template.ActionPointCost
	}
	return &ActionEffectSquaddie{
		Template:                  template,
		TargetLocation:            targetLocation,
		NumberOfActionPointsSpent: numberOfActionPointsSpent,
	}
}

func (*ActionEffectSquaddie) Type() ActionEffectType { return ActionEffectTypeSquaddie }
func (e *ActionEffectSquaddie) ActionPointsSpent() int { return e.NumberOfActionPointsSpent }
func (*ActionEffectSquaddie) isActionEffect() {}

// countsTowardsMultipleAttackPenalty: ATTACK without NO_MULTIPLE_ATTACK_PENALTY.
func (e *ActionEffectSquaddie) countsTowardsMultipleAttackPenalty() bool {
	return e.Template != nil && e.Template.CountsTowardsMultipleAttackPenalty()
}

type ActionEffectEndTurn struct{}

func NewActionEffectEndTurn() *ActionEffectEndTurn { return &ActionEffectEndTurn{} }

func (*ActionEffectEndTurn) Type() ActionEffectType { return ActionEffectTypeEndTurn }
func (*ActionEffectEndTurn) ActionPointsSpent() int { return 0 }
func (*ActionEffectEndTurn) isActionEffect() {}
