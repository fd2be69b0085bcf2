package game

import (
	"fmt"
	"strings"

	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/pathfinder"
)

const (
	StrategyTargetFoe = "TARGET_FOE"
	StrategyEndTurn   = "END_TURN"
)

// TeamStrategy picks a squaddie's next decision. It returns nil when it has
// nothing valid to do; callers then end the squaddie's turn.
type TeamStrategy interface {
	DetermineNextDecision(state *BattleState, battleSquaddieID string) *decision.Decision
}

// StrategyByName resolves a mission file strategy name.
func StrategyByName(name string) (TeamStrategy, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case StrategyTargetFoe:
		return TargetFoeStrategy{}, nil
	case StrategyEndTurn, "":
		return EndTurnStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown team strategy %q", name)
	}
}

// EndTurnStrategy always ends the turn.
type EndTurnStrategy struct{}

func (EndTurnStrategy) DetermineNextDecision(*BattleState, string) *decision.Decision {
	return decision.MustDecision(decision.NewActionEffectEndTurn())
}

// TargetFoeStrategy attacks the first foe in range of any affordable attack.
// With nobody in range it spends one move action closing on the nearest foe.
type TargetFoeStrategy struct{}

func (TargetFoeStrategy) DetermineNextDecision(state *BattleState, battleSquaddieID string) *decision.Decision {
	template, battle, err := state.Repository.GetSquaddieByBattleId(battleSquaddieID)
	if err != nil || battle.IsDead() || battle.SquaddieTurn.RemainingActionPoints <= 0 {
		return nil
	}
	location, ok := state.MissionMap.GetSquaddieLocation(battleSquaddieID)
	if !ok {
		return nil
	}

	actions, err := state.Repository.ActionTemplatesForSquaddie(template.SquaddieTemplateID)
	if err == nil {
		for _, action := range actions {
			if !action.IsAttack() || action.ActionPointCost > battle.SquaddieTurn.RemainingActionPoints {
				continue
			}
			if target, found := firstFoeInRange(state, template, battleSquaddieID, action, location); found {
				return decision.MustDecision(decision.NewActionEffectSquaddie(action, target, 0))
			}
		}
	}

	foe, found := nearestFoe(state, template, battleSquaddieID, location)
	if !found {
		return nil
	}
	params := pathfinder.MovementSearchParameters(template, battle, location)
	params.NumberOfActions = 1
	result := pathfinder.Search(params, state.MissionMap, state.Repository)
	destination, ok := result.GetClosestStoppableLocation(foe)
	if !ok || destination == location || hexgrid.Distance(destination, foe) >= hexgrid.Distance(location, foe) {
		return nil
	}
	return decision.MustDecision(decision.NewActionEffectMovement(destination, 1))
}

// isFoe excludes the actor, the dead and neutral squaddies.
func isFoe(state *BattleState, actor *models.SquaddieTemplate, actorID, battleSquaddieID string) bool {
	if battleSquaddieID == actorID {
		return false
	}
	template, battle, err := state.Repository.GetSquaddieByBattleId(battleSquaddieID)
	if err != nil || battle.IsDead() || template.Affiliation == models.AffiliationNone {
		return false
	}
	return !actor.Affiliation.IsFriendlyTo(template.Affiliation)
}

func firstFoeInRange(state *BattleState, actor *models.SquaddieTemplate, actorID string, action *models.ActionEffectSquaddieTemplate, from hexgrid.HexCoordinate) (hexgrid.HexCoordinate, bool) {
	params, err := pathfinder.TargetingSearchParameters(action, from)
	if err != nil {
		return hexgrid.HexCoordinate{}, false
	}
	result := pathfinder.Search(params, state.MissionMap, state.Repository)
	for _, c := range result.GetStoppableLocations() {
		occupant, ok := state.MissionMap.GetSquaddieAtLocation(c)
		if ok && isFoe(state, actor, actorID, occupant.BattleSquaddieID) {
			return c, true
		}
	}
	return hexgrid.HexCoordinate{}, false
}

func nearestFoe(state *BattleState, actor *models.SquaddieTemplate, actorID string, from hexgrid.HexCoordinate) (hexgrid.HexCoordinate, bool) {
	best, found := hexgrid.HexCoordinate{}, false
	for _, entry := range state.MissionMap.Squaddies() {
		if entry.Location == nil || !isFoe(state, actor, actorID, entry.BattleSquaddieID) {
			continue
		}
		if !found || hexgrid.Distance(from, *entry.Location) < hexgrid.Distance(from, best) {
			best, found = *entry.Location, true
		}
	}
	return best, found
}
