package game

import (
	"errors"
	"fmt"

	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/engine"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

// CriticalMargin is how far past the armor class a roll must land to be critical.
const CriticalMargin = 6

var (
	ErrNoDecision          = errors.New("no decision for the acting squaddie")
	ErrNoTargetAtLocation  = errors.New("no squaddie at the target location")
	ErrMissingNumberSource = errors.New("battle state has no number generator")
)

// DetermineDegreeOfSuccess maps a roll to a degree of success. The extreme-face
// rule and the margin rule are separate checks; either one makes a critical.
func DetermineDegreeOfSuccess(rolls []int, modifierTotal, armorClass int, traits models.TraitStatusStorage) DegreeOfSuccess {
	degree := baseDegreeOfSuccess(rolls, modifierTotal, armorClass)
	if degree == DegreeOfSuccessCriticalSuccess && traits.Has(models.TraitCannotCriticallySucceed) {
		return DegreeOfSuccessSuccess
	}
	if degree == DegreeOfSuccessCriticalFailure && traits.Has(models.TraitCannotCriticallyFail) {
		return DegreeOfSuccessFailure
	}
	return degree
}

func baseDegreeOfSuccess(rolls []int, modifierTotal, armorClass int) DegreeOfSuccess {
	if len(rolls) == 2 {
		if rolls[0] == engine.DieMaximumFace && rolls[1] == engine.DieMaximumFace {
			return DegreeOfSuccessCriticalSuccess
		}
		if rolls[0] == engine.DieMinimumFace && rolls[1] == engine.DieMinimumFace {
			return DegreeOfSuccessCriticalFailure
		}
	}
	total := modifierTotal
	for _, r := range rolls {
		total += r
	}
	switch {
	case total >= armorClass+CriticalMargin:
		return DegreeOfSuccessCriticalSuccess
	case total >= armorClass:
		return DegreeOfSuccessSuccess
	case total <= armorClass-CriticalMargin:
		return DegreeOfSuccessCriticalFailure
	default:
		return DegreeOfSuccessFailure
	}
}

// rollForEffect draws two dice unless the action always succeeds.
func rollForEffect(template *models.ActionEffectSquaddieTemplate, gen engine.NumberGenerator) ActingSquaddieRoll {
	if template.Traits.Has(models.TraitAlwaysSucceeds) {
		return ActingSquaddieRoll{Occurred: false}
	}
	return ActingSquaddieRoll{Occurred: true, Rolls: []int{gen.Next(), gen.Next()}}
}

// CalculateResults resolves the acting squaddie's current decision against the
// squaddie at validTargetLocation. The caller has already checked range and
// targeting. Hit points and mission statistics are updated in place and the
// decision is added to the squaddie's decisions for this round.
func CalculateResults(state *BattleState, actingBattleSquaddieID string, validTargetLocation hexgrid.HexCoordinate) (*Results, error) {
	acting := state.SquaddieCurrentlyActing
	if acting == nil || acting.Decision == nil || acting.BattleSquaddieID != actingBattleSquaddieID {
		return nil, fmt.Errorf("%w: %q", ErrNoDecision, actingBattleSquaddieID)
	}
	if state.NumberGenerator == nil {
		return nil, ErrMissingNumberSource
	}
	actorTemplate, actorBattle, err := state.Repository.GetSquaddieByBattleId(actingBattleSquaddieID)
	if err != nil {
		return nil, err
	}

	log := logger.Component("calculator").WithFields(logrus.Fields{
		"actor":  actingBattleSquaddieID,
		"target": validTargetLocation.String(),
	})

	phase := state.DecisionsFor(actingBattleSquaddieID)
	priorAttacks := phase.AttacksCommitted()

	results := &Results{ActingBattleSquaddieID: actingBattleSquaddieID}
	attacksThisDecision := 0
	for _, effect := range acting.Decision.ActionEffects() {
		squaddieEffect, ok := effect.(*decision.ActionEffectSquaddie)
		if !ok {
			continue
		}
		template := squaddieEffect.Template

		occupant, found := state.MissionMap.GetSquaddieAtLocation(validTargetLocation)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNoTargetAtLocation, validTargetLocation)
		}
		targetTemplate, targetBattle, err := state.Repository.GetSquaddieByBattleId(occupant.BattleSquaddieID)
		if err != nil {
			return nil, err
		}

		modifiers := map[models.AttackModifier]int{}
		roll := rollForEffect(template, state.NumberGenerator)
		degree := DegreeOfSuccessSuccess
		if roll.Occurred {
			if template.CountsTowardsMultipleAttackPenalty() {
				penalty := decision.MultipleAttackPenaltyForAttackCount(priorAttacks + attacksThisDecision + 1)
				if penalty.MultipleAttackPenalty != 0 {
					modifiers[models.AttackModifierMultipleAttackPenalty] = penalty.MultipleAttackPenalty
				}
			}
			for name, value := range actorBattle.InBattleAttributes.AttackModifiers {
				if value != 0 {
					modifiers[name] += value
				}
			}
			modifierTotal := 0
			for _, v := range modifiers {
				modifierTotal += v
			}
			degree = DetermineDegreeOfSuccess(roll.Rolls, modifierTotal, targetBattle.ArmorClass(targetTemplate), template.Traits)
		}
		if template.CountsTowardsMultipleAttackPenalty() {
			attacksThisDecision++
		}

		change := SquaddieChange{BattleSquaddieID: targetBattle.BattleSquaddieID, ActorDegreeOfSuccess: degree}
		if degree.IsSuccess() {
			if damage := template.TotalDamage(); damage > 0 {
				if degree == DegreeOfSuccessCriticalSuccess {
					damage *= 2
				}
				change.DamageTaken = targetBattle.TakeDamage(damage)
				state.MissionStatistics.RecordHit(actorTemplate.Affiliation, targetTemplate.Affiliation, change.DamageTaken, degree == DegreeOfSuccessCriticalSuccess)
			}
			if healing := template.TotalHealing(); healing > 0 {
				change.HealingReceived = targetBattle.ReceiveHealing(healing, targetTemplate.Attributes.MaxHitPoints)
				state.MissionStatistics.RecordHealing(targetTemplate.Affiliation, change.HealingReceived)
			}
		}

		log.WithFields(logrus.Fields{
			"action":  template.ID,
			"rolls":   roll.Rolls,
			"degree":  degree,
			"damage":  change.DamageTaken,
			"healing": change.HealingReceived,
		}).Debug("action effect resolved")

		results.EffectResults = append(results.EffectResults, EffectResult{
			ActionTemplateID:        template.ID,
			TargetLocation:          validTargetLocation,
			ActingSquaddieRoll:      roll,
			ActingSquaddieModifiers: modifiers,
			SquaddieChanges:         []SquaddieChange{change},
		})
	}

	if err := phase.AddDecision(acting.Decision); err != nil {
		return nil, err
	}
	return results, nil
}
