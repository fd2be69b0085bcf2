package game

import (
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
)

// DegreeOfSuccess is how well an action went for the actor.
type DegreeOfSuccess string

const (
	DegreeOfSuccessNone            DegreeOfSuccess = "NONE"
	DegreeOfSuccessCriticalSuccess DegreeOfSuccess = "CRITICAL_SUCCESS"
	DegreeOfSuccessSuccess         DegreeOfSuccess = "SUCCESS"
	DegreeOfSuccessFailure         DegreeOfSuccess = "FAILURE"
	DegreeOfSuccessCriticalFailure DegreeOfSuccess = "CRITICAL_FAILURE"
)

func (d DegreeOfSuccess) IsSuccess() bool {
	return d == DegreeOfSuccessSuccess || d == DegreeOfSuccessCriticalSuccess
}

func (d DegreeOfSuccess) IsCritical() bool {
	return d == DegreeOfSuccessCriticalSuccess || d == DegreeOfSuccessCriticalFailure
}

// ActingSquaddieRoll holds the dice, if any were rolled.
type ActingSquaddieRoll struct {
	Occurred bool  `json:"occurred"`
	Rolls    []int `json:"rolls,omitempty"`
}

// Total is the sum of the dice.
func (r ActingSquaddieRoll) Total() int {
	total := 0
	for _, v := range r.Rolls {
		total += v
	}
	return total
}

// SquaddieChange is what one target went through.
type SquaddieChange struct {
	BattleSquaddieID     string          `json:"battleSquaddieId"`
	ActorDegreeOfSuccess DegreeOfSuccess `json:"actorDegreeOfSuccess"`
	DamageTaken          int             `json:"damageTaken"`
	HealingReceived      int             `json:"healingReceived"`
}

// EffectResult is the outcome of one SQUADDIE action effect.
type EffectResult struct {
	ActionTemplateID        string                        `json:"actionTemplateId"`
	TargetLocation          hexgrid.HexCoordinate         `json:"targetLocation"`
	ActingSquaddieRoll      ActingSquaddieRoll            `json:"actingSquaddieRoll"`
	ActingSquaddieModifiers map[models.AttackModifier]int `json:"actingSquaddieModifiers"`
	SquaddieChanges         []SquaddieChange              `json:"squaddieChanges"`
}

// ModifierTotal sums every modifier applied to the roll.
func (e EffectResult) ModifierTotal() int {
	total := 0
	for _, v := range e.ActingSquaddieModifiers {
		total += v
	}
	return total
}

// Results is everything one decision did.
type Results struct {
	ActingBattleSquaddieID string         `json:"actingBattleSquaddieId"`
	EffectResults          []EffectResult `json:"effectResults"`
}

// TotalDamageDealt sums damage over every effect and target.
func (r *Results) TotalDamageDealt() int {
	total := 0
	for _, e := range r.EffectResults {
		for _, c := range e.SquaddieChanges {
			total += c.DamageTaken
		}
	}
	return total
}
