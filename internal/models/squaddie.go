package models

import (
	"errors"
	"fmt"
)

// DefaultActionPointsPerTurn is what every squaddie starts a round with.
const DefaultActionPointsPerTurn = 3

var ErrNotEnoughActionPoints = errors.New("not enough action points")

type SquaddieMovement struct {
	MovementPerAction int  `json:"movementPerAction" yaml:"movementPerAction"`
	PassThroughWalls  bool `json:"passThroughWalls,omitempty" yaml:"passThroughWalls"`
	CrossOverPits     bool `json:"crossOverPits,omitempty" yaml:"crossOverPits"`
}

type ArmyAttributes struct {
	MaxHitPoints int              `json:"maxHitPoints" yaml:"maxHitPoints"`
	ArmorClass   int              `json:"armorClass" yaml:"armorClass"`
	Movement     SquaddieMovement `json:"movement" yaml:"movement"`
}

// SquaddieTemplate is the shared definition behind one or more battle squaddies.
type SquaddieTemplate struct {
	SquaddieTemplateID string              `json:"squaddieTemplateId" yaml:"id"`
	Name               string              `json:"name" yaml:"name"`
	Affiliation        SquaddieAffiliation `json:"affiliation" yaml:"affiliation"`
	Traits             TraitStatusStorage  `json:"traits" yaml:"traits"`
	Attributes         ArmyAttributes      `json:"attributes" yaml:"attributes"`
	ActionTemplateIDs  []string            `json:"actionTemplateIds" yaml:"actions"`
}

// Validate checks the fields the engine depends on.
func (t *SquaddieTemplate) Validate() error {
	if t.SquaddieTemplateID == "" {
		return errors.New("squaddie template has no id")
	}
	if t.Attributes.MaxHitPoints <= 0 {
		return fmt.Errorf("squaddie template %q: maxHitPoints must be positive", t.SquaddieTemplateID)
	}
	if t.Attributes.Movement.MovementPerAction < 0 {
		return fmt.Errorf("squaddie template %q: movementPerAction must not be negative", t.SquaddieTemplateID)
	}
	if t.Affiliation == "" {
		t.Affiliation = AffiliationUnknown
	}
	return nil
}

// CanPassThroughWalls combines the movement flag and the trait.
func (t *SquaddieTemplate) CanPassThroughWalls() bool {
	return t.Attributes.Movement.PassThroughWalls || t.Traits.Has(TraitPassThroughWalls)
}

func (t *SquaddieTemplate) CanCrossOverPits() bool {
	return t.Attributes.Movement.CrossOverPits || t.Traits.Has(TraitCrossOverPits)
}

type InBattleAttributes struct {
	CurrentHitPoints   int                    `json:"currentHitPoints"`
	ArmorClassModifier int                    `json:"armorClassModifier,omitempty"`
	AttackModifiers    map[AttackModifier]int `json:"attackModifiers,omitempty"`
}

type SquaddieTurn struct {
	RemainingActionPoints int `json:"remainingActionPoints"`
}

// BattleSquaddie is one squaddie on the field.
type BattleSquaddie struct {
	BattleSquaddieID   string             `json:"battleSquaddieId"`
	SquaddieTemplateID string             `json:"squaddieTemplateId"`
	InBattleAttributes InBattleAttributes `json:"inBattleAttributes"`
	SquaddieTurn       SquaddieTurn       `json:"squaddieTurn"`
}

// NewBattleSquaddie starts at full health with a fresh turn.
func NewBattleSquaddie(battleSquaddieID string, template *SquaddieTemplate) *BattleSquaddie {
	return &BattleSquaddie{
		BattleSquaddieID:   battleSquaddieID,
		SquaddieTemplateID: template.SquaddieTemplateID,
		InBattleAttributes: InBattleAttributes{
			CurrentHitPoints: template.Attributes.MaxHitPoints,
			AttackModifiers:  map[AttackModifier]int{},
		},
		SquaddieTurn: SquaddieTurn{RemainingActionPoints: DefaultActionPointsPerTurn},
	}
}

func (b *BattleSquaddie) IsDead() bool { return b.InBattleAttributes.CurrentHitPoints <= 0 }

// TakeDamage removes hit points, never going below zero, and returns how many
// were actually lost.
func (b *BattleSquaddie) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := b.InBattleAttributes.CurrentHitPoints
	b.InBattleAttributes.CurrentHitPoints -= amount
	if b.InBattleAttributes.CurrentHitPoints < 0 {
		b.InBattleAttributes.CurrentHitPoints = 0
	}
	return before - b.InBattleAttributes.CurrentHitPoints
}

// ReceiveHealing restores hit points up to maxHitPoints and returns the amount restored.
func (b *BattleSquaddie) ReceiveHealing(amount, maxHitPoints int) int {
	if amount <= 0 {
		return 0
	}
	before := b.InBattleAttributes.CurrentHitPoints
	b.InBattleAttributes.CurrentHitPoints += amount
	if b.InBattleAttributes.CurrentHitPoints > maxHitPoints {
		b.InBattleAttributes.CurrentHitPoints = maxHitPoints
	}
	if b.InBattleAttributes.CurrentHitPoints < before {
		b.InBattleAttributes.CurrentHitPoints = before
	}
	return b.InBattleAttributes.CurrentHitPoints - before
}

// SpendActionPoints fails without spending anything when the budget is short.
func (b *BattleSquaddie) SpendActionPoints(n int) error {
	if n > b.SquaddieTurn.RemainingActionPoints {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrNotEnoughActionPoints, b.BattleSquaddieID, b.SquaddieTurn.RemainingActionPoints, n)
	}
	b.SquaddieTurn.RemainingActionPoints -= n
	return nil
}

func (b *BattleSquaddie) EndTurn() { b.SquaddieTurn.RemainingActionPoints = 0 }

func (b *BattleSquaddie) BeginNewRound() {
	b.SquaddieTurn.RemainingActionPoints = DefaultActionPointsPerTurn
}

// ArmorClass is the template's armor plus any in-battle modifier.
func (b *BattleSquaddie) ArmorClass(template *SquaddieTemplate) int {
	return template.Attributes.ArmorClass + b.InBattleAttributes.ArmorClassModifier
}
