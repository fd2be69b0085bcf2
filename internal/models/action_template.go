package models

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pefman/hex-tactics/internal/hexgrid"
	"gopkg.in/yaml.v3"
)

// ActionDecisionType is a choice the user must make before an action can be used.
type ActionDecisionType string

const (
	ActionDecisionTargetSquaddie    ActionDecisionType = "TARGET_SQUADDIE"
	ActionDecisionLocationSelection ActionDecisionType = "LOCATION_SELECTION"
	ActionDecisionActorSelection    ActionDecisionType = "ACTOR_SELECTION"
)

// ActionEffectSquaddieTemplate describes a single action effect. Build it with
// NewActionEffectSquaddieTemplate and treat it as read-only afterwards.
type ActionEffectSquaddieTemplate struct {
	ID                  string                 `json:"id" yaml:"id"`
	Name                string                 `json:"name" yaml:"name"`
	MinimumRange        int                    `json:"minimumRange" yaml:"minimumRange"`
	MaximumRange        int                    `json:"maximumRange" yaml:"maximumRange"`
	TargetingShape      hexgrid.TargetingShape `json:"targetingShape" yaml:"targetingShape"`
	DamageDescriptions  map[DamageType]int     `json:"damageDescriptions" yaml:"damageDescriptions"`
	HealingDescriptions map[HealingType]int    `json:"healingDescriptions" yaml:"healingDescriptions"`
	Traits              TraitStatusStorage     `json:"traits" yaml:"traits"`
	ActionPointCost     int                    `json:"actionPointCost" yaml:"actionPointCost"`
	ActionDecisions     []ActionDecisionType   `json:"actionDecisions" yaml:"actionDecisions"`
}

// NewActionEffectSquaddieTemplate copies t, fills in defaults and sanitizes it.
func NewActionEffectSquaddieTemplate(t ActionEffectSquaddieTemplate) (*ActionEffectSquaddieTemplate, error) {
	out := t.Clone()
	if err := out.Sanitize(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sanitize applies defaults for optional fields and rejects invalid ranges or
// missing identity.
func (t *ActionEffectSquaddieTemplate) Sanitize() error {
	if t.ID == "" {
		return fmt.Errorf("ActionEffectSquaddieTemplate cannot sanitize, missing id: %q", t.Name)
	}
	if t.Name == "" {
		return fmt.Errorf("ActionEffectSquaddieTemplate %q cannot sanitize, missing name", t.ID)
	}
	if t.MinimumRange < 0 || t.MaximumRange < 0 {
		return fmt.Errorf("ActionEffectSquaddieTemplate %q cannot sanitize, ranges must not be negative: %d, %d", t.ID, t.MinimumRange, t.MaximumRange)
	}
	if t.MinimumRange > t.MaximumRange {
		return fmt.Errorf("ActionEffectSquaddieTemplate %q cannot sanitize, minimumRange %d is more than maximumRange %d", t.ID, t.MinimumRange, t.MaximumRange)
	}
	if t.TargetingShape == "" || t.TargetingShape == hexgrid.TargetingShapeUnknown {
		t.TargetingShape = hexgrid.TargetingShapeSnake
	}
	if t.ActionPointCost <= 0 {
		t.ActionPointCost = 1
	}
	if len(t.ActionDecisions) == 0 {
		t.ActionDecisions = []ActionDecisionType{ActionDecisionTargetSquaddie}
	}
	t.DamageDescriptions = sanitizeDamageDescriptions(t.DamageDescriptions)
	t.HealingDescriptions = sanitizeHealingDescriptions(t.HealingDescriptions)
	t.Traits.Sanitize()
	return nil
}

func (t ActionEffectSquaddieTemplate) Clone() *ActionEffectSquaddieTemplate {
	out := t
	out.DamageDescriptions = make(map[DamageType]int, len(t.DamageDescriptions))
	for k, v := range t.DamageDescriptions {
		out.DamageDescriptions[k] = v
	}
	out.HealingDescriptions = make(map[HealingType]int, len(t.HealingDescriptions))
	for k, v := range t.HealingDescriptions {
		out.HealingDescriptions[k] = v
	}
	out.Traits = t.Traits.Clone()
	out.ActionDecisions = append([]ActionDecisionType(nil), t.ActionDecisions...)
	return &out
}

// TotalDamage sums every damage description.
func (t *ActionEffectSquaddieTemplate) TotalDamage() int {
	total := 0
	for _, amount := range t.DamageDescriptions {
		total += amount
	}
	return total
}

func (t *ActionEffectSquaddieTemplate) TotalHealing() int {
	total := 0
	for _, amount := range t.HealingDescriptions {
		total += amount
	}
	return total
}

// IsAttack: ATTACK trait set.
func (t *ActionEffectSquaddieTemplate) IsAttack() bool { return t.Traits.Has(TraitAttack) }

// CountsTowardsMultipleAttackPenalty is true for attacks without NO_MULTIPLE_ATTACK_PENALTY.
func (t *ActionEffectSquaddieTemplate) CountsTowardsMultipleAttackPenalty() bool {
	return t.Traits.Has(TraitAttack) && !t.Traits.Has(TraitNoMultipleAttackPenalty)
}

// ========================= Decoding =========================
// Ranges arrive as numbers; anything fractional is rejected before sanitize.

type actionTemplateWire struct {
	ID                  string                 `json:"id" yaml:"id"`
	Name                string                 `json:"name" yaml:"name"`
	MinimumRange        *float64               `json:"minimumRange" yaml:"minimumRange"`
	MaximumRange        *float64               `json:"maximumRange" yaml:"maximumRange"`
	TargetingShape      hexgrid.TargetingShape `json:"targetingShape" yaml:"targetingShape"`
	DamageDescriptions  map[DamageType]int     `json:"damageDescriptions" yaml:"damageDescriptions"`
	HealingDescriptions map[HealingType]int    `json:"healingDescriptions" yaml:"healingDescriptions"`
	Traits              TraitStatusStorage     `json:"traits" yaml:"traits"`
	ActionPointCost     int                    `json:"actionPointCost" yaml:"actionPointCost"`
	ActionDecisions     []ActionDecisionType   `json:"actionDecisions" yaml:"actionDecisions"`
}

func assertsInteger(v *float64) (int, error) {
	if v == nil {
		return 0, nil
	}
	if *v != math.Trunc(*v) || math.IsInf(*v, 0) || math.IsNaN(*v) {
		return 0, fmt.Errorf("Value must be an integer: %v", *v)
	}
	return int(*v), nil
}

func (w actionTemplateWire) build() (ActionEffectSquaddieTemplate, error) {
	minimum, err := assertsInteger(w.MinimumRange)
	if err != nil {
		return ActionEffectSquaddieTemplate{}, err
	}
	maximum, err := assertsInteger(w.MaximumRange)
	if err != nil {
		return ActionEffectSquaddieTemplate{}, err
	}
	t := ActionEffectSquaddieTemplate{
		ID:                  w.ID,
		Name:                w.Name,
		MinimumRange:        minimum,
		MaximumRange:        maximum,
		TargetingShape:      w.TargetingShape,
		DamageDescriptions:  w.DamageDescriptions,
		HealingDescriptions: w.HealingDescriptions,
		Traits:              w.Traits,
		ActionPointCost:     w.ActionPointCost,
		ActionDecisions:     w.ActionDecisions,
	}
	if err := t.Sanitize(); err != nil {
		return ActionEffectSquaddieTemplate{}, err
	}
	return t, nil
}

func (t *ActionEffectSquaddieTemplate) UnmarshalJSON(data []byte) error {
	var w actionTemplateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	built, err := w.build()
	if err != nil {
		return err
	}
	*t = built
	return nil
}

func (t *ActionEffectSquaddieTemplate) UnmarshalYAML(value *yaml.Node) error {
	var w actionTemplateWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	built, err := w.build()
	if err != nil {
		return err
	}
	*t = built
	return nil
}
