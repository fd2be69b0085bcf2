package decision

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
)

var (
	ErrEmptyDecision       = errors.New("decision needs at least one action effect")
	ErrUnknownActionEffect = errors.New("unknown action effect type")
	ErrMissingTemplate     = errors.New("squaddie action effect has no template")
)

// Decision is an ordered, non-empty list of action effects taken as one unit.
type Decision struct {
	actionEffects []ActionEffect
}

func NewDecision(effects ...ActionEffect) (*Decision, error) {
	if len(effects) == 0 {
		return nil, ErrEmptyDecision
	}
	for i, e := range effects {
		if e == nil {
			return nil, fmt.Errorf("action effect %d is nil: %w", i, ErrUnknownActionEffect)
		}
		if s, ok := e.(*ActionEffectSquaddie); ok && s.Template == nil {
			return nil, fmt.Errorf("action effect %d: %w", i, ErrMissingTemplate)
		}
	}
	return &Decision{actionEffects: append([]ActionEffect(nil), effects...)}, nil
}

// MustDecision panics where NewDecision would fail.
func MustDecision(effects ...ActionEffect) *Decision {
	d, err := NewDecision(effects...)
	if err != nil {
		panic(err)
	}
	return d
}

// ActionEffects returns a copy of the effects in order.
func (d *Decision) ActionEffects() []ActionEffect {
	return append([]ActionEffect(nil), d.actionEffects...)
}

// Destination is the destination of the last movement effect.
func (d *Decision) Destination() (hexgrid.HexCoordinate, bool) {
	for i := len(d.actionEffects) - 1; i >= 0; i-- {
		if m, ok := d.actionEffects[i].(*ActionEffectMovement); ok {
			return m.Destination, true
		}
	}
	return hexgrid.HexCoordinate{}, false
}

func (d *Decision) WillEndTurn() bool {
	for _, e := range d.actionEffects {
		if e.Type() == ActionEffectTypeEndTurn {
			return true
		}
	}
	return false
}

// MultipleAttackPenaltyMultiplier counts the attacks that add to the penalty.
func (d *Decision) MultipleAttackPenaltyMultiplier() int {
	count := 0
	for _, e := range d.actionEffects {
		if s, ok := e.(*ActionEffectSquaddie); ok && s.countsTowardsMultipleAttackPenalty() {
			count++
		}
	}
	return count
}

func (d *Decision) ActionPointsSpent() int {
	total := 0
	for _, e := range d.actionEffects {
		total += e.ActionPointsSpent()
	}
	return total
}

// SquaddieEffects lists the SQUADDIE effects in order.
func (d *Decision) SquaddieEffects() []*ActionEffectSquaddie {
	var out []*ActionEffectSquaddie
	for _, e := range d.actionEffects {
		if s, ok := e.(*ActionEffectSquaddie); ok {
			out = append(out, s)
		}
	}
	return out
}

// ========================= JSON =========================
// Effects are written as {"type": "...", ...}; the type tag picks the variant.

type actionEffectWire struct {
	Type                      ActionEffectType                     `json:"type"`
	Destination               *hexgrid.HexCoordinate               `json:"destination,omitempty"`
	Template                  *models.ActionEffectSquaddieTemplate `json:"template,omitempty"`
	TargetLocation            *hexgrid.HexCoordinate               `json:"targetLocation,omitempty"`
	NumberOfActionPointsSpent int                                  `json:"numberOfActionPointsSpent,omitempty"`
}

type decisionWire struct {
	ActionEffects []actionEffectWire `json:"actionEffects"`
}

func encodeActionEffect(e ActionEffect) actionEffectWire {
	switch v := e.(type) {
	case *ActionEffectMovement:
		dest := v.Destination
		return actionEffectWire{Type: ActionEffectTypeMovement, Destination: &dest, NumberOfActionPointsSpent: v.NumberOfActionPointsSpent}
	case *ActionEffectSquaddie:
		target := v.TargetLocation
		return actionEffectWire{Type: ActionEffectTypeSquaddie, Template: v.Template, TargetLocation: &target, NumberOfActionPointsSpent: v.NumberOfActionPointsSpent}
	default:
		return actionEffectWire{Type: ActionEffectTypeEndTurn}
	}
}

func decodeActionEffect(w actionEffectWire) (ActionEffect, error) {
	switch w.Type {
	case ActionEffectTypeMovement:
		if w.Destination == nil {
			return nil, errors.New("movement action effect has no destination")
		}
		return NewActionEffectMovement(*w.Destination, w.NumberOfActionPointsSpent), nil
	case ActionEffectTypeSquaddie:
		if w.Template == nil {
			return nil, ErrMissingTemplate
		}
		if w.TargetLocation == nil {
			return nil, errors.New("squaddie action effect has no target location")
		}
		return NewActionEffectSquaddie(w.Template, *w.TargetLocation, w.NumberOfActionPointsSpent), nil
	case ActionEffectTypeEndTurn:
		return NewActionEffectEndTurn(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionEffect, w.Type)
	}
}

func (d *Decision) MarshalJSON() ([]byte, error) {
	w := decisionWire{ActionEffects: make([]actionEffectWire, 0, len(d.actionEffects))}
	for _, e := range d.actionEffects {
		w.ActionEffects = append(w.ActionEffects, encodeActionEffect(e))
	}
	return json.Marshal(w)
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	var w decisionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	effects := make([]ActionEffect, 0, len(w.ActionEffects))
	for i, ew := range w.ActionEffects {
		e, err := decodeActionEffect(ew)
		if err != nil {
			return fmt.Errorf("action effect %d: %w", i, err)
		}
		effects = append(effects, e)
	}
	decoded, err := NewDecision(effects...)
	if err != nil {
		return err
	}
	*d = *decoded
	return nil
}
