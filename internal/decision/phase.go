package decision

import (
	"encoding/json"
	"errors"

	"github.com/pefman/hex-tactics/internal/hexgrid"
)

const (
	// MultipleAttackPenaltyPerStep is added to the attack roll once per prior attack.
	MultipleAttackPenaltyPerStep = -3
	// MaximumMultipleAttackPenaltyMultiplier caps the number of steps.
	MaximumMultipleAttackPenaltyMultiplier = 2
)

var ErrAlreadyHasStartingLocation = errors.New("already has starting location")

// MultipleAttackPenalty is the penalty the next attack would take.
type MultipleAttackPenalty struct {
	PenaltyMultiplier     int `json:"penaltyMultiplier"`
	MultipleAttackPenalty int `json:"multipleAttackPenalty"`
}

// MultipleAttackPenaltyForAttackCount turns a count of attacks made, including
// the one being resolved, into a penalty: the first attack is free and the
// multiplier stops at MaximumMultipleAttackPenaltyMultiplier.
func MultipleAttackPenaltyForAttackCount(attacks int) MultipleAttackPenalty {
	return MultipleAttackPenaltyForMultiplier(attacks - 1)
}

// MultipleAttackPenaltyForMultiplier clamps multiplier and scales it.
func MultipleAttackPenaltyForMultiplier(multiplier int) MultipleAttackPenalty {
	if multiplier < 0 {
		multiplier = 0
	}
	if multiplier > MaximumMultipleAttackPenaltyMultiplier {
		multiplier = MaximumMultipleAttackPenaltyMultiplier
	}
	return MultipleAttackPenalty{
		PenaltyMultiplier:     multiplier,
		MultipleAttackPenalty: multiplier * MultipleAttackPenaltyPerStep,
	}
}

// SquaddieDecisionsDuringThisPhase records everything one squaddie decided this
// round. Decisions are appended; nothing is removed until the round ends.
type SquaddieDecisionsDuringThisPhase struct {
	squaddieTemplateID string
	battleSquaddieID   string
	startingLocation   *hexgrid.HexCoordinate
	decisions          []*Decision
}

// NewSquaddieDecisionsDuringThisPhase may be given a nil startingLocation; it
// can be set once later with AddStartingLocation.
func NewSquaddieDecisionsDuringThisPhase(squaddieTemplateID, battleSquaddieID string, startingLocation *hexgrid.HexCoordinate) *SquaddieDecisionsDuringThisPhase {
	p := &SquaddieDecisionsDuringThisPhase{
		squaddieTemplateID: squaddieTemplateID,
		battleSquaddieID:   battleSquaddieID,
	}
	if startingLocation != nil {
		loc := *startingLocation
		p.startingLocation = &loc
	}
	return p
}

func (p *SquaddieDecisionsDuringThisPhase) SquaddieTemplateID() string { return p.squaddieTemplateID }
func (p *SquaddieDecisionsDuringThisPhase) BattleSquaddieID() string   { return p.battleSquaddieID }

func (p *SquaddieDecisionsDuringThisPhase) AddStartingLocation(location hexgrid.HexCoordinate) error {
	if p.startingLocation != nil {
		return ErrAlreadyHasStartingLocation
	}
	p.startingLocation = &location
	return nil
}

func (p *SquaddieDecisionsDuringThisPhase) StartingLocation() (hexgrid.HexCoordinate, bool) {
	if p.startingLocation == nil {
		return hexgrid.HexCoordinate{}, false
	}
	return *p.startingLocation, true
}

func (p *SquaddieDecisionsDuringThisPhase) AddDecision(d *Decision) error {
	if d == nil {
		return ErrEmptyDecision
	}
	p.decisions = append(p.decisions, d)
	return nil
}

func (p *SquaddieDecisionsDuringThisPhase) Decisions() []*Decision {
	return append([]*Decision(nil), p.decisions...)
}

func (p *SquaddieDecisionsDuringThisPhase) HasDecisions() bool { return len(p.decisions) > 0 }

// CurrentMultipleAttackPenalty is the penalty the most recent recorded attack
// took: none after the first attack, one step after the second.
func (p *SquaddieDecisionsDuringThisPhase) CurrentMultipleAttackPenalty() MultipleAttackPenalty {
	return MultipleAttackPenaltyForAttackCount(p.AttacksCommitted())
}

// PreviewMultipleAttackPenalty is what CurrentMultipleAttackPenalty would report
// if next were recorded. With a single attack in next it is the penalty that
// attack will take.
func (p *SquaddieDecisionsDuringThisPhase) PreviewMultipleAttackPenalty(next *Decision) MultipleAttackPenalty {
	attacks := p.AttacksCommitted()
	if next != nil {
		attacks += next.MultipleAttackPenaltyMultiplier()
	}
	return MultipleAttackPenaltyForAttackCount(attacks)
}

// AttacksCommitted counts recorded attack effects that raise the penalty.
func (p *SquaddieDecisionsDuringThisPhase) AttacksCommitted() int {
	total := 0
	for _, d := range p.decisions {
		total += d.MultipleAttackPenaltyMultiplier()
	}
	return total
}

// Destination is where the squaddie ends up: the last movement destination, or
// the starting location when it has not moved.
func (p *SquaddieDecisionsDuringThisPhase) Destination() (hexgrid.HexCoordinate, bool) {
	for i := len(p.decisions) - 1; i >= 0; i-- {
		if dest, ok := p.decisions[i].Destination(); ok {
			return dest, true
		}
	}
	return p.StartingLocation()
}

func (p *SquaddieDecisionsDuringThisPhase) WillEndTurn() bool {
	for _, d := range p.decisions {
		if d.WillEndTurn() {
			return true
		}
	}
	return false
}

func (p *SquaddieDecisionsDuringThisPhase) TotalActionPointsSpent() int {
	total := 0
	for _, d := range p.decisions {
		total += d.ActionPointsSpent()
	}
	return total
}

type phaseWire struct {
	SquaddieTemplateID string                 `json:"squaddieTemplateId"`
	BattleSquaddieID   string                 `json:"battleSquaddieId"`
	StartingLocation   *hexgrid.HexCoordinate `json:"startingLocation,omitempty"`
	Decisions          []*Decision            `json:"decisions"`
}

func (p *SquaddieDecisionsDuringThisPhase) MarshalJSON() ([]byte, error) {
	decisions := p.decisions
	if decisions == nil {
		decisions = []*Decision{}
	}
	return json.Marshal(phaseWire{
		SquaddieTemplateID: p.squaddieTemplateID,
		BattleSquaddieID:   p.battleSquaddieID,
		StartingLocation:   p.startingLocation,
		Decisions:          decisions,
	})
}

func (p *SquaddieDecisionsDuringThisPhase) UnmarshalJSON(data []byte) error {
	var w phaseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = *NewSquaddieDecisionsDuringThisPhase(w.SquaddieTemplateID, w.BattleSquaddieID, w.StartingLocation)
	for _, d := range w.Decisions {
		if err := p.AddDecision(d); err != nil {
			return err
		}
	}
	return nil
}
