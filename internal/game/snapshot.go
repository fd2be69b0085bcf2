package game

import (
	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/stats"
)

// MaxDecisionsPerTurn bounds how many decisions a strategy may make for one
// squaddie before its turn is ended for it.
const MaxDecisionsPerTurn = 8

type SquaddieSnapshot struct {
	BattleSquaddieID      string                     `json:"battleSquaddieId"`
	SquaddieTemplateID    string                     `json:"squaddieTemplateId"`
	Name                  string                     `json:"name"`
	Affiliation           models.SquaddieAffiliation `json:"affiliation"`
	CurrentHitPoints      int                        `json:"currentHitPoints"`
	MaxHitPoints          int                        `json:"maxHitPoints"`
	RemainingActionPoints int                        `json:"remainingActionPoints"`
	Location              *hexgrid.HexCoordinate     `json:"location,omitempty"`
	ActionTemplateIDs     []string                   `json:"actionTemplateIds"`
}

type BattleSnapshot struct {
	BattleID   string                     `json:"battleId"`
	MissionID  string                     `json:"missionId"`
	Round      int                        `json:"round"`
	Squaddies  []SquaddieSnapshot         `json:"squaddies"`
	Statistics stats.MissionStatistics    `json:"statistics"`
	Winner     models.SquaddieAffiliation `json:"winner,omitempty"`
}

func (s *Service) Snapshot() BattleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := BattleSnapshot{
		BattleID:   s.battleID,
		MissionID:  s.missionID,
		Round:      s.round,
		Statistics: *s.state.MissionStatistics,
	}
	for _, id := range s.state.Repository.BattleSquaddieIDs() {
		template, battle, err := s.state.Repository.GetSquaddieByBattleId(id)
		if err != nil {
			continue
		}
		sq := SquaddieSnapshot{
			BattleSquaddieID:      id,
			SquaddieTemplateID:    template.SquaddieTemplateID,
			Name:                  template.Name,
			Affiliation:           template.Affiliation,
			CurrentHitPoints:      battle.InBattleAttributes.CurrentHitPoints,
			MaxHitPoints:          template.Attributes.MaxHitPoints,
			RemainingActionPoints: battle.SquaddieTurn.RemainingActionPoints,
			ActionTemplateIDs:     append([]string(nil), template.ActionTemplateIDs...),
		}
		if loc, ok := s.state.MissionMap.GetSquaddieLocation(id); ok {
			sq.Location = &loc
		}
		snap.Squaddies = append(snap.Squaddies, sq)
	}
	if winner, over := s.winnerLocked(); over {
		snap.Winner = winner
	}
	return snap
}

// Winner reports the surviving side once only one side has squaddies standing.
// Friendly affiliations count as one side, named after the first survivor.
func (s *Service) Winner() (models.SquaddieAffiliation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winnerLocked()
}

func (s *Service) winnerLocked() (models.SquaddieAffiliation, bool) {
	var survivors []models.SquaddieAffiliation
	for _, id := range s.state.Repository.BattleSquaddieIDs() {
		template, battle, err := s.state.Repository.GetSquaddieByBattleId(id)
		if err != nil || battle.IsDead() || template.Affiliation == models.AffiliationNone {
			continue
		}
		survivors = append(survivors, template.Affiliation)
	}
	if len(survivors) == 0 {
		return models.AffiliationNone, true
	}
	for _, a := range survivors[1:] {
		if !survivors[0].IsFriendlyTo(a) {
			return "", false
		}
	}
	return survivors[0], true
}

// PlayRound lets each living squaddie act under its team's strategy, in the
// order squaddies joined the battle, then ends the round. Squaddies without a
// strategy end their turn. Rejected decisions end the squaddie's turn.
func (s *Service) PlayRound(strategies map[models.SquaddieAffiliation]TeamStrategy) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	endTurn := decision.MustDecision(decision.NewActionEffectEndTurn())
	for _, id := range s.state.Repository.BattleSquaddieIDs() {
		if _, over := s.winnerLocked(); over {
			break
		}
		template, battle, err := s.state.Repository.GetSquaddieByBattleId(id)
		if err != nil || battle.IsDead() {
			continue
		}
		strategy, ok := strategies[template.Affiliation]
		if !ok {
			strategy = EndTurnStrategy{}
		}
		for i := 0; i < MaxDecisionsPerTurn; i++ {
			next := strategy.DetermineNextDecision(s.state, id)
			if next == nil {
				next = endTurn
			}
			if _, err := s.submitLocked(id, next); err != nil {
				s.log.WithError(err).WithField("squaddie", id).Warn("decision rejected, ending turn")
				next = endTurn
				if _, err := s.submitLocked(id, next); err != nil {
					break
				}
			}
			if next.WillEndTurn() || battle.IsDead() {
				break
			}
		}
	}
	return s.endRoundLocked()
}
