package game

import (
	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/engine"
	"github.com/pefman/hex-tactics/internal/mission"
	"github.com/pefman/hex-tactics/internal/repository"
	"github.com/pefman/hex-tactics/internal/stats"
)

// SquaddieCurrentlyActing is the squaddie whose decision is being resolved.
type SquaddieCurrentlyActing struct {
	BattleSquaddieID string
	Decision         *decision.Decision
}

// BattleState is everything the calculator reads and writes. The caller owns
// it and must not share it between goroutines without locking.
type BattleState struct {
	Repository        *repository.ObjectRepository
	MissionMap        *mission.MissionMap
	NumberGenerator   engine.NumberGenerator
	MissionStatistics *stats.MissionStatistics
	// DecisionsThisPhase is keyed by battle squaddie id and cleared every round.
	DecisionsThisPhase      map[string]*decision.SquaddieDecisionsDuringThisPhase
	SquaddieCurrentlyActing *SquaddieCurrentlyActing
}

func NewBattleState(repo *repository.ObjectRepository, missionMap *mission.MissionMap, gen engine.NumberGenerator) *BattleState {
	return &BattleState{
		Repository:         repo,
		MissionMap:         missionMap,
		NumberGenerator:    gen,
		MissionStatistics:  &stats.MissionStatistics{},
		DecisionsThisPhase: make(map[string]*decision.SquaddieDecisionsDuringThisPhase),
	}
}

// DecisionsFor returns the squaddie's accumulator for this round, creating it
// on first use.
func (s *BattleState) DecisionsFor(battleSquaddieID string) *decision.SquaddieDecisionsDuringThisPhase {
	if p, ok := s.DecisionsThisPhase[battleSquaddieID]; ok {
		return p
	}
	templateID := ""
	if _, battle, err := s.Repository.GetSquaddieByBattleId(battleSquaddieID); err == nil {
		templateID = battle.SquaddieTemplateID
	}
	p := decision.NewSquaddieDecisionsDuringThisPhase(templateID, battleSquaddieID, nil)
	s.DecisionsThisPhase[battleSquaddieID] = p
	return p
}

// ResetDecisions starts a fresh round of accumulators.
func (s *BattleState) ResetDecisions() {
	s.DecisionsThisPhase = make(map[string]*decision.SquaddieDecisionsDuringThisPhase)
	s.SquaddieCurrentlyActing = nil
}
