// Package stats tracks what happened to the player team during a mission.
package stats

import (
	"github.com/pefman/hex-tactics/internal/models"
)

// MissionStatistics is only updated once Started is set.
type MissionStatistics struct {
	Started                       bool `json:"started"`
	DamageDealtByPlayerTeam       int  `json:"damageDealtByPlayerTeam"`
	DamageTakenByPlayerTeam       int  `json:"damageTakenByPlayerTeam"`
	HealingReceivedByPlayerTeam   int  `json:"healingReceivedByPlayerTeam"`
	HitsDealtByPlayerTeam         int  `json:"hitsDealtByPlayerTeam"`
	HitsTakenByPlayerTeam         int  `json:"hitsTakenByPlayerTeam"`
	CriticalHitsDealtByPlayerTeam int  `json:"criticalHitsDealtByPlayerTeam"`
	CriticalHitsTakenByPlayerTeam int  `json:"criticalHitsTakenByPlayerTeam"`
}

func (s *MissionStatistics) Start() { s.Started = true }

func isPlayerTeam(a models.SquaddieAffiliation) bool { return a == models.AffiliationPlayer }

// RecordHit counts an attack that landed. Attribution is by affiliation: the
// player team deals it when the actor is a player squaddie and takes it when
// the target is one.
func (s *MissionStatistics) RecordHit(actor, target models.SquaddieAffiliation, damage int, critical bool) {
	if s == nil || !s.Started {
		return
	}
	if isPlayerTeam(actor) {
		s.HitsDealtByPlayerTeam++
		s.DamageDealtByPlayerTeam += damage
		if critical {
			s.CriticalHitsDealtByPlayerTeam++
		}
	}
	if isPlayerTeam(target) {
		s.HitsTakenByPlayerTeam++
		s.DamageTakenByPlayerTeam += damage
		if critical {
			s.CriticalHitsTakenByPlayerTeam++
		}
	}
}

func (s *MissionStatistics) RecordHealing(target models.SquaddieAffiliation, amount int) {
	if s == nil || !s.Started {
		return
	}
	if isPlayerTeam(target) {
		s.HealingReceivedByPlayerTeam += amount
	}
}
