package models

import (
	"github.com/pefman/hex-tactics/pkg/logger"
)

// ========================= Enumerations =========================

type DamageType string

const (
	DamageTypeUnknown DamageType = "UNKNOWN"
	DamageTypeBody    DamageType = "BODY"
	DamageTypeSoul    DamageType = "SOUL"
	DamageTypeMind    DamageType = "MIND"
)

func (d DamageType) IsKnown() bool {
	switch d {
	case DamageTypeBody, DamageTypeSoul, DamageTypeMind:
		return true
	}
	return false
}

type HealingType string

const (
	HealingTypeUnknown       HealingType = "UNKNOWN"
	HealingTypeLostHitPoints HealingType = "LOST_HIT_POINTS"
)

func (h HealingType) IsKnown() bool { return h == HealingTypeLostHitPoints }

// SquaddieAffiliation is the team a squaddie fights for.
type SquaddieAffiliation string

const (
	AffiliationUnknown SquaddieAffiliation = "UNKNOWN"
	AffiliationPlayer  SquaddieAffiliation = "PLAYER"
	AffiliationEnemy   SquaddieAffiliation = "ENEMY"
	AffiliationAlly    SquaddieAffiliation = "ALLY"
	AffiliationNone    SquaddieAffiliation = "NONE"
)

// IsFriendlyTo: same team, or the player and its allies.
// UNKNOWN is nobody's friend.
func (a SquaddieAffiliation) IsFriendlyTo(other SquaddieAffiliation) bool {
	if a == AffiliationUnknown || other == AffiliationUnknown || a == "" || other == "" {
		return false
	}
	if a == other {
		return true
	}
	playerSide := func(s SquaddieAffiliation) bool { return s == AffiliationPlayer || s == AffiliationAlly }
	return playerSide(a) && playerSide(other)
}

// AttackModifier names an entry in the acting squaddie's modifier table.
type AttackModifier string

const (
	AttackModifierMultipleAttackPenalty AttackModifier = "MULTIPLE_ATTACK_PENALTY"
	AttackModifierCircumstance          AttackModifier = "CIRCUMSTANCE"
)

func sanitizeDamageDescriptions(in map[DamageType]int) map[DamageType]int {
	out := make(map[DamageType]int, len(in))
	for k, v := range in {
		if !k.IsKnown() {
			logger.Component("models").WithField("damage_type", k).Warn("ignoring unknown damage type")
			continue
		}
		out[k] = v
	}
	return out
}

func sanitizeHealingDescriptions(in map[HealingType]int) map[HealingType]int {
	out := make(map[HealingType]int, len(in))
	for k, v := range in {
		if !k.IsKnown() {
			logger.Component("models").WithField("healing_type", k).Warn("ignoring unknown healing type")
			continue
		}
		out[k] = v
	}
	return out
}
