package stats

import (
	"testing"
	"time"

	"github.com/pefman/hex-tactics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsIgnoredUntilStarted(t *testing.T) {
	var s MissionStatistics
	s.RecordHit(models.AffiliationPlayer, models.AffiliationEnemy, 3, false)
	s.RecordHealing(models.AffiliationPlayer, 2)
	assert.Equal(t, MissionStatistics{}, s)

	var nilStats *MissionStatistics
	assert.NotPanics(t, func() { nilStats.RecordHit(models.AffiliationPlayer, models.AffiliationEnemy, 1, false) })
}

func TestStatisticsAttributeByAffiliation(t *testing.T) {
	var s MissionStatistics
	s.Start()

	s.RecordHit(models.AffiliationPlayer, models.AffiliationEnemy, 4, true)
	s.RecordHit(models.AffiliationEnemy, models.AffiliationPlayer, 2, false)
	s.RecordHit(models.AffiliationEnemy, models.AffiliationAlly, 5, false)
	s.RecordHealing(models.AffiliationPlayer, 2)
	s.RecordHealing(models.AffiliationEnemy, 9)

	assert.Equal(t, MissionStatistics{
		Started:                       true,
		DamageDealtByPlayerTeam:       4,
		DamageTakenByPlayerTeam:       2,
		HealingReceivedByPlayerTeam:   2,
		HitsDealtByPlayerTeam:         1,
		HitsTakenByPlayerTeam:         1,
		CriticalHitsDealtByPlayerTeam: 1,
	}, s)
}

func TestStoreKeepsDailyTopDamage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore()
	s.now = func() time.Time { return now }

	_, ok := s.TopDamageToday()
	assert.False(t, ok)

	s.SaveTopDamage(TopDamage{BattleSquaddieID: "knight_0", Damage: 2})
	s.SaveTopDamage(TopDamage{BattleSquaddieID: "imp_0", Damage: 1})
	s.SaveTopDamage(TopDamage{BattleSquaddieID: "archer_0", Damage: 2, Critical: true})
	s.SaveTopDamage(TopDamage{BattleSquaddieID: "ghost", Damage: 0})

	top, ok := s.TopDamageToday()
	require.True(t, ok)
	assert.Equal(t, "archer_0", top.BattleSquaddieID)

	s.SaveTopDamage(TopDamage{BattleSquaddieID: "yesterday", Damage: 9, At: now.Add(-24 * time.Hour)})
	top, _ = s.TopDamageToday()
	assert.Equal(t, "archer_0", top.BattleSquaddieID)

	s.ResetDaily()
	_, ok = s.TopDamageToday()
	assert.False(t, ok)
}

func TestStorePerBattle(t *testing.T) {
	s := NewStore()
	s.Save("b1", MissionStatistics{Started: true, DamageDealtByPlayerTeam: 3})
	got, ok := s.Get("b1")
	require.True(t, ok)
	assert.Equal(t, 3, got.DamageDealtByPlayerTeam)

	s.Delete("b1")
	_, ok = s.Get("b1")
	assert.False(t, ok)
}
