package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattleLogInMemory(t *testing.T) {
	l := NewBattleLog("")
	assert.Nil(t, l.Append("", BattleLogEntry{Event: LogEventRoundEnd}))
	assert.Nil(t, l.Get("missing"))

	l.Append("b1", BattleLogEntry{Event: LogEventRoundEnd, Round: 1})
	l.Append("b1", BattleLogEntry{Event: LogEventRoundEnd, Round: 2})

	rec := l.Get("b1")
	require.NotNil(t, rec)
	require.Len(t, rec.Entries, 2)
	assert.Equal(t, 1, rec.Entries[0].Step)
	assert.Equal(t, 2, rec.Entries[1].Step)
	assert.NotZero(t, rec.Entries[0].Time)

	rec.Entries[0].Event = "changed"
	assert.Equal(t, LogEventRoundEnd, l.Get("b1").Entries[0].Event)
}

func TestBattleLogPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	f := newServiceFixture(t, 3, 4)
	d := decision.MustDecision(
		decision.NewActionEffectMovement(besideFoe, 0),
		decision.NewActionEffectSquaddie(f.action(t, "sword"), bruteStart, 0),
	)
	results, err := f.svc.SubmitDecision("hero_0", d)
	require.NoError(t, err)

	first := NewBattleLog(dir)
	first.Append("duel/1", BattleLogEntry{Event: LogEventDecision, Actor: "hero_0", Round: 1, Decision: d, Results: results})
	_, err = os.Stat(filepath.Join(dir, "duel-1.json"))
	require.NoError(t, err)

	rec := NewBattleLog(dir).Get("duel/1")
	require.NotNil(t, rec)
	assert.Equal(t, "duel/1", rec.ID)
	require.Len(t, rec.Entries, 1)
	entry := rec.Entries[0]
	require.NotNil(t, entry.Decision)
	destination, ok := entry.Decision.Destination()
	require.True(t, ok)
	assert.Equal(t, besideFoe, destination)
	require.Len(t, entry.Decision.SquaddieEffects(), 1)
	assert.Equal(t, "sword", entry.Decision.SquaddieEffects()[0].Template.ID)
	require.NotNil(t, entry.Results)
	assert.Equal(t, results.EffectResults[0].SquaddieChanges, entry.Results.EffectResults[0].SquaddieChanges)
}

func TestSanitizeIDForFile(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitizeIDForFile("a/b c"))
	assert.Equal(t, "battle_7", sanitizeIDForFile("battle_7"))
	assert.Equal(t, "battle", sanitizeIDForFile("../"))
}
