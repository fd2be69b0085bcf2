package pathfinder

import (
	"testing"

	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementSearchParametersUseRemainingActionPoints(t *testing.T) {
	template := &models.SquaddieTemplate{
		SquaddieTemplateID: "imp",
		Affiliation:        models.AffiliationEnemy,
		Traits:             models.NewTraitStatusStorage(map[models.Trait]bool{models.TraitCrossOverPits: true}),
		Attributes:         models.ArmyAttributes{MaxHitPoints: 3, Movement: models.SquaddieMovement{MovementPerAction: 3}},
	}
	battle := models.NewBattleSquaddie("imp_0", template)
	require.NoError(t, battle.SpendActionPoints(1))

	p := MovementSearchParameters(template, battle, hc(1, 1))
	assert.Equal(t, 2, p.NumberOfActions)
	assert.Equal(t, 3, p.MovementPerAction)
	assert.True(t, p.CrossOverPits)
	assert.False(t, p.PassThroughWalls)
	assert.Equal(t, models.AffiliationEnemy, p.SquaddieAffiliation)

	battle.EndTurn()
	b := newBattlefield(t, "1 1 1")
	result := b.search(MovementSearchParameters(template, battle, hc(0, 0)))
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0)}, result.GetReachableLocations())
}

func TestTargetingSearchParametersCoverRange(t *testing.T) {
	bow, err := models.NewActionEffectSquaddieTemplate(models.ActionEffectSquaddieTemplate{
		ID: "bow", Name: "Bow", MinimumRange: 1, MaximumRange: 2,
	})
	require.NoError(t, err)

	b := newBattlefield(t, "1 1 1", "1 2 1", "1 1 1")
	b.place(t, models.AffiliationEnemy, "enemy_0", hc(1, 2))
	p, err := TargetingSearchParameters(bow, hc(1, 1))
	require.NoError(t, err)

	result := b.search(p)
	stoppable := result.GetStoppableLocations()
	assert.Len(t, stoppable, 8)
	assert.NotContains(t, stoppable, hc(1, 1))
	assert.Contains(t, stoppable, hc(1, 2))
}

func TestTargetingSearchParametersRejectUnknownShape(t *testing.T) {
	action := &models.ActionEffectSquaddieTemplate{ID: "odd", Name: "Odd", TargetingShape: "SPIRAL"}
	_, err := TargetingSearchParameters(action, hc(0, 0))
	assert.EqualError(t, err, "Unexpected shape generator: SPIRAL")
}
