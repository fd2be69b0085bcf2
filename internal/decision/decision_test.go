package decision

import (
	"encoding/json"
	"testing"

	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplate(t *testing.T, id string, traits map[models.Trait]bool) *models.ActionEffectSquaddieTemplate {
	t.Helper()
	template, err := models.NewActionEffectSquaddieTemplate(models.ActionEffectSquaddieTemplate{
		ID:                 id,
		Name:               id,
		MinimumRange:       1,
		MaximumRange:       1,
		DamageDescriptions: map[models.DamageType]int{models.DamageTypeBody: 2},
		Traits:             models.NewTraitStatusStorage(traits),
		ActionPointCost:    1,
	})
	require.NoError(t, err)
	return template
}

func attack(t *testing.T) *models.ActionEffectSquaddieTemplate {
	return newTemplate(t, "longsword", map[models.Trait]bool{models.TraitAttack: true, models.TraitTargetsFoe: true})
}

func TestNewDecisionRejectsEmpty(t *testing.T) {
	_, err := NewDecision()
	assert.ErrorIs(t, err, ErrEmptyDecision)

	_, err = NewDecision(NewActionEffectSquaddie(nil, hexgrid.HexCoordinate{}, 1))
	assert.ErrorIs(t, err, ErrMissingTemplate)
}

func TestSquaddieEffectDefaultsActionPointsToTemplateCost(t *testing.T) {
	template := newTemplate(t, "heavy", map[models.Trait]bool{models.TraitAttack: true})
	template.ActionPointCost = 2

	effect := NewActionEffectSquaddie(template, hexgrid.HexCoordinate{Q: 0, R: 1}, 0)
	assert.Equal(t, 2, effect.ActionPointsSpent())

	effect = NewActionEffectSquaddie(template, hexgrid.HexCoordinate{Q: 0, R: 1}, 3)
	assert.Equal(t, 3, effect.ActionPointsSpent())
}

func TestDecisionQueries(t *testing.T) {
	d := MustDecision(
		NewActionEffectMovement(hexgrid.HexCoordinate{Q: 0, R: 2}, 1),
		NewActionEffectSquaddie(attack(t), hexgrid.HexCoordinate{Q: 0, R: 3}, 0),
		NewActionEffectMovement(hexgrid.HexCoordinate{Q: 1, R: 2}, 1),
	)

	dest, ok := d.Destination()
	require.True(t, ok)
	assert.Equal(t, hexgrid.HexCoordinate{Q: 1, R: 2}, dest)
	assert.False(t, d.WillEndTurn())
	assert.Equal(t, 1, d.MultipleAttackPenaltyMultiplier())
	assert.Equal(t, 3, d.ActionPointsSpent())
	assert.Len(t, d.SquaddieEffects(), 1)

	endTurn := MustDecision(NewActionEffectEndTurn())
	_, ok = endTurn.Destination()
	assert.False(t, ok)
	assert.True(t, endTurn.WillEndTurn())
	assert.Equal(t, 0, endTurn.ActionPointsSpent())
}

func TestDecisionMultiplierIgnoresNonAttacks(t *testing.T) {
	heal := newTemplate(t, "bandage", map[models.Trait]bool{models.TraitHealing: true, models.TraitTargetsAlly: true})
	noMAP := newTemplate(t, "jab", map[models.Trait]bool{models.TraitAttack: true, models.TraitNoMultipleAttackPenalty: true})

	d := MustDecision(
		NewActionEffectSquaddie(heal, hexgrid.HexCoordinate{}, 0),
		NewActionEffectSquaddie(noMAP, hexgrid.HexCoordinate{}, 0),
		NewActionEffectSquaddie(attack(t), hexgrid.HexCoordinate{}, 0),
	)
	assert.Equal(t, 1, d.MultipleAttackPenaltyMultiplier())
}

func TestActionEffectsReturnsCopy(t *testing.T) {
	d := MustDecision(NewActionEffectEndTurn())
	effects := d.ActionEffects()
	effects[0] = NewActionEffectMovement(hexgrid.HexCoordinate{}, 1)
	assert.True(t, d.WillEndTurn())
}

func TestDecisionJSONCarriesTypeTag(t *testing.T) {
	d := MustDecision(
		NewActionEffectMovement(hexgrid.HexCoordinate{Q: 0, R: 2}, 1),
		NewActionEffectSquaddie(attack(t), hexgrid.HexCoordinate{Q: 0, R: 3}, 0),
		NewActionEffectEndTurn(),
	)
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw struct {
		ActionEffects []map[string]any `json:"actionEffects"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.ActionEffects, 3)
	assert.Equal(t, "MOVEMENT", raw.ActionEffects[0]["type"])
	assert.Equal(t, "SQUADDIE", raw.ActionEffects[1]["type"])
	assert.Equal(t, "END_TURN", raw.ActionEffects[2]["type"])

	var decoded Decision
	require.NoError(t, json.Unmarshal(data, &decoded))
	effects := decoded.ActionEffects()
	require.Len(t, effects, 3)
	squaddie, ok := effects[1].(*ActionEffectSquaddie)
	require.True(t, ok)
	assert.Equal(t, "longsword", squaddie.Template.ID)
	assert.Equal(t, hexgrid.HexCoordinate{Q: 0, R: 3}, squaddie.TargetLocation)
	assert.True(t, decoded.WillEndTurn())
}

func TestDecisionJSONRejectsUnknownType(t *testing.T) {
	var d Decision
	err := json.Unmarshal([]byte(`{"actionEffects":[{"type":"TELEPORT"}]}`), &d)
	assert.ErrorIs(t, err, ErrUnknownActionEffect)

	err = json.Unmarshal([]byte(`{"actionEffects":[]}`), &d)
	assert.ErrorIs(t, err, ErrEmptyDecision)
}
