package pathfinder

import (
	"os"
	"testing"

	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/mission"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/repository"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func hc(q, r int) hexgrid.HexCoordinate { return hexgrid.HexCoordinate{Q: q, R: r} }

func intPtr(v int) *int { return &v }

type battlefield struct {
	missionMap *mission.MissionMap
	repo       *repository.ObjectRepository
}

func newBattlefield(t *testing.T, rows ...string) *battlefield {
	t.Helper()
	repo := repository.New()
	for _, aff := range []models.SquaddieAffiliation{models.AffiliationPlayer, models.AffiliationEnemy, models.AffiliationAlly} {
		require.NoError(t, repo.AddSquaddieTemplate(&models.SquaddieTemplate{
			SquaddieTemplateID: string(aff),
			Name:               string(aff),
			Affiliation:        aff,
			Attributes:         models.ArmyAttributes{MaxHitPoints: 3, ArmorClass: 6, Movement: models.SquaddieMovement{MovementPerAction: 2}},
		}))
	}
	return &battlefield{missionMap: mission.NewMissionMap(hexgrid.MustTerrainTileMap(rows...)), repo: repo}
}

func (b *battlefield) place(t *testing.T, affiliation models.SquaddieAffiliation, battleID string, at hexgrid.HexCoordinate) {
	t.Helper()
	template, err := b.repo.GetSquaddieTemplate(string(affiliation))
	require.NoError(t, err)
	require.NoError(t, b.repo.AddBattleSquaddie(models.NewBattleSquaddie(battleID, template)))
	require.NoError(t, b.missionMap.AddSquaddie(template.SquaddieTemplateID, battleID, &at))
}

func (b *battlefield) search(p SearchParameters) *SearchResult {
	if p.ShapeGenerator == nil {
		p.ShapeGenerator = hexgrid.SnakeShapeGenerator{}
	}
	return Search(p, b.missionMap, b.repo)
}

func TestMovementWithinOneAction(t *testing.T) {
	b := newBattlefield(t, "1 1 1 1 1")
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 2, NumberOfActions: 1})

	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 1), hc(0, 2)}, result.GetStoppableLocations())
	_, ok := result.GetShortestPathToLocation(hc(0, 3))
	assert.False(t, ok)
}

func TestMoveActionsBandReachableTiles(t *testing.T) {
	b := newBattlefield(t, "1 1 1 1 1")
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 2, NumberOfActions: 2})

	bands := result.GetLocationsByNumberOfMoveActions()
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0)}, bands[0])
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 1), hc(0, 2)}, bands[1])
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 3), hc(0, 4)}, bands[2])

	actions, ok := result.NumberOfActionsToReachLocation(hc(0, 3))
	require.True(t, ok)
	assert.Equal(t, 2, actions)
	_, ok = result.NumberOfActionsToReachLocation(hc(0, 9))
	assert.False(t, ok)
}

func TestDoubleMovementStartsANewAction(t *testing.T) {
	b := newBattlefield(t, "1 2 1 1")
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 2, NumberOfActions: 2})

	path, ok := result.GetShortestPathToLocation(hc(0, 3))
	require.True(t, ok)
	assert.Equal(t, 4, path.TotalMovementCost)
	assert.Equal(t, 2, path.CurrentNumberOfMoveActions)

	actions, _ := result.NumberOfActionsToReachLocation(hc(0, 1))
	assert.Equal(t, 1, actions)
	actions, _ = result.NumberOfActionsToReachLocation(hc(0, 2))
	assert.Equal(t, 2, actions)
}

func TestStepCostingMoreThanAnActionIsImpossible(t *testing.T) {
	b := newBattlefield(t, "1 2 1")
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 1})

	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0)}, result.GetReachableLocations())

	result = b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 1, IgnoreTerrainCost: true})
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 1), hc(0, 2)}, result.GetStoppableLocations())
}

func TestWallsNeedPassThroughAndAreNotStoppable(t *testing.T) {
	b := newBattlefield(t, "1 x 1")
	start := []hexgrid.HexCoordinate{hc(0, 0)}

	result := b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1})
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0)}, result.GetReachableLocations())

	result = b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, PassThroughWalls: true})
	_, ok := result.GetShortestPathToLocation(hc(0, 1))
	assert.True(t, ok)
	assert.False(t, result.IsStoppable(hc(0, 1)))
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 2)}, result.GetStoppableLocations())
}

func TestPitsNeedCrossOverAndAreNotStoppable(t *testing.T) {
	b := newBattlefield(t, "1 - 1")
	start := []hexgrid.HexCoordinate{hc(0, 0)}

	result := b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, PassThroughWalls: true})
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0)}, result.GetReachableLocations())

	result = b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, CrossOverPits: true})
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 2)}, result.GetStoppableLocations())
	path, ok := result.GetShortestPathToLocation(hc(0, 2))
	require.True(t, ok)
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 1), hc(0, 2)}, path.Coordinates())
}

func TestSquaddiesBlockOrLetThrough(t *testing.T) {
	start := []hexgrid.HexCoordinate{hc(0, 0)}

	t.Run("unfriendly blocks", func(t *testing.T) {
		b := newBattlefield(t, "1 1 1 1")
		b.place(t, models.AffiliationEnemy, "enemy_0", hc(0, 1))
		result := b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, SquaddieAffiliation: models.AffiliationPlayer})
		assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0)}, result.GetReachableLocations())
	})

	t.Run("friendly passes but cannot stop", func(t *testing.T) {
		b := newBattlefield(t, "1 1 1 1")
		b.place(t, models.AffiliationAlly, "ally_0", hc(0, 1))
		result := b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, SquaddieAffiliation: models.AffiliationPlayer})
		assert.False(t, result.IsStoppable(hc(0, 1)))
		assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 2), hc(0, 3)}, result.GetStoppableLocations())
	})

	t.Run("can stop on squaddies", func(t *testing.T) {
		b := newBattlefield(t, "1 1 1 1")
		b.place(t, models.AffiliationEnemy, "enemy_0", hc(0, 1))
		result := b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, SquaddieAffiliation: models.AffiliationPlayer, CanStopOnSquaddies: true})
		assert.True(t, result.IsStoppable(hc(0, 1)))
	})

	t.Run("unknown affiliation never blocks", func(t *testing.T) {
		b := newBattlefield(t, "1 1 1 1")
		b.place(t, models.AffiliationEnemy, "enemy_0", hc(0, 1))
		result := b.search(SearchParameters{StartCoordinates: start, MovementPerAction: 3, NumberOfActions: 1, SquaddieAffiliation: models.AffiliationUnknown})
		assert.False(t, result.IsStoppable(hc(0, 1)))
		assert.True(t, result.IsStoppable(hc(0, 3)))
	})
}

func TestMinimumAndMaximumDistance(t *testing.T) {
	b := newBattlefield(t, "1 1 1", "1 1 1", "1 1 1")
	result := b.search(SearchParameters{
		StartCoordinates:     []hexgrid.HexCoordinate{hc(1, 1)},
		MovementPerAction:    2,
		NumberOfActions:      1,
		IgnoreTerrainCost:    true,
		MinimumDistanceMoved: intPtr(2),
		MaximumDistanceMoved: intPtr(2),
	})
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(2, 2)}, result.GetStoppableLocations())

	_, ok := result.GetShortestPathToLocation(hc(0, 1))
	assert.True(t, ok, "tiles inside the minimum are still traversed")
}

func TestStopLocationsEndTheSearch(t *testing.T) {
	b := newBattlefield(t, "1 1 1 1 1")
	result := b.search(SearchParameters{
		StartCoordinates:  []hexgrid.HexCoordinate{hc(0, 0)},
		MovementPerAction: 10,
		StopLocations:     []hexgrid.HexCoordinate{hc(0, 2)},
	})
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 2)}, result.StopLocationsReached)
	_, ok := result.GetShortestPathToLocation(hc(0, 4))
	assert.False(t, ok)
}

func TestShortestPathAvoidsExpensiveTerrain(t *testing.T) {
	b := newBattlefield(t, "1 2 2 1", "1 1 1 1")
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 10})

	path, ok := result.GetShortestPathToLocation(hc(0, 3))
	require.True(t, ok)
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(1, 0), hc(1, 1), hc(1, 2), hc(0, 3)}, path.Coordinates())
	assert.Equal(t, 4, path.TotalMovementCost)
	assert.Equal(t, hc(0, 0), path.Start())
	assert.Equal(t, 4, path.Steps[len(path.Steps)-1].CumulativeMovementCost)
}

func TestStartTilesCostNothing(t *testing.T) {
	b := newBattlefield(t, "1 1 1 1 1")
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0), hc(0, 4), hc(0, 4)}, MovementPerAction: 1, NumberOfActions: 1})

	for _, c := range []hexgrid.HexCoordinate{hc(0, 0), hc(0, 4)} {
		path, ok := result.GetShortestPathToLocation(c)
		require.True(t, ok)
		assert.Equal(t, 0, path.TotalMovementCost)
		assert.Equal(t, 0, path.CurrentNumberOfMoveActions)
	}
	assert.Equal(t, []hexgrid.HexCoordinate{hc(0, 0), hc(0, 1), hc(0, 3), hc(0, 4)}, result.GetStoppableLocations())
}

func TestOpenFieldReachIsExactlyTheBudget(t *testing.T) {
	rows := make([]string, 9)
	for i := range rows {
		rows[i] = "1 1 1 1 1 1 1 1 1"
	}
	b := newBattlefield(t, rows...)
	start := hc(4, 4)
	result := b.search(SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{start}, MovementPerAction: 2, NumberOfActions: 2})

	for _, c := range b.missionMap.Terrain().Coordinates() {
		distance := hexgrid.Distance(start, c)
		actions, ok := result.NumberOfActionsToReachLocation(c)
		if distance > 4 {
			assert.False(t, ok, "%s should be out of reach", c)
			continue
		}
		require.True(t, ok, "%s should be reachable", c)
		assert.Equal(t, (distance+1)/2, actions, "%s", c)
	}
}

func TestStoppableTilesHaveValidPaths(t *testing.T) {
	b := newBattlefield(t,
		"1 1 1 1 1 1 1 1",
		"1 1 2 2 1 x 1 1",
		"1 1 - - 1 x 1 1",
		"1 2 - - 1 1 1 1",
		"1 1 1 1 1 2 2 1",
		"_ 1 1 1 1 1 1 _",
	)
	b.place(t, models.AffiliationEnemy, "enemy_0", hc(3, 4))
	params := SearchParameters{
		StartCoordinates:    []hexgrid.HexCoordinate{hc(0, 0)},
		MovementPerAction:   3,
		NumberOfActions:     3,
		SquaddieAffiliation: models.AffiliationPlayer,
	}
	result := b.search(params)
	require.NotEmpty(t, result.GetStoppableLocations())

	generator := hexgrid.SnakeShapeGenerator{}
	for _, c := range result.GetStoppableLocations() {
		path, ok := result.GetShortestPathToLocation(c)
		require.True(t, ok)
		assert.Equal(t, hc(0, 0), path.Start())

		actions, remaining, cost := 0, 0, 0
		for i := 1; i < len(path.Steps); i++ {
			prev, cur := path.Steps[i-1].Coordinate, path.Steps[i].Coordinate
			assert.Contains(t, generator.CreateNeighboringHexCoordinates(prev), cur)

			tile := b.missionMap.MovementCostAt(cur)
			assert.NotEqual(t, hexgrid.MovementCostWall, tile)
			assert.NotEqual(t, hexgrid.MovementCostPit, tile)
			assert.NotEqual(t, hc(3, 4), cur, "path crosses the enemy")

			step := tile.Cost()
			if step > remaining {
				actions++
				remaining = params.MovementPerAction
			}
			remaining -= step
			cost += step
		}
		assert.Equal(t, cost, path.TotalMovementCost, "%s", c)
		assert.Equal(t, actions, path.CurrentNumberOfMoveActions, "%s", c)
		assert.LessOrEqual(t, actions, params.NumberOfActions)
	}
	assert.False(t, result.IsStoppable(hc(3, 4)))
}

func TestGetClosestStoppableLocation(t *testing.T) {
	b := newBattlefield(t, "1 1 1 1 1")
	b.place(t, models.AffiliationEnemy, "enemy_0", hc(0, 4))
	result := b.search(SearchParameters{
		StartCoordinates:    []hexgrid.HexCoordinate{hc(0, 0)},
		MovementPerAction:   2,
		NumberOfActions:     1,
		SquaddieAffiliation: models.AffiliationPlayer,
	})
	closest, ok := result.GetClosestStoppableLocation(hc(0, 4))
	require.True(t, ok)
	assert.Equal(t, hc(0, 2), closest)

	_, ok = newSearchResult().GetClosestStoppableLocation(hc(0, 0))
	assert.False(t, ok)
}

func TestSearchIsDeterministic(t *testing.T) {
	b := newBattlefield(t, "1 2 1 1", "1 1 2 1", "2 1 1 1")
	params := SearchParameters{StartCoordinates: []hexgrid.HexCoordinate{hc(0, 0)}, MovementPerAction: 2, NumberOfActions: 3}
	first := b.search(params)
	second := b.search(params)
	for _, c := range first.GetReachableLocations() {
		p1, _ := first.GetShortestPathToLocation(c)
		p2, ok := second.GetShortestPathToLocation(c)
		require.True(t, ok)
		assert.Equal(t, p1.Coordinates(), p2.Coordinates())
	}
}
