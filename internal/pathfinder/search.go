// Package pathfinder searches the hex grid for reachable and targetable tiles.
package pathfinder

import (
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/mission"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/repository"
)

type searcher struct {
	params     SearchParameters
	missionMap *mission.MissionMap
	repo       *repository.ObjectRepository
	starts     []hexgrid.HexCoordinate
	seq        int
}

// Search expands outward from the start coordinates and records the best path
// to every tile that can be reached. It reads the map and repository and
// changes nothing.
func Search(params SearchParameters, missionMap *mission.MissionMap, repo *repository.ObjectRepository) *SearchResult {
	s := &searcher{params: params, missionMap: missionMap, repo: repo}

	best := make(map[hexgrid.HexCoordinate]*searchNode)
	settled := make(map[hexgrid.HexCoordinate]*searchNode)
	var settledOrder []*searchNode
	pq := &nodeQueue{}

	for _, start := range params.StartCoordinates {
		if !missionMap.IsOnMap(start) {
			continue
		}
		if _, dup := best[start]; dup {
			continue
		}
		s.starts = append(s.starts, start)
		n := &searchNode{coordinate: start, seq: s.nextSeq()}
		best[start] = n
		pq.push(n)
	}

	pendingStops := make(map[hexgrid.HexCoordinate]bool, len(params.StopLocations))
	for _, c := range params.StopLocations {
		pendingStops[c] = true
	}
	var stopsReached []hexgrid.HexCoordinate

	for pq.Len() > 0 {
		n := pq.pop()
		if _, done := settled[n.coordinate]; done {
			continue
		}
		settled[n.coordinate] = n
		settledOrder = append(settledOrder, n)

		if pendingStops[n.coordinate] {
			delete(pendingStops, n.coordinate)
			stopsReached = append(stopsReached, n.coordinate)
			if len(pendingStops) == 0 {
				break
			}
		}

		for _, next := range params.ShapeGenerator.CreateNeighboringHexCoordinates(n.coordinate) {
			if _, done := settled[next]; done {
				continue
			}
			candidate, ok := s.step(n, next)
			if !ok {
				continue
			}
			if current, seen := best[next]; seen && !candidate.better(current) {
				continue
			}
			best[next] = candidate
			pq.push(candidate)
		}
	}

	return s.buildResult(settledOrder, stopsReached)
}

func (s *searcher) nextSeq() int {
	s.seq++
	return s.seq
}

// step tries to move from n onto next and returns the arrival.
func (s *searcher) step(n *searchNode, next hexgrid.HexCoordinate) (*searchNode, bool) {
	if !s.canEnter(next) {
		return nil, false
	}
	if limit := s.params.MaximumDistanceMoved; limit != nil && hexgrid.DistanceToNearest(next, s.starts) > *limit {
		return nil, false
	}
	cost := s.stepCost(next)
	if cost > s.params.MovementPerAction {
		return nil, false
	}
	actions, remaining := n.numberOfActions, n.movementRemaining
	if cost > remaining {
		actions++
		remaining = s.params.MovementPerAction
	}
	remaining -= cost
	if s.params.NumberOfActions > 0 && actions > s.params.NumberOfActions {
		return nil, false
	}
	return &searchNode{
		coordinate:        next,
		parent:            n,
		numberOfActions:   actions,
		movementRemaining: remaining,
		totalCost:         n.totalCost + cost,
		seq:               s.nextSeq(),
	}, true
}

func (s *searcher) stepCost(c hexgrid.HexCoordinate) int {
	if s.params.IgnoreTerrainCost {
		return 1
	}
	return s.missionMap.MovementCostAt(c).Cost()
}

func (s *searcher) canEnter(c hexgrid.HexCoordinate) bool {
	switch s.missionMap.MovementCostAt(c) {
	case hexgrid.MovementCostNone:
		return false
	case hexgrid.MovementCostWall:
		if !s.params.PassThroughWalls {
			return false
		}
	case hexgrid.MovementCostPit:
		if !s.params.CrossOverPits {
			return false
		}
	}

	occupant, occupied := s.missionMap.GetSquaddieAtLocation(c)
	if !occupied || s.params.CanStopOnSquaddies {
		return true
	}
	if s.params.SquaddieAffiliation == models.AffiliationUnknown || s.params.SquaddieAffiliation == "" {
		return true
	}
	return s.params.SquaddieAffiliation.IsFriendlyTo(s.affiliationOf(occupant.BattleSquaddieID))
}

func (s *searcher) affiliationOf(battleSquaddieID string) models.SquaddieAffiliation {
	if s.repo == nil {
		return models.AffiliationUnknown
	}
	template, _, err := s.repo.GetSquaddieByBattleId(battleSquaddieID)
	if err != nil {
		return models.AffiliationUnknown
	}
	return template.Affiliation
}

func (s *searcher) isStoppable(n *searchNode) bool {
	switch s.missionMap.MovementCostAt(n.coordinate) {
	case hexgrid.MovementCostWall, hexgrid.MovementCostPit, hexgrid.MovementCostNone:
		return false
	}
	if n.parent != nil && !s.params.CanStopOnSquaddies {
		if _, occupied := s.missionMap.GetSquaddieAtLocation(n.coordinate); occupied {
			return false
		}
	}
	distance := hexgrid.DistanceToNearest(n.coordinate, s.starts)
	if limit := s.params.MinimumDistanceMoved; limit != nil && distance < *limit {
		return false
	}
	if limit := s.params.MaximumDistanceMoved; limit != nil && distance > *limit {
		return false
	}
	return true
}

func (s *searcher) buildResult(settledOrder []*searchNode, stopsReached []hexgrid.HexCoordinate) *SearchResult {
	result := newSearchResult()
	for _, n := range settledOrder {
		result.add(pathFromNode(n), s.isStoppable(n))
	}
	result.StopLocationsReached = stopsReached
	hexgrid.SortCoordinates(result.stoppable)
	return result
}

func pathFromNode(n *searchNode) *SearchPath {
	var chain []*searchNode
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	steps := make([]PathStep, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		steps = append(steps, PathStep{
			Coordinate:             c.coordinate,
			CumulativeMovementCost: c.totalCost,
			NumberOfMoveActions:    c.numberOfActions,
		})
	}
	return &SearchPath{
		Steps:                      steps,
		TotalMovementCost:          n.totalCost,
		CurrentNumberOfMoveActions: n.numberOfActions,
	}
}
