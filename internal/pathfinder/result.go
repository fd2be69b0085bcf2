package pathfinder

import (
	"sort"

	"github.com/pefman/hex-tactics/internal/hexgrid"
)

type PathStep struct {
	Coordinate             hexgrid.HexCoordinate `json:"coordinate"`
	CumulativeMovementCost int                   `json:"cumulativeMovementCost"`
	NumberOfMoveActions    int                   `json:"numberOfMoveActions"`
}

// SearchPath is the best known way from a start coordinate to a tile.
type SearchPath struct {
	Steps                      []PathStep `json:"steps"`
	TotalMovementCost          int        `json:"totalMovementCost"`
	CurrentNumberOfMoveActions int        `json:"currentNumberOfMoveActions"`
}

func (p *SearchPath) Destination() hexgrid.HexCoordinate {
	return p.Steps[len(p.Steps)-1].Coordinate
}

func (p *SearchPath) Start() hexgrid.HexCoordinate { return p.Steps[0].Coordinate }

func (p *SearchPath) Coordinates() []hexgrid.HexCoordinate {
	out := make([]hexgrid.HexCoordinate, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Coordinate)
	}
	return out
}

// SearchResult holds every reachable tile, keyed q then r. A tile that is
// absent cannot be reached under the search parameters.
type SearchResult struct {
	shortestPathByLocation map[int]map[int]*SearchPath
	stoppable              []hexgrid.HexCoordinate
	stoppableSet           map[hexgrid.HexCoordinate]bool
	// StopLocationsReached lists the requested stop locations in the order they were settled.
	StopLocationsReached []hexgrid.HexCoordinate
}

func newSearchResult() *SearchResult {
	return &SearchResult{
		shortestPathByLocation: make(map[int]map[int]*SearchPath),
		stoppableSet:           make(map[hexgrid.HexCoordinate]bool),
	}
}

func (r *SearchResult) add(p *SearchPath, stoppable bool) {
	d := p.Destination()
	row, ok := r.shortestPathByLocation[d.Q]
	if !ok {
		row = make(map[int]*SearchPath)
		r.shortestPathByLocation[d.Q] = row
	}
	row[d.R] = p
	if stoppable {
		r.stoppable = append(r.stoppable, d)
		r.stoppableSet[d] = true
	}
}

func (r *SearchResult) GetShortestPathToLocation(c hexgrid.HexCoordinate) (*SearchPath, bool) {
	p, ok := r.shortestPathByLocation[c.Q][c.R]
	return p, ok
}

// GetReachableLocations lists every tile with a path, stoppable or not, by Q then R.
func (r *SearchResult) GetReachableLocations() []hexgrid.HexCoordinate {
	var out []hexgrid.HexCoordinate
	for q, row := range r.shortestPathByLocation {
		for rr := range row {
			out = append(out, hexgrid.HexCoordinate{Q: q, R: rr})
		}
	}
	hexgrid.SortCoordinates(out)
	return out
}

// GetStoppableLocations lists the tiles a searcher may end on, by Q then R.
func (r *SearchResult) GetStoppableLocations() []hexgrid.HexCoordinate {
	return append([]hexgrid.HexCoordinate(nil), r.stoppable...)
}

func (r *SearchResult) IsStoppable(c hexgrid.HexCoordinate) bool { return r.stoppableSet[c] }

// GetLocationsByNumberOfMoveActions groups stoppable tiles by the move actions
// needed to reach them.
func (r *SearchResult) GetLocationsByNumberOfMoveActions() map[int][]hexgrid.HexCoordinate {
	out := make(map[int][]hexgrid.HexCoordinate)
	for _, c := range r.stoppable {
		p, _ := r.GetShortestPathToLocation(c)
		out[p.CurrentNumberOfMoveActions] = append(out[p.CurrentNumberOfMoveActions], c)
	}
	return out
}

func (r *SearchResult) NumberOfActionsToReachLocation(c hexgrid.HexCoordinate) (int, bool) {
	p, ok := r.GetShortestPathToLocation(c)
	if !ok {
		return 0, false
	}
	return p.CurrentNumberOfMoveActions, true
}

// GetClosestStoppableLocation picks the stoppable tile nearest to target. Ties
// go to fewer move actions, then lower movement cost, then Q and R.
func (r *SearchResult) GetClosestStoppableLocation(target hexgrid.HexCoordinate) (hexgrid.HexCoordinate, bool) {
	if len(r.stoppable) == 0 {
		return hexgrid.HexCoordinate{}, false
	}
	candidates := r.GetStoppableLocations()
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := hexgrid.Distance(candidates[i], target), hexgrid.Distance(candidates[j], target)
		if di != dj {
			return di < dj
		}
		pi, _ := r.GetShortestPathToLocation(candidates[i])
		pj, _ := r.GetShortestPathToLocation(candidates[j])
		if pi.CurrentNumberOfMoveActions != pj.CurrentNumberOfMoveActions {
			return pi.CurrentNumberOfMoveActions < pj.CurrentNumberOfMoveActions
		}
		return pi.TotalMovementCost < pj.TotalMovementCost
	})
	return candidates[0], true
}
