// Package mission places squaddies on the terrain and loads mission files.
package mission

import (
	"errors"
	"fmt"

	"github.com/pefman/hex-tactics/internal/hexgrid"
)

var (
	ErrLocationOffMap   = errors.New("location is off the map")
	ErrLocationOccupied = errors.New("location is occupied")
	ErrSquaddieUnknown  = errors.New("squaddie is not on this mission map")
)

// MissionMapSquaddieCoordinate is where a squaddie stands. Location is nil
// while the squaddie is off the board.
type MissionMapSquaddieCoordinate struct {
	SquaddieTemplateID string                 `json:"squaddieTemplateId"`
	BattleSquaddieID   string                 `json:"battleSquaddieId"`
	Location           *hexgrid.HexCoordinate `json:"location,omitempty"`
}

// MissionMap is the terrain plus the squaddies standing on it. At most one
// squaddie occupies a tile.
type MissionMap struct {
	terrain   *hexgrid.TerrainTileMap
	squaddies map[string]*MissionMapSquaddieCoordinate
	occupants map[hexgrid.HexCoordinate]string
	order     []string
}

func NewMissionMap(terrain *hexgrid.TerrainTileMap) *MissionMap {
	return &MissionMap{
		terrain:   terrain,
		squaddies: make(map[string]*MissionMapSquaddieCoordinate),
		occupants: make(map[hexgrid.HexCoordinate]string),
	}
}

func (m *MissionMap) Terrain() *hexgrid.TerrainTileMap { return m.terrain }

// MovementCostAt is the terrain lookup used by the search engine.
func (m *MissionMap) MovementCostAt(c hexgrid.HexCoordinate) hexgrid.MovementCost {
	return m.terrain.GetTileAt(c)
}

func (m *MissionMap) IsOnMap(c hexgrid.HexCoordinate) bool { return m.terrain.IsOnMap(c) }

// AddSquaddie registers a squaddie, placing it when location is not nil.
func (m *MissionMap) AddSquaddie(squaddieTemplateID, battleSquaddieID string, location *hexgrid.HexCoordinate) error {
	if battleSquaddieID == "" {
		return errors.New("squaddie has no battle id")
	}
	if _, ok := m.squaddies[battleSquaddieID]; ok {
		return fmt.Errorf("squaddie %q is already on the mission map", battleSquaddieID)
	}
	if location != nil {
		if err := m.checkFree(*location, battleSquaddieID); err != nil {
			return err
		}
	}
	entry := &MissionMapSquaddieCoordinate{SquaddieTemplateID: squaddieTemplateID, BattleSquaddieID: battleSquaddieID}
	m.squaddies[battleSquaddieID] = entry
	m.order = append(m.order, battleSquaddieID)
	if location != nil {
		loc := *location
		entry.Location = &loc
		m.occupants[loc] = battleSquaddieID
	}
	return nil
}

// UpdateSquaddieLocation moves a squaddie; nil takes it off the board.
func (m *MissionMap) UpdateSquaddieLocation(battleSquaddieID string, location *hexgrid.HexCoordinate) error {
	entry, ok := m.squaddies[battleSquaddieID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSquaddieUnknown, battleSquaddieID)
	}
	if location != nil {
		if err := m.checkFree(*location, battleSquaddieID); err != nil {
			return err
		}
	}
	if entry.Location != nil {
		delete(m.occupants, *entry.Location)
		entry.Location = nil
	}
	if location != nil {
		loc := *location
		entry.Location = &loc
		m.occupants[loc] = battleSquaddieID
	}
	return nil
}

func (m *MissionMap) checkFree(c hexgrid.HexCoordinate, mover string) error {
	if !m.terrain.IsOnMap(c) {
		return fmt.Errorf("%w: %s", ErrLocationOffMap, c)
	}
	if occupant, ok := m.occupants[c]; ok && occupant != mover {
		return fmt.Errorf("%w: %s by %q", ErrLocationOccupied, c, occupant)
	}
	return nil
}

// GetSquaddieByBattleId returns a copy of the squaddie's map entry.
func (m *MissionMap) GetSquaddieByBattleId(battleSquaddieID string) (MissionMapSquaddieCoordinate, bool) {
	entry, ok := m.squaddies[battleSquaddieID]
	if !ok {
		return MissionMapSquaddieCoordinate{}, false
	}
	return copyEntry(entry), true
}

// GetSquaddieLocation is the squaddie's tile, if it is on the board.
func (m *MissionMap) GetSquaddieLocation(battleSquaddieID string) (hexgrid.HexCoordinate, bool) {
	entry, ok := m.squaddies[battleSquaddieID]
	if !ok || entry.Location == nil {
		return hexgrid.HexCoordinate{}, false
	}
	return *entry.Location, true
}

func (m *MissionMap) GetSquaddieAtLocation(c hexgrid.HexCoordinate) (MissionMapSquaddieCoordinate, bool) {
	id, ok := m.occupants[c]
	if !ok {
		return MissionMapSquaddieCoordinate{}, false
	}
	return copyEntry(m.squaddies[id]), true
}

// Squaddies lists every registered squaddie in the order they were added.
func (m *MissionMap) Squaddies() []MissionMapSquaddieCoordinate {
	out := make([]MissionMapSquaddieCoordinate, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyEntry(m.squaddies[id]))
	}
	return out
}

func copyEntry(e *MissionMapSquaddieCoordinate) MissionMapSquaddieCoordinate {
	out := *e
	if e.Location != nil {
		loc := *e.Location
		out.Location = &loc
	}
	return out
}
