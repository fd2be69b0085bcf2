package mission

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/repository"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Placement puts one squaddie of a template on the board. An empty battle id
// is replaced with a generated one.
type Placement struct {
	SquaddieTemplateID string                `yaml:"template"`
	BattleSquaddieID   string                `yaml:"battleId"`
	Location           hexgrid.HexCoordinate `yaml:"location"`
}

// File is the YAML layout of a mission.
type File struct {
	ID                string                                 `yaml:"id"`
	Name              string                                 `yaml:"name"`
	Terrain           []string                               `yaml:"terrain"`
	SquaddieTemplates []*models.SquaddieTemplate             `yaml:"squaddieTemplates"`
	ActionTemplates   []*models.ActionEffectSquaddieTemplate `yaml:"actionTemplates"`
	Placements        []Placement                            `yaml:"placements"`
	// TeamStrategies names the AI used for each affiliation.
	TeamStrategies map[models.SquaddieAffiliation]string `yaml:"teamStrategies"`
}

// Mission is a loaded mission ready for battle.
type Mission struct {
	ID             string
	Name           string
	Map            *MissionMap
	Repository     *repository.ObjectRepository
	TeamStrategies map[models.SquaddieAffiliation]string
}

// LoadMissionFile reads and builds the mission at path.
func LoadMissionFile(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mission %s: %w", path, err)
	}
	m, err := ParseMission(data)
	if err != nil {
		return nil, fmt.Errorf("mission %s: %w", path, err)
	}
	return m, nil
}

// ParseMission decodes YAML mission data and builds it.
func ParseMission(data []byte) (*Mission, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Build()
}

// Build creates the terrain, repository and placements described by f.
func (f *File) Build() (*Mission, error) {
	log := logger.Component("mission")
	if f.ID == "" {
		return nil, errors.New("mission has no id")
	}
	terrain, err := hexgrid.NewTerrainTileMap(f.Terrain)
	if err != nil {
		return nil, err
	}
	repo := repository.New()
	for _, a := range f.ActionTemplates {
		if err := repo.AddActionTemplate(a); err != nil {
			return nil, err
		}
	}
	for _, t := range f.SquaddieTemplates {
		if err := repo.AddSquaddieTemplate(t); err != nil {
			return nil, err
		}
		for _, actionID := range t.ActionTemplateIDs {
			if _, err := repo.GetActionTemplateById(actionID); err != nil {
				return nil, fmt.Errorf("squaddie template %q: %w", t.SquaddieTemplateID, err)
			}
		}
	}

	missionMap := NewMissionMap(terrain)
	for i, p := range f.Placements {
		template, err := repo.GetSquaddieTemplate(p.SquaddieTemplateID)
		if err != nil {
			return nil, fmt.Errorf("placement %d: %w", i, err)
		}
		battleID := p.BattleSquaddieID
		if battleID == "" {
			battleID = p.SquaddieTemplateID + "_" + uuid.NewString()
		}
		if err := repo.AddBattleSquaddie(models.NewBattleSquaddie(battleID, template)); err != nil {
			return nil, fmt.Errorf("placement %d: %w", i, err)
		}
		loc := p.Location
		if err := missionMap.AddSquaddie(template.SquaddieTemplateID, battleID, &loc); err != nil {
			return nil, fmt.Errorf("placement %d: %w", i, err)
		}
	}

	strategies := make(map[models.SquaddieAffiliation]string, len(f.TeamStrategies))
	for k, v := range f.TeamStrategies {
		strategies[k] = v
	}
	log.WithFields(logrus.Fields{
		"mission":   f.ID,
		"squaddies": len(f.Placements),
		"actions":   len(f.ActionTemplates),
	}).Debug("mission built")

	return &Mission{
		ID:             f.ID,
		Name:           f.Name,
		Map:            missionMap,
		Repository:     repo,
		TeamStrategies: strategies,
	}, nil
}
