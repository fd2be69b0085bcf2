package models

import (
	"encoding/json"

	"github.com/pefman/hex-tactics/pkg/logger"
	"gopkg.in/yaml.v3"
)

type Trait string

const (
	TraitUnknown                 Trait = "UNKNOWN"
	TraitAttack                  Trait = "ATTACK"
	TraitHealing                 Trait = "HEALING"
	TraitAlwaysSucceeds          Trait = "ALWAYS_SUCCEEDS"
	TraitCannotCriticallySucceed Trait = "CANNOT_CRITICALLY_SUCCEED"
	TraitCannotCriticallyFail    Trait = "CANNOT_CRITICALLY_FAIL"
	TraitNoMultipleAttackPenalty Trait = "NO_MULTIPLE_ATTACK_PENALTY"
	TraitTargetsSelf             Trait = "TARGETS_SELF"
	TraitTargetsAlly             Trait = "TARGETS_ALLY"
	TraitTargetsFoe              Trait = "TARGETS_FOE"
	TraitSkipAnimation           Trait = "SKIP_ANIMATION"
	TraitHumanoid                Trait = "HUMANOID"
	TraitMonsu                   Trait = "MONSU"
	TraitTerran                  Trait = "TERRAN"
	TraitDemon                   Trait = "DEMON"
	TraitCrossOverPits           Trait = "CROSS_OVER_PITS"
	TraitPassThroughWalls        Trait = "PASS_THROUGH_WALLS"
	TraitElusive                 Trait = "ELUSIVE"
)

type TraitCategory string

const (
	TraitCategoryAction   TraitCategory = "ACTION"
	TraitCategoryActivity TraitCategory = "ACTIVITY"
	TraitCategoryCreature TraitCategory = "CREATURE"
	TraitCategoryMovement TraitCategory = "MOVEMENT"
)

type traitInformation struct {
	description string
	categories  []TraitCategory
}

var traitInformationByTrait = map[Trait]traitInformation{
	TraitAttack:                  {"Attempts to harm the target", []TraitCategory{TraitCategoryAction, TraitCategoryActivity}},
	TraitHealing:                 {"Restores lost hit points", []TraitCategory{TraitCategoryAction, TraitCategoryActivity}},
	TraitAlwaysSucceeds:          {"No roll is made, the action succeeds", []TraitCategory{TraitCategoryAction}},
	TraitCannotCriticallySucceed: {"Critical successes become successes", []TraitCategory{TraitCategoryAction}},
	TraitCannotCriticallyFail:    {"Critical failures become failures", []TraitCategory{TraitCategoryAction}},
	TraitNoMultipleAttackPenalty: {"Does not add to the multiple attack penalty", []TraitCategory{TraitCategoryAction}},
	TraitTargetsSelf:             {"May target the user", []TraitCategory{TraitCategoryAction}},
	TraitTargetsAlly:             {"May target friendly squaddies", []TraitCategory{TraitCategoryAction}},
	TraitTargetsFoe:              {"May target unfriendly squaddies", []TraitCategory{TraitCategoryAction}},
	TraitSkipAnimation:           {"Resolves without an animation", []TraitCategory{TraitCategoryActivity}},
	TraitHumanoid:                {"Walks on two legs", []TraitCategory{TraitCategoryCreature}},
	TraitMonsu:                   {"Monster of the wilds", []TraitCategory{TraitCategoryCreature}},
	TraitTerran:                  {"Born on the surface", []TraitCategory{TraitCategoryCreature}},
	TraitDemon:                   {"Summoned from elsewhere", []TraitCategory{TraitCategoryCreature}},
	TraitCrossOverPits:           {"Moves over pits", []TraitCategory{TraitCategoryMovement}},
	TraitPassThroughWalls:        {"Moves through walls", []TraitCategory{TraitCategoryMovement}},
	TraitElusive:                 {"Moves through unfriendly squaddies", []TraitCategory{TraitCategoryMovement}},
}

// IsKnown reports whether t is a member of the enumeration other than UNKNOWN.
func (t Trait) IsKnown() bool {
	_, ok := traitInformationByTrait[t]
	return ok
}

func (t Trait) Description() string { return traitInformationByTrait[t].description }

// InCategory reports whether the trait's static metadata lists the category.
func (t Trait) InCategory(category TraitCategory) bool {
	for _, c := range traitInformationByTrait[t].categories {
		if c == category {
			return true
		}
	}
	return false
}

// TraitStatusStorage is a bag of boolean flags keyed by Trait.
type TraitStatusStorage struct {
	BooleanTraits map[Trait]bool `json:"booleanTraits" yaml:"booleanTraits"`
}

// NewTraitStatusStorage copies the known traits out of initial; unknown keys
// are logged and dropped.
func NewTraitStatusStorage(initial map[Trait]bool) TraitStatusStorage {
	storage := TraitStatusStorage{BooleanTraits: make(map[Trait]bool, len(initial))}
	for trait, value := range initial {
		if !trait.IsKnown() {
			logger.Component("traits").WithField("trait", trait).Warn("ignoring unknown trait")
			continue
		}
		storage.BooleanTraits[trait] = value
	}
	return storage
}

// GetStatus returns the stored value and whether the trait was set at all.
func (s TraitStatusStorage) GetStatus(trait Trait) (value bool, ok bool) {
	value, ok = s.BooleanTraits[trait]
	return value, ok
}

// Has is GetStatus collapsed to "set and true".
func (s TraitStatusStorage) Has(trait Trait) bool {
	return s.BooleanTraits[trait]
}

func (s *TraitStatusStorage) SetStatus(trait Trait, value bool) {
	if !trait.IsKnown() {
		logger.Component("traits").WithField("trait", trait).Warn("ignoring unknown trait")
		return
	}
	if s.BooleanTraits == nil {
		s.BooleanTraits = map[Trait]bool{}
	}
	s.BooleanTraits[trait] = value
}

// FilterCategory returns a new storage with only the traits in the category.
func (s TraitStatusStorage) FilterCategory(category TraitCategory) TraitStatusStorage {
	out := TraitStatusStorage{BooleanTraits: map[Trait]bool{}}
	for trait, value := range s.BooleanTraits {
		if trait.InCategory(category) {
			out.BooleanTraits[trait] = value
		}
	}
	return out
}

// Sanitize strips unknown keys in place, e.g. after decoding save data.
func (s *TraitStatusStorage) Sanitize() {
	*s = NewTraitStatusStorage(s.BooleanTraits)
}

func (s TraitStatusStorage) Clone() TraitStatusStorage {
	out := TraitStatusStorage{BooleanTraits: make(map[Trait]bool, len(s.BooleanTraits))}
	for k, v := range s.BooleanTraits {
		out.BooleanTraits[k] = v
	}
	return out
}

// Decoding accepts {"booleanTraits": {...}} as well as a bare {"ATTACK": true} map.

func (s *TraitStatusStorage) UnmarshalJSON(data []byte) error {
	type plain TraitStatusStorage
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.BooleanTraits == nil {
		if err := json.Unmarshal(data, &raw.BooleanTraits); err != nil {
			return err
		}
	}
	*s = NewTraitStatusStorage(raw.BooleanTraits)
	return nil
}

func (s *TraitStatusStorage) UnmarshalYAML(value *yaml.Node) error {
	type plain TraitStatusStorage
	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BooleanTraits == nil {
		if err := value.Decode(&raw.BooleanTraits); err != nil {
			return err
		}
	}
	*s = NewTraitStatusStorage(raw.BooleanTraits)
	return nil
}
