package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/engine"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/mission"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/pathfinder"
	"github.com/pefman/hex-tactics/internal/stats"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

var (
	ErrSquaddieIsDead        = errors.New("squaddie is dead")
	ErrSquaddieOffMap        = errors.New("squaddie is not on the map")
	ErrTurnAlreadyEnded      = errors.New("squaddie already ended its turn")
	ErrDestinationOutOfReach = errors.New("destination is out of reach")
	ErrActionNotAvailable    = errors.New("squaddie does not have this action")
	ErrTargetOutOfRange      = errors.New("target is out of range")
	ErrInvalidTarget         = errors.New("action cannot target this squaddie")
	ErrMixedTargets          = errors.New("squaddie effects in one decision must share a target")
)

// Service runs one battle. All methods are safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	battleID  string
	missionID string
	state     *BattleState
	round     int
	battleLog *BattleLog
	store     *stats.Store
	log       *logrus.Entry
}

// NewService starts a battle on a loaded mission. battleLog and store may be nil.
func NewService(battleID string, m *mission.Mission, gen engine.NumberGenerator, battleLog *BattleLog, store *stats.Store) *Service {
	state := NewBattleState(m.Repository, m.Map, gen)
	state.MissionStatistics.Start()
	if store != nil {
		store.Save(battleID, *state.MissionStatistics)
	}
	return &Service{
		battleID:  battleID,
		missionID: m.ID,
		state:     state,
		round:     1,
		battleLog: battleLog,
		store:     store,
		log:       logger.Component("battle").WithField("battle", battleID),
	}
}

func (s *Service) BattleID() string { return s.battleID }

func (s *Service) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// State exposes the battle state. Callers must not use it concurrently with
// the service.
func (s *Service) State() *BattleState { return s.state }

// SubmitDecision validates and applies one decision for a squaddie: movement
// is checked with a movement search, squaddie effects with a targeting search,
// and the action point budget must cover the whole decision.
func (s *Service) SubmitDecision(battleSquaddieID string, d *decision.Decision) (*Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(battleSquaddieID, d)
}

// plannedDecision is a validated decision with every movement cost filled in.
type plannedDecision struct {
	decision    *decision.Decision
	destination *hexgrid.HexCoordinate
	target      *hexgrid.HexCoordinate
	cost        int
}

func (s *Service) submitLocked(battleSquaddieID string, d *decision.Decision) (*Results, error) {
	if d == nil {
		return nil, decision.ErrEmptyDecision
	}
	template, battle, err := s.state.Repository.GetSquaddieByBattleId(battleSquaddieID)
	if err != nil {
		return nil, err
	}
	if battle.IsDead() {
		return nil, fmt.Errorf("%w: %q", ErrSquaddieIsDead, battleSquaddieID)
	}
	location, ok := s.state.MissionMap.GetSquaddieLocation(battleSquaddieID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSquaddieOffMap, battleSquaddieID)
	}
	phase := s.state.DecisionsFor(battleSquaddieID)
	if _, set := phase.StartingLocation(); !set {
		if err := phase.AddStartingLocation(location); err != nil {
			return nil, err
		}
	}
	if phase.WillEndTurn() {
		return nil, fmt.Errorf("%w: %q", ErrTurnAlreadyEnded, battleSquaddieID)
	}

	plan, err := s.plan(template, battle, location, d)
	if err != nil {
		return nil, err
	}
	if plan.cost > battle.SquaddieTurn.RemainingActionPoints {
		return nil, fmt.Errorf("%w: %s has %d, needs %d", models.ErrNotEnoughActionPoints, battleSquaddieID, battle.SquaddieTurn.RemainingActionPoints, plan.cost)
	}
	if plan.target != nil && s.state.NumberGenerator == nil {
		return nil, ErrMissingNumberSource
	}

	// The decision is valid; apply it.
	if plan.destination != nil && *plan.destination != location {
		if err := s.state.MissionMap.UpdateSquaddieLocation(battleSquaddieID, plan.destination); err != nil {
			return nil, err
		}
	}
	if err := battle.SpendActionPoints(plan.cost); err != nil {
		return nil, err
	}

	resolved := plan.decision
	results := &Results{ActingBattleSquaddieID: battleSquaddieID}
	if plan.target != nil {
		s.state.SquaddieCurrentlyActing = &SquaddieCurrentlyActing{BattleSquaddieID: battleSquaddieID, Decision: resolved}
		results, err = CalculateResults(s.state, battleSquaddieID, *plan.target)
		s.state.SquaddieCurrentlyActing = nil
		if err != nil {
			return nil, err
		}
		s.removeFallen(results)
	} else if err := phase.AddDecision(resolved); err != nil {
		return nil, err
	}
	if resolved.WillEndTurn() {
		battle.EndTurn()
	}

	s.record(battleSquaddieID, resolved, results)
	return results, nil
}

// plan walks the effects in order, checking each from where the squaddie will
// be at that point. The caller's decision is left untouched.
func (s *Service) plan(template *models.SquaddieTemplate, battle *models.BattleSquaddie, location hexgrid.HexCoordinate, d *decision.Decision) (plannedDecision, error) {
	var p plannedDecision
	current := location
	effects := d.ActionEffects()
	for i, effect := range effects {
		switch e := effect.(type) {
		case *decision.ActionEffectMovement:
			params := pathfinder.MovementSearchParameters(template, battle, current)
			params.StopLocations = []hexgrid.HexCoordinate{e.Destination}
			result := pathfinder.Search(params, s.state.MissionMap, s.state.Repository)
			actions, reached := result.NumberOfActionsToReachLocation(e.Destination)
			if !reached || !result.IsStoppable(e.Destination) {
				return p, fmt.Errorf("%w: %s", ErrDestinationOutOfReach, e.Destination)
			}
			spent := e.NumberOfActionPointsSpent
			if spent == 0 {
				spent = actions
			}
			if spent < actions {
				return p, fmt.Errorf("%w: %s needs %d action points", ErrDestinationOutOfReach, e.Destination, actions)
			}
			effects[i] = decision.NewActionEffectMovement(e.Destination, spent)
			current = e.Destination
			dest := current
			p.destination = &dest
		case *decision.ActionEffectSquaddie:
			if err := s.checkTarget(template, battle.BattleSquaddieID, current, e); err != nil {
				return p, err
			}
			if p.target != nil && *p.target != e.TargetLocation {
				return p, ErrMixedTargets
			}
			target := e.TargetLocation
			p.target = &target
		}
		p.cost += effects[i].ActionPointsSpent()
	}
	resolved, err := decision.NewDecision(effects...)
	if err != nil {
		return p, err
	}
	p.decision = resolved
	return p, nil
}

func (s *Service) checkTarget(actor *models.SquaddieTemplate, actorID string, from hexgrid.HexCoordinate, e *decision.ActionEffectSquaddie) error {
	known := false
	for _, id := range actor.ActionTemplateIDs {
		if id == e.Template.ID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrActionNotAvailable, e.Template.ID)
	}
	params, err := pathfinder.TargetingSearchParameters(e.Template, from)
	if err != nil {
		return err
	}
	result := pathfinder.Search(params, s.state.MissionMap, s.state.Repository)
	if !result.IsStoppable(e.TargetLocation) {
		return fmt.Errorf("%w: %s", ErrTargetOutOfRange, e.TargetLocation)
	}
	occupant, ok := s.state.MissionMap.GetSquaddieAtLocation(e.TargetLocation)
	if !ok {
		// the mover is not on its destination yet
		if e.TargetLocation != from {
			return fmt.Errorf("%w: %s", ErrNoTargetAtLocation, e.TargetLocation)
		}
		occupant.BattleSquaddieID = actorID
	} else if occupant.BattleSquaddieID == actorID && e.TargetLocation != from {
		return fmt.Errorf("%w: %s", ErrNoTargetAtLocation, e.TargetLocation)
	}
	targetTemplate, _, err := s.state.Repository.GetSquaddieByBattleId(occupant.BattleSquaddieID)
	if err != nil {
		return err
	}
	if !canTarget(e.Template.Traits, actor, actorID, targetTemplate, occupant.BattleSquaddieID) {
		return fmt.Errorf("%w: %q with %q", ErrInvalidTarget, occupant.BattleSquaddieID, e.Template.ID)
	}
	return nil
}

// canTarget applies the TARGETS_* traits. An action with none of them may
// target anyone.
func canTarget(traits models.TraitStatusStorage, actor *models.SquaddieTemplate, actorID string, target *models.SquaddieTemplate, targetID string) bool {
	self, ally, foe := traits.Has(models.TraitTargetsSelf), traits.Has(models.TraitTargetsAlly), traits.Has(models.TraitTargetsFoe)
	if !self && !ally && !foe {
		return true
	}
	switch {
	case targetID == actorID:
		return self
	case actor.Affiliation.IsFriendlyTo(target.Affiliation):
		return ally
	default:
		return foe
	}
}

func (s *Service) removeFallen(results *Results) {
	for _, e := range results.EffectResults {
		for _, c := range e.SquaddieChanges {
			_, battle, err := s.state.Repository.GetSquaddieByBattleId(c.BattleSquaddieID)
			if err != nil || !battle.IsDead() {
				continue
			}
			if err := s.state.MissionMap.UpdateSquaddieLocation(c.BattleSquaddieID, nil); err == nil {
				s.log.WithField("squaddie", c.BattleSquaddieID).Info("squaddie fell")
			}
		}
	}
}

func (s *Service) record(battleSquaddieID string, d *decision.Decision, results *Results) {
	if s.battleLog != nil {
		s.battleLog.Append(s.battleID, BattleLogEntry{
			Event:    LogEventDecision,
			Actor:    battleSquaddieID,
			Round:    s.round,
			Decision: d,
			Results:  results,
		})
	}
	if s.store != nil {
		s.store.Save(s.battleID, *s.state.MissionStatistics)
		for _, e := range results.EffectResults {
			for _, c := range e.SquaddieChanges {
				s.store.SaveTopDamage(stats.TopDamage{
					BattleID:         s.battleID,
					BattleSquaddieID: battleSquaddieID,
					ActionTemplateID: e.ActionTemplateID,
					Damage:           c.DamageTaken,
					Critical:         c.ActorDegreeOfSuccess == DegreeOfSuccessCriticalSuccess,
				})
			}
		}
	}
	s.log.WithFields(logrus.Fields{
		"squaddie": battleSquaddieID,
		"round":    s.round,
		"effects":  len(results.EffectResults),
		"damage":   results.TotalDamageDealt(),
	}).Debug("decision applied")
}

// EndRound restores action points, clears this round's decisions and returns
// the new round number.
func (s *Service) EndRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endRoundLocked()
}

func (s *Service) endRoundLocked() int {
	for _, id := range s.state.Repository.BattleSquaddieIDs() {
		if _, battle, err := s.state.Repository.GetSquaddieByBattleId(id); err == nil && !battle.IsDead() {
			battle.BeginNewRound()
		}
	}
	s.state.ResetDecisions()
	if s.battleLog != nil {
		s.battleLog.Append(s.battleID, BattleLogEntry{Event: LogEventRoundEnd, Round: s.round})
	}
	s.round++
	s.log.WithField("round", s.round).Info("round started")
	return s.round
}

// MovementOptions searches where the squaddie can move with its remaining
// action points.
func (s *Service) MovementOptions(battleSquaddieID string) (*pathfinder.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	template, battle, err := s.state.Repository.GetSquaddieByBattleId(battleSquaddieID)
	if err != nil {
		return nil, err
	}
	location, ok := s.state.MissionMap.GetSquaddieLocation(battleSquaddieID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSquaddieOffMap, battleSquaddieID)
	}
	params := pathfinder.MovementSearchParameters(template, battle, location)
	return pathfinder.Search(params, s.state.MissionMap, s.state.Repository), nil
}

// TargetOptions lists the occupied tiles the action could be used on.
func (s *Service) TargetOptions(battleSquaddieID, actionTemplateID string) ([]hexgrid.HexCoordinate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	template, _, err := s.state.Repository.GetSquaddieByBattleId(battleSquaddieID)
	if err != nil {
		return nil, err
	}
	action, err := s.state.Repository.GetActionTemplateById(actionTemplateID)
	if err != nil {
		return nil, err
	}
	location, ok := s.state.MissionMap.GetSquaddieLocation(battleSquaddieID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSquaddieOffMap, battleSquaddieID)
	}
	params, err := pathfinder.TargetingSearchParameters(action, location)
	if err != nil {
		return nil, err
	}
	var out []hexgrid.HexCoordinate
	for _, c := range pathfinder.Search(params, s.state.MissionMap, s.state.Repository).GetStoppableLocations() {
		occupant, ok := s.state.MissionMap.GetSquaddieAtLocation(c)
		if !ok {
			continue
		}
		targetTemplate, _, err := s.state.Repository.GetSquaddieByBattleId(occupant.BattleSquaddieID)
		if err != nil {
			continue
		}
		if canTarget(action.Traits, template, battleSquaddieID, targetTemplate, occupant.BattleSquaddieID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// MultipleAttackPenaltyPreview is the penalty the squaddie's next use of the
// action would take this round. Actions that do not count toward the penalty
// take none.
func (s *Service) MultipleAttackPenaltyPreview(battleSquaddieID, actionTemplateID string) (decision.MultipleAttackPenalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, err := s.state.Repository.GetSquaddieByBattleId(battleSquaddieID); err != nil {
		return decision.MultipleAttackPenalty{}, err
	}
	action, err := s.state.Repository.GetActionTemplateById(actionTemplateID)
	if err != nil {
		return decision.MultipleAttackPenalty{}, err
	}
	if !action.CountsTowardsMultipleAttackPenalty() {
		return decision.MultipleAttackPenalty{}, nil
	}
	phase, ok := s.state.DecisionsThisPhase[battleSquaddieID]
	if !ok {
		phase = decision.NewSquaddieDecisionsDuringThisPhase("", battleSquaddieID, nil)
	}
	next, err := decision.NewDecision(decision.NewActionEffectSquaddie(action, hexgrid.HexCoordinate{}, 0))
	if err != nil {
		return decision.MultipleAttackPenalty{}, err
	}
	return phase.PreviewMultipleAttackPenalty(next), nil
}

func (s *Service) Statistics() stats.MissionStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.MissionStatistics
}

// ActionTemplate looks up one of the mission's action templates.
func (s *Service) ActionTemplate(actionTemplateID string) (*models.ActionEffectSquaddieTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Repository.GetActionTemplateById(actionTemplateID)
}
