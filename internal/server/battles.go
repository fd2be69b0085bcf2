package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pefman/hex-tactics/internal/api"
	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/game"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/repository"
	"github.com/sirupsen/logrus"
)

// statusFor maps battle errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrSquaddieNotFound),
		errors.Is(err, repository.ErrActionTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrSquaddieIsDead),
		errors.Is(err, game.ErrSquaddieOffMap),
		errors.Is(err, game.ErrTurnAlreadyEnded):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotEnoughActionPoints),
		errors.Is(err, game.ErrDestinationOutOfReach),
		errors.Is(err, game.ErrActionNotAvailable),
		errors.Is(err, game.ErrTargetOutOfRange),
		errors.Is(err, game.ErrInvalidTarget),
		errors.Is(err, game.ErrMixedTargets),
		errors.Is(err, game.ErrNoTargetAtLocation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	writeJSON(w, svc.Snapshot())
}

// handleDeleteBattle drops the battle and its saved statistics. The battle log
// is kept.
func (s *Server) handleDeleteBattle(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.battles, svc.BattleID())
	s.mu.Unlock()
	s.store.Delete(svc.BattleID())
	s.log.WithField("battle", svc.BattleID()).Info("battle deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMovement(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	var req api.SquaddieRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := svc.MovementOptions(req.BattleSquaddieID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, api.MovementResponse{LocationsByMoveActions: result.GetLocationsByNumberOfMoveActions()})
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	var req api.SquaddieRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ActionTemplateID == "" {
		writeError(w, http.StatusBadRequest, "missing actionTemplateId")
		return
	}
	targets, err := svc.TargetOptions(req.BattleSquaddieID, req.ActionTemplateID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if targets == nil {
		targets = []hexgrid.HexCoordinate{}
	}
	penalty, err := svc.MultipleAttackPenaltyPreview(req.BattleSquaddieID, req.ActionTemplateID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, api.TargetsResponse{Targets: targets, MultipleAttackPenalty: penalty})
}

// buildDecision resolves action template ids against the battle's mission.
func buildDecision(svc *game.Service, req api.DecisionRequest) (*decision.Decision, error) {
	effects := make([]decision.ActionEffect, 0, len(req.ActionEffects))
	for i, e := range req.ActionEffects {
		switch e.Type {
		case decision.ActionEffectTypeMovement:
			if e.Destination == nil {
				return nil, fmt.Errorf("action effect %d: movement needs a destination", i)
			}
			effects = append(effects, decision.NewActionEffectMovement(*e.Destination, e.NumberOfActionPointsSpent))
		case decision.ActionEffectTypeSquaddie:
			if e.TargetLocation == nil {
				return nil, fmt.Errorf("action effect %d: squaddie effect needs a target location", i)
			}
			template, err := svc.ActionTemplate(e.ActionTemplateID)
			if err != nil {
				return nil, fmt.Errorf("action effect %d: %w", i, err)
			}
			effects = append(effects, decision.NewActionEffectSquaddie(template, *e.TargetLocation, e.NumberOfActionPointsSpent))
		case decision.ActionEffectTypeEndTurn:
			effects = append(effects, decision.NewActionEffectEndTurn())
		default:
			return nil, fmt.Errorf("action effect %d: %w: %q", i, decision.ErrUnknownActionEffect, e.Type)
		}
	}
	return decision.NewDecision(effects...)
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	var req api.DecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := buildDecision(svc, req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	results, err := svc.SubmitDecision(req.BattleSquaddieID, d)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"battle":   svc.BattleID(),
			"squaddie": req.BattleSquaddieID,
		}).WithError(err).Debug("decision rejected")
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.hub.Broadcast(svc.BattleID(), api.EventResults, results)
	writeJSON(w, results)
}

func (s *Server) handleEndRound(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	round := svc.EndRound()
	s.hub.Broadcast(svc.BattleID(), api.EventRoundEnd, api.RoundEndEvent{Round: round, Battle: svc.Snapshot()})
	writeJSON(w, api.RoundResponse{Round: round})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	rec := s.battleLog.Get(svc.BattleID())
	if rec == nil {
		rec = &game.BattleRecord{ID: svc.BattleID(), Entries: []game.BattleLogEntry{}}
	}
	writeJSON(w, rec)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	writeJSON(w, svc.Statistics())
}
