package api

import (
	"encoding/json"

	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/internal/game"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/stats"
)

// Event types sent on the battle websocket.
const (
	EventResults  = "results"
	EventRoundEnd = "round_end"
)

type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type MissionsResponse struct {
	Missions []string `json:"missions"`
}

type CreateBattleRequest struct {
	Mission string `json:"mission"`
}

type CreateBattleResponse struct {
	BattleID string              `json:"battleId"`
	Battle   game.BattleSnapshot `json:"battle"`
}

// SquaddieRequest names a squaddie and, for target queries, one of its actions.
type SquaddieRequest struct {
	BattleSquaddieID string `json:"battleSquaddieId"`
	ActionTemplateID string `json:"actionTemplateId,omitempty"`
}

type MovementResponse struct {
	LocationsByMoveActions map[int][]hexgrid.HexCoordinate `json:"locationsByMoveActions"`
}

// TargetsResponse carries the penalty the action would take if used now.
type TargetsResponse struct {
	Targets               []hexgrid.HexCoordinate        `json:"targets"`
	MultipleAttackPenalty decision.MultipleAttackPenalty `json:"multipleAttackPenalty"`
}

// ActionEffectRequest refers to action templates by id; the server supplies
// the template from the mission.
type ActionEffectRequest struct {
	Type                      decision.ActionEffectType `json:"type"`
	Destination               *hexgrid.HexCoordinate    `json:"destination,omitempty"`
	ActionTemplateID          string                    `json:"actionTemplateId,omitempty"`
	TargetLocation            *hexgrid.HexCoordinate    `json:"targetLocation,omitempty"`
	NumberOfActionPointsSpent int                       `json:"numberOfActionPointsSpent,omitempty"`
}

type DecisionRequest struct {
	BattleSquaddieID string                `json:"battleSquaddieId"`
	ActionEffects    []ActionEffectRequest `json:"actionEffects"`
}

type RoundResponse struct {
	Round int `json:"round"`
}

type RoundEndEvent struct {
	Round  int                 `json:"round"`
	Battle game.BattleSnapshot `json:"battle"`
}

type TopDamageResponse struct {
	Found     bool             `json:"found"`
	TopDamage *stats.TopDamage `json:"topDamage,omitempty"`
}

// Event is one websocket message. Data is decoded according to Type:
// game.Results for EventResults, RoundEndEvent for EventRoundEnd.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Move is a movement effect request.
func Move(destination hexgrid.HexCoordinate) ActionEffectRequest {
	return ActionEffectRequest{Type: decision.ActionEffectTypeMovement, Destination: &destination}
}

// UseAction is a squaddie effect request.
func UseAction(actionTemplateID string, target hexgrid.HexCoordinate) ActionEffectRequest {
	return ActionEffectRequest{Type: decision.ActionEffectTypeSquaddie, ActionTemplateID: actionTemplateID, TargetLocation: &target}
}

func EndTurn() ActionEffectRequest {
	return ActionEffectRequest{Type: decision.ActionEffectTypeEndTurn}
}
