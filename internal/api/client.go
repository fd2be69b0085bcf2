package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pefman/hex-tactics/internal/game"
	"github.com/pefman/hex-tactics/internal/hexgrid"
	"github.com/pefman/hex-tactics/internal/stats"
	"github.com/pefman/hex-tactics/pkg/logger"
)

var httpClient = &http.Client{Timeout: 8 * time.Second}

const missionCacheTTL = 5 * time.Minute

// Config holds API configuration
type Config struct {
	BaseURL string
	// HTTPClient defaults to a client with an 8s timeout.
	HTTPClient *http.Client
}

// Client talks to a tactics server.
type Client struct {
	config Config

	// mission list changes only when files are added to the server
	missionMu       sync.RWMutex
	missionCache    []string
	missionCachedAt time.Time
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func NewClient(baseURL string) *Client {
	return NewClientWithConfig(Config{BaseURL: baseURL})
}

func NewClientWithConfig(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{config: cfg}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Message = e.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) apiGet(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) apiPost(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func battlePath(battleID string, parts ...string) string {
	p := "/api/battles/" + url.PathEscape(battleID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func (c *Client) Health(ctx context.Context) error {
	return c.apiGet(ctx, "/api/healthz", nil)
}

func (c *Client) Version(ctx context.Context) (VersionResponse, error) {
	var out VersionResponse
	err := c.apiGet(ctx, "/api/version", &out)
	return out, err
}

// ListMissions returns the server's mission names, cached for a few minutes.
func (c *Client) ListMissions(ctx context.Context) ([]string, error) {
	c.missionMu.RLock()
	if c.missionCache != nil && time.Since(c.missionCachedAt) < missionCacheTTL {
		out := append([]string(nil), c.missionCache...)
		c.missionMu.RUnlock()
		return out, nil
	}
	c.missionMu.RUnlock()

	var resp MissionsResponse
	if err := c.apiGet(ctx, "/api/missions", &resp); err != nil {
		return nil, err
	}
	c.missionMu.Lock()
	c.missionCache = append([]string{}, resp.Missions...)
	c.missionCachedAt = time.Now()
	c.missionMu.Unlock()
	return resp.Missions, nil
}

func (c *Client) CreateBattle(ctx context.Context, missionName string) (*CreateBattleResponse, error) {
	var out CreateBattleResponse
	if err := c.apiPost(ctx, "/api/battles", CreateBattleRequest{Mission: missionName}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Battle(ctx context.Context, battleID string) (*game.BattleSnapshot, error) {
	var out game.BattleSnapshot
	if err := c.apiGet(ctx, battlePath(battleID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBattle ends a battle on the server.
func (c *Client) DeleteBattle(ctx context.Context, battleID string) error {
	return c.do(ctx, http.MethodDelete, battlePath(battleID), nil, nil)
}

// MovementOptions lists where the squaddie can stop, keyed by move actions spent.
func (c *Client) MovementOptions(ctx context.Context, battleID, battleSquaddieID string) (map[int][]hexgrid.HexCoordinate, error) {
	var out MovementResponse
	if err := c.apiPost(ctx, battlePath(battleID, "movement"), SquaddieRequest{BattleSquaddieID: battleSquaddieID}, &out); err != nil {
		return nil, err
	}
	return out.LocationsByMoveActions, nil
}

// TargetOptions lists targetable tiles and the penalty the action would take.
func (c *Client) TargetOptions(ctx context.Context, battleID, battleSquaddieID, actionTemplateID string) (*TargetsResponse, error) {
	var out TargetsResponse
	req := SquaddieRequest{BattleSquaddieID: battleSquaddieID, ActionTemplateID: actionTemplateID}
	if err := c.apiPost(ctx, battlePath(battleID, "targets"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitDecision(ctx context.Context, battleID, battleSquaddieID string, effects ...ActionEffectRequest) (*game.Results, error) {
	var out game.Results
	req := DecisionRequest{BattleSquaddieID: battleSquaddieID, ActionEffects: effects}
	if err := c.apiPost(ctx, battlePath(battleID, "decisions"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndRound returns the new round number.
func (c *Client) EndRound(ctx context.Context, battleID string) (int, error) {
	var out RoundResponse
	if err := c.apiPost(ctx, battlePath(battleID, "rounds"), nil, &out); err != nil {
		return 0, err
	}
	return out.Round, nil
}

func (c *Client) BattleLog(ctx context.Context, battleID string) (*game.BattleRecord, error) {
	var out game.BattleRecord
	if err := c.apiGet(ctx, battlePath(battleID, "log"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Statistics(ctx context.Context, battleID string) (stats.MissionStatistics, error) {
	var out stats.MissionStatistics
	err := c.apiGet(ctx, battlePath(battleID, "statistics"), &out)
	return out, err
}

// TopDamageToday reports the biggest hit landed today on any battle.
func (c *Client) TopDamageToday(ctx context.Context) (stats.TopDamage, bool, error) {
	var out TopDamageResponse
	if err := c.apiGet(ctx, "/api/stats/top-damage/today", &out); err != nil {
		return stats.TopDamage{}, false, err
	}
	if !out.Found || out.TopDamage == nil {
		return stats.TopDamage{}, false, nil
	}
	return *out.TopDamage, true, nil
}

// Watch streams a battle's websocket events until ctx is done or the server
// closes the connection. The channel is closed when the stream ends.
func (c *Client) Watch(ctx context.Context, battleID string) (<-chan Event, error) {
	wsURL := "ws" + strings.TrimPrefix(c.config.BaseURL, "http") + "/ws/battles/" + url.PathEscape(battleID)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: err.Error()}
		}
		return nil, err
	}

	log := logger.Component("api").WithField("battle", battleID)
	events := make(chan Event, 16)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()
	go func() {
		defer close(events)
		defer close(done)
		for {
			var e Event
			if err := conn.ReadJSON(&e); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Debug("battle stream ended")
				}
				return
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
