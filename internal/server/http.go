package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pefman/hex-tactics/internal/api"
	"github.com/pefman/hex-tactics/internal/config"
	"github.com/pefman/hex-tactics/internal/engine"
	"github.com/pefman/hex-tactics/internal/game"
	"github.com/pefman/hex-tactics/internal/mission"
	"github.com/pefman/hex-tactics/internal/stats"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

var (
	ErrTooManyBattles = errors.New("too many battles")
	ErrBattleNotFound = errors.New("battle not found")
	ErrBadMissionName = errors.New("invalid mission name")
)

// Server hosts battles over HTTP. Each battle is a game.Service; the server
// only tracks them and fans out their events.
type Server struct {
	cfg       config.Config
	battleLog *game.BattleLog
	store     *stats.Store
	hub       *Broadcaster
	log       *logrus.Entry

	mu      sync.RWMutex
	battles map[string]*game.Service

	// NewNumberGenerator is called once per battle.
	NewNumberGenerator func() engine.NumberGenerator
}

// New builds a server. A nil battleLog or store gets an in-memory one.
func New(cfg config.Config, battleLog *game.BattleLog, store *stats.Store) *Server {
	if battleLog == nil {
		battleLog = game.NewBattleLog("")
	}
	if store == nil {
		store = stats.NewStore()
	}
	s := &Server{
		cfg:       cfg,
		battleLog: battleLog,
		store:     store,
		hub:       NewBroadcaster(),
		log:       logger.Component("server"),
		battles:   map[string]*game.Service{},
	}
	s.NewNumberGenerator = func() engine.NumberGenerator {
		if cfg.RNGSeed != nil {
			return engine.NewRandomNumberGenerator(*cfg.RNGSeed)
		}
		return engine.NewTimeSeededNumberGenerator()
	}
	return s
}

// Router builds the route table wrapped in CORS handling.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/api/missions", s.handleMissions).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/top-damage/today", s.handleTopDamageToday).Methods(http.MethodGet)

	r.HandleFunc("/api/battles", s.handleCreateBattle).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}", s.handleGetBattle).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}", s.handleDeleteBattle).Methods(http.MethodDelete)
	r.HandleFunc("/api/battles/{id}/movement", s.handleMovement).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/targets", s.handleTargets).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/decisions", s.handleDecision).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/rounds", s.handleEndRound).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/log", s.handleLog).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}/statistics", s.handleStatistics).Methods(http.MethodGet)

	r.HandleFunc("/ws/battles/{id}", s.handleWS).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return withCORS(r)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(code),
		Message: msg,
		Status:  code,
	})
}

// simple CORS for GET/POST/DELETE/OPTIONS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.VersionResponse{Version: config.BuildVersion, BuildTime: config.BuildTime})
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.MissionDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot read mission directory")
		return
	}
	out := api.MissionsResponse{Missions: []string{}}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		out.Missions = append(out.Missions, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out.Missions)
	writeJSON(w, out)
}

func (s *Server) handleTopDamageToday(w http.ResponseWriter, r *http.Request) {
	top, ok := s.store.TopDamageToday()
	if !ok {
		writeJSON(w, api.TopDamageResponse{})
		return
	}
	writeJSON(w, api.TopDamageResponse{Found: true, TopDamage: &top})
}

func (s *Server) missionPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", ErrBadMissionName
	}
	return filepath.Join(s.cfg.MissionDir, name+".yaml"), nil
}

func (s *Server) handleCreateBattle(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBattleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	path, err := s.missionPath(req.Mission)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := mission.LoadMissionFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "unknown mission "+req.Mission)
			return
		}
		s.log.WithError(err).WithField("mission", req.Mission).Warn("mission failed to load")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := uuid.NewString()
	svc := game.NewService(id, m, s.NewNumberGenerator(), s.battleLog, s.store)
	s.mu.Lock()
	if len(s.battles) >= s.cfg.MaxBattles {
		s.mu.Unlock()
		writeError(w, http.StatusTooManyRequests, ErrTooManyBattles.Error())
		return
	}
	s.battles[id] = svc
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"battle": id, "mission": m.ID}).Info("battle created")
	writeJSONStatus(w, http.StatusCreated, api.CreateBattleResponse{BattleID: id, Battle: svc.Snapshot()})
}

func (s *Server) battle(w http.ResponseWriter, r *http.Request) (*game.Service, bool) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	svc, ok := s.battles[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, ErrBattleNotFound.Error()+": "+id)
	}
	return svc, ok
}
