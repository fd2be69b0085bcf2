package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pefman/hex-tactics/internal/decision"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ================= Battle log (in-memory) =================

const (
	LogEventDecision = "decision"
	LogEventRoundEnd = "round_end"
)

type BattleLogEntry struct {
	Time     int64              `json:"time"`
	Event    string             `json:"event"`
	Actor    string             `json:"actor,omitempty"`
	Round    int                `json:"round"`
	Step     int                `json:"step"`
	Decision *decision.Decision `json:"decision,omitempty"`
	Results  *Results           `json:"results,omitempty"`
}

type BattleRecord struct {
	ID      string           `json:"id"`
	Created int64            `json:"created"`
	Updated int64            `json:"updated"`
	Entries []BattleLogEntry `json:"entries"`
}

// BattleLog keeps one record per battle. When persistDir is set every append
// is also written to disk and Get falls back to disk for unknown ids.
type BattleLog struct {
	mu         sync.Mutex
	recs       map[string]*BattleRecord
	persistDir string
}

func NewBattleLog(persistDir string) *BattleLog {
	dir := strings.TrimSpace(persistDir)
	if dir != "" {
		if !filepath.IsAbs(dir) {
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Component("battlelog").WithError(err).Warn("battle log persistence disabled")
			dir = ""
		}
	}
	return &BattleLog{recs: map[string]*BattleRecord{}, persistDir: dir}
}

func (m *BattleLog) Append(id string, e BattleLogEntry) *BattleRecord {
	if id == "" {
		return nil
	}
	now := time.Now().Unix()
	if e.Time == 0 {
		e.Time = now
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		rec = &BattleRecord{ID: id, Created: now, Updated: now}
		m.recs[id] = rec
	}
	e.Step = len(rec.Entries) + 1
	rec.Entries = append(rec.Entries, e)
	rec.Updated = now
	if m.persistDir != "" {
		saveBattleRecord(m.persistDir, rec)
	}
	return rec
}

// Get returns a copy of the record, or nil.
func (m *BattleLog) Get(id string) *BattleRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok && m.persistDir != "" {
		if rec = loadBattleRecord(m.persistDir, id); rec != nil {
			m.recs[id] = rec
			ok = true
		}
	}
	if !ok {
		return nil
	}
	out := *rec
	out.Entries = append([]BattleLogEntry(nil), rec.Entries...)
	return &out
}

// ============ Optional local persistence for battle logs ============

func sanitizeIDForFile(id string) string {
	// keep alnum, dash, underscore; replace others with '-'
	b := make([]rune, 0, len(id))
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b = append(b, r)
		} else {
			b = append(b, '-')
		}
	}
	out := strings.Trim(strings.ReplaceAll(string(b), "--", "-"), "-")
	if out == "" {
		out = "battle"
	}
	return out
}

func battleFilePath(dir, id string) string {
	return filepath.Join(dir, sanitizeIDForFile(id)+".json")
}

func saveBattleRecord(dir string, rec *BattleRecord) {
	path := battleFilePath(dir, rec.ID)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		logger.Component("battlelog").WithError(err).WithField("battle", rec.ID).Warn("encode battle record")
		return
	}
	// write atomically
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logger.Component("battlelog").WithFields(logrus.Fields{"battle": rec.ID, "path": tmp}).WithError(err).Warn("write battle record")
		return
	}
	_ = os.Rename(tmp, path)
}

func loadBattleRecord(dir, id string) *BattleRecord {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	data, err := os.ReadFile(battleFilePath(dir, id))
	if err != nil {
		return nil
	}
	var rec BattleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Component("battlelog").WithError(err).WithField("battle", id).Warn("decode battle record")
		return nil
	}
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = id
	}
	return &rec
}
