package stats

import (
	"sync"
	"time"
)

// TopDamage is one action's damage, kept when it is the biggest of the day.
type TopDamage struct {
	BattleID         string    `json:"battleId"`
	BattleSquaddieID string    `json:"battleSquaddieId"`
	ActionTemplateID string    `json:"actionTemplateId"`
	Damage           int       `json:"damage"`
	Critical         bool      `json:"critical"`
	At               time.Time `json:"at"`
}

// Store keeps statistics per battle (in-memory) and the daily top damage
// keyed by UTC date.
type Store struct {
	mu       sync.Mutex
	battles  map[string]MissionStatistics
	dailyMax map[string]TopDamage
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		battles:  make(map[string]MissionStatistics),
		dailyMax: make(map[string]TopDamage),
		now:      time.Now,
	}
}

func (s *Store) dateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

func (s *Store) Save(battleID string, st MissionStatistics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battles[battleID] = st
}

func (s *Store) Get(battleID string) (MissionStatistics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.battles[battleID]
	return st, ok
}

func (s *Store) Delete(battleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.battles, battleID)
}

// SaveTopDamage replaces today's entry when the damage is larger; on a tie a
// critical beats a plain hit.
func (s *Store) SaveTopDamage(d TopDamage) {
	if d.Damage <= 0 {
		return
	}
	if d.At.IsZero() {
		d.At = s.now()
	}
	key := s.dateKey(d.At)
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.dailyMax[key]
	if !ok || d.Damage > cur.Damage || (d.Damage == cur.Damage && d.Critical && !cur.Critical) {
		s.dailyMax[key] = d
	}
}

func (s *Store) TopDamageToday() (TopDamage, bool) {
	key := s.dateKey(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dailyMax[key]
	return d, ok
}

// ResetDaily clears the daily top damage. Intended for tests and dev convenience.
func (s *Store) ResetDaily() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.dailyMax {
		delete(s.dailyMax, k)
	}
}
