// Package engine provides the randomness used by combat resolution.
package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Die faces drawn by every NumberGenerator.
const (
	DieMinimumFace = 1
	DieMaximumFace = 6
)

// NumberGenerator hands out the next die face in [DieMinimumFace, DieMaximumFace].
type NumberGenerator interface {
	Next() int
}

// RandomNumberGenerator rolls real dice. Give it a fixed seed to replay a battle.
type RandomNumberGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomNumberGenerator(seed int64) *RandomNumberGenerator {
	return &RandomNumberGenerator{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededNumberGenerator is the default for live play.
func NewTimeSeededNumberGenerator() *RandomNumberGenerator {
	return NewRandomNumberGenerator(time.Now().UnixNano())
}

func (g *RandomNumberGenerator) Next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return DieMinimumFace + g.rng.Intn(DieMaximumFace-DieMinimumFace+1)
}

// StreamNumberGenerator replays a scripted sequence, wrapping around at the end.
// An empty stream always yields DieMinimumFace.
type StreamNumberGenerator struct {
	results []int
	next    int
	drawn   int
}

func NewStreamNumberGenerator(results ...int) *StreamNumberGenerator {
	return &StreamNumberGenerator{results: append([]int(nil), results...)}
}

func (g *StreamNumberGenerator) Next() int {
	g.drawn++
	if len(g.results) == 0 {
		return DieMinimumFace
	}
	v := g.results[g.next]
	g.next = (g.next + 1) % len(g.results)
	return v
}

// Drawn counts calls to Next since construction.
func (g *StreamNumberGenerator) Drawn() int { return g.drawn }
