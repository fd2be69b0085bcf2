package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamNumberGeneratorReplaysInOrder(t *testing.T) {
	g := NewStreamNumberGenerator(1, 6, 3)
	assert.Equal(t, 1, g.Next())
	assert.Equal(t, 6, g.Next())
	assert.Equal(t, 3, g.Next())
	assert.Equal(t, 1, g.Next(), "wraps around")
	assert.Equal(t, 4, g.Drawn())
}

func TestStreamNumberGeneratorEmpty(t *testing.T) {
	g := NewStreamNumberGenerator()
	assert.Equal(t, DieMinimumFace, g.Next())
	assert.Equal(t, 1, g.Drawn())
}

func TestRandomNumberGeneratorStaysOnTheDie(t *testing.T) {
	g := NewRandomNumberGenerator(7)
	seen := map[int]bool{}
	for i := 0; i < 600; i++ {
		v := g.Next()
		assert.GreaterOrEqual(t, v, DieMinimumFace)
		assert.LessOrEqual(t, v, DieMaximumFace)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
}

func TestRandomNumberGeneratorIsReplayableBySeed(t *testing.T) {
	a := NewRandomNumberGenerator(99)
	b := NewRandomNumberGenerator(99)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestGeneratorsAreInterchangeable(t *testing.T) {
	for _, g := range []NumberGenerator{NewStreamNumberGenerator(2), NewTimeSeededNumberGenerator()} {
		v := g.Next()
		assert.True(t, v >= DieMinimumFace && v <= DieMaximumFace)
	}
}
