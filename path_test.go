package snesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationPathVisitsEveryCellOnce(t *testing.T) {
	g, _ := NewGridStructure(4, 4, 1, 1, 1, 1, 0, 0, 0)
	path := NewSimulationPath(g, 1, NewRNG(42))
	require.Equal(t, g.N(), path.Len())

	seen := map[string]bool{}
	count := 0
	for {
		si, ok := path.VisitNext()
		if !ok {
			break
		}
		key := si.Key()
		assert.False(t, seen[key], "cell visited twice: %s", key)
		seen[key] = true
		count++
	}
	assert.Equal(t, g.N(), count)
	assert.Equal(t, g.N(), path.FrozenCount())
}

func TestSimulationPathDeterministicShuffle(t *testing.T) {
	g, _ := NewGridStructure(4, 4, 1, 1, 1, 1, 0, 0, 0)
	a := NewSimulationPath(g, 1, NewRNG(42))
	b := NewSimulationPath(g, 1, NewRNG(42))

	for {
		sa, oka := a.VisitNext()
		sb, okb := b.VisitNext()
		require.Equal(t, oka, okb)
		if !oka {
			break
		}
		assert.Equal(t, sa, sb)
	}
}

func TestSimulationPathFreezePreInformed(t *testing.T) {
	g, _ := NewGridStructure(3, 3, 1, 1, 1, 1, 0, 0, 0)
	path := NewSimulationPath(g, 1, NewRNG(1))
	pre := NewSpatialIndex(1, 1, 0, false)
	path.Freeze(pre)
	assert.Equal(t, 1, path.FrozenCount())

	for {
		si, ok := path.VisitNext()
		if !ok {
			break
		}
		assert.NotEqual(t, pre, si)
	}
}

func TestSimulationPathProgressClamp(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	path := NewSimulationPath(g, 1, NewRNG(1))
	assert.Equal(t, 0.0, path.Progress())

	_, _ = path.VisitNext()
	_, _ = path.VisitNext()
	_, _ = path.VisitNext()
	assert.Less(t, path.Progress(), 100.0)
	assert.Greater(t, path.Progress(), 0.0)

	_, _ = path.VisitNext()
	assert.Equal(t, 100.0, path.Progress())
}

func TestSimulationPathProgressMonotonic(t *testing.T) {
	g, _ := NewGridStructure(5, 5, 1, 1, 1, 1, 0, 0, 0)
	path := NewSimulationPath(g, 1, NewRNG(3))
	last := -1
	for {
		_, ok := path.VisitNext()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, path.FrozenCount(), last)
		last = path.FrozenCount()
	}
}
