package snesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSingleResolutionFillsEveryCell(t *testing.T) {
	ti := checkerboardTI(t, 16, 16)
	m, err := NewMouldAnisotropicTopK(4, 1, 1, 1, 1, false)
	require.NoError(t, err)

	g, _ := NewGridStructure(16, 16, 1, 1, 1, 1, 0, 0, 0)
	realization := NewProperty(g)

	cfg := DriverConfig{Theta: 75, Seed: 1, CDMin: 0, Workers: 2}
	require.NoError(t, RunSingleResolution(realization, ti, m, cfg))

	assert.Equal(t, 0, realization.NumMissing())
}

func TestRunSingleResolutionPreservesHardData(t *testing.T) {
	ti := checkerboardTI(t, 16, 16)
	m, err := NewMouldAnisotropicTopK(4, 1, 1, 1, 1, false)
	require.NoError(t, err)

	g, _ := NewGridStructure(16, 16, 1, 1, 1, 1, 0, 0, 0)
	realization := NewProperty(g)
	hard := NewSpatialIndex(3, 3, 0, false)
	require.NoError(t, realization.Set(hard, 9))

	cfg := DriverConfig{Theta: 75, Seed: 1, CDMin: 0, Workers: 1}
	require.NoError(t, RunSingleResolution(realization, ti, m, cfg))

	v, ok := realization.Get(hard)
	require.True(t, ok)
	assert.Equal(t, float32(9), v)
}

func TestRunSingleResolutionDegenerateAllOneCategory(t *testing.T) {
	g, _ := NewGridStructure(6, 6, 1, 1, 1, 1, 0, 0, 0)
	ti := NewProperty(g)
	ti.Fill(2)
	m, err := NewMouldAnisotropicTopK(4, 1, 1, 1, 1, false)
	require.NoError(t, err)

	realization := NewProperty(g)
	cfg := DriverConfig{Theta: 75, Seed: 1, CDMin: 0, Workers: 1}
	require.NoError(t, RunSingleResolution(realization, ti, m, cfg))

	for a := 0; a < realization.Len(); a++ {
		v, ok := realization.GetAt(a)
		require.True(t, ok)
		assert.Equal(t, float32(2), v)
	}
}

func TestRunSingleResolutionDeterministicBySeed(t *testing.T) {
	ti := checkerboardTI(t, 12, 12)
	m, err := NewMouldAnisotropicTopK(4, 1, 1, 1, 1, false)
	require.NoError(t, err)
	g, _ := NewGridStructure(12, 12, 1, 1, 1, 1, 0, 0, 0)

	run := func(seed uint32) *Property {
		r := NewProperty(g)
		cfg := DriverConfig{Theta: 75, Seed: seed, CDMin: 0, Workers: 1}
		require.NoError(t, RunSingleResolution(r, ti, m, cfg))
		return r
	}

	a := run(42)
	b := run(42)
	for i := 0; i < g.N(); i++ {
		va, _ := a.GetAt(i)
		vb, _ := b.GetAt(i)
		assert.Equal(t, va, vb)
	}
}
