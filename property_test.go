package snesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyStartsAllMissing(t *testing.T) {
	g, _ := NewGridStructure(3, 3, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	assert.Equal(t, 9, p.Len())
	assert.Equal(t, 9, p.NumMissing())
	for a := 0; a < p.Len(); a++ {
		_, ok := p.GetAt(a)
		assert.False(t, ok)
	}
}

func TestPropertySetGet(t *testing.T) {
	g, _ := NewGridStructure(3, 3, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	si := NewSpatialIndex(1, 1, 0, false)

	require.NoError(t, p.Set(si, 2))
	v, ok := p.Get(si)
	require.True(t, ok)
	assert.Equal(t, float32(2), v)
	assert.Equal(t, 8, p.NumMissing())

	// overwrite does not change missing count
	require.NoError(t, p.Set(si, 5))
	assert.Equal(t, 8, p.NumMissing())
}

func TestPropertyClear(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	si := NewSpatialIndex(0, 0, 0, false)
	require.NoError(t, p.Set(si, 1))
	assert.Equal(t, 3, p.NumMissing())
	require.NoError(t, p.Clear(si))
	assert.Equal(t, 4, p.NumMissing())
	_, ok := p.Get(si)
	assert.False(t, ok)
}

func TestPropertyOutOfBoundsIsMissingNotError(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	si := NewSpatialIndex(5, 5, 0, false)
	_, ok := p.Get(si)
	assert.False(t, ok)
}

func TestPropertyClone(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	si := NewSpatialIndex(0, 0, 0, false)
	require.NoError(t, p.Set(si, 9))

	clone := p.Clone()
	require.NoError(t, clone.Set(NewSpatialIndex(1, 0, 0, false), 3))

	_, ok := p.Get(NewSpatialIndex(1, 0, 0, false))
	assert.False(t, ok, "mutating the clone must not affect the original")
}

func TestPropertyFill(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	p.Fill(7)
	assert.Equal(t, 0, p.NumMissing())
	for a := 0; a < p.Len(); a++ {
		v, ok := p.GetAt(a)
		require.True(t, ok)
		assert.Equal(t, float32(7), v)
	}
}
