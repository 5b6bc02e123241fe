package snesim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCondDataResolvesCoordinates(t *testing.T) {
	g, _ := NewGridStructure(4, 4, 1, 1, 1, 1, 0, 0, 0)
	body := "x y facies\n0 0 1\n3 3 2\n"
	records, err := ReadCondData(strings.NewReader(body), g, "facies", -99, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, NewSpatialIndex(0, 0, 0, false), records[0].Index)
	assert.Equal(t, float32(1), records[0].Value)
	assert.Equal(t, NewSpatialIndex(3, 3, 0, false), records[1].Index)
}

func TestReadCondDataDiscardsOutOfBounds(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	body := "x y facies\n50 50 1\n0 0 3\n"
	records, err := ReadCondData(strings.NewReader(body), g, "facies", -99, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, float32(3), records[0].Value)
}

func TestReadCondDataSentinelDropped(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	body := "x y facies\n0 0 -99\n1 1 2\n"
	records, err := ReadCondData(strings.NewReader(body), g, "facies", -99, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, float32(2), records[0].Value)
}

func TestReadCondDataMissingColumns(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	body := "x facies\n0 1\n"
	_, err := ReadCondData(strings.NewReader(body), g, "facies", -99, 0)
	assert.ErrorIs(t, err, ErrIOFormat)
}

func TestApplyCondDataSetsHardData(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	p := NewProperty(g)
	records := []CondRecord{
		{Index: NewSpatialIndex(0, 0, 0, false), Value: 5},
		{Index: NewSpatialIndex(1, 1, 0, false), Value: 6},
	}
	require.NoError(t, ApplyCondData(p, records))
	assert.Equal(t, 2, p.NumMissing())
	v, ok := p.Get(NewSpatialIndex(0, 0, 0, false))
	require.True(t, ok)
	assert.Equal(t, float32(5), v)
}
