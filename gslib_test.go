package snesim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadGSLIBRoundTrip(t *testing.T) {
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	prop := NewProperty(g)
	require.NoError(t, prop.Set(NewSpatialIndex(0, 0, 0, false), 1))
	require.NoError(t, prop.Set(NewSpatialIndex(1, 0, 0, false), 2))
	require.NoError(t, prop.Set(NewSpatialIndex(0, 1, 0, false), 3))
	require.NoError(t, prop.Set(NewSpatialIndex(1, 1, 0, false), 4))

	var buf bytes.Buffer
	require.NoError(t, WriteGSLIB(&buf, prop, "checkerboard", "facies", -99))

	back, header, err := ReadGSLIB(&buf, g, "facies", -99, 0)
	require.NoError(t, err)
	assert.Equal(t, "checkerboard", header.Name)
	assert.Equal(t, []string{"facies"}, header.Properties)
	assert.Equal(t, 0, back.NumMissing())
	for a := 0; a < prop.Len(); a++ {
		want, _ := prop.GetAt(a)
		got, ok := back.GetAt(a)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestReadGSLIBSentinelBecomesMissing(t *testing.T) {
	body := "demo\n1\nfacies\n-99\n1\n-99\n2\n"
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	prop, _, err := ReadGSLIB(strings.NewReader(body), g, "facies", -99, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, prop.NumMissing())
}

func TestReadGSLIBPropertyNotDeclared(t *testing.T) {
	body := "demo\n1\nfacies\n1\n2\n3\n4\n"
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	_, _, err := ReadGSLIB(strings.NewReader(body), g, "porosity", -99, 0)
	assert.ErrorIs(t, err, ErrIOFormat)
}

func TestReadGSLIBTooManyRecords(t *testing.T) {
	body := "demo\n1\nfacies\n1\n2\n3\n4\n5\n"
	g, _ := NewGridStructure(2, 2, 1, 1, 1, 1, 0, 0, 0)
	_, _, err := ReadGSLIB(strings.NewReader(body), g, "facies", -99, 0)
	assert.ErrorIs(t, err, ErrIOFormat)
}

func TestTruncateHeaderName(t *testing.T) {
	assert.Equal(t, "my grid", truncateHeaderName("my grid {units: m}"))
	assert.Equal(t, "plain", truncateHeaderName("plain"))
}
