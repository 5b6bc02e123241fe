package snesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.NextU32(), b.NextU32())
	}
}

func TestRNGDifferentSeedsDiverge(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	same := true
	for i := 0; i < 16; i++ {
		if a.NextU32() != b.NextU32() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestRNGNextInRange(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		v := r.NextInRange(3, 9)
		assert.GreaterOrEqual(t, v, 3)
		assert.Less(t, v, 9)
	}
}

func TestRNGNextUnitDouble(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		v := r.NextUnitDouble()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRNGSeedResets(t *testing.T) {
	r := NewRNG(5)
	first := r.NextU32()
	r.NextU32()
	r.Seed(5)
	assert.Equal(t, first, r.NextU32())
}
