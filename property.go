package snesim

import (
	"fmt"

	"github.com/kelindar/bitmap"
)

// Property is a dense buffer of optional categorical values paired with a
// grid structure. A missing cell has no entry in the present mask; present
// cells hold a single-precision category value. The missing count is
// maintained incrementally so NumMissing never needs a full scan.
type Property struct {
	grid    GridStructure
	values  []float32
	present bitmap.Bitmap
	missing int
}

// NewProperty creates an all-missing property buffer sized to grid.N().
func NewProperty(grid GridStructure) *Property {
	n := grid.N()
	p := &Property{
		grid:    grid,
		values:  make([]float32, n),
		missing: n,
	}
	if n > 0 {
		p.present.Grow(uint32(n - 1))
	}
	return p
}

// Grid returns the property's grid structure.
func (p *Property) Grid() GridStructure { return p.grid }

// Len returns the number of cells.
func (p *Property) Len() int { return len(p.values) }

// NumMissing returns the number of cells currently missing.
func (p *Property) NumMissing() int { return p.missing }

// Get returns the value at si and whether it is present. Out-of-bounds
// lookups are treated as missing (no error), which keeps neighbor gathers
// near grid edges simple.
func (p *Property) Get(si SpatialIndex) (float32, bool) {
	a, err := p.grid.ArrayIndex(si)
	if err != nil {
		return 0, false
	}
	return p.GetAt(a)
}

// GetAt returns the value at a dense array index and whether it is present.
func (p *Property) GetAt(a int) (float32, bool) {
	if a < 0 || a >= len(p.values) {
		return 0, false
	}
	if !p.present.Contains(uint32(a)) {
		return 0, false
	}
	return p.values[a], true
}

// Set writes a value at si, marking it present. Returns ErrOutOfRange if si
// is outside the grid.
func (p *Property) Set(si SpatialIndex, v float32) error {
	a, err := p.grid.ArrayIndex(si)
	if err != nil {
		return err
	}
	return p.SetAt(a, v)
}

// SetAt writes a value at a dense array index, marking it present.
func (p *Property) SetAt(a int, v float32) error {
	if a < 0 || a >= len(p.values) {
		return ErrOutOfRange
	}
	if !p.present.Contains(uint32(a)) {
		p.missing--
	}
	p.present.Set(uint32(a))
	p.values[a] = v
	return nil
}

// Clear marks si as missing again.
func (p *Property) Clear(si SpatialIndex) error {
	a, err := p.grid.ArrayIndex(si)
	if err != nil {
		return err
	}
	if p.present.Contains(uint32(a)) {
		p.present.Remove(uint32(a))
		p.missing++
	}
	return nil
}

// Clone returns a deep copy sharing no mutable state with p.
func (p *Property) Clone() *Property {
	out := &Property{
		grid:    p.grid,
		values:  append([]float32(nil), p.values...),
		missing: p.missing,
	}
	out.present = p.present.Clone()
	return out
}

// Fill sets every cell to v, leaving nothing missing.
func (p *Property) Fill(v float32) {
	for i := range p.values {
		p.values[i] = v
	}
	if len(p.values) > 0 {
		p.present.Grow(uint32(len(p.values) - 1))
		for i := 0; i < len(p.values); i++ {
			p.present.Set(uint32(i))
		}
	}
	p.missing = 0
}

// String renders basic shape info, useful in logging/error contexts.
func (p *Property) String() string {
	return fmt.Sprintf("Property{n=%d missing=%d}", len(p.values), p.missing)
}
