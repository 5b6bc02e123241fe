package snesim

import (
	"github.com/kelindar/bitmap"
)

// SimulationPath is a randomized visiting order over a grid's spatial
// indices, with per-slot freeze tracking. Frozen state is kept in a
// kelindar/bitmap bitset, where each bit tracks whether a path slot has
// been committed.
type SimulationPath struct {
	order  []SpatialIndex
	posOf  map[string]int
	frozen bitmap.Bitmap
	count  int
	cursor int
}

// NewSimulationPath enumerates every spatial index of grid (or, when stride
// > 1, every index on the multi-grid lattice with that stride) and shuffles
// it with Fisher-Yates using rng.
func NewSimulationPath(grid GridStructure, stride int, rng *RNG) *SimulationPath {
	if stride < 1 {
		stride = 1
	}
	var order []SpatialIndex
	is3D := !grid.Is2D()
	zStep := stride
	if grid.Is2D() {
		zStep = 1
	}
	for iz := 0; iz < grid.Nz; iz += zStep {
		for iy := 0; iy < grid.Ny; iy += stride {
			for ix := 0; ix < grid.Nx; ix += stride {
				order = append(order, NewSpatialIndex(ix, iy, iz, is3D))
			}
		}
	}

	// Fisher-Yates shuffle, consuming RNG state in a fixed order.
	for i := len(order) - 1; i > 0; i-- {
		j := rng.NextInRange(0, i+1)
		order[i], order[j] = order[j], order[i]
	}

	p := &SimulationPath{
		order: order,
		posOf: make(map[string]int, len(order)),
	}
	if len(order) > 0 {
		p.frozen.Grow(uint32(len(order) - 1))
	}
	for i, si := range order {
		p.posOf[si.Key()] = i
	}
	return p
}

// Len returns the number of entries on the path.
func (p *SimulationPath) Len() int { return len(p.order) }

// FrozenCount returns the number of frozen entries so far.
func (p *SimulationPath) FrozenCount() int { return p.count }

// Freeze marks si's slot frozen if it is not already, incrementing the
// frozen count. Freezing an index not on the path is a no-op.
func (p *SimulationPath) Freeze(si SpatialIndex) {
	pos, ok := p.posOf[si.Key()]
	if !ok {
		return
	}
	p.freezeAt(pos)
}

func (p *SimulationPath) freezeAt(pos int) {
	if !p.frozen.Contains(uint32(pos)) {
		p.frozen.Set(uint32(pos))
		p.count++
	}
}

// VisitNext advances the cursor past any already-frozen entries and returns
// the next unfrozen spatial index, freezing it as part of the transition.
// The second return value is false once the path is exhausted.
func (p *SimulationPath) VisitNext() (SpatialIndex, bool) {
	for p.cursor < len(p.order) {
		pos := p.cursor
		p.cursor++
		if p.frozen.Contains(uint32(pos)) {
			continue
		}
		p.freezeAt(pos)
		return p.order[pos], true
	}
	return SpatialIndex{}, false
}

// HasNext reports whether any slot remains unfrozen.
func (p *SimulationPath) HasNext() bool {
	return p.count < len(p.order)
}

// Progress reports 100*frozen/total, clamped to never report 100% until
// every entry is frozen — the reverse-retrieval switchover in the driver
// depends on the clamp to avoid flipping to forward retrieval one cell
// early.
func (p *SimulationPath) Progress() float64 {
	if len(p.order) == 0 {
		return 100
	}
	if p.count >= len(p.order) {
		return 100
	}
	pct := 100 * float64(p.count) / float64(len(p.order))
	if pct > 99.99 {
		pct = 99.99
	}
	return pct
}
