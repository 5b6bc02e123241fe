package snesim

import (
	"fmt"
	"math"
	"sort"
)

// Mould is a center-relative neighborhood template: parallel arrays of
// integer offsets plus their Euclidean distance, sorted ascending by
// distance then lexicographically by (dx, dy, dz). Moulds built by
// NewMouldAnisotropicTopK are sorted by the anisotropically scaled distance
// instead, so their Euclidean distances need not be ascending. The center itself
// (0,0,0) is never an entry.
//
// Offsets are kept in parallel primitive arrays rather than a slice of
// structs so the hot gather loop (Gather) touches flat int slices.
type Mould struct {
	dx, dy, dz []int
	dist       []float64
	is3D       bool
}

// K returns the neighbor count.
func (m *Mould) K() int { return len(m.dx) }

// Is3D reports whether this mould carries a z offset.
func (m *Mould) Is3D() bool { return m.is3D }

// Offset returns the i-th neighbor offset.
func (m *Mould) Offset(i int) (dx, dy, dz int) { return m.dx[i], m.dy[i], m.dz[i] }

// Dist returns the i-th neighbor's Euclidean distance from the center.
func (m *Mould) Dist(i int) float64 { return m.dist[i] }

type mouldOptions struct {
	maxRadius int
}

// MouldOption configures Mould construction.
type MouldOption func(*mouldOptions)

// WithMaxRadius caps the box-radius expansion used by top-K construction.
// The default is 4096, comfortably larger than any practical grid diagonal;
// pass the simulation grid's own diagonal (in cells) for a tighter bound.
func WithMaxRadius(r int) MouldOption {
	return func(o *mouldOptions) { o.maxRadius = r }
}

// NewMouldAnisotropicTopK enumerates offsets in a growing axis-aligned box
// until at least k non-center candidates are found, scores each by the
// scaled distance sqrt((dx/rx)^2+(dy/ry)^2+(dz/rz)^2), keeps the smallest k,
// and multiplies every kept offset by the multi-grid expansion factor
// 2^(g-1). is3D selects the 2D/3D code path; in 2D, dz is forced to 0 and rz
// is ignored.
func NewMouldAnisotropicTopK(k int, rx, ry, rz float64, g int, is3D bool, opts ...MouldOption) (*Mould, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: K must be > 0", ErrPrecondition)
	}
	if rx <= 0 || ry <= 0 || (is3D && rz <= 0) {
		return nil, fmt.Errorf("%w: anisotropy ratios must be > 0", ErrPrecondition)
	}
	if g < 1 {
		return nil, fmt.Errorf("%w: multi-grid factor must be >= 1", ErrPrecondition)
	}

	cfg := mouldOptions{maxRadius: 4096}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !is3D {
		rz = 1
	}

	type cand struct {
		dx, dy, dz int
		scaled     float64
	}
	var candidates []cand

	maxRatio := rx
	if ry > maxRatio {
		maxRatio = ry
	}
	if is3D && rz > maxRatio {
		maxRatio = rz
	}

	scaledOf := func(dx, dy, dz int) float64 {
		sx := float64(dx) / rx
		sy := float64(dy) / ry
		sz := 0.0
		if is3D {
			sz = float64(dz) / rz
		}
		return math.Sqrt(sx*sx + sy*sy + sz*sz)
	}

	seen := map[[3]int]bool{}
	kthScaled := math.Inf(1)

	for r := 1; r <= cfg.maxRadius; r++ {
		zlo, zhi := 0, 0
		if is3D {
			zlo, zhi = -r, r
		}
		for dz := zlo; dz <= zhi; dz++ {
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if dx == 0 && dy == 0 && dz == 0 {
						continue
					}
					// only the new shell: Chebyshev norm == r
					cheb := abs(dx)
					if abs(dy) > cheb {
						cheb = abs(dy)
					}
					if is3D && abs(dz) > cheb {
						cheb = abs(dz)
					}
					if cheb != r {
						continue
					}
					key := [3]int{dx, dy, dz}
					if seen[key] {
						continue
					}
					seen[key] = true
					candidates = append(candidates, cand{dx, dy, dz, scaledOf(dx, dy, dz)})
				}
			}
		}

		if len(candidates) >= k {
			sort.Slice(candidates, func(i, j int) bool {
				return lessOffset(candidates[i].scaled, candidates[i].dx, candidates[i].dy, candidates[i].dz,
					candidates[j].scaled, candidates[j].dx, candidates[j].dy, candidates[j].dz)
			})
			kthScaled = candidates[k-1].scaled
			// The smallest possible scaled distance for any point still
			// outside the box grows as (r+1)/maxRatio; once that exceeds
			// the current k-th best, no further shell can improve the set.
			if float64(r+1)/maxRatio > kthScaled {
				break
			}
		}
	}

	if len(candidates) < k {
		return nil, fmt.Errorf("%w: could not find %d neighbors within max radius %d", ErrPrecondition, k, cfg.maxRadius)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return lessOffset(candidates[i].scaled, candidates[i].dx, candidates[i].dy, candidates[i].dz,
			candidates[j].scaled, candidates[j].dx, candidates[j].dy, candidates[j].dz)
	})
	candidates = candidates[:k]

	expand := 1 << uint(g-1)
	m := &Mould{is3D: is3D}
	for _, c := range candidates {
		m.dx = append(m.dx, c.dx*expand)
		m.dy = append(m.dy, c.dy*expand)
		dz := 0
		if is3D {
			dz = c.dz * expand
		}
		m.dz = append(m.dz, dz)
		m.dist = append(m.dist, math.Sqrt(float64(m.dx[len(m.dx)-1]*m.dx[len(m.dx)-1]+
			m.dy[len(m.dy)-1]*m.dy[len(m.dy)-1]+dz*dz)))
	}
	return m, nil
}

// NewMouldFromLocations builds a template from explicit neighbor spatial
// indices relative to a core index: offsets are neighbor-core, deduplicated,
// the zero offset dropped, and the result sorted by Euclidean distance with
// an offset-lexicographic tie-break.
func NewMouldFromLocations(core SpatialIndex, neighbors []SpatialIndex) (*Mould, error) {
	type off struct{ dx, dy, dz int }
	seen := map[off]bool{}
	var offs []off
	for _, n := range neighbors {
		d, err := n.Sub(core)
		if err != nil {
			return nil, err
		}
		o := off{d.Ix, d.Iy, d.Iz}
		if o.dx == 0 && o.dy == 0 && o.dz == 0 {
			continue
		}
		if seen[o] {
			continue
		}
		seen[o] = true
		offs = append(offs, o)
	}
	if len(offs) == 0 {
		return nil, fmt.Errorf("%w: no distinct non-center neighbors", ErrPrecondition)
	}

	sort.Slice(offs, func(i, j int) bool {
		di := math.Sqrt(float64(offs[i].dx*offs[i].dx + offs[i].dy*offs[i].dy + offs[i].dz*offs[i].dz))
		dj := math.Sqrt(float64(offs[j].dx*offs[j].dx + offs[j].dy*offs[j].dy + offs[j].dz*offs[j].dz))
		return lessOffset(di, offs[i].dx, offs[i].dy, offs[i].dz, dj, offs[j].dx, offs[j].dy, offs[j].dz)
	})

	m := &Mould{is3D: core.Is3D()}
	for _, o := range offs {
		m.dx = append(m.dx, o.dx)
		m.dy = append(m.dy, o.dy)
		m.dz = append(m.dz, o.dz)
		m.dist = append(m.dist, math.Sqrt(float64(o.dx*o.dx+o.dy*o.dy+o.dz*o.dz)))
	}
	return m, nil
}

// lessOffset orders by distance ascending, then lexicographically by
// (dx, dy, dz) to break ties deterministically.
func lessOffset(di float64, dxi, dyi, dzi int, dj float64, dxj, dyj, dzj int) bool {
	if di != dj {
		return di < dj
	}
	if dxi != dxj {
		return dxi < dxj
	}
	if dyi != dyj {
		return dyi < dyj
	}
	return dzi < dzj
}

// Gather writes the neighborhood data event for center into buf (which must
// have length K): buf[i] is the value at center+offset[i], or missing when
// out of bounds. It reports the core (center) value, whether any neighbor
// is present, and whether all neighbors are present.
func (m *Mould) Gather(center SpatialIndex, prop *Property, buf []Optional) (core Optional, anyValid, allValid bool) {
	anyValid = false
	allValid = true
	for i := 0; i < m.K(); i++ {
		off := NewSpatialIndex(m.dx[i], m.dy[i], m.dz[i], center.Is3D())
		nsi, err := center.Add(off)
		if err != nil {
			buf[i] = Optional{}
			allValid = false
			continue
		}
		v, ok := prop.Get(nsi)
		if ok {
			buf[i] = Optional{Value: v, Valid: true}
			anyValid = true
		} else {
			buf[i] = Optional{}
			allValid = false
		}
	}
	if v, ok := prop.Get(center); ok {
		core = Optional{Value: v, Valid: true}
	}
	return core, anyValid, allValid
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Optional is a value that may be missing, used for core/neighbor values
// gathered by a Mould.
type Optional struct {
	Value float32
	Valid bool
}
