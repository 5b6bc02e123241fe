package snesim

import (
	"fmt"
	"math"
)

// GridStructure is an immutable descriptor of a regular 2D or 3D grid:
// cell counts, cell sizes, and the coordinate of the first cell's center.
// nz == 1 means the grid is 2D.
type GridStructure struct {
	Nx, Ny, Nz int
	Sx, Sy, Sz float64
	X0, Y0, Z0 float64
}

// NewGridStructure validates and constructs a grid descriptor. All counts
// must be >= 1 and all cell sizes > 0.
func NewGridStructure(nx, ny, nz int, sx, sy, sz, x0, y0, z0 float64) (GridStructure, error) {
	g := GridStructure{Nx: nx, Ny: ny, Nz: nz, Sx: sx, Sy: sy, Sz: sz, X0: x0, Y0: y0, Z0: z0}
	if nx < 1 || ny < 1 || nz < 1 {
		return GridStructure{}, fmt.Errorf("%w: grid counts must be >= 1", ErrPrecondition)
	}
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return GridStructure{}, fmt.Errorf("%w: grid cell sizes must be > 0", ErrPrecondition)
	}
	return g, nil
}

// Is2D reports whether the grid has a single layer along z.
func (g GridStructure) Is2D() bool { return g.Nz == 1 }

// N returns the total cell count nx*ny*nz.
func (g GridStructure) N() int { return g.Nx * g.Ny * g.Nz }

// ArrayIndex converts a spatial index to its position in a row-major,
// x-fastest dense buffer: a(ix,iy,iz) = iz*nx*ny + iy*nx + ix.
func (g GridStructure) ArrayIndex(si SpatialIndex) (int, error) {
	if !g.contains(si) {
		return 0, ErrOutOfRange
	}
	return si.Iz*g.Nx*g.Ny + si.Iy*g.Nx + si.Ix, nil
}

// SpatialIndexAt converts a dense array position back to a spatial index.
func (g GridStructure) SpatialIndexAt(a int) (SpatialIndex, error) {
	if a < 0 || a >= g.N() {
		return SpatialIndex{}, ErrOutOfRange
	}
	plane := g.Nx * g.Ny
	iz := a / plane
	rem := a % plane
	iy := rem / g.Nx
	ix := rem % g.Nx
	is3D := !g.Is2D()
	return SpatialIndex{Ix: ix, Iy: iy, Iz: iz, is3D: is3D}, nil
}

func (g GridStructure) contains(si SpatialIndex) bool {
	if si.is3D != !g.Is2D() {
		return false
	}
	if si.Ix < 0 || si.Ix >= g.Nx || si.Iy < 0 || si.Iy >= g.Ny {
		return false
	}
	if !g.Is2D() && (si.Iz < 0 || si.Iz >= g.Nz) {
		return false
	}
	if g.Is2D() && si.Iz != 0 {
		return false
	}
	return true
}

// Coord is a real-valued cell-center coordinate.
type Coord struct {
	X, Y, Z float64
}

// SpatialIndexToCoord returns the cell-center coordinate of a spatial
// index.
func (g GridStructure) SpatialIndexToCoord(si SpatialIndex) (Coord, error) {
	if !g.contains(si) {
		return Coord{}, ErrOutOfRange
	}
	return Coord{
		X: g.X0 + float64(si.Ix)*g.Sx,
		Y: g.Y0 + float64(si.Iy)*g.Sy,
		Z: g.Z0 + float64(si.Iz)*g.Sz,
	}, nil
}

// CoordToSpatialIndex converts a real-valued coordinate to the spatial
// index of its enclosing cell by rounding to the nearest cell center.
// Coordinates outside the grid return ErrOutOfRange.
func (g GridStructure) CoordToSpatialIndex(c Coord) (SpatialIndex, error) {
	ix := int(math.Round((c.X - g.X0) / g.Sx))
	iy := int(math.Round((c.Y - g.Y0) / g.Sy))
	iz := 0
	if !g.Is2D() {
		iz = int(math.Round((c.Z - g.Z0) / g.Sz))
	}
	si := NewSpatialIndex(ix, iy, iz, !g.Is2D())
	if !g.contains(si) {
		return SpatialIndex{}, ErrOutOfRange
	}
	return si, nil
}

// Coarsen returns a grid structure describing this grid reduced by an
// integer factor along x and y (and z when 3D). Partial remainder cells
// (when an axis count is not evenly divisible) are rounded up so every fine
// cell maps into exactly one coarse cell. Cell size scales up by the same
// factor; the origin is kept at the first fine cell's center.
func (g GridStructure) Coarsen(factor int) (GridStructure, error) {
	if factor < 1 {
		return GridStructure{}, fmt.Errorf("%w: coarsen factor must be >= 1", ErrPrecondition)
	}
	ceil := func(n, f int) int { return (n + f - 1) / f }
	nx := ceil(g.Nx, factor)
	ny := ceil(g.Ny, factor)
	nz := g.Nz
	sz := g.Sz
	if !g.Is2D() {
		nz = ceil(g.Nz, factor)
		sz = g.Sz * float64(factor)
	}
	return GridStructure{
		Nx: nx, Ny: ny, Nz: nz,
		Sx: g.Sx * float64(factor), Sy: g.Sy * float64(factor), Sz: sz,
		X0: g.X0, Y0: g.Y0, Z0: g.Z0,
	}, nil
}

// Equal reports structural equality on every field.
func (g GridStructure) Equal(o GridStructure) bool {
	return g == o
}

// SpatialIndex is a discrete grid cell index, tagged with its
// dimensionality. Iz is ignored (and must be 0) in 2D.
type SpatialIndex struct {
	Ix, Iy, Iz int
	is3D       bool
}

// NewSpatialIndex constructs a spatial index. is3D selects whether Iz
// participates in comparisons and arithmetic.
func NewSpatialIndex(ix, iy, iz int, is3D bool) SpatialIndex {
	if !is3D {
		iz = 0
	}
	return SpatialIndex{Ix: ix, Iy: iy, Iz: iz, is3D: is3D}
}

// Is3D reports whether this index carries a meaningful z component.
func (s SpatialIndex) Is3D() bool { return s.is3D }

// Add returns s+o. Both operands must share dimensionality.
func (s SpatialIndex) Add(o SpatialIndex) (SpatialIndex, error) {
	if s.is3D != o.is3D {
		return SpatialIndex{}, ErrGridDimensionMismatch
	}
	return SpatialIndex{Ix: s.Ix + o.Ix, Iy: s.Iy + o.Iy, Iz: s.Iz + o.Iz, is3D: s.is3D}, nil
}

// Sub returns s-o. Both operands must share dimensionality.
func (s SpatialIndex) Sub(o SpatialIndex) (SpatialIndex, error) {
	if s.is3D != o.is3D {
		return SpatialIndex{}, ErrGridDimensionMismatch
	}
	return SpatialIndex{Ix: s.Ix - o.Ix, Iy: s.Iy - o.Iy, Iz: s.Iz - o.Iz, is3D: s.is3D}, nil
}

// Key returns a stable text key for use as a map key or path lookup key.
func (s SpatialIndex) Key() string {
	if s.is3D {
		return fmt.Sprintf("%d,%d,%d", s.Ix, s.Iy, s.Iz)
	}
	return fmt.Sprintf("%d,%d", s.Ix, s.Iy)
}
