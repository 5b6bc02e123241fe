package snesim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// PyramidLevel is the per-level template configuration for the
// multi-resolution pyramid: level 0 is the finest, level L the coarsest.
type PyramidLevel struct {
	K          int
	Rx, Ry, Rz float64
}

// PyramidConfig configures a coarse-to-fine multi-resolution run.
type PyramidConfig struct {
	Levels  []PyramidLevel
	Theta   float64
	Seed    uint32
	CDMin   int
	Workers int
	Log     *logrus.Entry
}

func (c PyramidConfig) logger() *logrus.Entry {
	if c.Log != nil {
		return c.Log
	}
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return logrus.NewEntry(l)
}

// RunPyramid drives a coarse-to-fine multi-resolution simulation: a TI
// pyramid is built by block-mode downsampling, a realization pyramid by
// projecting hard data, and the single-resolution driver is invoked at each
// level from coarsest to finest, upsampling the previous level's result as
// conditioning data between levels.
func RunPyramid(realization *Property, ti *Property, cfg PyramidConfig) (*Property, error) {
	if len(cfg.Levels) == 0 {
		return nil, fmt.Errorf("%w: at least one pyramid level is required", ErrPrecondition)
	}
	log := cfg.logger()
	L := len(cfg.Levels) - 1

	tiPyramid := make([]*Property, L+1)
	tiPyramid[0] = ti
	for l := 1; l <= L; l++ {
		down, err := downsampleModeTI(tiPyramid[l-1])
		if err != nil {
			return nil, err
		}
		tiPyramid[l] = down
	}

	realPyramid := make([]*Property, L+1)
	realPyramid[0] = realization
	for l := 1; l <= L; l++ {
		proj, err := projectHardData(realPyramid[l-1])
		if err != nil {
			return nil, err
		}
		realPyramid[l] = proj
	}

	var prevResult *Property
	for l := L; l >= 0; l-- {
		lv := cfg.Levels[l]
		grid := realPyramid[l].Grid()
		diag := int(math.Ceil(math.Sqrt(float64(grid.Nx*grid.Nx + grid.Ny*grid.Ny + grid.Nz*grid.Nz))))
		mould, err := NewMouldAnisotropicTopK(lv.K, lv.Rx, lv.Ry, lv.Rz, 1, !grid.Is2D(), WithMaxRadius(diag))
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", l, err)
		}

		current := realPyramid[l]
		if l < L && prevResult != nil {
			if err := upsampleInto(current, prevResult); err != nil {
				return nil, err
			}
		}

		driverCfg := DriverConfig{
			Theta:   cfg.Theta,
			Seed:    cfg.Seed,
			CDMin:   cfg.CDMin,
			Workers: cfg.Workers,
			Log:     log.WithField("pyramid_level", l),
		}
		if err := RunSingleResolution(current, tiPyramid[l], mould, driverCfg); err != nil {
			return nil, fmt.Errorf("level %d: %w", l, err)
		}
		prevResult = current
	}

	return prevResult, nil
}

// downsampleModeTI reduces fine by factor 2 along x,y (and z in 3D),
// setting each coarse cell to the mode of its finer source block, or
// missing if every source cell is missing.
func downsampleModeTI(fine *Property) (*Property, error) {
	coarseGrid, err := fine.Grid().Coarsen(2)
	if err != nil {
		return nil, err
	}
	coarse := NewProperty(coarseGrid)

	forEachCoarseCell(fine.Grid(), coarseGrid, 2, func(coarseA int, sources []int) {
		counts := map[int32]int{}
		for _, a := range sources {
			if v, ok := fine.GetAt(a); ok {
				counts[int32(v)]++
			}
		}
		if len(counts) == 0 {
			return
		}
		best, bestN := int32(0), -1
		for k, n := range counts {
			if n > bestN || (n == bestN && k < best) {
				best, bestN = k, n
			}
		}
		_ = coarse.SetAt(coarseA, float32(best))
	})

	return coarse, nil
}

// projectHardData builds the next-coarser realization grid, setting each
// coarse cell to the mode of its source cells' present fine values
// (missing when none are present).
func projectHardData(fine *Property) (*Property, error) {
	coarseGrid, err := fine.Grid().Coarsen(2)
	if err != nil {
		return nil, err
	}
	coarse := NewProperty(coarseGrid)

	forEachCoarseCell(fine.Grid(), coarseGrid, 2, func(coarseA int, sources []int) {
		counts := map[int32]int{}
		any := false
		for _, a := range sources {
			if v, ok := fine.GetAt(a); ok {
				counts[int32(v)]++
				any = true
			}
		}
		if !any {
			return
		}
		best, bestN := int32(0), -1
		for k, n := range counts {
			if n > bestN || (n == bestN && k < best) {
				best, bestN = k, n
			}
		}
		_ = coarse.SetAt(coarseA, float32(best))
	})

	return coarse, nil
}

// forEachCoarseCell enumerates every coarse cell and the fine array indices
// that fall inside its block.
func forEachCoarseCell(fineGrid, coarseGrid GridStructure, factor int, fn func(coarseA int, sources []int)) {
	is3D := !fineGrid.Is2D()
	zFactor := factor
	if fineGrid.Is2D() {
		zFactor = 1
	}
	for cz := 0; cz < coarseGrid.Nz; cz++ {
		for cy := 0; cy < coarseGrid.Ny; cy++ {
			for cx := 0; cx < coarseGrid.Nx; cx++ {
				coarseA, err := coarseGrid.ArrayIndex(NewSpatialIndex(cx, cy, cz, is3D))
				if err != nil {
					continue
				}
				var sources []int
				for dz := 0; dz < zFactor; dz++ {
					fz := cz*zFactor + dz
					if fz >= fineGrid.Nz {
						continue
					}
					for dy := 0; dy < factor; dy++ {
						fy := cy*factor + dy
						if fy >= fineGrid.Ny {
							continue
						}
						for dx := 0; dx < factor; dx++ {
							fx := cx*factor + dx
							if fx >= fineGrid.Nx {
								continue
							}
							a, err := fineGrid.ArrayIndex(NewSpatialIndex(fx, fy, fz, is3D))
							if err != nil {
								continue
							}
							sources = append(sources, a)
						}
					}
				}
				fn(coarseA, sources)
			}
		}
	}
}

// upsampleInto projects coarse's values onto fine's grid using a loose
// center-of-block mapping: coarse cell (ix_c,iy_c,iz_c) maps to fine cell
// floor((ix_c+0.5)*s_axis). The projected value is written only where fine
// is still missing, never overwriting hard data.
func upsampleInto(fine, coarse *Property) error {
	fg, cg := fine.Grid(), coarse.Grid()
	sx := float64(fg.Nx) / float64(cg.Nx)
	sy := float64(fg.Ny) / float64(cg.Ny)
	sz := 1.0
	if !fg.Is2D() {
		sz = float64(fg.Nz) / float64(cg.Nz)
	}
	is3D := !fg.Is2D()

	for cz := 0; cz < cg.Nz; cz++ {
		for cy := 0; cy < cg.Ny; cy++ {
			for cx := 0; cx < cg.Nx; cx++ {
				ca, err := cg.ArrayIndex(NewSpatialIndex(cx, cy, cz, !cg.Is2D()))
				if err != nil {
					continue
				}
				v, ok := coarse.GetAt(ca)
				if !ok {
					continue
				}
				fx := int(math.Floor((float64(cx) + 0.5) * sx))
				fy := int(math.Floor((float64(cy) + 0.5) * sy))
				fz := 0
				if is3D {
					fz = int(math.Floor((float64(cz) + 0.5) * sz))
				}
				fsi := NewSpatialIndex(fx, fy, fz, is3D)
				if _, already := fine.Get(fsi); already {
					continue
				}
				if err := fine.Set(fsi, v); err != nil {
					continue
				}
			}
		}
	}
	return nil
}
