package snesim

import (
	"github.com/sirupsen/logrus"
)

// DriverConfig configures a single-resolution simulation run.
type DriverConfig struct {
	// Theta is the forward/reverse retrieval switchover percentage, in
	// [0, 100]. While path progress is <= Theta, reverse retrieval is used;
	// above it, forward retrieval is used.
	Theta float64
	// Seed drives a single RNG stream consumed in fixed order: the path
	// shuffle first, then the per-cell sampling draws in path-visit order.
	Seed uint32
	// CDMin is the minimum replicate threshold both retrievals require.
	CDMin int
	// Workers bounds goroutine pools used by tree construction and reverse
	// retrieval filtering. Zero means runtime.NumCPU().
	Workers int
	// Log receives progress and diagnostic messages. A nil Log discards
	// them.
	Log *logrus.Entry
}

func (c DriverConfig) logger() *logrus.Entry {
	if c.Log != nil {
		return c.Log
	}
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return logrus.NewEntry(l)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// RunSingleResolution fills every uninformed cell of realization by walking
// a randomized path, building a data event from mould at each cell,
// retrieving a CPDF from tree (falling back to the global PDF when no
// retrieval qualifies), and sampling a category.
//
// Cells already informed in realization are pre-frozen and never
// overwritten, so hard data is always preserved.
func RunSingleResolution(realization *Property, ti *Property, mould *Mould, cfg DriverConfig) error {
	log := cfg.logger()

	tree, err := BuildSTree(mould, ti, WithTreeWorkers(cfg.Workers))
	if err != nil {
		return err
	}
	rars := BuildRARS(tree)
	stats := NewStats(ti)
	globalPDF := stats.PDF()

	rng := NewRNG(cfg.Seed)
	path := NewSimulationPath(realization.Grid(), 1, rng)
	for a := 0; a < realization.Len(); a++ {
		if _, ok := realization.GetAt(a); ok {
			si, err := realization.Grid().SpatialIndexAt(a)
			if err != nil {
				continue
			}
			path.Freeze(si)
		}
	}

	k := mould.K()
	buf := make([]Optional, k)

	visited := 0
	for {
		si, ok := path.VisitNext()
		if !ok {
			break
		}
		visited++
		if _, already := realization.Get(si); already {
			continue
		}

		_, anyValid, _ := mould.Gather(si, realization, buf)

		var cpdf []CategoryWeight
		if !anyValid {
			cpdf = globalPDF
		} else {
			var agg map[int32]int
			var found bool
			if path.Progress() <= cfg.Theta {
				agg, found = tree.ReverseRetrieve(rars, buf, cfg.CDMin, cfg.Workers)
			} else {
				agg, found = tree.ForwardRetrieve(buf, cfg.CDMin)
			}
			if found {
				cpdf = tree.CPDF(agg)
			} else {
				cpdf = globalPDF
			}
		}

		p := rng.NextUnitDouble()
		cat, err := SampleCDF(cpdf, p)
		if err != nil {
			return err
		}
		if err := realization.Set(si, float32(cat)); err != nil {
			return err
		}

		if visited%1024 == 0 {
			log.WithFields(logrus.Fields{
				"progress": path.Progress(),
				"visited":  visited,
			}).Debug("simulation progress")
		}
	}

	log.WithField("cells", realization.Len()).Info("single-resolution simulation complete")
	return nil
}
