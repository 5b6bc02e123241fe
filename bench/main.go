// Command bench compares forward and reverse retrieval throughput across
// data events with different amounts of evidence, using the kelindar/bench
// harness (bench.Run/bench.B).
package main

import (
	"fmt"
	"time"

	"github.com/kelindar/bench"
	"github.com/kelindar/snesim"
)

func main() {
	tree, rars, mould := buildFixture()

	bench.Run(func(b *bench.B) {
		runRetrieval(b, tree, rars, mould)
	}, bench.WithDuration(10*time.Millisecond), bench.WithSamples(100))
}

func buildFixture() (*snesim.STree, *snesim.RARS, *snesim.Mould) {
	grid, err := snesim.NewGridStructure(64, 64, 1, 1, 1, 1, 0, 0, 0)
	must(err)
	ti := snesim.NewProperty(grid)
	for iy := 0; iy < grid.Ny; iy++ {
		for ix := 0; ix < grid.Nx; ix++ {
			cat := float32((ix + iy*3) % 3)
			must(ti.Set(snesim.NewSpatialIndex(ix, iy, 0, false), cat))
		}
	}
	mould, err := snesim.NewMouldAnisotropicTopK(12, 1, 1, 1, 1, false)
	must(err)
	tree, err := snesim.BuildSTree(mould, ti)
	must(err)
	rars := snesim.BuildRARS(tree)
	return tree, rars, mould
}

func runRetrieval(b *bench.B, tree *snesim.STree, rars *snesim.RARS, mould *snesim.Mould) {
	shapes := []struct {
		name     string
		informed int
	}{
		{"sparse", 2},
		{"half", mould.K() / 2},
		{"full", mould.K()},
	}

	for _, shape := range shapes {
		event := makeEvent(mould.K(), shape.informed)

		b.Run(fmt.Sprintf("forward (%s)", shape.name), func(i int) {
			_, _ = tree.ForwardRetrieve(event, 1)
		})
		b.Run(fmt.Sprintf("reverse (%s)", shape.name), func(i int) {
			_, _ = tree.ReverseRetrieve(rars, event, 1, 1)
		})
	}
}

func makeEvent(k, informed int) snesim.DataEvent {
	event := make([]snesim.Optional, k)
	for i := 0; i < informed && i < k; i++ {
		event[i] = snesim.Optional{Value: float32(i % 3), Valid: true}
	}
	return event
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
