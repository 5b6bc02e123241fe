package snesim

import (
	"runtime"
	"sync"
)

// forEachIndexBatched runs fn(i) for every i in [0, n) across a bounded pool
// of goroutines, batching indices per worker to cut scheduling overhead.
// This is the same batch fork-join shape used for parallel page processing
// in PDF extraction pipelines, adapted here for pattern extraction (tree
// construction) and RARS ancestor filtering (reverse retrieval), the only
// two points in this package's pipeline where work items are independent
// enough to parallelize safely.
func forEachIndexBatched(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	batchSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
