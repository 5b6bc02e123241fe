package snesim

import "sort"

// DataEvent is the tuple of neighbor values extracted from a realization at
// a target cell using a Mould; each entry is either an observed category or
// missing.
type DataEvent = []Optional

// ForwardRetrieve starts from the root and narrows the frontier through
// observed neighbors in near-to-far order (wildcarding at missing positions
// by expanding to every child), returning the deepest informed level with
// enough replicate support.
//
// event must have length t.mould.K(). Depths with no observed value record
// no aggregate and are skipped when choosing the deepest qualifying level.
func (t *STree) ForwardRetrieve(event DataEvent, cdMin int) (map[int32]int, bool) {
	frontier := []int{0} // root
	levels := make([]map[int32]int, len(event))

	for i, e := range event {
		if !e.Valid {
			frontier = t.expandFrontier(frontier)
			continue
		}
		cat := int32(e.Value)
		frontier = t.narrowFrontier(frontier, cat)
		levels[i] = t.aggregate(frontier)
	}

	for i := len(levels) - 1; i >= 0; i-- {
		agg := levels[i]
		if agg == nil {
			continue
		}
		if sumCounts(agg) > cdMin {
			return agg, true
		}
	}
	return nil, false
}

func (t *STree) expandFrontier(frontier []int) []int {
	seen := make(map[int]bool)
	var next []int
	for _, n := range frontier {
		for _, c := range t.nodes[n].children {
			if !seen[c] {
				seen[c] = true
				next = append(next, c)
			}
		}
	}
	return next
}

func (t *STree) narrowFrontier(frontier []int, cat int32) []int {
	var next []int
	for _, n := range frontier {
		if c, ok := t.nodes[n].children[cat]; ok {
			next = append(next, c)
		}
	}
	return next
}

func (t *STree) aggregate(frontier []int) map[int32]int {
	agg := make(map[int32]int)
	for _, n := range frontier {
		for k, v := range t.nodes[n].coreFreq {
			agg[k] += v
		}
	}
	return agg
}

func sumCounts(m map[int32]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// ReverseRetrieve starts from the bucket of nodes whose own value matches
// the farthest observed neighbor, filters by agreement with nearer observed
// neighbors' path values, and returns the first (farthest) depth whose
// surviving replicate total exceeds cdMin.
//
// workers bounds the goroutine pool used for the per-candidate ancestor
// filter; 0 uses runtime.NumCPU().
func (t *STree) ReverseRetrieve(rars *RARS, event DataEvent, cdMin, workers int) (map[int32]int, bool) {
	var observed []int // ascending template indices with an observed value
	for i, e := range event {
		if e.Valid {
			observed = append(observed, i)
		}
	}
	if len(observed) == 0 {
		return nil, false
	}

	r := make([]int, len(observed))
	for i, v := range observed {
		r[len(observed)-1-i] = v
	}

	for flag, d := range r {
		ed := int32(event[d].Value)
		cand := rars.Depth(d + 1)[ed]
		if len(cand) == 0 {
			continue
		}

		if flag > 0 {
			above := r[flag:] // trailing, nearer-or-equal observed depths
			cand = t.filterByAncestors(cand, above, event, workers)
		}

		if len(cand) == 0 {
			continue
		}

		agg := make(map[int32]int)
		for _, n := range cand {
			for k, v := range t.nodes[n].coreFreq {
				agg[k] += v
			}
		}
		if sumCounts(agg) > cdMin {
			return agg, true
		}
	}
	return nil, false
}

// filterByAncestors keeps only the candidate nodes whose cached root-to-node
// path value at each depth in "above" matches the corresponding observed
// event value. Each candidate's check depends only on its own cached path
// array, so the work is embarrassingly parallel.
func (t *STree) filterByAncestors(cand []int, above []int, event DataEvent, workers int) []int {
	keep := make([]bool, len(cand))
	forEachIndexBatched(len(cand), workers, func(i int) {
		node := &t.nodes[cand[i]]
		ok := true
		for _, j := range above {
			if j >= len(node.path) || node.path[j] != int32(event[j].Value) {
				ok = false
				break
			}
		}
		keep[i] = ok
	})

	out := make([]int, 0, len(cand))
	for i, k := range keep {
		if k {
			out = append(out, cand[i])
		}
	}
	return out
}

// CPDF forms a conditional probability distribution over categories from a
// retrieval aggregate, normalizing over the tree's full category list (so
// every category appears, even with zero weight).
func (t *STree) CPDF(agg map[int32]int) []CategoryWeight {
	return NormalizeCounts(t.categories, agg)
}

// sortedKeys is a small helper used by tests to get deterministic iteration
// over a count map.
func sortedKeys(m map[int32]int) []int32 {
	keys := make([]int32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
