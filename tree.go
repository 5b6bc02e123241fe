package snesim

import "fmt"

const maxCategories = 10

// sentinelCategory keys the root's synthetic RARS slot and never collides
// with a real training-image category since categories are validated to
// fit in an int32 derived from a float32 buffer with at most 10 distinct
// values.
const sentinelCategory int32 = -1 << 30

// stNode is an arena-allocated search tree node, identified by its index
// into STree.nodes. Parent is stored as an index rather than a pointer so
// the tree holds no reference cycles.
type stNode struct {
	depth    int           // -1 for the root
	value    int32         // category fixed at this node; sentinel for root
	parent   int           // -1 for root
	children map[int32]int // category -> child node index
	coreFreq map[int32]int // category -> replicate count
	path     []int32       // category sequence from root to this node (length depth+1)
}

// STree is a prefix tree over template positions, built from a training
// image and a fixed Mould, whose nodes carry per-category central-value
// replicate counts.
type STree struct {
	mould      *Mould
	categories []int32
	nodes      []stNode
}

// TreeOption configures STree construction.
type TreeOption func(*treeOptions)

type treeOptions struct {
	workers int
}

// WithTreeWorkers caps the worker pool used for Phase 1 pattern extraction.
// Zero or negative means runtime.NumCPU().
func WithTreeWorkers(n int) TreeOption {
	return func(o *treeOptions) { o.workers = n }
}

// Mould returns the template this tree was built from.
func (t *STree) Mould() *Mould { return t.mould }

// Categories returns the sorted distinct categories observed in the
// training image.
func (t *STree) Categories() []int32 { return append([]int32(nil), t.categories...) }

// Depth returns the tree depth, K+1 (root plus one level per neighbor).
func (t *STree) Depth() int { return t.mould.K() + 1 }

type patternRecord struct {
	valid     bool
	neighbors []int32
	core      Optional
}

// BuildSTree extracts every fully-informed neighborhood pattern from ti
// using mould, then inserts each into the prefix tree. Training images with
// more than 10 distinct non-missing categories are rejected with
// ErrTooManyCategories.
func BuildSTree(mould *Mould, ti *Property, opts ...TreeOption) (*STree, error) {
	cfg := treeOptions{}
	for _, opt := range opts {
		opt(&cfg)
	}

	stats := NewStats(ti)
	categories := stats.Categories()
	if len(categories) > maxCategories {
		return nil, fmt.Errorf("%w: found %d", ErrTooManyCategories, len(categories))
	}

	k := mould.K()
	n := ti.Len()
	records := make([]patternRecord, n)

	// Phase 1: pattern extraction, data-parallel and independent per cell.
	// Each worker owns disjoint indices of the pre-sized records slice, so
	// no concurrent map or synchronization is needed beyond the fork-join
	// barrier itself.
	forEachIndexBatched(n, cfg.workers, func(a int) {
		center, err := ti.Grid().SpatialIndexAt(a)
		if err != nil {
			return
		}
		buf := make([]Optional, k)
		core, _, allValid := mould.Gather(center, ti, buf)
		if !allValid {
			return
		}
		neighbors := make([]int32, k)
		for i, v := range buf {
			neighbors[i] = int32(v.Value)
		}
		records[a] = patternRecord{valid: true, neighbors: neighbors, core: core}
	})

	// Phase 2: sequential tree construction walk.
	t := &STree{mould: mould, categories: categories}
	t.nodes = append(t.nodes, stNode{
		depth:    -1,
		value:    sentinelCategory,
		parent:   -1,
		children: make(map[int32]int),
		coreFreq: make(map[int32]int),
		path:     nil,
	})
	const rootIdx = 0

	for a := 0; a < n; a++ {
		rec := records[a]
		if !rec.valid {
			continue
		}
		cur := rootIdx
		if rec.core.Valid {
			t.nodes[cur].coreFreq[int32(rec.core.Value)]++
		}
		for i := 0; i < k; i++ {
			cat := rec.neighbors[i]
			cur = t.childOf(cur, cat, i)
			if rec.core.Valid {
				t.nodes[cur].coreFreq[int32(rec.core.Value)]++
			}
		}
	}

	return t, nil
}

// childOf returns the child of node parentIdx keyed by category, creating it
// lazily at the given depth (== template position i) if absent.
func (t *STree) childOf(parentIdx int, category int32, depth int) int {
	parent := &t.nodes[parentIdx]
	if c, ok := parent.children[category]; ok {
		return c
	}
	path := make([]int32, depth+1)
	copy(path, parent.path)
	path[depth] = category

	idx := len(t.nodes)
	t.nodes = append(t.nodes, stNode{
		depth:    depth,
		value:    category,
		parent:   parentIdx,
		children: make(map[int32]int),
		coreFreq: make(map[int32]int),
		path:     path,
	})
	// re-fetch parent pointer: append may have reallocated t.nodes
	t.nodes[parentIdx].children[category] = idx
	return idx
}

// NodeCount returns the number of allocated nodes, including the root.
func (t *STree) NodeCount() int { return len(t.nodes) }
