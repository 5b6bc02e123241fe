package snesim

import "sort"

// Stats holds global categorical statistics derived once from a Property
// (typically the training image) and treated as immutable afterward.
type Stats struct {
	categories []int32
	freq       map[int32]int
	total      int
}

// NewStats scans every non-missing cell of prop and tabulates category
// frequencies.
func NewStats(prop *Property) *Stats {
	freq := make(map[int32]int)
	total := 0
	for a := 0; a < prop.Len(); a++ {
		v, ok := prop.GetAt(a)
		if !ok {
			continue
		}
		k := int32(v)
		freq[k]++
		total++
	}
	cats := make([]int32, 0, len(freq))
	for k := range freq {
		cats = append(cats, k)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return &Stats{categories: cats, freq: freq, total: total}
}

// Categories returns the sorted distinct category values observed.
func (s *Stats) Categories() []int32 { return append([]int32(nil), s.categories...) }

// Frequency returns the raw occurrence count of category k (0 if absent).
func (s *Stats) Frequency(k int32) int { return s.freq[k] }

// Count returns the total number of non-missing cells scanned.
func (s *Stats) Count() int { return s.total }

// PDF returns the global category distribution as (category, weight) pairs
// ordered the same as Categories, ready for SampleCDF.
func (s *Stats) PDF() []CategoryWeight {
	out := make([]CategoryWeight, len(s.categories))
	for i, k := range s.categories {
		w := 0.0
		if s.total > 0 {
			w = float64(s.freq[k]) / float64(s.total)
		}
		out[i] = CategoryWeight{Value: k, Weight: w}
	}
	return out
}

// Mode returns the most frequent category and true, or (0, false) if the
// property was entirely missing.
func (s *Stats) Mode() (int32, bool) {
	if len(s.categories) == 0 {
		return 0, false
	}
	best := s.categories[0]
	bestN := s.freq[best]
	for _, k := range s.categories[1:] {
		if s.freq[k] > bestN {
			best, bestN = k, s.freq[k]
		}
	}
	return best, true
}
