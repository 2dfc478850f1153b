package ftl

import "sort"

// crb is the conflict record buffer for one group: a flat, sorted sequence
// of offsets that don't fit a learned segment, partitioned into runs. Each
// run has a single base PPN; offset o at position i within its run maps to
// that run's base PPN + i.
//
// Runs are stored as a slice of slices rather than a flat, sentinel-byte
// separated array (see SPEC_FULL.md §5.2) — semantically identical, but Go's
// native nested slices make the sentinel unnecessary and the run
// boundaries self-describing.
type crb struct {
	runs    [][]byte
	basePPN []uint32
}

// insert adds a new run built from offsets (sorted ascending, deduplicated
// by insert) with the given base PPN, keeping runs ordered by first offset.
// Runs must not overlap the new run's offset range; callers ensure this by
// construction (a flush only ever creates CRB entries for offsets that
// weren't just claimed by a segment in the same flush).
//
// A rewritten offset can already be present in an older run from a
// previous flush — the same LBA, staged and flushed twice, with neither
// flush landing it in a segment. insert strips any such stale offsets out
// of the existing runs (splitting a run in two if the stale offset sat in
// its middle) before adding the new run, so search always finds the
// freshest write instead of stopping at the first, stale, match.
func (c *crb) insert(offsets []byte, basePPN uint32) {
	if len(offsets) == 0 {
		return
	}
	sorted := append([]byte(nil), offsets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	dedup := sorted[:1]
	for _, o := range sorted[1:] {
		if o != dedup[len(dedup)-1] {
			dedup = append(dedup, o)
		}
	}

	stale := make(map[byte]bool, len(dedup))
	for _, o := range dedup {
		stale[o] = true
	}
	var runs [][]byte
	var basePPNs []uint32
	for i, run := range c.runs {
		base := c.basePPN[i]
		start := 0
		for j := 0; j <= len(run); j++ {
			if j == len(run) || stale[run[j]] {
				if j > start {
					runs = append(runs, append([]byte(nil), run[start:j]...))
					basePPNs = append(basePPNs, base+uint32(start))
				}
				start = j + 1
			}
		}
	}
	c.runs = runs
	c.basePPN = basePPNs

	pos := sort.Search(len(c.runs), func(i int) bool {
		return c.runs[i][0] > dedup[0]
	})
	c.runs = append(c.runs, nil)
	copy(c.runs[pos+1:], c.runs[pos:])
	c.runs[pos] = dedup

	c.basePPN = append(c.basePPN, 0)
	copy(c.basePPN[pos+1:], c.basePPN[pos:])
	c.basePPN[pos] = basePPN
}

// search returns the PPN mapped to offset o, or (0, false) if o isn't
// present in any run. Runs are ordered by first (== every) offset, so a
// run whose first offset already exceeds o rules out every later run too.
func (c *crb) search(o byte) (uint64, bool) {
	for i, run := range c.runs {
		if run[0] > o {
			return 0, false
		}
		if idx := sort.Search(len(run), func(j int) bool { return run[j] >= o }); idx < len(run) && run[idx] == o {
			return uint64(c.basePPN[i]) + uint64(idx), true
		}
	}
	return 0, false
}

// size returns the number of offsets currently recorded across all runs.
func (c *crb) size() int {
	n := 0
	for _, run := range c.runs {
		n += len(run)
	}
	return n
}
