package ftl

import "github.com/grailbio/base/log"

// group owns one partition of the LBA space: its levels of segments, its
// CRB, and its occupancy bitmap. Groups are independent; there are no
// cross-group invariants.
type group struct {
	levels []level
	crb    crb
	bitmap bitmap
}

// groupTable holds the lazily-created groups for an Engine. Rather than
// materializing a dense table of N_GROUPS (~250000) entries up front, it
// creates a group on first touch; see DESIGN.md "Open Question decisions
// / Group storage representation".
type groupTable struct {
	groups map[uint32]*group
}

func newGroupTable(hintTouched uint32) groupTable {
	// A trace that touches a handful of groups shouldn't pay for a
	// large initial map; one that hammers the whole address space
	// shouldn't pay for repeated growth. nextPow2 picks a starting
	// bucket count that tracks the caller's best guess.
	return groupTable{groups: make(map[uint32]*group, nextPow2(int(hintTouched)))}
}

// nextPow2 returns the smallest power of two >= x, with a floor of 1.
func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	p := 1
	for p < x {
		p <<= 1
	}
	return p
}

func (gt *groupTable) get(idx uint32) *group {
	g, ok := gt.groups[idx]
	if !ok {
		g = &group{}
		gt.groups[idx] = g
	}
	return g
}

func (gt *groupTable) lookup(idx uint32) (*group, bool) {
	g, ok := gt.groups[idx]
	return g, ok
}

// insert places seg into group g starting at level 0, displacing any
// overlapping segment down one level at a time, bounded by maxDepth: a
// bounded loop rather than unbounded recursion.
func (g *group) insert(seg segment, maxDepth int, dropped *uint64) {
	seg.Valid = true
	current := seg
	for lvl := 0; lvl < maxDepth; lvl++ {
		for len(g.levels) <= lvl {
			g.levels = append(g.levels, nil)
		}
		lv := g.levels[lvl]
		if i := lv.findOverlap(current); i >= 0 {
			displaced := lv[i]
			lv[i] = current
			g.levels[lvl] = lv
			markCovered(&g.bitmap, current)
			current = displaced
			continue
		}
		g.levels[lvl] = append(lv, current)
		markCovered(&g.bitmap, current)
		return
	}
	// current has been displaced maxDepth times with no free slot; this
	// is tolerated as bounded loss rather than treated as an error.
	log.Error.Printf("ftl: dropping segment start=%d length=%d step=%d after %d displacements", current.Start, current.Length, current.Step, maxDepth)
	*dropped++
}

// searchSegments walks the group's levels top-down, returning the first
// matching segment's PPN.
func (g *group) searchSegments(o byte) (uint64, bool) {
	for _, lv := range g.levels {
		for _, s := range lv {
			if s.contains(o) {
				return s.ppn(o), true
			}
		}
	}
	return 0, false
}

// segmentCount and crbCount back EngineStats; see stats.go.
func (g *group) segmentCount() int {
	n := 0
	for _, lv := range g.levels {
		for _, s := range lv {
			if s.Valid {
				n++
			}
		}
	}
	return n
}
