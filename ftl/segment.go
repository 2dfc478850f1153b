package ftl

// segment is a learned linear mapping covering a strided subset of offsets
// within one group: offset o is mapped iff start <= o <= start+length and
// (o-start) mod step == 0 (step 0 means a single point, o == start). Its
// physical page is BasePPN + (o-start)/step.
//
// Valid replaces the source's INVALID_START=0xFF tombstone sentinel with an
// explicit field (see SPEC_FULL.md §5.3): Insert swaps a conflicting
// segment out of its slot and pushes it one level down rather than leaving
// Valid=false entries lying around, but the field is kept so the search path and tests have a
// single, unambiguous way to recognize a dead slot if a future compaction
// strategy reintroduces in-place invalidation.
type segment struct {
	Start   byte
	Length  byte
	Step    byte
	BasePPN uint32
	Valid   bool
}

// end returns the last offset this segment covers.
func (s segment) end() byte {
	return s.Start + s.Length
}

// contains reports whether offset o falls on this segment's stride.
func (s segment) contains(o byte) bool {
	if !s.Valid || o < s.Start || o > s.end() {
		return false
	}
	if s.Step == 0 {
		return o == s.Start
	}
	return int(o-s.Start)%int(s.Step) == 0
}

// ppn returns the physical page mapped to offset o. Callers must first
// confirm contains(o).
func (s segment) ppn(o byte) uint64 {
	if s.Step == 0 {
		return uint64(s.BasePPN)
	}
	return uint64(s.BasePPN) + uint64(o-s.Start)/uint64(s.Step)
}

// pages returns how many distinct physical pages this segment spans.
func (s segment) pages() int {
	if s.Step == 0 {
		return 1
	}
	return int(s.Length)/int(s.Step) + 1
}

// overlaps reports whether two segments' LBA-offset intervals intersect.
// Treats zero-length (single-point) segments as the degenerate interval
// [start,start].
func overlaps(a, b segment) bool {
	return !(a.Start > b.end() || a.end() < b.Start)
}

// level is an ordered, non-overlapping (by construction of Insert) sequence
// of segments. Levels are numbered top-down within a group; level 0 holds
// the most recently inserted, never-displaced segments.
type level []segment

// findOverlap returns the index of the first valid segment in lv that
// overlaps s, or -1 if none.
func (lv level) findOverlap(s segment) int {
	for i := range lv {
		if lv[i].Valid && overlaps(lv[i], s) {
			return i
		}
	}
	return -1
}

// markCovered sets every offset s covers in bm as segment-backed.
func markCovered(bm *bitmap, s segment) {
	step := s.Step
	if step == 0 {
		step = 1
	}
	for o := int(s.Start); o <= int(s.end()); o += int(step) {
		bm.set(byte(o), true)
		if s.Step == 0 {
			break
		}
	}
}
