package ftl

// EngineStats summarizes an Engine's current memory footprint and the
// outcome of lossy operations, for benchmarking only. It is computed on
// demand rather than tracked incrementally on every allocation.
type EngineStats struct {
	TouchedGroups   int
	Segments        int
	CRBEntries      int
	BitmapSetBits   int
	PendingWrites   int
	DroppedSegments uint64
	NextPPN         uint32
}

// Stats walks every touched group and returns a snapshot. It is O(touched
// groups + segments + CRB entries); callers on a hot path should not call
// it per-operation.
func (e *Engine) Stats() EngineStats {
	s := EngineStats{
		TouchedGroups:   len(e.groups.groups),
		PendingWrites:   e.wb.len(),
		DroppedSegments: e.droppedSegments,
		NextPPN:         e.ppn.Next(),
	}
	for _, g := range e.groups.groups {
		s.Segments += g.segmentCount()
		s.CRBEntries += g.crb.size()
		s.BitmapSetBits += g.bitmap.popcount()
	}
	return s
}
