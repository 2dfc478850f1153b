// Package ftl implements a learned, multi-level, segment-based mapping
// engine for a flash-translation-layer trace-replay simulator.
//
// The engine maps logical block addresses to physical page numbers. Writes
// are staged in a fixed-size buffer and flushed in batches: runs of LBAs
// sharing a constant stride are captured as linear Segments, and anything
// left over lands in a per-group conflict record buffer (CRB). A per-group
// occupancy bitmap steers each read toward the segment table or the CRB
// without probing both.
//
// The engine is not safe for concurrent use. Callers needing concurrent
// access must serialize calls themselves.
package ftl
