package ftl

import "sort"

// pendingWrite is one staged LBA, tagged with the order it was enqueued in
// so a stable dedup pass can keep the most recent write to any given LBA.
type pendingWrite struct {
	lba uint64
	seq uint64
}

// writeBuffer is the fixed-capacity staging area for writes awaiting
// flush. Contents are unordered on insertion; flush sorts them.
type writeBuffer struct {
	pending  []pendingWrite
	capacity int
	nextSeq  uint64
}

func newWriteBuffer(capacity int) writeBuffer {
	return writeBuffer{pending: make([]pendingWrite, 0, capacity), capacity: capacity}
}

func (w *writeBuffer) len() int { return len(w.pending) }

// enqueue stages lba. The caller is responsible for flushing first if the
// buffer is full; enqueue itself never flushes (Engine.Write owns that
// policy, since only it knows how to reserve PPNs for the flush).
func (w *writeBuffer) enqueue(lba uint64) bool {
	if len(w.pending) >= w.capacity {
		return false
	}
	w.pending = append(w.pending, pendingWrite{lba: lba, seq: w.nextSeq})
	w.nextSeq++
	return true
}

// contains reports whether lba is currently staged, via a linear scan.
func (w *writeBuffer) contains(lba uint64) bool {
	for _, p := range w.pending {
		if p.lba == lba {
			return true
		}
	}
	return false
}

// drain sorts the staged LBAs ascending, deduplicates equal LBAs keeping
// the last-enqueued occurrence, and resets the buffer. The returned slice
// is owned by the caller.
func (w *writeBuffer) drain() []uint64 {
	if len(w.pending) == 0 {
		return nil
	}
	items := w.pending
	sort.SliceStable(items, func(i, j int) bool { return items[i].lba < items[j].lba })

	deduped := items[:0:0]
	for i := 0; i < len(items); i++ {
		// Among a run of equal LBAs, keep the one with the highest seq
		// (the last enqueued), found by scanning the run.
		j := i
		best := items[i]
		for j+1 < len(items) && items[j+1].lba == best.lba {
			j++
			if items[j].seq > best.seq {
				best = items[j]
			}
		}
		deduped = append(deduped, best)
		i = j
	}

	out := make([]uint64, len(deduped))
	for i, p := range deduped {
		out[i] = p.lba
	}
	w.pending = w.pending[:0]
	return out
}

// flushRun describes one contiguous stride-run extracted from a sorted,
// deduplicated batch of LBAs within a single group, ready to become either
// a segment (length >= 2) or a CRB point (length 1).
type flushRun struct {
	group   uint32
	offsets []byte // offsets within the group, in ascending order
	step    byte   // meaningful only when len(offsets) >= 2
}

// planFlush partitions a sorted, deduplicated ascending slice of LBAs into
// per-group, per-stride runs.
func planFlush(sortedLBAs []uint64) []flushRun {
	var runs []flushRun
	i := 0
	for i < len(sortedLBAs) {
		g := uint32(sortedLBAs[i] / GroupSize)
		j := i
		for j+1 < len(sortedLBAs) && uint32(sortedLBAs[j+1]/GroupSize) == g {
			j++
		}
		// [i, j] share group g; extract constant-stride runs within it.
		k := i
		for k <= j {
			if k == j {
				runs = append(runs, flushRun{group: g, offsets: []byte{byte(sortedLBAs[k] % GroupSize)}})
				k++
				continue
			}
			step := sortedLBAs[k+1] - sortedLBAs[k]
			end := k
			for end+1 <= j && sortedLBAs[end+1]-sortedLBAs[end] == step {
				end++
			}
			if end > k {
				offsets := make([]byte, 0, end-k+1)
				for m := k; m <= end; m++ {
					offsets = append(offsets, byte(sortedLBAs[m]%GroupSize))
				}
				runs = append(runs, flushRun{group: g, offsets: offsets, step: byte(step)})
				k = end + 1
			} else {
				runs = append(runs, flushRun{group: g, offsets: []byte{byte(sortedLBAs[k] % GroupSize)}})
				k++
			}
		}
		i = j + 1
	}
	return runs
}
