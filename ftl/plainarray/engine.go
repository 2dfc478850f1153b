package plainarray

import "github.com/grailbio/ftl/ftl"

// cacheSize is the fixed recency-cache size.
const cacheSize = 16

type cacheEntry struct {
	lba   uint64
	ppn   uint64
	valid bool
}

// Engine is a direct, un-learned lba->ppn map with a small recency cache
// layered on top. It has no write-staging buffer: every Write is
// immediately reflected in the mapping, so Flush is a no-op kept only to
// satisfy ftl.Replayer.
//
// Mappings live in a Go map rather than a preallocated flat array sized
// to the whole address space; this module's Config.Groups can be large
// enough that eager allocation would be wasteful for sparse traces.
type Engine struct {
	cfg     ftl.Config
	mapping map[uint64]uint64
	cache   [cacheSize]cacheEntry
	clock   int
	ppn     ftl.PPNAllocator
	closed  bool
}

var _ ftl.Replayer = (*Engine)(nil)

// New creates a plain-array Engine ready to serve reads and writes.
func New(cfg ftl.Config) *Engine {
	return &Engine{
		cfg:     cfg,
		mapping: make(map[uint64]uint64),
		ppn:     ftl.NewPPNAllocator(cfg.StartPPN),
	}
}

// Close releases the Engine. No operation is valid on it afterward.
func (e *Engine) Close() error {
	e.closed = true
	e.mapping = nil
	return nil
}

func (e *Engine) groupOf(lba uint64) uint32 {
	return uint32(lba / ftl.GroupSize)
}

func (e *Engine) cacheIndex(lba uint64) int {
	for i, c := range e.cache {
		if c.valid && c.lba == lba {
			return i
		}
	}
	return -1
}

// Read returns the PPN mapped to lba, or 0 if lba has never been written.
func (e *Engine) Read(lba uint64) (uint64, error) {
	if e.closed {
		return 0, ftl.ErrClosed
	}
	if e.groupOf(lba) >= e.cfg.Groups {
		return 0, ftl.ErrInvalidLBA
	}
	if i := e.cacheIndex(lba); i >= 0 {
		return e.cache[i].ppn, nil
	}
	ppn, ok := e.mapping[lba]
	if !ok {
		return 0, nil
	}
	return ppn, nil
}

// Write allocates a fresh PPN for lba and records the mapping. There is
// no staging: the write is visible to the next Read immediately.
func (e *Engine) Write(lba uint64) error {
	if e.closed {
		return ftl.ErrClosed
	}
	if e.groupOf(lba) >= e.cfg.Groups {
		return ftl.ErrInvalidLBA
	}
	ppn := uint64(e.ppn.Reserve(1))
	e.mapping[lba] = ppn

	// Promote into the round-robin recency cache. It only accelerates
	// repeated reads of recently written LBAs; it is never the source of
	// truth, so eviction order doesn't affect correctness. Any older entry
	// for the same LBA is invalidated so a rewrite never reads back stale.
	if i := e.cacheIndex(lba); i >= 0 {
		e.cache[i].valid = false
	}
	slot := e.clock % cacheSize
	e.clock++
	e.cache[slot] = cacheEntry{lba: lba, ppn: ppn, valid: true}
	return nil
}

// Flush is a no-op: plainarray has no write-staging buffer to drain.
func (e *Engine) Flush() error {
	if e.closed {
		return ftl.ErrClosed
	}
	return nil
}
