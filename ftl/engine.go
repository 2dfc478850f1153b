package ftl

import (
	"github.com/grailbio/base/log"
)

// Replayer is the contract a trace-replay driver needs: stage a write,
// read back a mapping, force a flush, and release resources when done.
// Both *Engine (the learned segment/CRB design) and *plainarray.Engine
// (the simpler array-backed design) satisfy it, so a driver or a
// conformance test can be written once against the interface and run
// against either.
type Replayer interface {
	Read(lba uint64) (uint64, error)
	Write(lba uint64) error
	Flush() error
	Close() error
}

// Engine is the mapping-table handle. Unlike the source's process-wide
// static FTL, an Engine is an explicit value created by New and released
// by Close; nothing about it is global.
type Engine struct {
	cfg    Config
	groups groupTable
	wb     writeBuffer
	ppn    PPNAllocator
	closed bool

	droppedSegments uint64
}

var _ Replayer = (*Engine)(nil)

// New creates an Engine ready to serve reads and writes.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:    cfg,
		groups: newGroupTable(64),
		wb:     newWriteBuffer(cfg.WriteBufferCapacity),
		ppn:    NewPPNAllocator(cfg.StartPPN),
	}
}

// Close releases the Engine. No operation is valid on it afterward.
func (e *Engine) Close() error {
	e.closed = true
	e.groups.groups = nil
	e.wb.pending = nil
	return nil
}

func splitLBA(lba uint64) (group uint32, offset byte) {
	return uint32(lba / GroupSize), byte(lba % GroupSize)
}

// Write stages lba for remapping. It returns ErrBufferFull only if the
// buffer is full and an eager flush still couldn't make room, and
// ErrInvalidLBA if the LBA's group is out of range. It returns ErrClosed
// if the Engine has been closed.
func (e *Engine) Write(lba uint64) error {
	if e.closed {
		return ErrClosed
	}
	g, _ := splitLBA(lba)
	if g >= e.cfg.Groups {
		return ErrInvalidLBA
	}
	if !e.wb.enqueue(lba) {
		if err := e.Flush(); err != nil {
			return err
		}
		if !e.wb.enqueue(lba) {
			return ErrBufferFull
		}
	}
	if e.wb.len() >= e.cfg.WriteBufferCapacity {
		return e.Flush()
	}
	return nil
}

// Read returns the physical page mapped to lba, or 0 if lba has never been
// written. If lba is currently staged in the write buffer, Read flushes
// first so it observes the most recent write.
func (e *Engine) Read(lba uint64) (uint64, error) {
	if e.closed {
		return 0, ErrClosed
	}
	if e.wb.contains(lba) {
		if err := e.Flush(); err != nil {
			return 0, err
		}
	}
	g, o := splitLBA(lba)
	if g >= e.cfg.Groups {
		return 0, ErrInvalidLBA
	}
	grp, ok := e.groups.lookup(g)
	if !ok {
		return 0, nil
	}
	if grp.bitmap.get(o) {
		if ppn, ok := grp.searchSegments(o); ok {
			return ppn, nil
		}
		return 0, nil
	}
	if ppn, ok := grp.crb.search(o); ok {
		return ppn, nil
	}
	return 0, nil
}

// Flush moves every staged write into segments or CRB entries, reserving
// PPNs for each, and resets the write buffer. Flushing an empty buffer is
// a no-op.
func (e *Engine) Flush() error {
	if e.closed {
		return ErrClosed
	}
	sorted := e.wb.drain()
	if len(sorted) == 0 {
		return nil
	}
	runs := planFlush(sorted)
	total := 0
	for _, r := range runs {
		total += len(r.offsets)
	}
	base := e.ppn.Reserve(total)
	cursor := base
	for _, r := range runs {
		g := e.groups.get(r.group)
		if len(r.offsets) == 1 {
			g.crb.insert(r.offsets, cursor)
			g.bitmap.set(r.offsets[0], false)
			cursor++
			continue
		}
		seg := segment{
			Start:   r.offsets[0],
			Length:  r.offsets[len(r.offsets)-1] - r.offsets[0],
			Step:    r.step,
			BasePPN: cursor,
		}
		g.insert(seg, e.cfg.MaxInsertDepth, &e.droppedSegments)
		cursor += uint32(seg.pages())
	}
	log.Debug.Printf("ftl: flushed %d writes into %d runs, reserved ppn [%d,%d)", len(sorted), len(runs), base, cursor)
	return nil
}
