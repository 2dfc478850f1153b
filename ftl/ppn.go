package ftl

// PPNAllocator hands out monotonically increasing physical page numbers.
// PPNs are never reused: this is a simulator, not a device with garbage
// collection. Overflow of the uint32 counter is not handled; workloads
// are assumed bounded.
//
// Exported so the plainarray variant (ftl/plainarray) can share the same
// allocation policy instead of reimplementing it.
type PPNAllocator struct {
	next uint32
}

// NewPPNAllocator creates an allocator that starts handing out PPNs at
// start.
func NewPPNAllocator(start uint32) PPNAllocator {
	return PPNAllocator{next: start}
}

// Reserve returns the first PPN of a contiguous range of n pages and
// advances the counter past it.
func (a *PPNAllocator) Reserve(n int) uint32 {
	first := a.next
	a.next += uint32(n)
	return first
}

// Next returns the PPN that would be handed out by the next Reserve call,
// without consuming it. Used only for diagnostics (EngineStats).
func (a *PPNAllocator) Next() uint32 {
	return a.next
}
