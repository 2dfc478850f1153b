// Package plainarray implements a simpler, conformant alternative to
// ftl.Engine: a direct lba->ppn map with a small fixed-size round-robin
// cache of recently written LBAs, instead of the learned segment table.
//
// It satisfies the same Read/Write/Flush/Close contract as ftl.Engine
// (see DESIGN.md) and is the simplest of the explored designs.
package plainarray
