package ftl

import (
	"encoding/binary"
	"sort"

	"github.com/dgryski/go-farm"
)

// Fingerprint returns a deterministic hash of every touched group's
// mapping state: its segments, its CRB runs, and its bitmap words. Two
// Engines that have replayed the same trace (in the same order) produce
// the same Fingerprint, and a single Engine's Fingerprint is stable across
// repeated calls as long as no further Write/Flush happens in between —
// a single comparable value instead of a deep structural diff.
func (e *Engine) Fingerprint() uint64 {
	groupIdxs := make([]uint32, 0, len(e.groups.groups))
	for idx := range e.groups.groups {
		groupIdxs = append(groupIdxs, idx)
	}
	sort.Slice(groupIdxs, func(i, j int) bool { return groupIdxs[i] < groupIdxs[j] })

	var buf []byte
	var scratch [8]byte
	appendU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		buf = append(buf, scratch[:4]...)
	}
	appendU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:], v)
		buf = append(buf, scratch[:]...)
	}

	var h uint64
	for _, idx := range groupIdxs {
		g := e.groups.groups[idx]
		buf = buf[:0]
		appendU32(idx)
		for _, w := range g.bitmap {
			appendU64(w)
		}
		for _, lv := range g.levels {
			for _, s := range lv {
				if !s.Valid {
					continue
				}
				buf = append(buf, s.Start, s.Length, s.Step)
				appendU32(s.BasePPN)
			}
		}
		for i, run := range g.crb.runs {
			appendU32(g.crb.basePPN[i])
			buf = append(buf, run...)
		}
		h = farm.Hash64WithSeed(buf, h)
	}
	return h
}
