package ftl

import (
	"math/rand"
	"testing"
)

func TestCRBInsertSearchSingleRun(t *testing.T) {
	var c crb
	c.insert([]byte{5, 3, 9, 3}, 1000)
	cases := map[byte]uint64{3: 1000, 5: 1001, 9: 1002}
	for o, want := range cases {
		got, ok := c.search(o)
		if !ok || got != want {
			t.Fatalf("search(%d) = (%d, %v), want (%d, true)", o, got, ok, want)
		}
	}
	if _, ok := c.search(4); ok {
		t.Fatal("search(4) should miss: offset never inserted")
	}
}

func TestCRBMultipleRunsOrderedByFirstOffset(t *testing.T) {
	var c crb
	c.insert([]byte{50, 51}, 2000)
	c.insert([]byte{1, 2}, 1000)
	c.insert([]byte{100}, 3000)

	if c.runs[0][0] != 1 || c.runs[1][0] != 50 || c.runs[2][0] != 100 {
		t.Fatalf("runs not ordered by first offset: %v", c.runs)
	}
	got, ok := c.search(51)
	if !ok || got != 2001 {
		t.Fatalf("search(51) = (%d, %v), want (2001, true)", got, ok)
	}
	got, ok = c.search(2)
	if !ok || got != 1001 {
		t.Fatalf("search(2) = (%d, %v), want (1001, true)", got, ok)
	}
}

// TestCRBRunsPartitionOffsets checks that CRB runs partition the offsets
// present in the CRB, each run strictly ascending,
// and runs in first-offset order cover strictly ascending ranges. Blocks
// are disjoint, contiguous ranges inserted in shuffled order, matching how
// a flush only ever hands the CRB offsets that didn't land in a segment
// elsewhere in the same group.
func TestCRBRunsPartitionOffsets(t *testing.T) {
	const blockSize = 6
	var blocks [][]byte
	for start := 0; start < 256; start += blockSize {
		end := start + blockSize
		if end > 256 {
			end = 256
		}
		var block []byte
		for o := start; o < end; o++ {
			block = append(block, byte(o))
		}
		blocks = append(blocks, block)
	}
	rng := rand.New(rand.NewSource(2))
	rng.Shuffle(len(blocks), func(i, j int) { blocks[i], blocks[j] = blocks[j], blocks[i] })

	var c crb
	for i, block := range blocks {
		c.insert(block, uint32(i*100))
	}

	last := -1
	for _, run := range c.runs {
		if len(run) == 0 {
			t.Fatal("empty run recorded")
		}
		for _, o := range run {
			if int(o) <= last {
				t.Fatalf("offsets not strictly ascending across/within runs: %d after %d", o, last)
			}
			last = int(o)
		}
	}
}

func TestCRBSearchMissBeyondLastRun(t *testing.T) {
	var c crb
	c.insert([]byte{1, 2}, 10)
	if _, ok := c.search(200); ok {
		t.Fatal("search(200) should miss, no run covers it")
	}
}

// TestCRBReinsertReplacesStaleOffset covers an LBA landing in the CRB as an
// isolated point across two distinct flushes: the second insert must
// invalidate the first run's copy of the offset so search returns the
// fresh PPN, never the stale one.
func TestCRBReinsertReplacesStaleOffset(t *testing.T) {
	var c crb
	c.insert([]byte{42}, 1000)
	got, ok := c.search(42)
	if !ok || got != 1000 {
		t.Fatalf("search(42) after first flush = (%d, %v), want (1000, true)", got, ok)
	}

	c.insert([]byte{42}, 2000)
	got, ok = c.search(42)
	if !ok || got != 2000 {
		t.Fatalf("search(42) after second flush = (%d, %v), want (2000, true), stale PPN returned", got, ok)
	}

	n := 0
	for _, run := range c.runs {
		for _, o := range run {
			if o == 42 {
				n++
			}
		}
	}
	if n != 1 {
		t.Fatalf("offset 42 present in %d runs, want exactly 1", n)
	}
}

// TestCRBReinsertSplitsRunAroundStaleOffset covers the case where the
// rewritten offset sits in the middle of an existing multi-offset run: the
// run must split around it rather than the whole run being discarded or
// the surrounding offsets losing their mapping.
func TestCRBReinsertSplitsRunAroundStaleOffset(t *testing.T) {
	var c crb
	c.insert([]byte{10, 11, 12, 13, 14}, 5000)
	c.insert([]byte{12}, 9000)

	cases := map[byte]uint64{10: 5000, 11: 5001, 12: 9000, 13: 5003, 14: 5004}
	for o, want := range cases {
		got, ok := c.search(o)
		if !ok || got != want {
			t.Fatalf("search(%d) = (%d, %v), want (%d, true)", o, got, ok, want)
		}
	}
}

// TestCRBReinsertAcrossMultipleRuns covers a rewritten batch whose offsets
// are scattered across several pre-existing runs, simulating a third flush
// that revisits offsets from two earlier, otherwise-unrelated flushes.
func TestCRBReinsertAcrossMultipleRuns(t *testing.T) {
	var c crb
	c.insert([]byte{1, 2, 3}, 100)
	c.insert([]byte{50, 51, 52}, 200)
	c.insert([]byte{2, 51}, 300)

	cases := map[byte]uint64{1: 100, 2: 300, 3: 102, 50: 200, 51: 301, 52: 202}
	for o, want := range cases {
		got, ok := c.search(o)
		if !ok || got != want {
			t.Fatalf("search(%d) = (%d, %v), want (%d, true)", o, got, ok, want)
		}
	}
}
