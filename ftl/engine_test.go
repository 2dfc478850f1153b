package ftl_test

import (
	"testing"

	"github.com/grailbio/ftl/ftl"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *ftl.Engine {
	cfg := ftl.DefaultConfig()
	return ftl.New(cfg)
}

// Assumes next_ppn starts at 1000 and group size 256.
func TestScenarios(t *testing.T) {
	t.Run("contiguous run becomes a segment", func(t *testing.T) {
		e := newTestEngine()
		defer e.Close()
		for _, lba := range []uint64{5, 6, 7} {
			require.NoError(t, e.Write(lba))
		}
		want := []uint64{1000, 1001, 1002, 0}
		for i, lba := range []uint64{5, 6, 7, 8} {
			got, err := e.Read(lba)
			require.NoError(t, err)
			require.Equal(t, want[i], got)
		}
	})

	t.Run("stride-10 segment", func(t *testing.T) {
		e := newTestEngine()
		defer e.Close()
		for _, lba := range []uint64{10, 20, 30} {
			require.NoError(t, e.Write(lba))
		}
		want := map[uint64]uint64{10: 1000, 20: 1001, 30: 1002, 15: 0}
		for lba, w := range want {
			got, err := e.Read(lba)
			require.NoError(t, err)
			require.Equal(t, w, got)
		}
	})

	t.Run("two distant LBAs in sorted-flush order", func(t *testing.T) {
		e := newTestEngine()
		defer e.Close()
		require.NoError(t, e.Write(5))
		require.NoError(t, e.Write(100))
		got5, err := e.Read(5)
		require.NoError(t, err)
		got100, err := e.Read(100)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), got5)
		require.Equal(t, uint64(1001), got100)
	})

	t.Run("eager flush returns most recent write", func(t *testing.T) {
		e := newTestEngine()
		defer e.Close()
		require.NoError(t, e.Write(5))
		require.NoError(t, e.Write(6))
		require.NoError(t, e.Write(7))
		require.NoError(t, e.Write(5))
		got, err := e.Read(5)
		require.NoError(t, err)
		// All four writes land in a single flush (the buffer never hit
		// capacity), so the duplicate Write(5) collapses into the same
		// run as the other three and the result is the contiguous
		// segment's base PPN, same as the single-write-per-LBA case.
		require.Equal(t, uint64(1000), got)
		got6, err := e.Read(6)
		require.NoError(t, err)
		require.Equal(t, uint64(1001), got6)
	})

	t.Run("read of unwritten LBA", func(t *testing.T) {
		e := newTestEngine()
		defer e.Close()
		got, err := e.Read(42)
		require.NoError(t, err)
		require.Equal(t, uint64(0), got)
	})

	t.Run("full write buffer becomes one segment", func(t *testing.T) {
		e := newTestEngine()
		defer e.Close()
		for i := uint64(0); i < 256; i++ {
			require.NoError(t, e.Write(i))
		}
		for i := uint64(0); i < 256; i++ {
			got, err := e.Read(i)
			require.NoError(t, err)
			require.Equal(t, uint64(1000)+i, got)
		}
	})
}

func TestInvalidLBA(t *testing.T) {
	cfg := ftl.DefaultConfig()
	cfg.Groups = 1
	e := ftl.New(cfg)
	defer e.Close()

	err := e.Write(GroupSizeOffset(1, 0))
	require.ErrorIs(t, err, ftl.ErrInvalidLBA)

	got, err := e.Read(GroupSizeOffset(1, 0))
	require.ErrorIs(t, err, ftl.ErrInvalidLBA)
	require.Equal(t, uint64(0), got)
}

func GroupSizeOffset(group, offset uint64) uint64 {
	return group*256 + offset
}

func TestFlushIdempotentOnEmptyBuffer(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	require.NoError(t, e.Flush())
	require.NoError(t, e.Flush())
	require.Equal(t, 0, e.Stats().PendingWrites)
}

func TestEagerFlushCoherenceLaw(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	for lba := uint64(0); lba < 300; lba++ {
		require.NoError(t, e.Write(lba))
		got, err := e.Read(lba)
		require.NoError(t, err)
		require.NotEqual(t, uint64(0), got)
	}
}

func TestDeterminismLaw(t *testing.T) {
	trace := []uint64{5, 6, 7, 300, 301, 310, 5, 40000}
	run := func() uint64 {
		e := newTestEngine()
		defer e.Close()
		for _, lba := range trace {
			require.NoError(t, e.Write(lba))
		}
		require.NoError(t, e.Flush())
		return e.Fingerprint()
	}
	require.Equal(t, run(), run())
}

func TestClosedEngineRejectsOperations(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Close())
	require.ErrorIs(t, e.Write(0), ftl.ErrClosed)
	_, err := e.Read(0)
	require.ErrorIs(t, err, ftl.ErrClosed)
	require.ErrorIs(t, e.Flush(), ftl.ErrClosed)
}
