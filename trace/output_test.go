package trace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/ftl/trace"
	"github.com/stretchr/testify/require"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w, err := trace.NewWriter(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, w.WritePPN(1000))
	require.NoError(t, w.WritePPN(1001))
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1000\n1001\n", string(got))
}

func TestDumpRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.snappy")
	ctx := context.Background()
	stats := trace.DumpStats{TouchedGroups: 3, Segments: 5, Fingerprint: 42}
	require.NoError(t, trace.WriteDump(ctx, path, stats))

	got, err := trace.ReadDump(ctx, path)
	require.NoError(t, err)
	require.Equal(t, stats, got)
}

func TestOpenNonGzipPassThrough(t *testing.T) {
	// Non-gzip input should just be read through unchanged.
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("io count\n0\n"), 0644))
	ctx := context.Background()
	rc, err := trace.Open(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	ios, err := trace.Parse(rc)
	require.NoError(t, err)
	require.Len(t, ios, 0)
}
