package trace

import (
	"context"
	"encoding/json"

	"github.com/golang/snappy"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// DumpStats is the JSON payload written by WriteDump, kept separate from
// ftl.EngineStats so the on-disk format doesn't change just because the
// engine's internal accounting does.
type DumpStats struct {
	TouchedGroups   int
	Segments        int
	CRBEntries      int
	BitmapSetBits   int
	PendingWrites   int
	DroppedSegments uint64
	NextPPN         uint32
	Fingerprint     uint64
}

// WriteDump snappy-compresses a JSON encoding of stats to path. This is an
// optional diagnostic artifact (-dump), never read back by the replay
// loop itself.
func WriteDump(ctx context.Context, path string, stats DumpStats) (err error) {
	f, err := Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)

	sw := snappy.NewBufferedWriter(f.Writer(ctx))
	defer func() {
		if e := sw.Close(); e != nil && err == nil {
			err = errors.Wrap(e, "trace: close snappy dump writer")
		}
	}()

	enc := json.NewEncoder(sw)
	if err := enc.Encode(stats); err != nil {
		return errors.Wrap(err, "trace: encode dump")
	}
	return nil
}

// ReadDump decompresses and decodes a file written by WriteDump.
func ReadDump(ctx context.Context, path string) (DumpStats, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return DumpStats{}, errors.Wrapf(err, "trace: open dump %s", path)
	}
	defer f.Close(ctx)

	var stats DumpStats
	if err := json.NewDecoder(snappy.NewReader(f.Reader(ctx))).Decode(&stats); err != nil {
		return DumpStats{}, errors.Wrap(err, "trace: decode dump")
	}
	return stats, nil
}
