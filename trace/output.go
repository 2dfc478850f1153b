package trace

import (
	"bufio"
	"context"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Writer appends one decimal PPN per line to a trace output file, the
// format cmd/ftl-replay emits for -o and that CompareFiles reads back.
type Writer struct {
	ctx context.Context
	f   file.File
	w   *bufio.Writer
}

// NewWriter creates path (local or s3://, once RegisterS3 has run) and
// returns a Writer ready to accept PPNs.
func NewWriter(ctx context.Context, path string) (*Writer, error) {
	f, err := Create(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Writer{ctx: ctx, f: f, w: bufio.NewWriter(f.Writer(ctx))}, nil
}

// WritePPN appends one line with the decimal PPN.
func (w *Writer) WritePPN(ppn uint64) error {
	if _, err := w.w.WriteString(strconv.FormatUint(ppn, 10)); err != nil {
		return errors.Wrap(err, "trace: write ppn")
	}
	return w.w.WriteByte('\n')
}

// Close flushes buffered output and closes the underlying file, matching
// the Close(ctx)-takes-a-context convention of github.com/grailbio/base/file.
func (w *Writer) Close() (err error) {
	defer file.CloseAndReport(w.ctx, w.f, &err)
	return w.w.Flush()
}
