package trace

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// readCloser pairs a gzip.Reader (or a direct pass-through) with the
// underlying file.File so both get closed together.
type readCloser struct {
	r        io.Reader
	gz       *gzip.Reader
	underlay file.File
	ctx      context.Context
}

func (c *readCloser) Read(p []byte) (int, error) { return c.r.Read(p) }

func (c *readCloser) Close() error {
	var err error
	if c.gz != nil {
		err = c.gz.Close()
	}
	if e := c.underlay.Close(c.ctx); e != nil && err == nil {
		err = e
	}
	return err
}

// Open opens path for reading, transparently decompressing it if
// fileio.DetermineType recognizes a .gz extension. path may be a local
// path or, once RegisterS3 has been called, an s3:// URL.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "trace: open %s", path)
	}
	rc := &readCloser{r: f.Reader(ctx), underlay: f, ctx: ctx}
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(rc.r)
		if err != nil {
			f.Close(ctx)
			return nil, errors.Wrapf(err, "trace: gzip header %s", path)
		}
		rc.gz = gz
		rc.r = gz
	}
	return rc, nil
}

// Create opens path for writing, through the same file.Create indirection
// used for reads so local and S3 destinations share one code path.
func Create(ctx context.Context, path string) (file.File, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "trace: create %s", path)
	}
	return f, nil
}
