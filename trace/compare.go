package trace

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Report summarizes a CompareFiles run: how many lines were compared and
// how many matched exactly.
type Report struct {
	Total    int
	Matching int
}

// Accuracy returns Matching/Total as a percentage, or 0 if Total is 0.
func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Matching) / float64(r.Total)
}

// CompareFiles reads two decimal-PPN-per-line files (cmd/ftl-replay's -o
// output and a known-good validation file) and reports how many lines
// agree. It stops at the shorter file's length; a length mismatch is not
// itself an error, matching the source's CompareFiles, which likewise
// just compares up to the shorter file.
func CompareFiles(ctx context.Context, gotPath, wantPath string) (Report, error) {
	got, err := Open(ctx, gotPath)
	if err != nil {
		return Report{}, err
	}
	defer got.Close()
	want, err := Open(ctx, wantPath)
	if err != nil {
		return Report{}, err
	}
	defer want.Close()

	gs := bufio.NewScanner(got)
	ws := bufio.NewScanner(want)

	var report Report
	for gs.Scan() {
		if !ws.Scan() {
			break
		}
		gLine := strings.TrimSpace(gs.Text())
		wLine := strings.TrimSpace(ws.Text())
		if gLine == "" || wLine == "" {
			continue
		}
		gv, err := strconv.ParseUint(gLine, 10, 64)
		if err != nil {
			return Report{}, errors.Wrapf(ErrFormat, "compare: unparsable line %q in %s", gLine, gotPath)
		}
		wv, err := strconv.ParseUint(wLine, 10, 64)
		if err != nil {
			return Report{}, errors.Wrapf(ErrFormat, "compare: unparsable line %q in %s", wLine, wantPath)
		}
		report.Total++
		if gv == wv {
			report.Matching++
		}
	}
	if err := gs.Err(); err != nil {
		return Report{}, errors.Wrap(err, "trace: compare scan")
	}
	if err := ws.Err(); err != nil {
		return Report{}, errors.Wrap(err, "trace: compare scan")
	}
	return report, nil
}

// CompareReads compares an in-memory list of read PPNs (produced during a
// replay that had no -o output path) against a validation file, without
// requiring the caller to materialize got as a file first.
func CompareReads(ctx context.Context, got []uint64, wantPath string) (Report, error) {
	want, err := Open(ctx, wantPath)
	if err != nil {
		return Report{}, err
	}
	defer want.Close()

	ws := bufio.NewScanner(want)
	var report Report
	for _, gv := range got {
		if !ws.Scan() {
			break
		}
		wLine := strings.TrimSpace(ws.Text())
		if wLine == "" {
			continue
		}
		wv, err := strconv.ParseUint(wLine, 10, 64)
		if err != nil {
			return Report{}, errors.Wrapf(ErrFormat, "compare: unparsable line %q in %s", wLine, wantPath)
		}
		report.Total++
		if gv == wv {
			report.Matching++
		}
	}
	if err := ws.Err(); err != nil {
		return Report{}, errors.Wrap(err, "trace: compare scan")
	}
	return report, nil
}
