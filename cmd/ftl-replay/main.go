package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/ftl/ftl"
	"github.com/grailbio/ftl/trace"
)

var (
	inputPath    string
	outputPath   string
	validatePath string
	dumpPath     string
	groups       uint
	groupSize    uint
	writeBuffer  int
	startPPN     uint
	maxDepth     int
)

func init() {
	def := ftl.DefaultConfig()
	flag.StringVar(&inputPath, "i", "", "input trace file (required)")
	flag.StringVar(&outputPath, "o", "", "output file for replayed read PPNs (optional)")
	flag.StringVar(&validatePath, "v", "", "validation file to compare reads against (required)")
	flag.StringVar(&dumpPath, "dump", "", "optional path for a snappy-compressed diagnostic stats dump")
	flag.UintVar(&groups, "groups", uint(def.Groups), "number of LBA groups the engine accepts")
	flag.UintVar(&groupSize, "group-size", uint(ftl.GroupSize), "LBAs per group; must equal the engine's fixed group size")
	flag.IntVar(&writeBuffer, "write-buffer", def.WriteBufferCapacity, "write-staging buffer capacity")
	flag.UintVar(&startPPN, "start-ppn", uint(def.StartPPN), "first physical page number allocated")
	flag.IntVar(&maxDepth, "max-depth", def.MaxInsertDepth, "max segment-table insertion depth before a displaced segment is dropped")
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if inputPath == "" || validatePath == "" {
		log.Fatalf("ftl-replay: -i and -v are required")
	}
	if groupSize != uint(ftl.GroupSize) {
		log.Fatalf("ftl-replay: -group-size %d does not match the engine's fixed group size %d", groupSize, ftl.GroupSize)
	}

	cfg := ftl.Config{
		Groups:              uint32(groups),
		WriteBufferCapacity: writeBuffer,
		MaxInsertDepth:      maxDepth,
		StartPPN:            uint32(startPPN),
	}

	trace.RegisterS3()
	ctx := vcontext.Background()

	in, err := trace.Open(ctx, inputPath)
	if err != nil {
		log.Fatalf("ftl-replay: %v", err)
	}
	ios, err := trace.Parse(in)
	if cerr := in.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("ftl-replay: %v", err)
	}

	engine := ftl.New(cfg)
	defer engine.Close()

	var out *trace.Writer
	if outputPath != "" {
		out, err = trace.NewWriter(ctx, outputPath)
		if err != nil {
			log.Fatalf("ftl-replay: %v", err)
		}
	}

	start := time.Now()
	var reads []uint64
	var nReads, nWrites int
	for _, op := range ios {
		switch op.Type {
		case trace.IORead:
			ppn, err := engine.Read(op.LBA)
			if err != nil {
				log.Fatalf("ftl-replay: read lba %d: %v", op.LBA, err)
			}
			nReads++
			reads = append(reads, ppn)
			if out != nil {
				if err := out.WritePPN(ppn); err != nil {
					log.Fatalf("ftl-replay: write output: %v", err)
				}
			}
		case trace.IOWrite:
			if err := engine.Write(op.LBA); err != nil {
				log.Fatalf("ftl-replay: write lba %d: %v", op.LBA, err)
			}
			nWrites++
		default:
			log.Fatalf("ftl-replay: unknown io type %d", op.Type)
		}
	}
	if err := engine.Flush(); err != nil {
		log.Fatalf("ftl-replay: final flush: %v", err)
	}
	elapsed := time.Since(start)
	log.Debug.Printf("ftl-replay: replayed %d ops in %s (%.0f ops/ms)", len(ios), elapsed, float64(len(ios))/float64(elapsed.Milliseconds()+1))

	if out != nil {
		if err := out.Close(); err != nil {
			log.Fatalf("ftl-replay: close output: %v", err)
		}
	}

	var report trace.Report
	if outputPath != "" {
		report, err = trace.CompareFiles(ctx, outputPath, validatePath)
	} else {
		report, err = trace.CompareReads(ctx, reads, validatePath)
	}
	if err != nil {
		log.Fatalf("ftl-replay: %v", err)
	}

	stats := engine.Stats()
	if dumpPath != "" {
		dump := trace.DumpStats{
			TouchedGroups:   stats.TouchedGroups,
			Segments:        stats.Segments,
			CRBEntries:      stats.CRBEntries,
			BitmapSetBits:   stats.BitmapSetBits,
			PendingWrites:   stats.PendingWrites,
			DroppedSegments: stats.DroppedSegments,
			NextPPN:         stats.NextPPN,
			Fingerprint:     engine.Fingerprint(),
		}
		if err := trace.WriteDump(ctx, dumpPath, dump); err != nil {
			log.Fatalf("ftl-replay: %v", err)
		}
	}

	fmt.Printf("replayed %d ops (%d reads, %d writes) in %s\n", len(ios), nReads, nWrites, elapsed)
	fmt.Printf("accuracy: %d/%d (%.2f%%)\n", report.Matching, report.Total, report.Accuracy())
	fmt.Printf("touched groups=%d segments=%d crb-entries=%d dropped-segments=%d next-ppn=%d\n",
		stats.TouchedGroups, stats.Segments, stats.CRBEntries, stats.DroppedSegments, stats.NextPPN)

	if report.Total == 0 || report.Matching != report.Total {
		os.Exit(1)
	}
}
