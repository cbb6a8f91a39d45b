package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/inodb/hgvs-checker/internal/check"
	"github.com/inodb/hgvs-checker/internal/checkconfig"
	"github.com/inodb/hgvs-checker/internal/descfile"
	"github.com/inodb/hgvs-checker/internal/refseq"
	"github.com/inodb/hgvs-checker/internal/retrieve"
)

func runBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)

	var (
		verbose    bool
		outputFile string
		workers    int
	)
	fs.BoolVar(&verbose, "verbose", false, "Log diagnostic-log entries to stderr")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.IntVar(&workers, "workers", 0, "Number of parallel check workers (default: number of CPUs)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Check a stream of HGVS variant descriptions, one JSON request per line.

Usage:
  hgvscheck batch [options] <request-file>

Arguments:
  <request-file>  File of newline-delimited JSON requests (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: request file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	cfg := checkconfig.Load()
	logger := newLogger(verbose || cfg.Verbose)
	defer logger.Sync()

	reader, err := descfile.NewReader(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer reader.Close()

	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	// referenceCache avoids re-reading the same reference file for
	// consecutive requests against the same transcript, the common case
	// in a batch of variants on one gene.
	referenceCache := map[string]*refseq.ReferenceRecord{}

	items := make(chan check.WorkItem, 2*runtimeWorkers(workers))
	readErrCh := make(chan error, 1)

	go func() {
		defer close(items)
		seq := 0
		for {
			req, err := reader.Next()
			if err != nil {
				readErrCh <- fmt.Errorf("line %d: %w", reader.LineNumber(), err)
				return
			}
			if req == nil {
				return
			}

			ref, ok := referenceCache[req.ReferenceFile]
			if !ok {
				ref, err = retrieve.FromFile(req.ReferenceFile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: line %d: %v\n", reader.LineNumber(), err)
					continue
				}
				referenceCache[req.ReferenceFile] = ref
			}

			items <- check.WorkItem{Seq: seq, Reference: ref, Description: req.Description}
			seq++
		}
	}()

	exitCode := ExitSuccess
	results := check.ParallelCheck(items, workers)
	err = check.OrderedCollect(results, func(r check.WorkResult) error {
		r.Log.WriteTo(logger)
		if r.Log.HasFatal() {
			exitCode = ExitError
		}
		fmt.Fprintln(w, renderBatchLine(r.Report))
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	select {
	case err := <-readErrCh:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	default:
	}

	return exitCode
}

// runtimeWorkers mirrors ParallelCheck's "0 means NumCPU" rule for
// sizing the item-buffer channel.
func runtimeWorkers(w int) int {
	if w > 0 {
		return w
	}
	return runtime.NumCPU()
}

func renderBatchLine(rep *check.Report) string {
	geneVNNN := ""
	if len(rep.Legends) > 0 {
		geneVNNN = rep.Legends[0]
	}
	// The first protein description is the canonical call; any further
	// entries (none today, since a single variant produces at most one)
	// would be alternates.
	pDescription := ""
	var altP []string
	if len(rep.ProtDescriptions) > 0 {
		pDescription = rep.ProtDescriptions[0]
		altP = rep.ProtDescriptions[1:]
	}
	// rep.Descriptions currently only ever holds the genomic name
	// (per-transcript c. rendering is a deferred follow-up), so
	// cDescription here is the same genomic name until that lands.
	cDescription := ""
	if len(rep.Descriptions) > 0 {
		cDescription = rep.Descriptions[0]
	}
	geneC := ""
	geneP := ""
	if rep.GeneSymbol != "" {
		geneC = rep.GeneSymbol + ":c."
		geneP = rep.GeneSymbol + ":p."
	}

	return rep.BatchLine(geneVNNN, cDescription, pDescription, geneC, geneP, rep.Reference, "", "", nil, altP)
}
