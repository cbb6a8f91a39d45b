package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/hgvs-checker/internal/check"
	"github.com/inodb/hgvs-checker/internal/checkconfig"
	"github.com/inodb/hgvs-checker/internal/descfile"
	"github.com/inodb/hgvs-checker/internal/retrieve"
)

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	var verbose bool
	fs.BoolVar(&verbose, "verbose", false, "Log diagnostic-log entries to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Check a single HGVS variant description against a reference record.

Usage:
  hgvscheck check [options] <request-file>

Arguments:
  <request-file>  JSON file naming a reference record file and a parsed
                  description (use '-' for stdin)

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

	req, err := readRequest(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	ref, err := retrieve.FromFile(req.ReferenceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	rep, log := check.Check(ref, req.Description)
	log.WriteTo(logger)

	printReport(os.Stdout, rep)

	if log.HasFatal() {
		return ExitError
	}
	return ExitSuccess
}

func readRequest(path string) (*descfile.Request, error) {
	if path == "-" {
		return descfile.DecodeOne(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return descfile.DecodeOne(f)
}

// printReport renders the outbound key/value report to w, one key per
// line, following the key/value shape the core's report carries.
func printReport(w io.Writer, r *check.Report) {
	kv := [][2]string{
		{"reference", r.Reference},
		{"recordType", r.RecordType},
		{"geneSymbol", r.GeneSymbol},
		{"variant", r.Variant},
		{"genomicDescription", r.GenomicDescription},
		{"gDescription", r.GDescription},
		{"molType", r.MolType},
		{"genomicChromDescription", r.GenomicChromDescription},
		{"descriptions", strings.Join(r.Descriptions, "|")},
		{"protDescriptions", strings.Join(r.ProtDescriptions, "|")},
		{"origMRNA", r.OrigMRNA},
		{"mutatedMRNA", r.MutatedMRNA},
		{"origCDS", r.OrigCDS},
		{"newCDS", r.NewCDS},
		{"oldprotein", r.OldProtein},
		{"newprotein", r.NewProtein},
		{"altProtein", r.AltProtein},
		{"altStart", fmt.Sprintf("%v", r.AltStart)},
		{"cdsStart_g", fmt.Sprintf("%d", r.CDSStartG)},
		{"cdsStop_g", fmt.Sprintf("%d", r.CDSStopG)},
		{"cdsStart_c", r.CDSStartC},
		{"cdsStop_c", r.CDSStopC},
		{"original", r.Original},
		{"mutated", r.Mutated},
		{"legends", strings.Join(r.Legends, ",")},
	}
	for _, entry := range kv {
		fmt.Fprintf(w, "%s: %s\n", entry[0], entry[1])
	}
	for _, e := range r.ExonInfo {
		fmt.Fprintf(w, "exonInfo: %d,%d,%s,%s\n", e.GAcceptor, e.GDonor, e.CAcceptor, e.CDonor)
	}
}

