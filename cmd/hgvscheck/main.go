// Package main provides the hgvscheck command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/inodb/hgvs-checker/internal/checkconfig"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	checkconfig.SetDefaults()

	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("hgvscheck version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:])
	case "batch":
		return runBatch(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `hgvscheck - HGVS variant checker

Usage:
  hgvscheck [options] <command> [arguments]

Commands:
  check       Check a single HGVS variant description against a reference record
  batch       Check a stream of descriptions, one JSON request per line
  config      Manage hgvscheck configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  hgvscheck check request.json
  hgvscheck batch requests.jsonl
  cat requests.jsonl | hgvscheck batch -

For more information on a command, use:
  hgvscheck <command> --help
`)
}

// newLogger builds the zap logger used to surface diagnostic-log
// entries at the CLI boundary. verbose keeps the development config's
// Debug level so Info-severity diagnostics (IROLLBACK, WOVERSPLICE) are
// printed too; otherwise only Warn and above are shown.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// zap's development config never fails to build in practice;
		// fall back to a no-op logger rather than panic in a CLI.
		return zap.NewNop()
	}
	return logger
}
