// Package checkconfig holds the persisted CLI defaults for hgvscheck,
// loaded from ~/.hgvscheck.yaml via viper the same way the teacher's
// cmd/vibe-vep/config.go reaches for viper for its own settings.
package checkconfig

import "github.com/spf13/viper"

// Config is the set of persisted CLI defaults. Of these, check and batch
// read only Verbose; the other fields are stored and shown by the config
// subcommand and not consulted by a run.
type Config struct {
	// GenomeBuild labels which assembly reference files are assumed to
	// come from (purely informational; reports do not carry it).
	GenomeBuild string

	// TranscriptSelection names a transcript-selection policy ("sole" or
	// "reject"). Transcript selection in internal/check does not read it:
	// a gene with one transcript always gets that transcript, and a gene
	// with several always needs a transcript id.
	TranscriptSelection string

	// CanonicalOnly names a canonical-transcript-only mode (after the
	// teacher's --canonical flag); batch runs do not read it.
	CanonicalOnly bool

	// Verbose enables structured diagnostic-log logging to stderr.
	Verbose bool
}

const (
	keyGenomeBuild         = "genome.build"
	keyTranscriptSelection = "transcript.selection"
	keyCanonicalOnly       = "transcript.canonical_only"
	keyVerbose             = "output.verbose"
)

// Defaults are applied via viper.SetDefault so `config show`/`config get`
// report a value even before the user ever sets one.
func SetDefaults() {
	viper.SetDefault(keyGenomeBuild, "GRCh38")
	viper.SetDefault(keyTranscriptSelection, "sole")
	viper.SetDefault(keyCanonicalOnly, false)
	viper.SetDefault(keyVerbose, false)
}

// Load reads the current viper settings into a Config.
func Load() Config {
	return Config{
		GenomeBuild:         viper.GetString(keyGenomeBuild),
		TranscriptSelection: viper.GetString(keyTranscriptSelection),
		CanonicalOnly:       viper.GetBool(keyCanonicalOnly),
		Verbose:             viper.GetBool(keyVerbose),
	}
}
