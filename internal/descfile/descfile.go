// Package descfile reads variant-check requests from JSON. A request
// names a reference record file and the already-parsed HGVS description
// to apply against it — the HGVS grammar itself is an external
// collaborator (see internal/hgvsvar), so this package only decodes the
// tree the grammar would have produced.
//
// Request follows the same JSON-decode-into-domain-model shape as
// internal/retrieve; Reader's Next/Close/LineNumber interface mirrors
// the teacher's vcf.Parser/vcf.VariantParser, reading one JSON object
// per line instead of one VCF record per line.
package descfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/hgvs-checker/internal/hgvsvar"
)

// Request is one decoded line: the reference file to check against and
// the description to apply.
type Request struct {
	ReferenceFile string
	Description   hgvsvar.Description
}

type jsonDescription struct {
	Reference string           `json:"reference"`
	Gene      jsonGeneSelector `json:"gene"`
	Variants  []jsonVariant    `json:"variants"`
}

type jsonGeneSelector struct {
	GeneSymbol    string `json:"geneSymbol"`
	TranscriptID  string `json:"transcriptID"`
	IsLRG         bool   `json:"isLRG"`
	LRGTranscript string `json:"lrgTranscript"`
}

type jsonVariant struct {
	Kind string        `json:"kind"`
	Start *jsonLocation `json:"start"`
	End   *jsonLocation `json:"end"`
	Arg1  string        `json:"arg1"`
	Arg2  string        `json:"arg2"`
}

// jsonLocation is a union of the three hgvsvar.Location shapes,
// discriminated by Type.
type jsonLocation struct {
	Type string `json:"type"` // "point", "intronic", "exonic"

	// point
	Star          bool `json:"star"`
	Main          int  `json:"main"`
	Offset        int  `json:"offset"`
	OffsetUnknown bool `json:"offsetUnknown"`

	// intronic
	IntronNumber int  `json:"intronNumber"`
	AcceptorSide bool `json:"acceptorSide"`

	// exonic
	StartExon int `json:"startExon"`
	StopExon  int `json:"stopExon"`
}

func (l *jsonLocation) toLocation() (hgvsvar.Location, error) {
	if l == nil {
		return nil, nil
	}
	switch l.Type {
	case "point":
		return hgvsvar.PointLoc{Star: l.Star, Main: l.Main, Offset: l.Offset, OffsetUnknown: l.OffsetUnknown}, nil
	case "intronic":
		return hgvsvar.IntronicLoc{IntronNumber: l.IntronNumber, Offset: l.Offset, AcceptorSide: l.AcceptorSide}, nil
	case "exonic":
		return hgvsvar.ExonicLoc{StartExon: l.StartExon, StopExon: l.StopExon}, nil
	default:
		return nil, fmt.Errorf("descfile: unrecognized location type %q", l.Type)
	}
}

func parseKind(s string) (hgvsvar.Kind, error) {
	switch s {
	case "subst":
		return hgvsvar.KindSubst, nil
	case "del":
		return hgvsvar.KindDel, nil
	case "dup":
		return hgvsvar.KindDup, nil
	case "inv":
		return hgvsvar.KindInv, nil
	case "ins":
		return hgvsvar.KindIns, nil
	case "delins":
		return hgvsvar.KindDelins, nil
	default:
		return 0, fmt.Errorf("descfile: unrecognized variant kind %q", s)
	}
}

func parseReferenceType(s string) (hgvsvar.ReferenceType, error) {
	switch hgvsvar.ReferenceType(s) {
	case hgvsvar.Genomic, hgvsvar.Coding, hgvsvar.NonCoding, hgvsvar.Mitochondrial, hgvsvar.RNA:
		return hgvsvar.ReferenceType(s), nil
	default:
		return "", fmt.Errorf("descfile: unrecognized reference type %q", s)
	}
}

func toDescription(jd jsonDescription) (hgvsvar.Description, error) {
	refType, err := parseReferenceType(jd.Reference)
	if err != nil {
		return hgvsvar.Description{}, err
	}

	desc := hgvsvar.Description{
		Reference: refType,
		Gene: hgvsvar.GeneSelector{
			GeneSymbol:    jd.Gene.GeneSymbol,
			TranscriptID:  jd.Gene.TranscriptID,
			IsLRG:         jd.Gene.IsLRG,
			LRGTranscript: jd.Gene.LRGTranscript,
		},
	}

	for i, jv := range jd.Variants {
		kind, err := parseKind(jv.Kind)
		if err != nil {
			return hgvsvar.Description{}, fmt.Errorf("descfile: variant %d: %w", i, err)
		}
		start, err := jv.Start.toLocation()
		if err != nil {
			return hgvsvar.Description{}, fmt.Errorf("descfile: variant %d start: %w", i, err)
		}
		if start == nil {
			return hgvsvar.Description{}, fmt.Errorf("descfile: variant %d: start location required", i)
		}
		end, err := jv.End.toLocation()
		if err != nil {
			return hgvsvar.Description{}, fmt.Errorf("descfile: variant %d end: %w", i, err)
		}
		desc.Variants = append(desc.Variants, hgvsvar.RawVariant{
			Kind:  kind,
			Start: start,
			End:   end,
			Arg1:  jv.Arg1,
			Arg2:  jv.Arg2,
		})
	}

	if len(desc.Variants) == 0 {
		return hgvsvar.Description{}, fmt.Errorf("descfile: description has no variants")
	}

	return desc, nil
}

// DecodeOne decodes a single JSON request object from r (used by the
// `check` subcommand, which takes one description at a time).
func DecodeOne(r io.Reader) (*Request, error) {
	var raw struct {
		ReferenceFile string          `json:"referenceFile"`
		Description   jsonDescription `json:"description"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("descfile: decode: %w", err)
	}
	desc, err := toDescription(raw.Description)
	if err != nil {
		return nil, err
	}
	return &Request{ReferenceFile: raw.ReferenceFile, Description: desc}, nil
}

// Reader reads one JSON request per line from a batch input file, the
// way vcf.Parser reads one variant per line.
type Reader struct {
	scanner    *bufio.Scanner
	file       *os.File
	lineNumber int
}

// NewReader opens path (or reads stdin when path is "-") for line-by-
// line JSON request reading.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return &Reader{scanner: bufio.NewScanner(os.Stdin)}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("descfile: open %s: %w", path, err)
	}
	return &Reader{scanner: bufio.NewScanner(f), file: f}, nil
}

// Next reads the next request. It returns nil, nil at end of input, and
// skips blank lines.
func (r *Reader) Next() (*Request, error) {
	for r.scanner.Scan() {
		r.lineNumber++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		req, err := DecodeOne(strings.NewReader(line))
		if err != nil {
			return nil, fmt.Errorf("descfile: line %d: %w", r.lineNumber, err)
		}
		return req, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("descfile: scan: %w", err)
	}
	return nil, nil
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close releases the reader's underlying file, if any.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
