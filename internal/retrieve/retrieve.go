// Package retrieve reads a reference record from a flat JSON file. It
// stands in for the GenBank/LRG retriever spec.md §2 names as an
// external collaborator ("fetches and parses a GenBank/LRG record into
// a structured gene/transcript/exon model") without implementing the
// GenBank grammar itself, which is out of scope for the core.
//
// Grounded on the teacher's internal/cache/loader.go, which reads
// per-chromosome transcript data from JSON files with
// encoding/json.Decoder rather than a bespoke line format; this package
// follows the same shape for a single reference record.
package retrieve

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inodb/hgvs-checker/internal/refseq"
)

// record is the on-disk JSON shape: a flattened, json-tag-friendly mirror
// of refseq.ReferenceRecord so the file format stays stable even if the
// in-memory model's field order or internal-only fields change.
type record struct {
	Accession        string       `json:"accession"`
	Version          int          `json:"version"`
	Bases            string       `json:"bases"`
	MolType          string       `json:"molType"`
	Description      string       `json:"description"`
	SourceType       string       `json:"sourceType"` // "GB" or "LRG"
	ChromOffset      int          `json:"chromOffset"`
	ChromDescription string       `json:"chromDescription"`
	Genes            []recordGene `json:"genes"`
}

type recordGene struct {
	Symbol      string             `json:"symbol"`
	Transcripts []recordTranscript `json:"transcripts"`
}

type recordTranscript struct {
	ID               string       `json:"id"`
	Orientation      int8         `json:"orientation"` // 1 or -1
	Exons            []recordExon `json:"exons"`
	CDSStart         int          `json:"cdsStart"`
	CDSStop          int          `json:"cdsStop"`
	TranslationTable int          `json:"translationTable"`
	Transcribe       bool         `json:"transcribe"`
	Translate        bool         `json:"translate"`
}

type recordExon struct {
	Number   int `json:"number"`
	Acceptor int `json:"acceptor"`
	Donor    int `json:"donor"`
}

// FromFile reads and decodes a reference record from path.
func FromFile(path string) (*refseq.ReferenceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("retrieve: open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f)
}

func decode(f *os.File) (*refseq.ReferenceRecord, error) {
	var r record
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("retrieve: decode: %w", err)
	}
	return toReferenceRecord(r)
}

func toReferenceRecord(r record) (*refseq.ReferenceRecord, error) {
	sourceType, err := parseSourceType(r.SourceType)
	if err != nil {
		return nil, err
	}

	ref := &refseq.ReferenceRecord{
		Accession:        r.Accession,
		Version:          r.Version,
		Seq:              refseq.Sequence{Accession: r.Accession, Version: r.Version, Bases: r.Bases},
		MolType:          refseq.MolType(r.MolType),
		Description:      r.Description,
		SourceType:       sourceType,
		ChromOffset:      r.ChromOffset,
		ChromDescription: r.ChromDescription,
	}

	for _, g := range r.Genes {
		gene := &refseq.Gene{Symbol: g.Symbol}
		for _, t := range g.Transcripts {
			orientation := refseq.Forward
			if t.Orientation < 0 {
				orientation = refseq.Reverse
			}
			transcript := &refseq.Transcript{
				ID:               t.ID,
				GeneSymbol:       g.Symbol,
				Orientation:      orientation,
				CDS:              refseq.CodingLocation{Start: t.CDSStart, Stop: t.CDSStop},
				TranslationTable: t.TranslationTable,
				Transcribe:       t.Transcribe,
				Translate:        t.Translate,
			}
			for _, e := range t.Exons {
				transcript.Exons = append(transcript.Exons, refseq.Exon{Number: e.Number, Acceptor: e.Acceptor, Donor: e.Donor})
			}
			if err := transcript.Validate(); err != nil {
				return nil, fmt.Errorf("retrieve: transcript %q: %w", t.ID, err)
			}
			gene.Transcripts = append(gene.Transcripts, transcript)
		}
		ref.Genes = append(ref.Genes, gene)
	}

	return ref, nil
}

func parseSourceType(s string) (refseq.SourceType, error) {
	switch s {
	case "", "GB":
		return refseq.GenBank, nil
	case "LRG":
		return refseq.LRG, nil
	default:
		return 0, fmt.Errorf("retrieve: unrecognized sourceType %q", s)
	}
}
