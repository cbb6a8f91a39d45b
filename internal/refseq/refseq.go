// Package refseq holds the reference data model a check runs against: a
// reference sequence, its genes and transcripts, and the splice-site and
// coding-axis metadata CrossMap needs to translate between address spaces.
//
// Nothing in this package performs I/O; records are handed in fully formed
// by a retriever (internal/retrieve, internal/refstore) the way the
// teacher's internal/cache package hands a *Transcript to its Annotator.
package refseq

import (
	"fmt"
	"strings"
)

// Orientation is a transcript's direction relative to the reference
// sequence's genomic axis.
type Orientation int8

const (
	Forward Orientation = 1
	Reverse Orientation = -1
)

// Sequence is the immutable reference nucleotide sequence a check runs
// against, 1-indexed externally (position p is Bases[p-1]).
type Sequence struct {
	Accession string
	Version   int
	Bases     string
}

// Len returns the sequence length.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// Exon is one exon of a transcript, genomic 1-based inclusive coordinates.
// Acceptor and Donor name the first and last genomic base of the exon
// regardless of transcript orientation; CrossMap is responsible for
// orientation-aware walking.
type Exon struct {
	Number   int
	Acceptor int
	Donor    int
}

// Gene groups the transcripts recognized for a reference record.
type Gene struct {
	Symbol      string
	Transcripts []*Transcript
}

// SourceType names where a reference record came from, since LRG records
// select genes/transcripts differently from ordinary GenBank records.
type SourceType int

const (
	GenBank SourceType = iota
	LRG
)

// MolType is the reference sequence's molecule type.
type MolType string

const (
	MolGenomic   MolType = "g"
	MolNonCoding MolType = "n"
	MolMito      MolType = "m"
)

// ReferenceRecord is a fully assembled reference: its sequence, molecule
// type, genes, and the chromosome context needed to render a chromosome-
// relative description alongside the record-relative one. Always handed
// in complete by a retriever (internal/retrieve, internal/refstore); never
// built incrementally by the core.
type ReferenceRecord struct {
	Accession        string
	Version          int
	Seq              Sequence
	MolType          MolType
	Description      string
	SourceType       SourceType
	ChromOffset      int // 0 when the record carries no chromosome mapping
	ChromDescription string
	Genes            []*Gene
}

// GeneBySymbol looks up a gene by its symbol.
func (r *ReferenceRecord) GeneBySymbol(symbol string) (*Gene, bool) {
	for _, g := range r.Genes {
		if g.Symbol == symbol {
			return g, true
		}
	}
	return nil, false
}

// TranscriptByID looks up a transcript by its id within a gene, accepting
// either the raw id or its zero-padded-to-3-digits form (e.g. "2" matches
// a transcript named "002").
func (g *Gene) TranscriptByID(id string) (*Transcript, bool) {
	if id == "" {
		return nil, false
	}
	padded := id
	if len(padded) < 3 {
		padded = strings.Repeat("0", 3-len(padded)) + padded
	}
	for _, t := range g.Transcripts {
		if t.ID == id || t.ID == padded {
			return t, true
		}
	}
	return nil, false
}

// CodingLocation names the CDS start and stop as positions along the fully
// spliced transcript (introns removed, 1 = the transcript's first base).
// The coding axis itself (positive integers with 1 = first CDS base)
// is always derived from these two spliced-transcript positions, so a CDS
// that begins partway through an exon (after a 5' UTR) is represented
// exactly: CrossMap converts any transcript position n to a coding value
// c via c = n-Start+1 in the CDS, c = n-Start in the 5' UTR (negative),
// and *k = n-Stop in the 3' UTR.
type CodingLocation struct {
	Start int
	Stop  int
}

// Transcript is one gene isoform: orientation, ordered exons, and the
// coding-axis metadata CrossMap and the protein translator need.
type Transcript struct {
	ID          string
	GeneSymbol  string
	Orientation Orientation

	// Exons is ordered by exon Number, genomic coordinates increasing
	// regardless of Orientation (acceptor/donor name genomic extremes, not
	// transcription-order extremes).
	Exons []Exon

	// CDS is the coding start/stop as spliced-transcript positions (see
	// CodingLocation); zero value means non-coding.
	CDS CodingLocation

	// TranslationTable is the NCBI genetic code table id (1 = standard).
	TranslationTable int

	Transcribe bool
	Translate  bool
}

// IsProteinCoding reports whether the transcript has a coding region.
func (t *Transcript) IsProteinCoding() bool {
	return t.CDS.Start != 0 && t.CDS.Stop != 0
}

// IsForwardStrand reports whether the transcript runs with the genomic axis.
func (t *Transcript) IsForwardStrand() bool {
	return t.Orientation == Forward
}

// IsReverseStrand reports whether the transcript runs against the genomic axis.
func (t *Transcript) IsReverseStrand() bool {
	return t.Orientation == Reverse
}

// NumberOfExons returns the exon count.
func (t *Transcript) NumberOfExons() int {
	return len(t.Exons)
}

// NumberOfIntrons returns the intron count (zero for single-exon transcripts).
func (t *Transcript) NumberOfIntrons() int {
	if len(t.Exons) == 0 {
		return 0
	}
	return len(t.Exons) - 1
}

// SpliceSites returns the flattened acceptor/donor list
// [a1,d1,a2,d2,...,an,dn] that CrossMap walks, in genomic order.
func (t *Transcript) SpliceSites() []int {
	sites := make([]int, 0, 2*len(t.Exons))
	for _, e := range t.Exons {
		sites = append(sites, e.Acceptor, e.Donor)
	}
	return sites
}

// Validate checks the splice-site invariants from the data model: even length (implicit
// in Exon pairing), and for every i, a_i <= d_i < a_(i+1).
func (t *Transcript) Validate() error {
	for i, e := range t.Exons {
		if e.Acceptor > e.Donor {
			return fmt.Errorf("refseq: exon %d acceptor %d > donor %d", e.Number, e.Acceptor, e.Donor)
		}
		if i+1 < len(t.Exons) {
			next := t.Exons[i+1]
			if e.Donor >= next.Acceptor {
				return fmt.Errorf("refseq: exon %d donor %d >= exon %d acceptor %d", e.Number, e.Donor, next.Number, next.Acceptor)
			}
		}
	}
	return nil
}

// FindExon returns the exon containing the given genomic position, and
// whether one was found.
func (t *Transcript) FindExon(genomicPos int) (Exon, bool) {
	for _, e := range t.Exons {
		if genomicPos >= e.Acceptor && genomicPos <= e.Donor {
			return e, true
		}
	}
	return Exon{}, false
}

// ExonForNumber returns the exon with the given 1-based exon number.
func (t *Transcript) ExonForNumber(number int) (Exon, bool) {
	for _, e := range t.Exons {
		if e.Number == number {
			return e, true
		}
	}
	return Exon{}, false
}
