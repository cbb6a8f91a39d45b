package check

import (
	"strings"
	"testing"

	"github.com/inodb/hgvs-checker/internal/diag"
	"github.com/inodb/hgvs-checker/internal/hgvsvar"
	"github.com/inodb/hgvs-checker/internal/refseq"
)

const reference = "AAACCCGGGTTT" // len 12, used throughout spec.md's worked scenarios

func genomicRecord(seq string) *refseq.ReferenceRecord {
	return &refseq.ReferenceRecord{
		Accession: "NC_000001",
		Version:   1,
		Seq:       refseq.Sequence{Accession: "NC_000001", Version: 1, Bases: seq},
		MolType:   refseq.MolGenomic,
	}
}

func TestCheckRejectsRNA(t *testing.T) {
	ref := genomicRecord(reference)
	desc := hgvsvar.Description{
		Reference: hgvsvar.RNA,
		Variants:  []hgvsvar.RawVariant{{Kind: hgvsvar.KindSubst, Start: hgvsvar.PointLoc{Main: 1}, Arg2: "T"}},
	}
	_, log := Check(ref, desc)
	if !log.HasFatal() {
		t.Fatal("expected a fatal diagnostic")
	}
	if log.Messages()[0].Code != diag.ERNA {
		t.Fatalf("code = %s, want ERNA", log.Messages()[0].Code)
	}
}

func TestCheckGenomicSubstitution(t *testing.T) {
	ref := genomicRecord(reference)
	desc := hgvsvar.Description{
		Reference: hgvsvar.Genomic,
		Variants:  []hgvsvar.RawVariant{{Kind: hgvsvar.KindSubst, Start: hgvsvar.PointLoc{Main: 1}, Arg2: "T"}},
	}
	rep, log := Check(ref, desc)
	if log.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", log.Messages())
	}
	if rep.Mutated != "TAACCCGGGTTT" {
		t.Fatalf("Mutated = %q, want TAACCCGGGTTT", rep.Mutated)
	}
	want := "NC_000001.1:g.1A>T"
	if rep.GenomicDescription != want {
		t.Fatalf("GenomicDescription = %q, want %q", rep.GenomicDescription, want)
	}
}

func TestCheckGenomicDeletion(t *testing.T) {
	ref := genomicRecord(reference)
	desc := hgvsvar.Description{
		Reference: hgvsvar.Genomic,
		Variants: []hgvsvar.RawVariant{{
			Kind: hgvsvar.KindDel, Start: hgvsvar.PointLoc{Main: 4}, End: hgvsvar.PointLoc{Main: 6},
		}},
	}
	rep, log := Check(ref, desc)
	if log.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", log.Messages())
	}
	if rep.Mutated != "AAAGGGTTT" {
		t.Fatalf("Mutated = %q, want AAAGGGTTT", rep.Mutated)
	}
	want := "NC_000001.1:g.4_6del"
	if rep.GenomicDescription != want {
		t.Fatalf("GenomicDescription = %q, want %q", rep.GenomicDescription, want)
	}
}

func singleGeneRecord(t *refseq.Transcript) *refseq.ReferenceRecord {
	return &refseq.ReferenceRecord{
		Accession: "NM_000001",
		Version:   2,
		Seq:       refseq.Sequence{Accession: "NM_000001", Version: 2, Bases: "ATGGCTTAA"},
		MolType:   refseq.MolGenomic,
		SourceType: refseq.GenBank,
		Genes: []*refseq.Gene{
			{Symbol: "FOO", Transcripts: []*refseq.Transcript{t}},
		},
	}
}

func codingTranscript() *refseq.Transcript {
	return &refseq.Transcript{
		ID:          "001",
		GeneSymbol:  "FOO",
		Orientation: refseq.Forward,
		Exons:       []refseq.Exon{{Number: 1, Acceptor: 1, Donor: 9}},
		CDS:         refseq.CodingLocation{Start: 1, Stop: 9},
		Transcribe:  true,
		Translate:   true,
	}
}

func TestSelectTranscriptSingleGeneSingleTranscript(t *testing.T) {
	ref := singleGeneRecord(codingTranscript())
	log := diag.NewLog()
	gene, transcript, ok := selectTranscript(ref, hgvsvar.GeneSelector{}, log)
	if !ok {
		t.Fatalf("selectTranscript failed: %v", log.Messages())
	}
	if gene.Symbol != "FOO" || transcript.ID != "001" {
		t.Fatalf("gene/transcript = %s/%s, want FOO/001", gene.Symbol, transcript.ID)
	}
}

func TestSelectTranscriptAmbiguousGene(t *testing.T) {
	ref := singleGeneRecord(codingTranscript())
	ref.Genes = append(ref.Genes, &refseq.Gene{Symbol: "BAR", Transcripts: []*refseq.Transcript{codingTranscript()}})
	log := diag.NewLog()
	_, _, ok := selectTranscript(ref, hgvsvar.GeneSelector{}, log)
	if ok {
		t.Fatal("expected selectTranscript to fail with two genes and no selector")
	}
	if log.Messages()[0].Code != diag.EINVALIDGENE {
		t.Fatalf("code = %s, want EINVALIDGENE", log.Messages()[0].Code)
	}
}

func TestSelectTranscriptUnknownGene(t *testing.T) {
	ref := singleGeneRecord(codingTranscript())
	log := diag.NewLog()
	_, _, ok := selectTranscript(ref, hgvsvar.GeneSelector{GeneSymbol: "QUUX"}, log)
	if ok {
		t.Fatal("expected selectTranscript to fail for an unknown gene symbol")
	}
	if log.Messages()[0].Code != diag.EINVALIDGENE {
		t.Fatalf("code = %s, want EINVALIDGENE", log.Messages()[0].Code)
	}
}

func TestCheckCodingSubstitutionWithProteinDescription(t *testing.T) {
	ref := singleGeneRecord(codingTranscript())
	desc := hgvsvar.Description{
		Reference: hgvsvar.Coding,
		Variants: []hgvsvar.RawVariant{{
			Kind: hgvsvar.KindSubst, Start: hgvsvar.PointLoc{Main: 4}, Arg2: "A",
		}},
	}
	rep, log := Check(ref, desc)
	if log.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", log.Messages())
	}
	if rep.Mutated != "ATGACTTAA" {
		t.Fatalf("Mutated = %q, want ATGACTTAA", rep.Mutated)
	}
	if rep.OldProtein != "MA*" || rep.NewProtein != "MT*" {
		t.Fatalf("OldProtein/NewProtein = %q/%q, want MA*/MT*", rep.OldProtein, rep.NewProtein)
	}
	if len(rep.ProtDescriptions) != 1 || rep.ProtDescriptions[0] != "p.Ala2Thr" {
		t.Fatalf("ProtDescriptions = %v, want [p.Ala2Thr]", rep.ProtDescriptions)
	}
	if len(rep.ExonInfo) != 1 || rep.ExonInfo[0].GAcceptor != 1 || rep.ExonInfo[0].GDonor != 9 {
		t.Fatalf("ExonInfo = %+v", rep.ExonInfo)
	}
}

func TestCheckCodingPrematureStopIsESTOP(t *testing.T) {
	// A reference whose own CDS already carries a premature in-frame stop
	// (ATG TAA TAA instead of ATG GCT TAA) is broken regardless of what the
	// variant does; Check must flag ESTOP and stop protein work rather than
	// describe a protein difference against an invalid original.
	broken := codingTranscript()
	ref := singleGeneRecord(broken)
	ref.Seq.Bases = "ATGTAATAA"
	desc := hgvsvar.Description{
		Reference: hgvsvar.Coding,
		Variants: []hgvsvar.RawVariant{{
			Kind: hgvsvar.KindSubst, Start: hgvsvar.PointLoc{Main: 9}, Arg2: "A",
		}},
	}
	rep, log := Check(ref, desc)
	if log.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", log.Messages())
	}
	found := false
	for _, m := range log.Messages() {
		if m.Code == diag.ESTOP {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ESTOP among %v", log.Messages())
	}
	if rep.ProtDescriptions != nil {
		t.Fatalf("ProtDescriptions = %v, want none after ESTOP", rep.ProtDescriptions)
	}
}

// TestCheckEndToEndScenarios drives the full Driver (transcript selection
// skipped since these are g. descriptions with no transcript) through the
// six worked scenarios that use R = AAACCCGGGTTT (the homopolymer one is
// TestCheckRolledDeletionOnHomopolymer), checking both the
// canonical name and the resulting mutated sequence end to end rather
// than at the apply/normalize layer alone.
func TestCheckEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name         string
		variant      hgvsvar.RawVariant
		wantCanon    string
		wantMutated  string
		refOverride  string
	}{
		{
			name:        "substitution",
			variant:     hgvsvar.RawVariant{Kind: hgvsvar.KindSubst, Start: hgvsvar.PointLoc{Main: 5}, Arg2: "T"},
			wantCanon:   "g.5C>T",
			wantMutated: "AAACTCGGGTTT",
		},
		{
			name:        "deletion",
			variant:     hgvsvar.RawVariant{Kind: hgvsvar.KindDel, Start: hgvsvar.PointLoc{Main: 4}, End: hgvsvar.PointLoc{Main: 6}},
			wantCanon:   "g.4_6del",
			wantMutated: "AAAGGGTTT",
		},
		{
			name:        "duplication",
			variant:     hgvsvar.RawVariant{Kind: hgvsvar.KindDup, Start: hgvsvar.PointLoc{Main: 4}, End: hgvsvar.PointLoc{Main: 6}},
			wantCanon:   "g.4_6dup",
			wantMutated: "AAACCCCCCGGGTTT",
		},
		{
			name:        "inversion-no-change",
			variant:     hgvsvar.RawVariant{Kind: hgvsvar.KindInv, Start: hgvsvar.PointLoc{Main: 4}, End: hgvsvar.PointLoc{Main: 9}},
			wantCanon:   "g.4_9inv",
			wantMutated: reference,
		},
		{
			name:        "insertion-reclassified-as-duplication",
			variant:     hgvsvar.RawVariant{Kind: hgvsvar.KindIns, Start: hgvsvar.PointLoc{Main: 6}, End: hgvsvar.PointLoc{Main: 7}, Arg2: "CCC"},
			wantCanon:   "g.4_6dup",
			wantMutated: "AAACCCCCCGGGTTT",
		},
		{
			name:        "delins-reclassified-as-substitution",
			variant:     hgvsvar.RawVariant{Kind: hgvsvar.KindDelins, Start: hgvsvar.PointLoc{Main: 4}, End: hgvsvar.PointLoc{Main: 6}, Arg2: "CCG"},
			wantCanon:   "g.6C>G",
			wantMutated: "AAACCGGGGTTT",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			seq := reference
			if c.refOverride != "" {
				seq = c.refOverride
			}
			ref := genomicRecord(seq)
			desc := hgvsvar.Description{
				Reference: hgvsvar.Genomic,
				Variants:  []hgvsvar.RawVariant{c.variant},
			}
			rep, log := Check(ref, desc)
			if log.HasFatal() {
				t.Fatalf("unexpected fatal diagnostics: %v", log.Messages())
			}
			wantDescription := "NC_000001.1:" + c.wantCanon
			if rep.GenomicDescription != wantDescription {
				t.Fatalf("GenomicDescription = %q, want %q", rep.GenomicDescription, wantDescription)
			}
			if rep.Mutated != c.wantMutated {
				t.Fatalf("Mutated = %q, want %q", rep.Mutated, c.wantMutated)
			}
		})
	}
}

// TestCheckRolledDeletionOnHomopolymer covers scenario 3 (a different
// reference from the other end-to-end cases: a 6-base homopolymer), since
// it needs its own reference rather than R = AAACCCGGGTTT.
func TestCheckRolledDeletionOnHomopolymer(t *testing.T) {
	ref := genomicRecord("AAAAAA")
	desc := hgvsvar.Description{
		Reference: hgvsvar.Genomic,
		Variants:  []hgvsvar.RawVariant{{Kind: hgvsvar.KindDel, Start: hgvsvar.PointLoc{Main: 5}, End: hgvsvar.PointLoc{Main: 5}}},
	}
	rep, log := Check(ref, desc)
	if log.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", log.Messages())
	}
	// The 3' rule rolls the deletion rightward to position 6, not leftward
	// to position 1 (see DESIGN.md's Open Question decision on this
	// scenario): the edit itself is applied at the original position 5,
	// but the reported name uses the rolled position.
	want := "NC_000001.1:g.6del"
	if rep.GenomicDescription != want {
		t.Fatalf("GenomicDescription = %q, want %q", rep.GenomicDescription, want)
	}
	if rep.Mutated != "AAAAA" {
		t.Fatalf("Mutated = %q, want AAAAA", rep.Mutated)
	}
	found := false
	for _, m := range log.Messages() {
		if m.Code == diag.WROLL {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected WROLL among %v", log.Messages())
	}
}

func TestBatchLineFieldCount(t *testing.T) {
	ref := genomicRecord(reference)
	desc := hgvsvar.Description{
		Reference: hgvsvar.Genomic,
		Variants:  []hgvsvar.RawVariant{{Kind: hgvsvar.KindSubst, Start: hgvsvar.PointLoc{Main: 1}, Arg2: "T"}},
	}
	rep, _ := Check(ref, desc)
	line := rep.BatchLine("FOO_v001", "", "", "", "", "", "", "", nil, nil)
	if n := strings.Count(line, "\t"); n != 12 {
		t.Fatalf("tab count = %d, want 12", n)
	}
}
