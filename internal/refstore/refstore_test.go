package refstore

import (
	"testing"

	"github.com/inodb/hgvs-checker/internal/refseq"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *refseq.ReferenceRecord {
	return &refseq.ReferenceRecord{
		Accession:   "NM_000001",
		Version:     2,
		MolType:     refseq.MolGenomic,
		Description: "Homo sapiens FOO gene",
		SourceType:  refseq.GenBank,
		Seq:         refseq.Sequence{Bases: "ATGGCTTAA"},
		Genes: []*refseq.Gene{
			{
				Symbol: "FOO",
				Transcripts: []*refseq.Transcript{
					{
						ID:          "001",
						GeneSymbol:  "FOO",
						Orientation: refseq.Forward,
						Exons:       []refseq.Exon{{Number: 1, Acceptor: 1, Donor: 9}},
						CDS:         refseq.CodingLocation{Start: 1, Stop: 9},
						Transcribe:  true,
						Translate:   true,
					},
				},
			},
		},
	}
}

func TestPutAndGetRoundTrip(t *testing.T) {
	s := openInMemory(t)
	ref := sampleRecord()

	if err := s.Put(ref); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := s.Get("NM_000001", 2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false for a record just Put")
	}
	if got.Seq.Bases != "ATGGCTTAA" {
		t.Fatalf("Seq.Bases = %q, want ATGGCTTAA", got.Seq.Bases)
	}
	if len(got.Genes) != 1 || got.Genes[0].Symbol != "FOO" {
		t.Fatalf("Genes = %+v, want one gene FOO", got.Genes)
	}
	tr := got.Genes[0].Transcripts
	if len(tr) != 1 || tr[0].ID != "001" {
		t.Fatalf("Transcripts = %+v, want one transcript 001", tr)
	}
	if len(tr[0].Exons) != 1 || tr[0].Exons[0].Acceptor != 1 || tr[0].Exons[0].Donor != 9 {
		t.Fatalf("Exons = %+v, want one exon [1,9]", tr[0].Exons)
	}
	if tr[0].CDS.Start != 1 || tr[0].CDS.Stop != 9 {
		t.Fatalf("CDS = %+v, want [1,9]", tr[0].CDS)
	}
}

func TestGetMissingRecord(t *testing.T) {
	s := openInMemory(t)
	_, ok, err := s.Get("NM_999999", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatal("Get returned ok=true for a record never Put")
	}
}

func TestPutReplacesExistingRecord(t *testing.T) {
	s := openInMemory(t)
	ref := sampleRecord()
	if err := s.Put(ref); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}

	ref.Seq.Bases = "ATGTAATAA"
	if err := s.Put(ref); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, ok, err := s.Get("NM_000001", 2)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if got.Seq.Bases != "ATGTAATAA" {
		t.Fatalf("Seq.Bases = %q, want the replaced bases", got.Seq.Bases)
	}

	n, err := s.RecordCount()
	if err != nil {
		t.Fatalf("RecordCount failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("RecordCount = %d, want 1 (replace, not append)", n)
	}
}
