package apply

import (
	"testing"

	"github.com/inodb/hgvs-checker/internal/diag"
	"github.com/inodb/hgvs-checker/internal/hgvsvar"
	"github.com/inodb/hgvs-checker/internal/mutator"
	"github.com/inodb/hgvs-checker/internal/normalize"
)

const reference = "AAACCCGGGTTT"

func hasCode(log *diag.Log, code diag.Code) bool {
	for _, m := range log.Messages() {
		if m.Code == code {
			return true
		}
	}
	return false
}

func TestCheckArgumentEmpty(t *testing.T) {
	log := diag.NewLog()
	if !CheckArgument(reference, 4, 6, "", log) {
		t.Fatal("empty argument should always pass")
	}
}

func TestCheckArgumentDigitLength(t *testing.T) {
	log := diag.NewLog()
	if !CheckArgument(reference, 4, 6, "3", log) {
		t.Fatal("digit argument matching interval length should pass")
	}
}

func TestCheckArgumentDigitLengthMismatch(t *testing.T) {
	log := diag.NewLog()
	if CheckArgument(reference, 4, 6, "4", log) {
		t.Fatal("digit argument not matching interval length should fail")
	}
	if !hasCode(log, diag.EARGLEN) {
		t.Fatal("expected EARGLEN diagnostic")
	}
}

func TestCheckArgumentSequenceMatch(t *testing.T) {
	log := diag.NewLog()
	if !CheckArgument(reference, 4, 6, "CCC", log) {
		t.Fatal("matching sequence argument should pass")
	}
}

func TestCheckArgumentSequenceMismatch(t *testing.T) {
	log := diag.NewLog()
	if CheckArgument(reference, 4, 6, "GGG", log) {
		t.Fatal("mismatched sequence argument should fail")
	}
	if !hasCode(log, diag.EREF) {
		t.Fatal("expected EREF diagnostic")
	}
}

// A substitution at position 1: g.1A>T.
func TestSubstitution(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Substitution(m, 1, 'T', log)
	if !ok {
		t.Fatalf("Substitution failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindSubst, First: 1, Last: 1, Arg1: "A", Arg2: "T"}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "TAACCCGGGTTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
	if hasCode(log, diag.ENOVAR) {
		t.Fatal("did not expect ENOVAR for a real substitution")
	}
}

func TestSubstitutionNoChange(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	_, ok := Substitution(m, 1, 'A', log)
	if !ok {
		t.Fatalf("Substitution failed: %v", log.Messages())
	}
	if !hasCode(log, diag.ENOVAR) {
		t.Fatal("expected ENOVAR when substitute equals original")
	}
}

// Scenario 2: g.4_6del.
func TestDeletion(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := DeletionDuplication(m, 4, 6, hgvsvar.KindDel, nil, log)
	if !ok {
		t.Fatalf("DeletionDuplication failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindDel, First: 4, Last: 6}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "AAAGGGTTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
}

// Scenario 4: g.4_6dup.
func TestDuplication(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := DeletionDuplication(m, 4, 6, hgvsvar.KindDup, nil, log)
	if !ok {
		t.Fatalf("DeletionDuplication failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindDup, First: 4, Last: 6}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "AAACCCCCCGGGTTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
}

// Scenario 5: g.4_9inv on the CCCGGG palindrome is a no-op.
func TestInversionNoChange(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Inversion(m, 4, 9, log)
	if !ok {
		t.Fatalf("Inversion failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindInv, First: 4, Last: 9}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != m.Orig() {
		t.Fatalf("expected no edit applied, mutated = %q", m.Mutated())
	}
	if !hasCode(log, diag.WNOCHANGE) {
		t.Fatal("expected WNOCHANGE diagnostic")
	}
}

func TestInversionGenuine(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Inversion(m, 1, 3, log)
	if !ok {
		t.Fatalf("Inversion failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindInv, First: 1, Last: 3}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "TTTCCCGGGTTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
}

// Scenario 6: g.6_7insCCC canonicalizes to g.4_6dup.
func TestInsertionReclassifiedAsDuplication(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Insertion(m, 6, 7, "CCC", nil, log)
	if !ok {
		t.Fatalf("Insertion failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindDup, First: 4, Last: 6}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "AAACCCCCCGGGTTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
	if !hasCode(log, diag.WINSDUP) {
		t.Fatal("expected WINSDUP diagnostic")
	}
}

func TestInsertionGenuine(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Insertion(m, 9, 10, "AAA", nil, log)
	if !ok {
		t.Fatalf("Insertion failed: %v", log.Messages())
	}
	if name.Kind != hgvsvar.KindIns {
		t.Fatalf("Kind = %v, want KindIns", name.Kind)
	}
	if m.Mutated() != "AAACCCGGGAAATTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
	if hasCode(log, diag.WINSDUP) {
		t.Fatal("did not expect WINSDUP for a non-repeating insert")
	}
}

func TestInsertionNonConsecutivePositions(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	_, ok := Insertion(m, 6, 9, "CCC", nil, log)
	if ok {
		t.Fatal("expected failure for non-consecutive insertion positions")
	}
	if !hasCode(log, diag.EINSRANGE) {
		t.Fatal("expected EINSRANGE diagnostic")
	}
}

// Scenario 7: g.4_6delinsCCG reclassifies to g.6C>G.
func TestDelinsReclassifiedAsSubstitution(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Delins(m, 4, 6, "", "CCG", nil, log)
	if !ok {
		t.Fatalf("Delins failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindSubst, First: 6, Last: 6, Arg1: "C", Arg2: "G"}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "AAACCGGGGTTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
}

func TestDelinsNoChange(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Delins(m, 4, 6, "", "CCC", nil, log)
	if !ok {
		t.Fatalf("Delins failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindDelins, First: 4, Last: 6}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != m.Orig() {
		t.Fatalf("expected no edit applied, mutated = %q", m.Mutated())
	}
}

func TestDelinsGenuine(t *testing.T) {
	log := diag.NewLog()
	m := mutator.New(reference)
	name, ok := Delins(m, 4, 9, "", "TTAA", nil, log)
	if !ok {
		t.Fatalf("Delins failed: %v", log.Messages())
	}
	if name != (Name{Kind: hgvsvar.KindDelins, First: 4, Last: 9, Arg1: "TTAA"}) {
		t.Fatalf("name = %+v", name)
	}
	if m.Mutated() != "AAATTAATTT" {
		t.Fatalf("mutated = %q", m.Mutated())
	}
}

var _ = normalize.SpliceSite{}
