// Package protein translates a CDS and derives the shortest HGVS protein
// difference between an original and a variant translation.
//
// The codon table and single/three-letter amino acid
// vocabularies are carried over near-verbatim from the teacher's
// internal/annotate/codon.go and hgvsp.go (aaThree/AminoAcidSingleToThree).
// The diff algorithm itself — scan from the first differing residue and
// from the last, trim the common affix, then classify what remains — is
// grounded on the original_source/mutalyzer variant_checker.py call sites
// that invoke util.protein_description (the alt-start investigation, the
// ESTOP in-frame-stop check, and the translate-to-stop semantics it
// expects of its inputs); the Python's own protein_description was not
// present in the retrieved source, so its diff classification is
// reconstructed from standard HGVS protein nomenclature rather than
// transliterated.
package protein

import (
	"strings"

	"github.com/inodb/hgvs-checker/internal/seqops"
)

var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// AminoAcidSingleToThree maps a single-letter amino acid code (or '*' for
// a stop) to its three-letter HGVS code.
var AminoAcidSingleToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'*': "Ter", 'X': "Xaa",
}

// ThreeLetter converts a single-letter amino acid code to its three-letter
// HGVS code, "Xaa" for anything unrecognized.
func ThreeLetter(aa byte) string {
	if three, ok := AminoAcidSingleToThree[aa]; ok {
		return three
	}
	return "Xaa"
}

// TranslateCodon translates one DNA codon. Returns 'X' for a codon
// containing anything other than A/C/G/T or of the wrong length.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return 'X'
}

// IsStartCodon reports whether codon is the start codon ATG.
func IsStartCodon(codon string) bool {
	return codon == "ATG"
}

// Translate translates cds codon by codon, stopping at (and including) the
// first in-frame stop codon. hasStop reports whether a stop codon was
// found before the sequence ran out; a false return means cds read through
// to its end without hitting one (the caller must decide how to extend).
func Translate(cds string) (protein string, hasStop bool) {
	var b strings.Builder
	n := (len(cds) / 3) * 3
	for i := 0; i < n; i += 3 {
		aa := TranslateCodon(cds[i : i+3])
		b.WriteByte(aa)
		if aa == '*' {
			return b.String(), true
		}
	}
	return b.String(), false
}

// ChangeKind names the reclassified shape of a protein difference.
type ChangeKind int

const (
	NoChange ChangeKind = iota
	Substitution
	StopGained
	StopLost
	// StartLost is never produced by Describe, and the Driver does not
	// construct it either: a variant protein that no longer starts with M
	// is reported through Report.AltStart/AltProtein instead.
	StartLost
	Frameshift
	InframeDeletion
	InframeInsertion
	InframeDelins
)

// Change is the shortest HGVS protein difference between an original and a
// variant translation. Position/EndPosition are 1-based amino acid
// positions into the original protein (EndPosition is 0 for a
// Substitution, StopGained, StopLost or Frameshift; a one-residue
// InframeDeletion has EndPosition == Position). StopDistance counts residues from Position to
// the next stop in the variant protein, for Frameshift/StopLost (0 if the
// variant protein runs off the end without one, HGVS's "ext*?").
type Change struct {
	Kind         ChangeKind
	Position     int
	EndPosition  int
	RefAA        byte
	AltAA        byte
	Inserted     string
	IsDup        bool
	StopDistance int
}

// Describe computes the shortest protein difference between orig and
// variant, the two full translations (including the terminal stop, when
// one is present) of the original and mutated CDS. cdsLen is unused by the
// diff itself; it is accepted because callers that already have it (the
// ESTOP in-frame-stop check happens one level up) pass it through for symmetry with
// the reconstructed call site.
func Describe(cdsLen int, orig, variant string) Change {
	_ = cdsLen
	if orig == variant {
		return Change{Kind: NoChange}
	}

	i := len(orig)
	if len(variant) < i {
		i = len(variant)
	}
	for j := 0; j < i; j++ {
		if orig[j] != variant[j] {
			i = j
			break
		}
	}
	position := i + 1

	// A stop at the first differing residue is nonsense: translation ends
	// there, so nothing past it in variant can be part of the diff.
	if i < len(variant) && variant[i] == '*' {
		var ref byte
		if i < len(orig) {
			ref = orig[i]
		}
		return Change{Kind: StopGained, Position: position, RefAA: ref, AltAA: '*'}
	}

	// The only way the original's own stop can be the first difference is
	// the stop being lost (read through into the 3' UTR).
	if i == len(orig)-1 && orig[i] == '*' {
		dist := 0
		if idx := strings.IndexByte(variant[i:], '*'); idx >= 0 {
			dist = idx + 1
		}
		return Change{Kind: StopLost, Position: position, RefAA: '*', AltAA: variant[i], StopDistance: dist}
	}

	origRest, variantRest, prefix, _ := seqops.TrimCommon(orig, variant)

	if strings.IndexByte(origRest, '*') >= 0 || strings.IndexByte(variantRest, '*') >= 0 {
		// A stop fell inside the generic diff window: the common-suffix
		// alignment above straddled a truncation boundary and is
		// meaningless. Report a frameshift from the first differing
		// residue instead of trusting it.
		var ref, alt byte
		if i < len(orig) {
			ref = orig[i]
		}
		if i < len(variant) {
			alt = variant[i]
		}
		dist := 0
		if idx := strings.IndexByte(variant[i:], '*'); idx >= 0 {
			dist = idx + 1
		}
		return Change{Kind: Frameshift, Position: position, RefAA: ref, AltAA: alt, StopDistance: dist}
	}

	if len(origRest) == len(variantRest) {
		if len(origRest) == 1 {
			return Change{Kind: Substitution, Position: position, RefAA: origRest[0], AltAA: variantRest[0]}
		}
		return Change{
			Kind:        InframeDelins,
			Position:    position,
			EndPosition: prefix + len(origRest),
			Inserted:    variantRest,
		}
	}

	if len(origRest) == 0 {
		// Pure insertion: a tandem duplication of the residue(s)
		// immediately preceding the insertion point names itself "dup"
		// rather than "ins", the same distinction DuplicationFromInsertion
		// draws at the nucleotide level.
		dup := prefix >= len(variantRest) && orig[prefix-len(variantRest):prefix] == variantRest
		return Change{
			Kind:        InframeInsertion,
			Position:    position - 1,
			EndPosition: position,
			Inserted:    variantRest,
			IsDup:       dup,
		}
	}

	if len(variantRest) == 0 {
		return Change{
			Kind:        InframeDeletion,
			Position:    position,
			EndPosition: prefix + len(origRest),
		}
	}

	// Lengths differ on both sides with no clean alignment: a frameshift.
	dist := 0
	if idx := strings.IndexByte(variant[i:], '*'); idx >= 0 {
		dist = idx + 1
	}
	return Change{
		Kind:         Frameshift,
		Position:     position,
		RefAA:        origRest[0],
		AltAA:        variantRest[0],
		StopDistance: dist,
	}
}

