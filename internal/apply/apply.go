// Package apply implements the per-variant-kind entry points: each one
// checks the optional sequence argument against the reference, calls the
// Normalizer, invokes the Mutator, and returns the canonical name to
// record against the description.
//
// Grounded directly on variant_checker.py's apply_substitution,
// apply_deletion_duplication, apply_inversion, apply_insertion, and
// apply_delins — translated into explicit Go return values in place of
// the Python's ambient Output-object side effects.
package apply

import (
	"strconv"

	"github.com/inodb/hgvs-checker/internal/diag"
	"github.com/inodb/hgvs-checker/internal/hgvsvar"
	"github.com/inodb/hgvs-checker/internal/mutator"
	"github.com/inodb/hgvs-checker/internal/normalize"
	"github.com/inodb/hgvs-checker/internal/seqops"
)

// Name is the canonical variant name recorded after applying an edit.
type Name struct {
	Kind        hgvsvar.Kind
	First, Last int
	Arg1, Arg2  string
}

// CheckArgument validates the optional sequence argument for
// del/dup/subst/delins: if it is decimal digits it must equal the
// interval length; otherwise it must be valid DNA and equal
// orig[first..last].
func CheckArgument(orig string, first, last int, arg string, log *diag.Log) bool {
	if arg == "" {
		return true
	}
	if isDecimalDigits(arg) {
		n, _ := strconv.Atoi(arg)
		if n != last-first+1 {
			log.Add(diag.EARGLEN, "argument length does not match the interval length")
			return false
		}
		return true
	}
	if !seqops.IsDNA(arg) {
		log.Add(diag.EREF, "argument is not valid DNA")
		return false
	}
	if arg != orig[first-1:last] {
		log.Add(diag.EREF, "argument does not match the reference sequence")
		return false
	}
	return true
}

func isDecimalDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Substitution requires first == last; if original == substitute it
// records ENOVAR (a no-op edit) and still applies the (null) edit.
func Substitution(m *mutator.Mutator, position int, substitute byte, log *diag.Log) (Name, bool) {
	if !seqops.IsDNA(string(substitute)) {
		log.Add(diag.ENODNA, "substitute base is not valid DNA")
		return Name{}, false
	}
	original := m.Orig()[position-1]
	if original == substitute {
		log.Add(diag.ENOVAR, "substitution does not change the reference base")
	}
	if err := m.SubM(position, substitute); err != nil {
		log.Add(diag.ERANGE, err.Error())
		return Name{}, false
	}
	return Name{Kind: hgvsvar.KindSubst, First: position, Last: position, Arg1: string(original), Arg2: string(substitute)}, true
}

// DeletionDuplication normalizes a deletion or duplication via the
// splice-site-aware roll, applies the edit at the original interval (any
// phase-equivalent base within a tandem repeat yields an identical mutated
// sequence, so there is never a reason to move the edit itself), and names
// the result at the rolled interval.
func DeletionDuplication(m *mutator.Mutator, first, last int, kind hgvsvar.Kind, sites []normalize.SpliceSite, log *diag.Log) (Name, bool) {
	res := normalize.RollDeletionDuplication(m.Orig(), first, last, sites, log)

	var err error
	if kind == hgvsvar.KindDel {
		err = m.DelM(first, last)
	} else {
		err = m.DupM(first, last)
	}
	if err != nil {
		log.Add(diag.ERANGE, err.Error())
		return Name{}, false
	}

	newFirst := first + res.Shift
	newLast := last + res.Shift
	return Name{Kind: kind, First: newFirst, Last: newLast}, true
}

// Inversion palindrome-trims the interval; a trim to a single base
// delegates to Substitution (reverse-complemented).
func Inversion(m *mutator.Mutator, first, last int, log *diag.Log) (Name, bool) {
	res := normalize.TrimPalindrome(m.Orig(), first, last, log)
	if res.NoChange {
		return Name{Kind: hgvsvar.KindInv, First: first, Last: last}, true
	}
	if res.Substitute {
		original := m.Orig()[res.First-1]
		substitute := seqops.Complement(original)
		return Substitution(m, res.First, substitute, log)
	}
	if err := m.InvM(res.First, res.Last); err != nil {
		log.Add(diag.ERANGE, err.Error())
		return Name{}, false
	}
	return Name{Kind: hgvsvar.KindInv, First: res.First, Last: res.Last}, true
}

// Insertion requires after == before+1 and a non-empty DNA insert. It first
// checks whether the insert is an exact copy of the orig sequence
// immediately preceding or following the insertion point, reclassifying to
// a duplication; otherwise it applies the insertion and rolls it to its
// canonical 3' position.
func Insertion(m *mutator.Mutator, before, after int, s string, sites []normalize.SpliceSite, log *diag.Log) (Name, bool) {
	if after != before+1 {
		log.Add(diag.EINSRANGE, "insertion positions are not consecutive")
		return Name{}, false
	}
	if s == "" || !seqops.IsDNA(s) {
		log.Add(diag.EUNKVAR, "insertion sequence is not valid DNA")
		return Name{}, false
	}

	if dupFirst, dupLast, ok := normalize.DuplicationFromInsertion(m.Orig(), before, s); ok {
		res := normalize.RollDeletionDuplication(m.Orig(), dupFirst, dupLast, sites, log)
		dupFirst += res.Shift
		dupLast += res.Shift
		log.Add(diag.WINSDUP, "insertion is actually a duplication of an adjacent copy")
		if err := m.InsM(before, s); err != nil {
			log.Add(diag.ERANGE, err.Error())
			return Name{}, false
		}
		return Name{Kind: hgvsvar.KindDup, First: dupFirst, Last: dupLast}, true
	}

	if err := m.InsM(before, s); err != nil {
		log.Add(diag.ERANGE, err.Error())
		return Name{}, false
	}
	newBefore := m.Shiftpos(before)
	insertionLength := len(s)

	roll := normalize.RollInsertion(m.Mutated(), newBefore, insertionLength, sites, log)
	insertedSeq := m.Mutated()[newBefore+roll.Shift : newBefore+roll.Shift+insertionLength]
	return Name{
		Kind:  hgvsvar.KindIns,
		First: newBefore + roll.Shift,
		Last:  newBefore + roll.Shift + 1,
		Arg1:  insertedSeq,
	}, true
}

// Delins materializes the deletion sequence if absent, reclassifies via
// the Normalizer cascade, and applies whatever the reclassification
// settles on.
func Delins(m *mutator.Mutator, first, last int, deleted, insert string, sites []normalize.SpliceSite, log *diag.Log) (Name, bool) {
	res := normalize.ReclassifyDelins(m.Orig(), first, last, deleted, insert, log)

	switch res.Outcome {
	case normalize.DelinsNoChange:
		return Name{Kind: hgvsvar.KindDelins, First: first, Last: last}, true
	case normalize.DelinsIsInsertion:
		return Insertion(m, res.Before, res.Before+1, res.Insert, sites, log)
	case normalize.DelinsIsSubstitution:
		return Substitution(m, res.First, res.Sub, log)
	case normalize.DelinsIsDeletion:
		return DeletionDuplication(m, res.First, res.Last, hgvsvar.KindDel, sites, log)
	case normalize.DelinsIsInversion:
		return Inversion(m, res.First, res.Last, log)
	default:
		if err := m.DelinsM(res.First, res.Last, res.Insert); err != nil {
			log.Add(diag.ERANGE, err.Error())
			return Name{}, false
		}
		return Name{Kind: hgvsvar.KindDelins, First: res.First, Last: res.Last, Arg1: res.Insert}, true
	}
}
