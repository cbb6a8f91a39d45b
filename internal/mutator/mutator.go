// Package mutator applies sequence edits to an immutable original string,
// producing a mutated string and a position shift map that lets downstream
// code re-express any original-coordinate position in the mutated
// sequence.
//
// Grounded on the teacher's position-tracking shape in
// internal/annotate/hgvsc.go (shiftInsertionThreePrime,
// shiftDeletionThreePrime track an anchor index through an edit the same
// way shiftpos here tracks an arbitrary position through an edit list),
// generalized to a persistent edit log rather than a single anchor.
package mutator

import (
	"errors"
	"fmt"

	"github.com/inodb/hgvs-checker/internal/seqops"
)

// ErrRange reports an edit whose interval falls partly outside the
// current original sequence bounds.
var ErrRange = errors.New("mutator: interval out of range")

// ErrInvalidSequence reports an edit argument that is not valid DNA where
// DNA was required.
var ErrInvalidSequence = errors.New("mutator: invalid sequence")

// edit records one applied edit, in orig coordinates, for shift tracking.
type edit struct {
	// first, last is the replaced closed interval in orig coordinates;
	// an insertion (first > last, specifically last == first-1) has an
	// empty interval immediately after position 'last'.
	first, last int
	delta       int // len(replacement) - (last-first+1)
}

// Mutator tracks one original-to-mutated sequence transformation. orig
// never changes; mutated and the edit log grow with every applied edit.
type Mutator struct {
	orig    string
	mutated string
	edits   []edit
}

// New creates a Mutator over orig with no edits applied yet.
func New(orig string) *Mutator {
	return &Mutator{orig: orig, mutated: orig}
}

// Orig returns the immutable original sequence.
func (m *Mutator) Orig() string {
	return m.orig
}

// Mutated returns the sequence as edited so far.
func (m *Mutator) Mutated() string {
	return m.mutated
}

func checkRange(orig string, first, last int) error {
	if first < 1 || last > len(orig) {
		return fmt.Errorf("%w: [%d,%d] outside [1,%d]", ErrRange, first, last, len(orig))
	}
	return nil
}

// mutatedPos maps an orig-coordinate position to its position in mutated
// as the edit log stands right now, without requiring the edit to have
// been recorded yet (delta 0, this is exactly Shiftpos).
func (m *Mutator) mutatedPos(p int) int {
	shift := 0
	for _, e := range m.edits {
		if p > e.last {
			shift += e.delta
		} else if p >= e.first {
			// p falls inside a previously-edited interval; pin it to the
			// start of the replacement.
			return e.first + shift
		}
	}
	return p + shift
}

// record appends one edit to the log and rewrites mutated by applying the
// replacement at its shifted position.
func (m *Mutator) record(first, last int, replacement string) {
	shiftedFirst := m.mutatedPos(first)
	shiftedLast := shiftedFirst + (last - first)
	if last < first {
		// Pure insertion: shiftedLast tracks the same empty interval.
		shiftedLast = shiftedFirst - 1
	}
	m.mutated = m.mutated[:shiftedFirst-1] + replacement + m.mutated[shiftedLast:]
	m.edits = append(m.edits, edit{
		first: first,
		last:  last,
		delta: len(replacement) - (last - first + 1),
	})
}

// SubM replaces orig[p] with x. Delta length 0.
func (m *Mutator) SubM(p int, x byte) error {
	if err := checkRange(m.orig, p, p); err != nil {
		return err
	}
	if !seqops.IsDNA(string(x)) {
		return fmt.Errorf("%w: substitute %q", ErrInvalidSequence, x)
	}
	m.record(p, p, string(x))
	return nil
}

// DelM deletes the closed range [a,b]. Delta length -(b-a+1).
func (m *Mutator) DelM(a, b int) error {
	if err := checkRange(m.orig, a, b); err != nil {
		return err
	}
	m.record(a, b, "")
	return nil
}

// DupM inserts a copy of orig[a..b] immediately after position b. Delta
// length +(b-a+1).
func (m *Mutator) DupM(a, b int) error {
	if err := checkRange(m.orig, a, b); err != nil {
		return err
	}
	dup := m.orig[a-1 : b]
	m.record(b+1, b, dup)
	return nil
}

// InvM replaces orig[a..b] with its reverse complement. Delta length 0.
func (m *Mutator) InvM(a, b int) error {
	if err := checkRange(m.orig, a, b); err != nil {
		return err
	}
	region := m.orig[a-1 : b]
	if !seqops.IsDNA(region) {
		return fmt.Errorf("%w: invert %q", ErrInvalidSequence, region)
	}
	m.record(a, b, seqops.ReverseComplement(region))
	return nil
}

// InsM inserts s between positions before and before+1. Delta length +|s|.
func (m *Mutator) InsM(before int, s string) error {
	if before < 0 || before > len(m.orig) {
		return fmt.Errorf("%w: insertion point %d outside [0,%d]", ErrRange, before, len(m.orig))
	}
	if !seqops.IsDNA(s) {
		return fmt.Errorf("%w: insert %q", ErrInvalidSequence, s)
	}
	m.record(before+1, before, s)
	return nil
}

// DelinsM replaces orig[a..b] with s. Delta length |s|-(b-a+1).
func (m *Mutator) DelinsM(a, b int, s string) error {
	if err := checkRange(m.orig, a, b); err != nil {
		return err
	}
	if !seqops.IsDNA(s) {
		return fmt.Errorf("%w: delins replacement %q", ErrInvalidSequence, s)
	}
	m.record(a, b, s)
	return nil
}

// Shiftpos maps an orig-coordinate position p to its position in mutated.
func (m *Mutator) Shiftpos(p int) int {
	return m.mutatedPos(p)
}

// NewSplice applies Shiftpos to every element of a splice-site list.
func (m *Mutator) NewSplice(sites []int) []int {
	out := make([]int, len(sites))
	for i, p := range sites {
		out[i] = m.Shiftpos(p)
	}
	return out
}
