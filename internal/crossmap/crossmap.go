// Package crossmap implements the bidirectional coordinate translator
// between a transcript's genomic axis and its coding axis: positive
// integers for the CDS, negative integers for the 5' UTR, "*k" for the 3'
// UTR, and (main, offset) pairs for intronic positions.
//
// A CrossMap is stateless once built: it holds no mutable state beyond the
// transcript's splice-site geometry, generalizing the position-translation
// logic the teacher spreads across genomicToHGVScPos/exonicHGVScPos/
// fiveprimeUTRPos/threeprimeUTRPos/intronicHGVScPos/GenomicToCDS into one
// canonical translator the Driver uses.
//
// Internally every exonic position is carried as a spliced-transcript
// position n (introns removed, 1 = the transcript's first transcribed
// base) before being split into the public coding form; n is the only
// numbering that stays a simple +1-per-base walk across a 5'UTR/CDS/3'UTR
// boundary inside a single exon, so translating coding <-> genomic always
// goes through it rather than patching a "raw coding" number directly.
package crossmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/hgvs-checker/internal/refseq"
)

// CPos is a coding-axis position: either an exonic position (Star=false,
// Main holds the signed coding coordinate, negative in the 5' UTR,
// positive in the CDS), a 3' UTR position (Star=true, Main=k, the "*k"
// offset past the stop), or an intronic position (Offset != 0, Main is the
// coding value of the flanking splice site).
type CPos struct {
	Star   bool
	Main   int
	Offset int
}

// IsIntronic reports whether the position falls in an intron.
func (c CPos) IsIntronic() bool {
	return c.Offset != 0
}

// String renders the position the way HGVS coding descriptions do:
// "76", "-14", "*6", "88+1", "89-2".
func (c CPos) String() string {
	var main string
	if c.Star {
		main = "*" + strconv.Itoa(c.Main)
	} else {
		main = strconv.Itoa(c.Main)
	}
	if c.Offset == 0 {
		return main
	}
	if c.Offset > 0 {
		return fmt.Sprintf("%s+%d", main, c.Offset)
	}
	return fmt.Sprintf("%s%d", main, c.Offset)
}

// ParseMain parses the textual main coordinate, including the "*k" 3' UTR
// suffix, into (star, value).
func ParseMain(s string) (star bool, value int, err error) {
	if strings.HasPrefix(s, "*") {
		v, err := strconv.Atoi(s[1:])
		if err != nil {
			return false, 0, fmt.Errorf("crossmap: invalid main coordinate %q: %w", s, err)
		}
		return true, v, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return false, 0, fmt.Errorf("crossmap: invalid main coordinate %q: %w", s, err)
	}
	return false, v, nil
}

// ParseOffset parses a textual intronic offset, including the "?" unknown
// convention, treated as 0.
func ParseOffset(s string) int {
	if s == "" || s == "?" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// CrossMap translates coordinates for one transcript.
type CrossMap struct {
	t *refseq.Transcript

	// exons is t.Exons walked in transcription order (genomic order for
	// Forward, reverse genomic order for Reverse).
	exons []refseq.Exon

	// exonNStart[i]/exonNEnd[i] are exon i's first and last spliced-
	// transcript position (n), in transcription order.
	exonNStart []int
	exonNEnd   []int

	cdsStartN int
	cdsStopN  int
	coding    bool
}

// New builds a CrossMap for t.
func New(t *refseq.Transcript) *CrossMap {
	cm := &CrossMap{
		t:         t,
		cdsStartN: t.CDS.Start,
		cdsStopN:  t.CDS.Stop,
		coding:    t.IsProteinCoding(),
	}
	cm.build()
	return cm
}

func (cm *CrossMap) build() {
	cm.exons = make([]refseq.Exon, len(cm.t.Exons))
	copy(cm.exons, cm.t.Exons)
	if cm.t.IsReverseStrand() {
		for i, j := 0, len(cm.exons)-1; i < j; i, j = i+1, j-1 {
			cm.exons[i], cm.exons[j] = cm.exons[j], cm.exons[i]
		}
	}

	cm.exonNStart = make([]int, len(cm.exons))
	cm.exonNEnd = make([]int, len(cm.exons))
	n := 0
	for i, e := range cm.exons {
		l := e.Donor - e.Acceptor + 1
		cm.exonNStart[i] = n + 1
		cm.exonNEnd[i] = n + l
		n += l
	}
}

// cdsStopC returns the coding-axis value of the CDS stop (its length,
// since the CDS always starts at coding position 1).
func (cm *CrossMap) cdsStopC() int {
	if !cm.coding {
		return 0
	}
	return cm.cdsStopN - cm.cdsStartN + 1
}

// nToC converts a spliced-transcript position to its public coding form.
func (cm *CrossMap) nToC(n int) CPos {
	if !cm.coding {
		return CPos{Main: n}
	}
	switch {
	case n < cm.cdsStartN:
		return CPos{Main: n - cm.cdsStartN}
	case n > cm.cdsStopN:
		return CPos{Star: true, Main: n - cm.cdsStopN}
	default:
		return CPos{Main: n - cm.cdsStartN + 1}
	}
}

// cToN is the inverse of nToC: given a coding value, the spliced-transcript
// position it names.
func (cm *CrossMap) cToN(c CPos) int {
	if !cm.coding {
		return c.Main
	}
	if c.Star {
		return cm.cdsStopN + c.Main
	}
	if c.Main < 0 {
		return cm.cdsStartN + c.Main
	}
	return cm.cdsStartN + c.Main - 1
}

// exonIndexForN returns the transcription-order index of the exon
// containing spliced-transcript position n.
func (cm *CrossMap) exonIndexForN(n int) (int, bool) {
	for i := range cm.exons {
		if n >= cm.exonNStart[i] && n <= cm.exonNEnd[i] {
			return i, true
		}
	}
	return 0, false
}

func (cm *CrossMap) exonIndexByNumber(number int) int {
	for i, e := range cm.exons {
		if e.Number == number {
			return i
		}
	}
	return -1
}

// genomicForN converts a spliced-transcript position within exon idx to its
// genomic position.
func (cm *CrossMap) genomicForN(n, idx int) int {
	e := cm.exons[idx]
	offset := n - cm.exonNStart[idx]
	if cm.t.IsForwardStrand() {
		return e.Acceptor + offset
	}
	return e.Donor - offset
}

// X2G converts a coding-axis position to genomic. For an intronic position
// (Offset != 0) this returns siteG(Main) + orientation*Offset, where siteG
// is the genomic position of the splice site whose coding value equals
// Main.
func (cm *CrossMap) X2G(c CPos) (int, error) {
	if c.IsIntronic() {
		site := CPos{Star: c.Star, Main: c.Main}
		n := cm.cToN(site)
		siteG, ok := cm.siteGenomicForN(n)
		if !ok {
			return 0, fmt.Errorf("crossmap: no splice site at coding position %s", site)
		}
		return siteG + int(cm.t.Orientation)*c.Offset, nil
	}

	n := cm.cToN(c)
	idx, ok := cm.exonIndexForN(n)
	if !ok {
		return 0, fmt.Errorf("crossmap: coding position %s is not exonic", c)
	}
	return cm.genomicForN(n, idx), nil
}

// siteGenomicForN finds the genomic position of the splice site (an exon's
// transcription-order first or last spliced-transcript position) equal to n.
func (cm *CrossMap) siteGenomicForN(n int) (int, bool) {
	for i, e := range cm.exons {
		if n == cm.exonNStart[i] {
			if cm.t.IsForwardStrand() {
				return e.Acceptor, true
			}
			return e.Donor, true
		}
		if n == cm.exonNEnd[i] {
			if cm.t.IsForwardStrand() {
				return e.Donor, true
			}
			return e.Acceptor, true
		}
	}
	return 0, false
}

// G2C converts a genomic position to coding-axis. On an exonic base this is
// exact; on an intronic base it returns the nearest splice site's coding
// value plus a signed offset counted in transcription direction (negative
// before an exon's first base, positive past an exon's last base), the
// form X2G inverts on either strand.
func (cm *CrossMap) G2C(g int) CPos {
	if e, ok := cm.t.FindExon(g); ok {
		idx := cm.exonIndexByNumber(e.Number)
		var offset int
		if cm.t.IsForwardStrand() {
			offset = g - e.Acceptor
		} else {
			offset = e.Donor - g
		}
		n := cm.exonNStart[idx] + offset
		return cm.nToC(n)
	}

	// Intronic: find the genomically flanking exons.
	var upstream, downstream *refseq.Exon
	for i := range cm.t.Exons {
		e := &cm.t.Exons[i]
		if e.Donor < g {
			if upstream == nil || e.Donor > upstream.Donor {
				upstream = e
			}
		}
		if e.Acceptor > g {
			if downstream == nil || e.Acceptor < downstream.Acceptor {
				downstream = e
			}
		}
	}

	distToUpstream := -1
	distToDownstream := -1
	if upstream != nil {
		distToUpstream = g - upstream.Donor
	}
	if downstream != nil {
		distToDownstream = downstream.Acceptor - g
	}

	useUpstream := upstream != nil && (downstream == nil || distToUpstream <= distToDownstream)
	forward := cm.t.IsForwardStrand()

	if useUpstream {
		idx := cm.exonIndexByNumber(upstream.Number)
		if !forward {
			site := cm.nToC(cm.exonNStart[idx])
			site.Offset = -distToUpstream
			return site
		}
		site := cm.nToC(cm.exonNEnd[idx])
		site.Offset = distToUpstream
		return site
	}
	idx := cm.exonIndexByNumber(downstream.Number)
	if !forward {
		site := cm.nToC(cm.exonNEnd[idx])
		site.Offset = distToDownstream
		return site
	}
	site := cm.nToC(cm.exonNStart[idx])
	site.Offset = -distToDownstream
	return site
}

// NumberOfExons returns the transcript's exon count.
func (cm *CrossMap) NumberOfExons() int {
	return cm.t.NumberOfExons()
}

// NumberOfIntrons returns the transcript's intron count.
func (cm *CrossMap) NumberOfIntrons() int {
	return cm.t.NumberOfIntrons()
}

// GetSpliceSite returns the genomic position at 0-based index i into the
// flat splice-site list [a1,d1,a2,d2,...].
func (cm *CrossMap) GetSpliceSite(i int) (int, error) {
	sites := cm.t.SpliceSites()
	if i < 0 || i >= len(sites) {
		return 0, fmt.Errorf("crossmap: splice site index %d out of range [0,%d)", i, len(sites))
	}
	return sites[i], nil
}

// Info returns (transStartC, transEndC, cdsStopC): the coding-axis values
// of the transcript's first base, last base, and CDS stop.
func (cm *CrossMap) Info() (transStartC, transEndC, cdsStopC CPos) {
	first := cm.exons[0]
	last := cm.exons[len(cm.exons)-1]
	var firstG, lastG int
	if cm.t.IsForwardStrand() {
		firstG, lastG = first.Acceptor, last.Donor
	} else {
		firstG, lastG = first.Donor, last.Acceptor
	}
	transStartC = cm.G2C(firstG)
	transEndC = cm.G2C(lastG)
	if cm.coding {
		cdsStopC = CPos{Main: cm.cdsStopC()}
	}
	return transStartC, transEndC, cdsStopC
}
