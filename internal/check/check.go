// Package check implements the driver: the single entry point that ties
// reference-type gating, transcript selection, location resolution,
// strand adjustment, variant application and protein consequence
// derivation into one check against a fully assembled reference record.
//
// Grounded on variant_checker.py's check_variant (the reference-type
// gate, LRG-vs-GenBank transcript selection, and the consequence
// derivation sequence at the end of a check), restructured as explicit
// Go return values in place of the Python's shared Output object; and on
// the teacher's internal/annotate/annotator.go shape (a struct wrapping
// lookup state, a primary per-call method, a batch-line formatter) for
// how those pieces are organized into a package.
package check

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/hgvs-checker/internal/apply"
	"github.com/inodb/hgvs-checker/internal/crossmap"
	"github.com/inodb/hgvs-checker/internal/diag"
	"github.com/inodb/hgvs-checker/internal/hgvsvar"
	"github.com/inodb/hgvs-checker/internal/mutator"
	"github.com/inodb/hgvs-checker/internal/normalize"
	"github.com/inodb/hgvs-checker/internal/protein"
	"github.com/inodb/hgvs-checker/internal/refseq"
	"github.com/inodb/hgvs-checker/internal/seqops"
)

// ExonInfoEntry is one exon's boundary in both the genomic and coding
// axes.
type ExonInfoEntry struct {
	GAcceptor, GDonor int
	CAcceptor, CDonor string
}

// Report is the outbound key/value record a check produces.
type Report struct {
	Reference  string
	RecordType string
	GeneSymbol string
	Variant    string

	GenomicDescription      string
	GDescription            string
	MolType                 string
	GenomicChromDescription string

	Descriptions     []string
	ProtDescriptions []string

	OrigMRNA, MutatedMRNA string
	OrigCDS, NewCDS       string
	OldProtein, NewProtein string
	AltProtein            string
	AltStart              bool

	ExonInfo []ExonInfoEntry

	CDSStartG, CDSStopG int
	CDSStartC, CDSStopC string

	Original, Mutated string
	Legends           []string
}

// BatchLine renders the fixed 13-field tab-separated batch line. The
// caller supplies the fields this Report does not itself carry one of
// (per-transcript/per-protein accessions and alternates), since those
// belong to the transcript-selection layer above a single check.
func (r *Report) BatchLine(geneVNNN, cDescription, pDescription, geneC, geneP, gAcc, cAcc, pAcc string, altC, altP []string) string {
	fields := []string{
		r.Reference,
		geneVNNN,
		r.Variant,
		r.GDescription,
		cDescription,
		pDescription,
		geneC,
		geneP,
		gAcc,
		cAcc,
		pAcc,
		strings.Join(altC, "|"),
		strings.Join(altP, "|"),
	}
	return strings.Join(fields, "\t")
}

func referenceString(ref *refseq.ReferenceRecord) string {
	if ref.Version > 0 {
		return fmt.Sprintf("%s.%d", ref.Accession, ref.Version)
	}
	return ref.Accession
}

func recordTypeString(t refseq.SourceType) string {
	if t == refseq.LRG {
		return "LRG"
	}
	return "GB"
}

// selectTranscript implements step 2 of the driver: LRG records use
// their sole gene, looking up the transcript by name or falling back to
// a lone transcript; non-LRG records require the gene symbol to match
// (or there be exactly one gene), then resolve the transcript the same
// way.
func selectTranscript(ref *refseq.ReferenceRecord, sel hgvsvar.GeneSelector, log *diag.Log) (*refseq.Gene, *refseq.Transcript, bool) {
	if len(ref.Genes) == 0 {
		log.Add(diag.EINVALIDGENE, "reference record carries no genes")
		return nil, nil, false
	}

	var gene *refseq.Gene
	if ref.SourceType == refseq.LRG {
		gene = ref.Genes[0]
	} else if sel.GeneSymbol != "" {
		g, ok := ref.GeneBySymbol(sel.GeneSymbol)
		if !ok {
			log.Add(diag.EINVALIDGENE, fmt.Sprintf("gene %q not found in reference record", sel.GeneSymbol))
			return nil, nil, false
		}
		gene = g
	} else if len(ref.Genes) == 1 {
		gene = ref.Genes[0]
	} else {
		log.Add(diag.EINVALIDGENE, "gene symbol required: reference record carries more than one gene")
		return nil, nil, false
	}

	transcriptID := sel.TranscriptID
	if ref.SourceType == refseq.LRG && sel.LRGTranscript != "" {
		transcriptID = sel.LRGTranscript
	}

	if transcriptID != "" {
		t, ok := gene.TranscriptByID(transcriptID)
		if !ok {
			log.Add(diag.ENOTRANSCRIPT, fmt.Sprintf("transcript %q not found for gene %q", transcriptID, gene.Symbol))
			return nil, nil, false
		}
		return gene, t, true
	}
	if len(gene.Transcripts) == 1 {
		return gene, gene.Transcripts[0], true
	}
	log.Add(diag.ENOTRANSCRIPT, fmt.Sprintf("transcript id required: gene %q carries more than one transcript", gene.Symbol))
	return nil, nil, false
}

func spliceSitesOf(t *refseq.Transcript) []normalize.SpliceSite {
	if t == nil {
		return nil
	}
	sites := make([]normalize.SpliceSite, len(t.Exons))
	for i, e := range t.Exons {
		sites[i] = normalize.SpliceSite{Acceptor: e.Acceptor, Donor: e.Donor}
	}
	return sites
}

func site(cm *crossmap.CrossMap, n int) (int, error) {
	return cm.GetSpliceSite(n)
}

// resolveExonic implements the EXLoc rule from step 3: first is the
// upstream boundary of the start exon, last the downstream boundary of
// the stop exon (or the start exon itself for a single-exon EXLoc),
// swapped if the selected sites come out inverted.
func resolveExonic(cm *crossmap.CrossMap, loc hgvsvar.ExonicLoc, log *diag.Log) (int, int, bool) {
	stop := loc.StopExon
	if stop == 0 {
		stop = loc.StartExon
	}
	first, err := site(cm, 2*loc.StartExon-2)
	if err != nil {
		log.Add(diag.EPOS, err.Error())
		return 0, 0, false
	}
	last, err := site(cm, 2*stop-1)
	if err != nil {
		log.Add(diag.EPOS, err.Error())
		return 0, 0, false
	}
	if first > last {
		first, last = last, first
	}
	return first, last, true
}

// resolveIntronic implements the IVSLoc rule: site(2n), the acceptor that
// closes intron n, for the acceptor-side offset convention, site(2n-1),
// the donor that opens it, for the donor-side convention, shifted by
// orientation*offset.
func resolveIntronic(cm *crossmap.CrossMap, orientation refseq.Orientation, loc hgvsvar.IntronicLoc, log *diag.Log) (int, bool) {
	idx := 2 * loc.IntronNumber
	if !loc.AcceptorSide {
		idx = 2*loc.IntronNumber - 1
	}
	g, err := site(cm, idx)
	if err != nil {
		log.Add(diag.ENOINTRON, err.Error())
		return 0, false
	}
	return g + int(orientation)*loc.Offset, true
}

// resolveLocation resolves a single-point Location (PtLoc or IVSLoc) to a
// genomic position. cm is nil for a g. description operating directly on
// the genomic sequence with no transcript.
func resolveLocation(cm *crossmap.CrossMap, orientation refseq.Orientation, loc hgvsvar.Location, log *diag.Log) (int, bool) {
	switch l := loc.(type) {
	case hgvsvar.PointLoc:
		if cm == nil {
			if l.Offset != 0 || l.OffsetUnknown {
				log.Add(diag.ENOINTRON, "intronic offset given against a genomic-only reference")
				return 0, false
			}
			return l.Main, true
		}
		g, err := cm.X2G(crossmap.CPos{Star: l.Star, Main: l.Main, Offset: l.Offset})
		if err != nil {
			log.Add(diag.ESPLICE, err.Error())
			return 0, false
		}
		return g, true
	case hgvsvar.IntronicLoc:
		if cm == nil {
			log.Add(diag.ENOINTRON, "intron-relative location given against a genomic-only reference")
			return 0, false
		}
		return resolveIntronic(cm, orientation, l, log)
	default:
		log.Add(diag.EUNKNOWN, "unrecognized point location kind")
		return 0, false
	}
}

// resolveInterval resolves a raw variant's start/end locations to a
// genomic (first, last) interval, implementing step 3 of the driver:
// EXLoc resolves directly to an interval; PtLoc/IVSLoc resolve each
// endpoint independently, swapped when the transcript runs
// reverse-strand (orientation already flips the CrossMap's exon walk,
// but the first/last pair handed to VariantApplier must stay
// genomically ordered).
func resolveInterval(cm *crossmap.CrossMap, orientation refseq.Orientation, start, end hgvsvar.Location, log *diag.Log) (first, last int, ok bool) {
	if ex, isEx := start.(hgvsvar.ExonicLoc); isEx {
		if cm == nil {
			log.Add(diag.ENOINTRON, "exon-range location given against a genomic-only reference")
			return 0, 0, false
		}
		return resolveExonic(cm, ex, log)
	}

	first, ok = resolveLocation(cm, orientation, start, log)
	if !ok {
		return 0, 0, false
	}
	if end == nil {
		return first, first, true
	}
	last, ok = resolveLocation(cm, orientation, end, log)
	if !ok {
		return 0, 0, false
	}
	if orientation == refseq.Reverse {
		first, last = last, first
	}
	return first, last, true
}

func exonIndexContaining(sites []normalize.SpliceSite, pos int) (int, bool) {
	for i, s := range sites {
		if pos >= s.Acceptor && pos <= s.Donor {
			return i, true
		}
	}
	return 0, false
}

// sanityCheck implements step 4: range validity is fatal-to-the-variant
// (ERANGE), a splice-crossing interval is informational only
// (WOVERSPLICE) and never blocks the edit.
func sanityCheck(origLen, first, last int, sites []normalize.SpliceSite, log *diag.Log) bool {
	if last < first {
		log.Add(diag.ERANGE, "interval end precedes interval start")
		return false
	}
	if first < 1 || last > origLen {
		log.Add(diag.ERANGE, "interval falls outside the reference sequence")
		return false
	}
	for _, s := range sites {
		if (first < s.Acceptor && s.Acceptor <= last) || (first <= s.Donor && s.Donor < last) {
			log.Add(diag.WOVERSPLICE, "interval crosses a splice site")
			break
		}
	}
	return true
}

func revCompIfDNA(s string) string {
	if s == "" || !seqops.IsDNA(s) {
		return s
	}
	return seqops.ReverseComplement(s)
}

// strandAdjust implements step 5: a reverse-strand transcript's argument
// sequences are given in transcript (coding) direction, so they must be
// reverse-complemented before the genomic Mutator sees them.
func strandAdjust(orientation refseq.Orientation, arg1, arg2 string) (string, string) {
	if orientation != refseq.Reverse {
		return arg1, arg2
	}
	return revCompIfDNA(arg1), revCompIfDNA(arg2)
}

// dispatch implements step 6: route a resolved variant to its
// VariantApplier entry point.
func dispatch(m *mutator.Mutator, rv hgvsvar.RawVariant, first, last int, sites []normalize.SpliceSite, log *diag.Log) (apply.Name, bool) {
	switch rv.Kind {
	case hgvsvar.KindSubst:
		if first != last {
			log.Add(diag.ERANGE, "substitution must name a single position")
			return apply.Name{}, false
		}
		if !apply.CheckArgument(m.Orig(), first, last, rv.Arg1, log) {
			return apply.Name{}, false
		}
		if len(rv.Arg2) != 1 {
			log.Add(diag.ENODNA, "substitute argument must be a single base")
			return apply.Name{}, false
		}
		return apply.Substitution(m, first, rv.Arg2[0], log)
	case hgvsvar.KindDel, hgvsvar.KindDup:
		if !apply.CheckArgument(m.Orig(), first, last, rv.Arg1, log) {
			return apply.Name{}, false
		}
		return apply.DeletionDuplication(m, first, last, rv.Kind, sites, log)
	case hgvsvar.KindInv:
		if !apply.CheckArgument(m.Orig(), first, last, rv.Arg1, log) {
			return apply.Name{}, false
		}
		return apply.Inversion(m, first, last, log)
	case hgvsvar.KindIns:
		return apply.Insertion(m, first, last, rv.Arg2, sites, log)
	case hgvsvar.KindDelins:
		return apply.Delins(m, first, last, rv.Arg1, rv.Arg2, sites, log)
	default:
		log.Add(diag.EUNKVAR, "unrecognized mutation type")
		return apply.Name{}, false
	}
}

// applyVariants implements step 7: every raw variant in the allele set
// is applied in document order against the shared Mutator. A variant whose
// location resolution, sanity check or apply step fails is skipped on its
// own; the Mutator state from before the failed variant is left untouched and the
// remaining variants still run against it.
func applyVariants(m *mutator.Mutator, variants []hgvsvar.RawVariant, cm *crossmap.CrossMap, orientation refseq.Orientation, sites []normalize.SpliceSite, log *diag.Log) []apply.Name {
	var names []apply.Name
	for _, rv := range variants {
		first, last, ok := resolveInterval(cm, orientation, rv.Start, rv.End, log)
		if !ok {
			continue
		}
		if !sanityCheck(len(m.Orig()), first, last, sites, log) {
			continue
		}
		adjusted := rv
		adjusted.Arg1, adjusted.Arg2 = strandAdjust(orientation, rv.Arg1, rv.Arg2)
		if name, ok := dispatch(m, adjusted, first, last, sites, log); ok {
			names = append(names, name)
		}
	}
	return names
}

func rangeStr(first, last int) string {
	if first == last {
		return strconv.Itoa(first)
	}
	return fmt.Sprintf("%d_%d", first, last)
}

func renderName(n apply.Name) string {
	switch n.Kind {
	case hgvsvar.KindSubst:
		return fmt.Sprintf("%d%s>%s", n.First, n.Arg1, n.Arg2)
	case hgvsvar.KindDel:
		return rangeStr(n.First, n.Last) + "del"
	case hgvsvar.KindDup:
		return rangeStr(n.First, n.Last) + "dup"
	case hgvsvar.KindInv:
		return rangeStr(n.First, n.Last) + "inv"
	case hgvsvar.KindIns:
		return fmt.Sprintf("%d_%dins%s", n.First, n.Last, n.Arg1)
	case hgvsvar.KindDelins:
		return rangeStr(n.First, n.Last) + "delins" + n.Arg1
	default:
		return "?"
	}
}

func renderNames(prefix string, names []apply.Name) string {
	if len(names) == 1 {
		return prefix + renderName(names[0])
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = renderName(n)
	}
	return prefix + "[" + strings.Join(parts, ";") + "]"
}

func shiftNames(names []apply.Name, offset int) []apply.Name {
	shifted := make([]apply.Name, len(names))
	for i, n := range names {
		n.First += offset
		n.Last += offset
		shifted[i] = n
	}
	return shifted
}

func insertedThree(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		b.WriteString(protein.ThreeLetter(s[i]))
	}
	return b.String()
}

// renderProteinChange names a protein.Change the way HGVS nomenclature
// reports each of the kinds protein.Describe produces.
func renderProteinChange(c protein.Change) string {
	switch c.Kind {
	case protein.NoChange:
		return "p.="
	case protein.Substitution:
		return fmt.Sprintf("p.%s%d%s", protein.ThreeLetter(c.RefAA), c.Position, protein.ThreeLetter(c.AltAA))
	case protein.StopGained:
		return fmt.Sprintf("p.%s%d%s", protein.ThreeLetter(c.RefAA), c.Position, protein.ThreeLetter('*'))
	case protein.StopLost:
		ext := "?"
		if c.StopDistance > 0 {
			ext = strconv.Itoa(c.StopDistance)
		}
		return fmt.Sprintf("p.%s%dext*%s", protein.ThreeLetter(c.RefAA), c.Position, ext)
	case protein.Frameshift:
		dist := "?"
		if c.StopDistance > 0 {
			dist = strconv.Itoa(c.StopDistance)
		}
		return fmt.Sprintf("p.%s%d%sfs*%s", protein.ThreeLetter(c.RefAA), c.Position, protein.ThreeLetter(c.AltAA), dist)
	case protein.InframeDeletion:
		if c.EndPosition == 0 || c.EndPosition == c.Position {
			return fmt.Sprintf("p.%ddel", c.Position)
		}
		return fmt.Sprintf("p.%d_%ddel", c.Position, c.EndPosition)
	case protein.InframeInsertion:
		if c.IsDup {
			return fmt.Sprintf("p.%d_%ddup", c.Position, c.EndPosition)
		}
		return fmt.Sprintf("p.%d_%dins%s", c.Position, c.EndPosition, insertedThree(c.Inserted))
	case protein.InframeDelins:
		return fmt.Sprintf("p.%d_%ddelins%s", c.Position, c.EndPosition, insertedThree(c.Inserted))
	default:
		return "p.?"
	}
}

func spliceGenomic(seq string, exons []refseq.Exon) string {
	var b strings.Builder
	for _, e := range exons {
		b.WriteString(seq[e.Acceptor-1 : e.Donor])
	}
	return b.String()
}

// spliceTranscript assembles origMRNA: genomic-order exon concatenation,
// reverse-complemented as a whole for a reverse-strand transcript (which
// both reverses exon transcription order and complements each base in
// one step).
func spliceTranscript(seq string, t *refseq.Transcript) string {
	s := spliceGenomic(seq, t.Exons)
	if t.IsReverseStrand() {
		return seqops.ReverseComplement(s)
	}
	return s
}

// spliceMutated assembles mutatedMRNA: each exon boundary is re-expressed
// in mutated coordinates via Shiftpos before slicing, since edits upstream
// of an exon shift everything downstream of it.
func spliceMutated(m *mutator.Mutator, t *refseq.Transcript) string {
	mutated := m.Mutated()
	var b strings.Builder
	for _, e := range t.Exons {
		a := m.Shiftpos(e.Acceptor)
		d := m.Shiftpos(e.Donor)
		if d >= a {
			b.WriteString(mutated[a-1 : d])
		}
	}
	s := b.String()
	if t.IsReverseStrand() {
		return seqops.ReverseComplement(s)
	}
	return s
}

// cdsSlice extracts the CDS from a spliced mRNA already in transcription
// order, using the transcript's n-coordinate CDS bounds directly.
func cdsSlice(mrna string, t *refseq.Transcript) string {
	if !t.IsProteinCoding() {
		return ""
	}
	start, stop := t.CDS.Start, t.CDS.Stop
	if start < 1 || stop > len(mrna) || start > stop {
		return ""
	}
	return mrna[start-1 : stop]
}

// investigateAltStart scans downstream in-frame for the next ATG and
// translates from there, the alternative-start fallback step 8 calls for
// when the variant CDS no longer starts with M.
func investigateAltStart(cds string) string {
	for i := 3; i+3 <= len(cds); i += 3 {
		if protein.IsStartCodon(cds[i : i+3]) {
			p, _ := protein.Translate(cds[i:])
			return p
		}
	}
	return ""
}

func exonInfoOf(cm *crossmap.CrossMap, t *refseq.Transcript) []ExonInfoEntry {
	entries := make([]ExonInfoEntry, 0, len(t.Exons))
	for _, e := range t.Exons {
		cAcc := cm.G2C(e.Acceptor)
		cDon := cm.G2C(e.Donor)
		entries = append(entries, ExonInfoEntry{
			GAcceptor: e.Acceptor,
			GDonor:    e.Donor,
			CAcceptor: cAcc.String(),
			CDonor:    cDon.String(),
		})
	}
	return entries
}

// Check runs one check of desc against ref: the reference-type gate,
// transcript selection, per-variant location resolution/application, and
// (when a protein-coding transcript was selected and no fatal error
// occurred) consequence derivation. It always returns a Report, even a
// partial one built up to the point a fatal diagnostic was logged; the
// caller is responsible for treating log.HasFatal() as "do not trust
// Mutated/translations past this point."
func Check(ref *refseq.ReferenceRecord, desc hgvsvar.Description) (*Report, *diag.Log) {
	log := diag.NewLog()
	rep := &Report{
		Reference:  referenceString(ref),
		RecordType: recordTypeString(ref.SourceType),
		MolType:    string(ref.MolType),
	}

	if desc.Reference == hgvsvar.RNA {
		log.Add(diag.ERNA, "RNA-level (r.) descriptions are not supported")
		return rep, log
	}

	var gene *refseq.Gene
	var transcript *refseq.Transcript
	var cm *crossmap.CrossMap
	orientation := refseq.Forward

	if desc.Reference == hgvsvar.Coding || desc.Reference == hgvsvar.NonCoding {
		g, t, ok := selectTranscript(ref, desc.Gene, log)
		if !ok {
			return rep, log
		}
		gene, transcript = g, t
		cm = crossmap.New(transcript)
		orientation = transcript.Orientation
		rep.GeneSymbol = fmt.Sprintf("%s:%s", gene.Symbol, transcript.ID)
		rep.Legends = []string{fmt.Sprintf("%s_v001:%s", gene.Symbol, transcript.ID)}
	}

	sites := spliceSitesOf(transcript)
	m := mutator.New(ref.Seq.Bases)

	names := applyVariants(m, desc.Variants, cm, orientation, sites, log)
	if len(names) == 0 {
		return rep, log
	}

	rep.Original = m.Orig()
	rep.Mutated = m.Mutated()
	rep.GenomicDescription = renderNames(referenceString(ref)+":g.", names)
	rep.GDescription = renderNames("g.", names)
	rep.Descriptions = []string{rep.GenomicDescription}
	rep.Variant = renderNames("", names)

	if ref.ChromOffset != 0 {
		rep.GenomicChromDescription = renderNames(ref.ChromDescription+":g.", shiftNames(names, ref.ChromOffset))
	}

	if transcript == nil || !transcript.Transcribe || log.HasFatal() {
		return rep, log
	}

	rep.ExonInfo = exonInfoOf(cm, transcript)
	rep.OrigMRNA = spliceTranscript(m.Orig(), transcript)
	rep.MutatedMRNA = spliceMutated(m, transcript)

	if !transcript.Translate || !transcript.IsProteinCoding() {
		return rep, log
	}

	if cdsStartG, err := cm.X2G(crossmap.CPos{Main: 1}); err == nil {
		rep.CDSStartG = cdsStartG
		rep.CDSStartC = "1"
	}
	_, _, cdsStopC := cm.Info()
	if cdsStopG, err := cm.X2G(cdsStopC); err == nil {
		rep.CDSStopG = cdsStopG
		rep.CDSStopC = cdsStopC.String()
	}

	rep.OrigCDS = cdsSlice(rep.OrigMRNA, transcript)
	rep.NewCDS = cdsSlice(rep.MutatedMRNA, transcript)
	if rep.OrigCDS == "" || rep.NewCDS == "" {
		return rep, log
	}

	oldProtein, oldHasStop := protein.Translate(rep.OrigCDS)
	if !oldHasStop || len(oldProtein)*3 != len(rep.OrigCDS) {
		log.Add(diag.ESTOP, "coding sequence does not end in an in-frame stop codon")
		return rep, log
	}
	rep.OldProtein = oldProtein

	newProtein, _ := protein.Translate(rep.NewCDS)
	rep.NewProtein = newProtein

	if len(newProtein) == 0 || newProtein[0] != 'M' {
		rep.AltStart = true
		rep.AltProtein = investigateAltStart(rep.NewCDS)
		return rep, log
	}

	change := protein.Describe(len(rep.OrigCDS), oldProtein, newProtein)
	rep.ProtDescriptions = []string{renderProteinChange(change)}

	return rep, log
}
