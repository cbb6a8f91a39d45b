// Package hgvsvar defines the tagged variant description tree the core
// consumes: the output of parsing an HGVS description, before any
// position has been resolved to a genomic coordinate.
//
// This plays the role the teacher's internal/vcf.Variant plays for VCF
// records: the inbound data shape a downstream package consumes rather
// than parses. The HGVS grammar itself is an external collaborator; only
// its resulting tree lives here.
package hgvsvar

// ReferenceType is the leading letter of an HGVS description.
type ReferenceType string

const (
	Genomic       ReferenceType = "g"
	Coding        ReferenceType = "c"
	NonCoding     ReferenceType = "n"
	Mitochondrial ReferenceType = "m"
	RNA           ReferenceType = "r"
)

// Location is a tagged sum of the three location shapes a raw variant's
// start/end can take.
type Location interface {
	isLocation()
}

// PointLoc is a coding-axis point: a signed main coordinate, an optional
// intronic offset, and whether main carries the 3' UTR "*" marker.
type PointLoc struct {
	Star   bool
	Main   int
	Offset int
	// OffsetUnknown marks a literal "?" offset, carried separately from
	// Offset (which is forced to 0) so a description round-trip can
	// reproduce it.
	OffsetUnknown bool
}

func (PointLoc) isLocation() {}

// IntronicLoc names a position by intron number rather than by flanking
// exon (IVS notation): "IVS2+5", "IVS2-10".
type IntronicLoc struct {
	IntronNumber int
	Offset       int
	// AcceptorSide is true when Offset counts from the downstream
	// acceptor (negative-offset convention), false when it counts from
	// the upstream donor (positive-offset convention).
	AcceptorSide bool
}

func (IntronicLoc) isLocation() {}

// ExonicLoc names a range by exon number rather than by position (EX
// notation): "EX2", "EX2_4".
type ExonicLoc struct {
	StartExon int
	StopExon  int // 0 means "same as StartExon" (a single-exon EX location)
}

func (ExonicLoc) isLocation() {}

// Kind identifies a raw variant's mutation type.
type Kind int

const (
	KindSubst Kind = iota
	KindDel
	KindDup
	KindInv
	KindIns
	KindDelins
)

func (k Kind) String() string {
	switch k {
	case KindSubst:
		return "subst"
	case KindDel:
		return "del"
	case KindDup:
		return "dup"
	case KindInv:
		return "inv"
	case KindIns:
		return "ins"
	case KindDelins:
		return "delins"
	default:
		return "unknown"
	}
}

// RawVariant is one parsed HGVS variant: a kind, a start location, an
// optional end location (nil when the variant names a single position),
// and up to two sequence arguments.
type RawVariant struct {
	Kind  Kind
	Start Location
	End   Location // nil for a single-position variant

	// Arg1 is the reference/deleted sequence (or its decimal-digit
	// length shorthand) for del/dup/subst/delins; Arg2 is the inserted
	// sequence for ins/delins, or the substitute base for subst.
	Arg1 string
	Arg2 string
}

// GeneSelector names which gene/transcript a description's variant(s)
// apply to.
type GeneSelector struct {
	GeneSymbol   string
	TranscriptID string
	IsLRG        bool
	LRGTranscript string
}

// Description is either a single raw variant or an allele set (several
// raw variants applied to the same reference, in document order), plus
// the reference type and gene/transcript selector that govern how its
// locations resolve.
type Description struct {
	Reference ReferenceType
	Gene      GeneSelector
	Variants  []RawVariant // len == 1 for a single variant, >1 for an allele set
}

// IsAlleleSet reports whether this description names more than one
// variant against the shared reference.
func (d Description) IsAlleleSet() bool {
	return len(d.Variants) > 1
}
