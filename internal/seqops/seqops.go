// Package seqops provides pure sequence utilities over DNA strings: the
// complement/reverse-complement primitives, the DNA-alphabet predicate, the
// palindrome snoop used by inversion normalization, the 3'-rule roll used by
// deletion/duplication/insertion normalization, and the common-affix trim
// used by delins reclassification.
//
// All positions taken and returned by this package are 1-based, matching the
// rest of the reference-coordinate system; a position p refers to byte
// s[p-1] of the Go string s.
package seqops

import "strings"

var complementMap = [256]byte{}

func init() {
	for i := range complementMap {
		complementMap[i] = 'N'
	}
	pairs := []struct{ from, to byte }{
		{'A', 'T'}, {'T', 'A'}, {'G', 'C'}, {'C', 'G'},
		{'a', 't'}, {'t', 'a'}, {'g', 'c'}, {'c', 'g'},
		{'N', 'N'}, {'n', 'n'},
	}
	for _, p := range pairs {
		complementMap[p.from] = p.to
	}
}

// Complement returns the Watson-Crick complement of a single base.
func Complement(base byte) byte {
	return complementMap[base]
}

// IsDNA reports whether s is non-empty and every symbol is one of A, C, G, T
// (uppercase only; the core never sees lowercase or ambiguity codes).
func IsDNA(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// ReverseComplement returns the Watson-Crick complement of s, reversed.
func ReverseComplement(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complementMap[s[i]]
	}
	return string(out)
}

// PalindromeSnoop reports how much of s is a self-complementary palindrome.
//
// It returns |s| if s is empty, -1 if s equals its own reverse complement
// (a full palindrome, meaning an inversion of s is a no-op), and otherwise
// the largest k < len(s)/2 such that the length-k prefix of s equals the
// reverse complement of its length-k suffix (0 if no such prefix exists).
func PalindromeSnoop(s string) int {
	n := len(s)
	if n == 0 {
		return n
	}
	if s == ReverseComplement(s) {
		return -1
	}
	limit := n / 2
	for k := limit - 1; k >= 1; k-- {
		prefix := s[:k]
		suffix := s[n-k:]
		if prefix == ReverseComplement(suffix) {
			return k
		}
	}
	return 0
}

// Roll computes the 3'-rule roll distance of the region s[first..last]
// (1-based, inclusive) within s. It returns (back, forward): forward is the
// largest r >= 0 such that, for every 0 <= j < r, s[last+1+j] == s[first+(j
// mod L)] where L = last-first+1 (the region can be shifted r bases to the
// right without changing s); back is the symmetric count to the left. The
// roll never reads past position 1 or past len(s).
func Roll(s string, first, last int) (back, forward int) {
	n := len(s)
	length := last - first + 1
	if length <= 0 {
		return 0, 0
	}

	for j := 0; ; j++ {
		rightPos := last + 1 + j
		if rightPos > n {
			break
		}
		leftPos := first + (j % length)
		if leftPos < 1 || leftPos > n {
			break
		}
		if s[rightPos-1] != s[leftPos-1] {
			break
		}
		forward = j + 1
	}

	for j := 0; ; j++ {
		leftPos := first - 1 - j
		if leftPos < 1 {
			break
		}
		rightPos := last - (j % length)
		if rightPos < 1 || rightPos > n {
			break
		}
		if s[leftPos-1] != s[rightPos-1] {
			break
		}
		back = j + 1
	}

	return back, forward
}

// TrimCommon strips the longest common prefix of a and b, then the longest
// common suffix of what remains, returning the trimmed strings plus the
// prefix and suffix lengths removed. lcp+lcs+len(a') == len(a), and
// likewise for b.
func TrimCommon(a, b string) (aTrimmed, bTrimmed string, lcp, lcs int) {
	lcp = commonPrefixLen(a, b)
	a, b = a[lcp:], b[lcp:]
	lcs = commonSuffixLen(a, b)
	a, b = a[:len(a)-lcs], b[:len(b)-lcs]
	return a, b, lcp, lcs
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

// UpperDNA normalizes a sequence to uppercase for comparison; callers that
// accept lowercase input should run it through this before IsDNA.
func UpperDNA(s string) string {
	return strings.ToUpper(s)
}
