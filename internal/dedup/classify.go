package dedup

import (
	"sort"
	"strings"

	"folio/internal/textutil"
)

// Pattern labels the variant relationship between a duplicate and its
// cluster's primary. Classification feeds the confidence scorer and is never
// persisted.
type Pattern string

const (
	PatternAbbreviation    Pattern = "abbreviation"
	PatternPrefix          Pattern = "prefix"
	PatternSuffix          Pattern = "suffix"
	PatternCompound        Pattern = "compound"
	PatternTypo            Pattern = "typo"
	PatternTransliteration Pattern = "transliteration"
	PatternOther           Pattern = "other"
)

const (
	// typoEditBound is the maximum edit distance still classified as a typo.
	typoEditBound = 2
	// typoLengthRatio is the minimum length ratio for the typo class; strings
	// of very different lengths are not simple misspellings.
	typoLengthRatio = 0.8
)

// ClassifyPair labels how two records' canonical keys relate. Checks run in a
// fixed order and the first match wins: abbreviation, then prefix/suffix,
// then compound (token reorder), then typo, then transliteration.
func ClassifyPair(a, b Record) Pattern {
	ka, kb := a.Key, b.Key
	switch {
	case isAbbreviationPair(ka, kb):
		return PatternAbbreviation
	case isExtraToken(ka, kb, true) || isExtraToken(kb, ka, true):
		return PatternPrefix
	case isExtraToken(ka, kb, false) || isExtraToken(kb, ka, false):
		return PatternSuffix
	case isCompound(ka, kb):
		return PatternCompound
	case isTypo(ka, kb):
		return PatternTypo
	case textutil.PhoneticallyEqual(ka, kb):
		return PatternTransliteration
	}
	return PatternOther
}

// isAbbreviationPair matches an initials-bearing form against a full form
// with the same initials, e.g. "j r r tolkien" vs "john ronald reuel tolkien".
func isAbbreviationPair(a, b string) bool {
	if abbreviated(a) == abbreviated(b) {
		return false
	}
	ia, ib := initialsOf(a), initialsOf(b)
	return ia != "" && ia == ib
}

// isExtraToken reports whether longer equals shorter plus exactly one extra
// token, leading when leading is true, trailing otherwise.
func isExtraToken(longer, shorter string, leading bool) bool {
	lt := strings.Fields(longer)
	st := strings.Fields(shorter)
	if len(lt) != len(st)+1 || len(st) == 0 {
		return false
	}
	if leading {
		lt = lt[1:]
	} else {
		lt = lt[:len(lt)-1]
	}
	for i := range lt {
		if lt[i] != st[i] {
			return false
		}
	}
	return true
}

// isCompound matches equal token sets in a different order, the residue of
// name inversions the canonicalizer could not detect (no comma present).
func isCompound(a, b string) bool {
	if a == b {
		return false
	}
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) != len(tb) {
		return false
	}
	sa := append([]string(nil), ta...)
	sb := append([]string(nil), tb...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func isTypo(a, b string) bool {
	return textutil.EditDistance(a, b) <= typoEditBound &&
		textutil.LengthRatio(a, b) >= typoLengthRatio
}
