package textutil

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

const (
	jaroWinklerBoost      = 0.7
	jaroWinklerPrefixSize = 4
)

// Similarity computes Jaro-Winkler similarity between two strings in [0, 1].
// The metric rewards shared prefixes, which suits person and title variants
// where the leading tokens tend to agree. Symmetric: Similarity(a, b) ==
// Similarity(b, a). Empty input on either side yields 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return smetrics.JaroWinkler(a, b, jaroWinklerBoost, jaroWinklerPrefixSize)
}

// EditDistance returns the Levenshtein distance between two strings,
// counted in runes.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// LengthRatio returns len(shorter)/len(longer) in runes, in (0, 1].
// Returns 0 if either string is empty.
func LengthRatio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}

// PhoneticallyEqual reports whether two strings sound alike. Both inputs are
// tokenized on whitespace and each token pair is compared by Soundex code;
// token counts must agree. Used as a transliteration heuristic, not an
// equality test.
func PhoneticallyEqual(a, b string) bool {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if smetrics.Soundex(ta[i]) != smetrics.Soundex(tb[i]) {
			return false
		}
	}
	return true
}
