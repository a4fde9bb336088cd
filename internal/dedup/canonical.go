package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonicalize derives the comparison key and structural fields for one
// entity. The original display text is preserved untouched; only the key is
// normalized. Returns false when the display text is empty or whitespace,
// which excludes the record from clustering.
//
// Canonicalization is idempotent: feeding a canonical key back through
// produces the same key.
func Canonicalize(kind Kind, id int64, display string) (Record, bool) {
	text := display
	if kind == KindPerson {
		text = reorderLastFirst(text)
	}
	key := canonicalKey(text)
	if key == "" {
		return Record{}, false
	}
	rec := Record{ID: id, DisplayText: display, Key: key}
	if kind == KindPerson {
		rec.Name = splitName(key)
	}
	return rec, true
}

// canonicalKey normalizes text for comparison: Unicode composed form, case
// folding, diacritic stripping, punctuation replaced by spaces, whitespace
// collapsed. Display text is never run through this for presentation.
func canonicalKey(text string) string {
	composed := norm.NFC.String(text)
	folded := cases.Fold().String(composed)
	stripped := stripDiacritics(folded)

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

func stripDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// reorderLastFirst rewrites "Last, First" person names into "First Last" for
// comparison purposes. Text without a comma passes through unchanged, as does
// text with more than one comma (likely a list, not a name inversion).
func reorderLastFirst(text string) string {
	if strings.Count(text, ",") != 1 {
		return text
	}
	parts := strings.SplitN(text, ",", 2)
	last := strings.TrimSpace(parts[0])
	first := strings.TrimSpace(parts[1])
	if last == "" || first == "" {
		return text
	}
	return first + " " + last
}

// splitName decomposes a canonical person key into structural fields.
// Initials take the first rune of each token, so "j r r tolkien" and
// "john ronald reuel tolkien" both yield "jrrt".
func splitName(key string) NameParts {
	tokens := strings.Fields(key)
	if len(tokens) == 0 {
		return NameParts{}
	}
	var initials strings.Builder
	for _, tok := range tokens {
		r := []rune(tok)
		initials.WriteRune(r[0])
	}
	parts := NameParts{
		First:    tokens[0],
		Last:     tokens[len(tokens)-1],
		Initials: initials.String(),
	}
	if len(tokens) == 1 {
		parts.First = ""
	}
	return parts
}

// initialsOf derives initials for any canonical key, one rune per token.
func initialsOf(key string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(key) {
		b.WriteRune([]rune(tok)[0])
	}
	return b.String()
}

// abbreviated reports whether a canonical key contains initial-style tokens,
// e.g. "j r r tolkien".
func abbreviated(key string) bool {
	for _, tok := range strings.Fields(key) {
		if len([]rune(tok)) == 1 {
			return true
		}
	}
	return false
}
