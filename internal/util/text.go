package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reNonAlnum  = regexp.MustCompile(`[^a-z0-9 ]+`)
	reQtyPrefix = regexp.MustCompile(`^\d+\s*[xX]\s*`)
	reBlueprint = regexp.MustCompile(`(?i)\s+blueprint$`)
)

// diacritic folding: NFKD decomposition, then drop combining marks so
// accented source text matches ASCII catalog names.
var foldTransform = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize trims, lowercases and collapses internal whitespace runs to
// single spaces. Pure, total and idempotent.
func Normalize(input string) string {
	s := strings.ToLower(input)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeNoPunct is Normalize with everything outside [a-z0-9 ] stripped.
func NormalizeNoPunct(input string) string {
	s := Normalize(input)
	s = reNonAlnum.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func FoldDiacritics(input string) string {
	folded, _, err := transform.String(foldTransform, input)
	if err != nil {
		return Normalize(input)
	}
	return Normalize(folded)
}

// StripQtyPrefix removes a leading quantity token like "300X " or "5 x ".
// No-op when absent.
func StripQtyPrefix(input string) string {
	return reQtyPrefix.ReplaceAllString(input, "")
}

// StripBlueprintSuffix removes a trailing " Blueprint" so "Lavos Blueprint"
// joins the catalog entry "Lavos".
func StripBlueprintSuffix(input string) string {
	return reBlueprint.ReplaceAllString(input, "")
}

// ToToken produces an ID-safe segment: NormalizeNoPunct with internal spaces
// replaced by hyphens.
func ToToken(input string) string {
	s := NormalizeNoPunct(input)
	return strings.ReplaceAll(s, " ", "-")
}

// NameKey reduces free text from any dataset to the key collectors and the
// resolver join on. Quantity prefixes and blueprint suffixes are dropped so
// "300X Alloy Plate" and "Lavos Blueprint" land on their catalog entries.
func NameKey(input string) string {
	s := FoldDiacritics(input)
	s = StripQtyPrefix(s)
	s = StripBlueprintSuffix(s)
	return NormalizeNoPunct(s)
}
