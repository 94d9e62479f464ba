// Package slug turns free text into URL-safe, hyphenated tokens.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// space is every ASCII whitespace rune, including \v and the
// \x1c-\x1f separators that RE2's \s leaves out.
const space = `\t\n\v\f\r \x1c-\x1f`

var (
	disallowed = regexp.MustCompile(`[^A-Za-z0-9_` + space + `-]`)
	separators = regexp.MustCompile(`[-` + space + `]+`)
)

// Slugify lowercases s, folds accented letters to ASCII, drops everything that
// is not a letter, digit, underscore, hyphen or whitespace, and joins the
// remaining words with single hyphens. "Côte d'Ivoire" becomes "cote-divoire".
// Empty or punctuation-only input yields "".
func Slugify(s string) string {
	ascii, _, err := transform.String(asciiFold(), s)
	if err != nil {
		// NFKD and rune removal never fail on valid input; fall back to the raw text.
		ascii = s
	}
	ascii = disallowed.ReplaceAllString(ascii, "")
	ascii = strings.ToLower(strings.Trim(ascii, "\t\n\v\f\r \x1c\x1d\x1e\x1f"))
	ascii = separators.ReplaceAllString(ascii, "-")
	return strings.Trim(ascii, "-")
}

// asciiFold decomposes characters (é -> e + U+0301) and drops every non-ASCII rune.
// A transformer is stateful, so a fresh chain is built per call.
func asciiFold() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
}
