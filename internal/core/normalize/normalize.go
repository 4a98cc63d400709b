// Package normalize canonicalizes location names into a comparison form.
// The steps run in a fixed order; each operates on the previous step's
// output, so reordering them changes results.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, so "Père"
// becomes "Pere".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Leading definite/partitive articles dropped when they are the first token.
var leadingArticles = map[string]struct{}{
	"the": {}, "le": {}, "la": {}, "les": {}, "du": {}, "de": {}, "des": {},
}

type synonym struct {
	pattern     *regexp.Regexp
	replacement string
}

func newSynonym(from, to string) synonym {
	return synonym{
		pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(from) + `\b`),
		replacement: to,
	}
}

// synonyms is applied once, in order, without re-scanning the result.
// Multi-word mappings come first so they win over their single-word parts.
// The ordering is load-bearing: the table is a sequential substitution list,
// not an equivalence-class canonicalizer.
var synonyms = []synonym{
	newSynonym("musee du louvre", "louvre museum"),
	newSynonym("jardin des tuileries", "tuileries garden"),
	newSynonym("notre dame de paris", "notre dame"),
	newSynonym("st", "saint"),
	newSynonym("musee", "museum"),
	newSynonym("jardins", "garden"),
	newSynonym("jardin", "garden"),
	newSynonym("gardens", "garden"),
	newSynonym("centre", "center"),
	newSynonym("theatre", "theater"),
	newSynonym("eglise", "church"),
	newSynonym("cathedrale", "cathedral"),
	newSynonym("palais", "palace"),
	newSynonym("tour", "tower"),
	newSynonym("pont", "bridge"),
	newSynonym("dorsay", "orsay"),
}

var (
	apostropheCompound = regexp.MustCompile(`\bd['’ ](\pL)`)
	nonWord            = regexp.MustCompile(`[^\pL\pN]+`)
	whitespace         = regexp.MustCompile(`\s+`)
)

// Name returns the canonical comparison form of a location name. An empty or
// blank name normalizes to "", which the scorer treats as maximally
// dissimilar to everything, including another empty name.
func Name(s string) string {
	s = strings.ToLower(s)

	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}

	s = strings.TrimSpace(s)
	if first, rest, ok := strings.Cut(s, " "); ok {
		if _, isArticle := leadingArticles[first]; isArticle {
			s = rest
		}
	}

	// Collapse d'/d-space compounds before the synonym pass, so "musee
	// d'orsay" and "musee d orsay" reach the table in the same shape.
	s = apostropheCompound.ReplaceAllString(s, "d$1")

	for _, syn := range synonyms {
		s = syn.pattern.ReplaceAllString(s, syn.replacement)
	}

	s = nonWord.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits a normalized name into its words.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// KeyTokens keeps only the discriminating words of a normalized name, i.e.
// tokens longer than 3 characters.
func KeyTokens(normalized string) []string {
	var keys []string
	for _, tok := range Tokens(normalized) {
		if len([]rune(tok)) > 3 {
			keys = append(keys, tok)
		}
	}
	return keys
}
