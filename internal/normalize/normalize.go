// Package normalize provides the text normalization that feeds work-identity
// computation: title and author keys, language codes, and the permanent
// work ID itself.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pwidNamespace seeds the MD5-based permanent work IDs so they never collide
// with IDs minted by other systems.
var pwidNamespace = uuid.MustParse("9781feee-7a85-4d16-9b7c-40b2bd3bb0f1")

// PermanentWorkID derives the deterministic identity key for a work from its
// normalized title, author and medium. Two records with the same key are
// presumed to describe the same intellectual work.
func PermanentWorkID(title, author, medium string) string {
	key := TitleKey(title) + "|" + AuthorKey(author) + "|" + strings.ToLower(medium)
	return uuid.NewMD5(pwidNamespace, []byte(key)).String()
}

var (
	leadingArticle = regexp.MustCompile(`^(the|a|an)\s+`)
	parenthetical  = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	punctuation    = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// TitleKey normalizes a title for identity comparison: case and diacritics
// are folded, a trailing parenthetical is dropped, a leading English article
// is stripped, punctuation is removed and whitespace collapsed.
func TitleKey(title string) string {
	t := foldText(title)
	t = parenthetical.ReplaceAllString(t, "")
	t = leadingArticle.ReplaceAllString(t, "")
	t = punctuation.ReplaceAllString(t, " ")
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

var (
	authorDates = regexp.MustCompile(`,?\s*\(?\d{4}\s*-\s*(\d{4})?\)?\.?$`)
	authorRoles = regexp.MustCompile(`,?\s*(ed\.?|editor|trans\.?|translator|comp\.?|compiler|illustrator)$`)
)

// AuthorKey normalizes an author name for identity comparison. Cataloging
// artifacts like life dates ("Austen, Jane, 1775-1817") and role suffixes
// are dropped before folding.
func AuthorKey(author string) string {
	a := strings.TrimSpace(author)
	a = authorDates.ReplaceAllString(a, "")
	a = foldText(a)
	a = authorRoles.ReplaceAllString(a, "")
	a = punctuation.ReplaceAllString(a, " ")
	a = whitespace.ReplaceAllString(a, " ")
	a = strings.TrimSpace(a)
	if a == "" {
		return "[unknown]"
	}
	return a
}

// foldText lowercases and strips diacritics: "Brontë" and "Bronte" must
// produce the same identity key.
func foldText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// SortTitle returns the title with a leading English article moved to the
// end ("The Moonstone" -> "Moonstone, The"). Used for display ordering,
// not identity.
func SortTitle(title string) string {
	trimmed := strings.TrimSpace(title)
	lower := strings.ToLower(trimmed)
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, article) {
			body := strings.TrimSpace(trimmed[len(article):])
			return body + ", " + trimmed[:len(article)-1]
		}
	}
	return trimmed
}
