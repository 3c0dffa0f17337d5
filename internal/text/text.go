// Text normalization helpers shared by slug generation and scoring.

package text

import (
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`[\s_]+`)
	slugCollapse = regexp.MustCompile(`-+`)
	wordToken    = regexp.MustCompile(`[a-z0-9]{4,}`)
)

var stopwords = mapset.NewSet(
	"with", "from", "into", "the", "and", "for", "this", "that", "your", "our", "about",
)

// Normalize lowercases and strips diacritics so titles from accented
// locales produce stable slugs and token sets.
func Normalize(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// Slugify converts text to a filesystem-safe slug capped at maxLen.
func Slugify(text string, maxLen int) string {
	s := strings.TrimSpace(Normalize(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = strings.Trim(slugCollapse.ReplaceAllString(s, "-"), "-")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// NormWords extracts the set of significant lowercase tokens (4+ chars,
// stopwords removed) used for title-overlap scoring.
func NormWords(text string) mapset.Set[string] {
	words := mapset.NewSet[string]()
	for _, w := range wordToken.FindAllString(strings.ToLower(text), -1) {
		if !stopwords.Contains(w) {
			words.Add(w)
		}
	}
	return words
}
