// Text extraction and cleanup primitives shared by every strategy.

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

var tripleNewlines = regexp.MustCompile(`\n{3,}`)

// Lines matching these exactly (case-insensitive) are chrome left behind
// by career-site templates, not description content.
var uiNoiseLines = mapset.NewSet(
	"view profile",
	"employee login",
	"create/ view profile",
	"language",
	"loading",
)

// JSPlaceholderMarkers indicate a page that only renders via JavaScript.
var JSPlaceholderMarkers = []string{
	"you need to enable javascript",
	"loading application",
	"loading\n.\n.\n.",
	"please wait",
}

// CleanText collapses runs of blank lines, unescapes the \: and \;
// sequences legacy templates emit, and drops known UI-noise lines.
func CleanText(text string) string {
	text = tripleNewlines.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, `\:`, ":")
	text = strings.ReplaceAll(text, `\;`, ";")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || uiNoiseLines.Contains(strings.ToLower(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Truncate caps text at max bytes. Descriptions share one budget so
// downstream documents stay bounded.
func Truncate(text string, max int) string {
	if max > 0 && len(text) > max {
		return text[:max]
	}
	return text
}

// NodeText renders a selection's text content with newline separators
// between text nodes, the way descriptions are meant to read.
func NodeText(sel *goquery.Selection) string {
	var parts []string
	collectText(sel, &parts)
	return strings.Join(parts, "\n")
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#text" {
			if t := strings.TrimSpace(s.Text()); t != "" {
				*parts = append(*parts, t)
			}
			return
		}
		if name == "script" || name == "style" {
			return
		}
		collectText(s, parts)
	})
}

// StripHTML converts an HTML fragment to cleaned plain text.
func StripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return CleanText(NodeText(doc.Selection))
}

// HasJSMarker reports whether text contains a known "requires JavaScript"
// boilerplate phrase.
func HasJSMarker(textContent string) bool {
	lowered := strings.ToLower(textContent)
	for _, marker := range JSPlaceholderMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// IsShortOrPlaceholder is the shared "not a real description" test:
// under 120 characters, under 50 words, or JS placeholder boilerplate.
func IsShortOrPlaceholder(textContent string) bool {
	trimmed := strings.TrimSpace(textContent)
	if len(trimmed) < 120 || len(strings.Fields(textContent)) < 50 {
		return true
	}
	return HasJSMarker(textContent)
}
