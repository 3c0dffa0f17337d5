package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector cascade for pages with no structured strategy, ordered from
// explicit description containers down to the whole body.
var selectorCandidates = []string{
	"[itemprop='description']",
	"[data-careersite-propertyid='description']",
	".jobdescription",
	"div.gestmax-container",
	"div.gestmax-template-container",
	"div#requisitionDescription",
	"div#requisitionDescriptionInterface",
	"article",
	"main",
	"[class*='job-description']",
	"[id*='job-description']",
	"[class*='description']",
	"[id*='description']",
	"body",
}

// earlyStopChars ends the cascade once a selector produced this much text;
// more generic selectors below it only add boilerplate.
const earlyStopChars = 250

// ParseHTML extracts the main descriptive text from a rendered page.
// Within each selector the longest cleaned match wins.
func ParseHTML(html string, maxChars int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, header, footer").Remove()

	best := ""
	for _, selector := range selectorCandidates {
		doc.Find(selector).Each(func(_ int, node *goquery.Selection) {
			candidate := CleanText(NodeText(node))
			if len(candidate) > len(best) {
				best = candidate
			}
		})
		if len(best) >= earlyStopChars {
			break
		}
	}
	return Truncate(best, maxChars)
}
