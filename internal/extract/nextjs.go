package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
)

// Scoring knobs for payload candidates. A description-ish key path earns a
// bonus, navigation/consent boilerplate a penalty, and anything scoring
// under nextJSMinScore is rejected outright.
const (
	nextJSMinLeafChars = 180
	nextJSMinScore     = 80
	nextJSPathBonus    = 250
	nextJSNoisePenalty = 500
)

var nextJSKeyMarkers = []string{
	"description",
	"jobdescription",
	"job_description",
	"responsibil",
	"profile",
	"qualification",
	"requirement",
	"offer",
	"about",
}

var nextJSNoiseMarkers = []string{
	"job list",
	"please confirm this action",
	"privacy policy",
	"imprint",
	"navigation",
}

// ExtractNextJS pulls the best description candidate out of a Next.js
// application payload embedded in the page's __NEXT_DATA__ script tag.
// Only known JS-framework platforms are considered.
func ExtractNextJS(rawURL, html string, platforms mapset.Set[string], maxChars int) string {
	if !config.HostIn(platforms, fetch.URLHost(rawURL)) {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	raw := doc.Find("script#__NEXT_DATA__").Text()
	if raw == "" {
		return ""
	}

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ""
	}

	best := ""
	bestScore := -1

	var walk func(node any, path string)
	walk = func(node any, path string) {
		switch v := node.(type) {
		case map[string]any:
			for k, child := range v {
				next := strings.ToLower(k)
				if path != "" {
					next = path + "." + next
				}
				walk(child, next)
			}
		case []any:
			for _, item := range v {
				walk(item, path)
			}
		case string:
			candidate := StripHTML(v)
			if len(candidate) < nextJSMinLeafChars {
				return
			}
			lowered := strings.ToLower(candidate)
			score := len(strings.Fields(candidate))
			for _, m := range nextJSKeyMarkers {
				if strings.Contains(path, m) {
					score += nextJSPathBonus
					break
				}
			}
			for _, m := range nextJSNoiseMarkers {
				if strings.Contains(lowered, m) {
					score -= nextJSNoisePenalty
					break
				}
			}
			if strings.Contains(lowered, "job list") && strings.Contains(lowered, "confirm") {
				score -= nextJSNoisePenalty
			}
			if score > bestScore {
				bestScore = score
				best = candidate
			}
		}
	}
	walk(data, "")

	if bestScore < nextJSMinScore {
		return ""
	}
	return Truncate(best, maxChars)
}
