package pdflink

import (
	"strings"

	"go-vacancy-enricher/internal/text"
)

// Markers that push a candidate toward or away from being the actual
// vacancy notice. Grade-code fragments ("ta ", "ad ", "ast") appear in
// institutional reference numbers.
var positiveMarkers = []string{
	"vacancy",
	"vacancy notice",
	"vacancy_notice",
	"notice",
	"call for expression",
	"call for expressions",
	"job profile",
	"job description",
	"recruitment",
	"position",
	"reference",
	"srb/",
	"vn-",
	"ta ",
	"ad ",
	"ast",
	"ca fg",
}

var negativeMarkers = []string{
	"candidate manual",
	"online application manual",
	"manual",
	"privacy notice",
	"data protection notice",
	"cookie",
	"gdpr",
}

// Score ranks a candidate for a given job title. Title-word overlap is the
// deciding signal between near-tied candidates: career sites co-host
// unrelated compliance PDFs whose keywords alone score too well.
func Score(c Candidate, title string) int {
	blob := strings.ToLower(c.URL + " " + c.Text + " " + c.Context)
	loweredURL := strings.ToLower(c.URL)

	score := 0
	if strings.Contains(loweredURL, ".pdf") {
		score += 60
	}
	if strings.Contains(blob, "download") {
		score += 15
	}

	for _, marker := range positiveMarkers {
		if strings.Contains(blob, marker) {
			score += 45
		}
	}
	for _, marker := range negativeMarkers {
		if strings.Contains(blob, marker) {
			score -= 120
		}
	}
	if strings.Contains(loweredURL, ".docx") || strings.Contains(loweredURL, ".doc") {
		score -= 200
	}
	if strings.Contains(blob, "application form") {
		score -= 120
	}

	overlap := text.NormWords(title).Intersect(text.NormWords(blob)).Cardinality()
	bonus := overlap * 20
	if bonus > 120 {
		bonus = 120
	}
	return score + bonus
}
