package pdflink

import (
	"context"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// TypeChecker confirms a candidate URL actually serves a PDF before it is
// selected. Satisfied by fetch.Client.
type TypeChecker interface {
	DetectContentType(ctx context.Context, rawURL string) string
}

// Selector picks the embedded PDF worth downloading, if any. Orgs whose
// HTML pages are thin shells around the true PDF get a lower score bar.
type Selector struct {
	checker            TypeChecker
	preferredOrgs      mapset.Set[string]
	threshold          int
	preferredThreshold int
}

func NewSelector(checker TypeChecker, preferredOrgs mapset.Set[string], threshold, preferredThreshold int) *Selector {
	return &Selector{
		checker:            checker,
		preferredOrgs:      preferredOrgs,
		threshold:          threshold,
		preferredThreshold: preferredThreshold,
	}
}

// Prefers reports whether the org is flagged as PDF-preferring.
func (s *Selector) Prefers(orgAbbrev string) bool {
	return s.preferredOrgs.Contains(strings.ToUpper(orgAbbrev))
}

// Select returns the best-scoring candidate above the org's threshold
// whose content type is confirmed pdf, or empty if none qualifies.
func (s *Selector) Select(ctx context.Context, html, pageURL, title, orgAbbrev string) string {
	candidates := ExtractCandidates(html, pageURL)
	if len(candidates) == 0 {
		return ""
	}

	type scored struct {
		score int
		url   string
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{score: Score(c, title), url: c.URL})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	threshold := s.threshold
	if s.Prefers(orgAbbrev) {
		threshold = s.preferredThreshold
	}

	for _, r := range ranked {
		if r.url == "" || r.score < threshold {
			continue
		}
		if s.checker.DetectContentType(ctx, r.url) != "pdf" {
			continue
		}
		return r.url
	}
	return ""
}
