// Embedded-PDF detection: find candidate PDF links inside a fetched HTML
// page, score them against the job title, and pick the vacancy notice
// among co-hosted compliance/manual PDFs.

package pdflink

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// Candidate is a possible vacancy-notice PDF found in a page. Transient:
// scored, maybe downloaded, never persisted.
type Candidate struct {
	URL     string
	Text    string
	Context string
}

var (
	absolutePDFURL = regexp.MustCompile(`(?i)https?://[^\s"'<>]+?\.pdf(?:\?[^\s"'<>]*)?`)
	relativePDFURL = regexp.MustCompile(`(?i)/[^\s"'<>]+?\.pdf(?:\?[^\s"'<>]*)?`)
)

func resolveURL(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// FindFirst returns the first anchor that looks like a PDF link, or an
// anchor labeled as a PDF download without .pdf in its URL. Used by the
// HTML pipeline to decide whether a thin page is just a shell around a PDF.
func FindFirst(html, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if strings.Contains(strings.ToLower(href), ".pdf") {
			found = resolveURL(pageURL, href)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	// Some portals expose "Download PDF" buttons without .pdf in the URL.
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		label := strings.ToLower(strings.Join(strings.Fields(link.Text()), " "))
		if strings.Contains(label, "download pdf") ||
			(strings.Contains(label, "pdf") && strings.Contains(label, "download")) {
			found = resolveURL(pageURL, href)
			return false
		}
		return true
	})
	return found
}

// ExtractCandidates scans anchors mentioning PDFs and regex-scans the raw
// HTML for bare .pdf URLs, since some sites embed them only inside JSON
// blobs. Deduplicated by resolved absolute URL.
func ExtractCandidates(html, pageURL string) []Candidate {
	var candidates []Candidate
	seen := mapset.NewSet[string]()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			if href == "" {
				return
			}
			linkText := strings.Join(strings.Fields(link.Text()), " ")
			lowered := strings.ToLower(linkText + " " + href)
			if !strings.Contains(strings.ToLower(href), ".pdf") &&
				!strings.Contains(strings.ToLower(linkText), "pdf") &&
				!strings.Contains(lowered, "download pdf") {
				return
			}
			full := resolveURL(pageURL, href)
			if !seen.Add(full) {
				return
			}
			context := ""
			if parent := link.Parent(); parent.Length() > 0 {
				context = strings.Join(strings.Fields(parent.Text()), " ")
				if len(context) > 400 {
					context = context[:400]
				}
			}
			candidates = append(candidates, Candidate{URL: full, Text: linkText, Context: context})
		})
	}

	// JSON blobs escape slashes, so unescape before the raw scan.
	normalized := strings.ReplaceAll(html, `\/`, "/")
	rawURLs := absolutePDFURL.FindAllString(normalized, -1)
	for _, rel := range relativePDFURL.FindAllString(normalized, -1) {
		rawURLs = append(rawURLs, resolveURL(pageURL, rel))
	}
	for _, full := range rawURLs {
		if !seen.Add(full) {
			continue
		}
		candidates = append(candidates, Candidate{URL: full})
	}

	return candidates
}
