package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"

	"go-vacancy-enricher/internal/fetch"
)

// LinkScraper is the generic HTML listing scraper: harvest deduplicated
// anchors whose href contains a pattern. Covers the many orgs whose
// career page is a plain server-rendered list.
type LinkScraper struct {
	client      *fetch.Client
	name        string
	pageURL     string
	baseURL     string
	hrefPattern string
	minTitleLen int
	exclude     []string
}

func NewLinkScraper(client *fetch.Client, name, pageURL, baseURL, hrefPattern string) *LinkScraper {
	return &LinkScraper{
		client:      client,
		name:        name,
		pageURL:     pageURL,
		baseURL:     baseURL,
		hrefPattern: hrefPattern,
		minTitleLen: 5,
	}
}

// WithExcludePatterns skips hrefs containing any of the given substrings.
func (s *LinkScraper) WithExcludePatterns(patterns ...string) *LinkScraper {
	s.exclude = patterns
	return s
}

func (s *LinkScraper) Name() string { return s.name }

func (s *LinkScraper) Scrape(ctx context.Context) ([]JobRecord, error) {
	html, err := s.client.FetchText(ctx, s.pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var jobs []JobRecord
	seen := mapset.NewSet[string]()
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" || !strings.Contains(href, s.hrefPattern) {
			return
		}
		if !seen.Add(href) {
			return
		}
		for _, p := range s.exclude {
			if strings.Contains(href, p) {
				return
			}
		}
		title := strings.Join(strings.Fields(link.Text()), " ")
		if len(title) < s.minTitleLen {
			return
		}
		jobs = append(jobs, JobRecord{Title: title, URL: normalizeURL(href, s.baseURL)})
	})
	return jobs, nil
}

// normalizeURL returns href as-is when absolute, else prefixes baseURL.
func normalizeURL(href, baseURL string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}
