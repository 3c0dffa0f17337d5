// The extractor cascade. Structured strategies are tried first, in fixed
// order, before generic HTML parsing; each one early-exits only on a
// confident non-empty result.

package extract

import (
	"context"
	"strings"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
	"go-vacancy-enricher/internal/pdflink"
)

// Strategy recognizes a class of site and produces text from its native
// data model. Implementations return empty, never an error, when the URL
// does not match or the payload is malformed; callers treat empty as
// "try the next strategy".
type Strategy interface {
	Name() string
	TryExtract(ctx context.Context, rawURL string) string
}

// Pipeline runs the full description extraction for one URL.
type Pipeline struct {
	client     *fetch.Client
	browser    *BrowserExtractor
	sites      config.SiteSets
	maxChars   int
	strategies []Strategy
}

func NewPipeline(cfg *config.Config, client *fetch.Client, browserExt *BrowserExtractor) *Pipeline {
	return &Pipeline{
		client:   client,
		browser:  browserExt,
		sites:    cfg.Sites,
		maxChars: cfg.MaxDescriptionChars,
		strategies: []Strategy{
			NewAPIBasedV2(client, cfg.Sites.APIBasedV2Domains, cfg.MaxDescriptionChars),
			NewPlatformA(client, cfg.Sites.PlatformADomains, cfg.MaxDescriptionChars),
			NewAPIBasedV1(client, cfg.Sites.APIBasedV1Domains, cfg.MaxDescriptionChars),
		},
	}
}

// Describe fetches a page and extracts the best description text,
// capped at the shared character budget.
func (p *Pipeline) Describe(ctx context.Context, rawURL string, usePlaywright bool) (string, error) {
	if usePlaywright {
		return p.browser.Extract(ctx, rawURL)
	}

	for _, s := range p.strategies {
		if desc := s.TryExtract(ctx, rawURL); desc != "" {
			return desc, nil
		}
	}

	html, err := p.client.FetchText(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if desc := ExtractNextJS(rawURL, html, p.sites.NextJSPlatforms, p.maxChars); desc != "" {
		return desc, nil
	}

	if IsLegacyATSURL(rawURL) {
		if desc := ExtractLegacyATS(html, p.maxChars); desc != "" {
			return desc, nil
		}
	}

	parsed := ParseHTML(html, p.maxChars)
	if IsShortOrPlaceholder(parsed) {
		// A thin page wrapping a PDF is the resolver's call, not ours.
		if pdflink.FindFirst(html, rawURL) != "" {
			return "", nil
		}
		if p.shouldTryBrowser(rawURL, parsed, html) {
			if rendered, err := p.browser.Extract(ctx, rawURL); err == nil && len(rendered) > len(parsed) {
				return rendered, nil
			}
		}
	}
	return parsed, nil
}

// shouldTryBrowser decides whether a short result warrants JS rendering.
func (p *Pipeline) shouldTryBrowser(rawURL, textContent, html string) bool {
	if HasJSMarker(textContent) {
		return true
	}
	host := fetch.URLHost(rawURL)
	if strings.Contains(host, "oraclecloud") || config.HostIn(p.sites.PlaywrightDomains, host) {
		return true
	}
	return strings.Contains(strings.ToLower(html), "enable javascript")
}
