package resolver

import "strings"

// Enrichment status taxonomy. Automated quality checks key off these
// exact strings; do not rename.
const (
	StatusOK            = "ok"
	StatusPDF           = "pdf"
	StatusShortContent  = "short_content"
	StatusJSRequired    = "js_required"
	StatusNoDetailURL   = "no_detail_url"
	StatusBlockedSource = "blocked_source"
	StatusBrokenLink    = "broken_link"
	StatusError         = "error"
)

const (
	ReasonHTTP429            = "http_429"
	ReasonHTTP403            = "http_403"
	ReasonHTTP404            = "http_404"
	ReasonSSLError           = "ssl_error"
	ReasonInvalidURL         = "invalid_url"
	ReasonFetchError         = "fetch_error"
	ReasonMissingURL         = "missing_url"
	ReasonOrgRateLimitedSkip = "org_rate_limited_skip"
	ReasonCached             = "cached"
	ReasonScraperDetail      = "scraper_detail"
	ReasonPlaywrightFallback = "playwright_fallback"
	ReasonShortDescription   = "short_description"
	ReasonEmbeddedPDF        = "embedded_pdf"
	ReasonEmbeddedPDFPref    = "embedded_pdf_preferred"
	ReasonTableDownload      = "table_download_button"
)

// ClassifyFetchError maps a transport failure onto the stable
// (status, reason) taxonomy by matching the error message. Checks run in
// order; the first match wins.
func ClassifyFetchError(err error) (status, reason string) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return StatusBlockedSource, ReasonHTTP429
	case strings.Contains(msg, "403") || strings.Contains(msg, "forbidden"):
		return StatusBlockedSource, ReasonHTTP403
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return StatusBrokenLink, ReasonHTTP404
	case strings.Contains(msg, "ssl") || strings.Contains(msg, "certificate"):
		return StatusBlockedSource, ReasonSSLError
	case strings.Contains(msg, "invalid url") || strings.Contains(msg, "no scheme supplied"):
		return StatusBrokenLink, ReasonInvalidURL
	default:
		return StatusError, ReasonFetchError
	}
}
