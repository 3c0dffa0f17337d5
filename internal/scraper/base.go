// Define an interface for all scrapers
// Ensure consistency

package scraper

import "context"

// JobRecord is the listing an org scraper produces. URL may be empty to
// signal "no detail page". Description and PDFPath are only set by
// scrapers that capture the full posting during listing.
type JobRecord struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	PDFPath     string `json:"pdf_path,omitempty"`
}

// Scraper defines the interface that all org scrapers must implement.
type Scraper interface {
	// Scrape returns the org's current job listings.
	Scrape(ctx context.Context) ([]JobRecord, error)

	// Name is the scraper name for logging.
	Name() string
}
