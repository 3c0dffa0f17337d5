package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
)

func newTestClient() *fetch.Client {
	cfg := &config.Config{
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
		Sites:          config.SiteSets{SSLInsecureDomains: mapset.NewSet[string]()},
	}
	return fetch.NewClient(cfg)
}

const listingHTML = `<html><body>
	<a href="/vacancies/101">Senior Legal Officer</a>
	<a href="/vacancies/101">Senior Legal Officer</a>
	<a href="/vacancies/102">Data   Analyst
		(P-2)</a>
	<a href="/vacancies/archive/99">Old Posting</a>
	<a href="/vacancies/103">...</a>
	<a href="/about">About us</a>
</body></html>`

func TestLinkScraperScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	s := NewLinkScraper(newTestClient(), "Example Org", srv.URL+"/jobs", "https://careers.example.int", "/vacancies/").
		WithExcludePatterns("/archive/")

	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, "Senior Legal Officer", jobs[0].Title)
	assert.Equal(t, "https://careers.example.int/vacancies/101", jobs[0].URL)
	//whitespace in anchor text is collapsed
	assert.Equal(t, "Data Analyst (P-2)", jobs[1].Title)
}

func TestLinkScraperAbsoluteHrefsKeptVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="https://ats.example.int/vacancies/7">External Posting</a></body></html>`)
	}))
	defer srv.Close()

	s := NewLinkScraper(newTestClient(), "Example Org", srv.URL, "https://careers.example.int", "/vacancies/")

	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://ats.example.int/vacancies/7", jobs[0].URL)
}

func TestLinkScraperListingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewLinkScraper(newTestClient(), "Example Org", srv.URL, srv.URL, "/vacancies/")

	_, err := s.Scrape(context.Background())
	assert.Error(t, err)
}
