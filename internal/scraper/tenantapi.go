package scraper

import (
	"context"
	"strings"

	"go-vacancy-enricher/internal/fetch"
)

// TenantAPIScraper walks the paginated job-postings JSON API exposed by
// multi-tenant HR platforms. The site segment is derived from the API URL
// so externalPath values can be rebuilt into detail URLs.
type TenantAPIScraper struct {
	client  *fetch.Client
	name    string
	baseURL string
	apiURL  string
	limit   int
}

func NewTenantAPIScraper(client *fetch.Client, name, baseURL, apiURL string) *TenantAPIScraper {
	return &TenantAPIScraper{
		client:  client,
		name:    name,
		baseURL: baseURL,
		apiURL:  apiURL,
		limit:   20,
	}
}

func (s *TenantAPIScraper) Name() string { return s.name }

type tenantAPIPage struct {
	Total       int `json:"total"`
	JobPostings []struct {
		Title         string `json:"title"`
		ExternalPath  string `json:"externalPath"`
		LocationsText string `json:"locationsText"`
	} `json:"jobPostings"`
}

func (s *TenantAPIScraper) sitePrefix() string {
	parts := strings.Split(strings.TrimRight(s.apiURL, "/"), "/")
	site := "External"
	if len(parts) >= 2 {
		site = parts[len(parts)-2]
	}
	return "/" + site
}

func (s *TenantAPIScraper) Scrape(ctx context.Context) ([]JobRecord, error) {
	sitePrefix := s.sitePrefix()

	var jobs []JobRecord
	offset := 0
	for {
		payload := map[string]any{
			"appliedFacets": map[string]any{},
			"limit":         s.limit,
			"offset":        offset,
			"searchText":    "",
		}
		var page tenantAPIPage
		if err := s.client.PostJSON(ctx, s.apiURL, payload, &page); err != nil {
			// Some tenants occasionally return HTML maintenance pages.
			// Treat that as no postings instead of failing the org.
			if len(jobs) > 0 {
				return jobs, nil
			}
			return nil, err
		}
		if len(page.JobPostings) == 0 {
			break
		}

		for _, posting := range page.JobPostings {
			path := posting.ExternalPath
			if path != "" && !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			// The API commonly hands back /job/... while the site serves
			// /<site>/job/...; normalize to the latter.
			if !strings.HasPrefix(path, sitePrefix+"/") {
				path = sitePrefix + path
			}
			jobs = append(jobs, JobRecord{
				Title:    posting.Title,
				URL:      s.baseURL + path,
				Location: posting.LocationsText,
			})
		}

		offset += s.limit
		if offset >= page.Total {
			break
		}
	}
	return jobs, nil
}
