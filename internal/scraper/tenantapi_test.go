package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantAPIScraperPaginates(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		offsets = append(offsets, req.Offset)

		postings := make([]map[string]string, 0, req.Limit)
		for i := req.Offset; i < req.Offset+req.Limit && i < 25; i++ {
			postings = append(postings, map[string]string{
				"title":         fmt.Sprintf("Job %d", i),
				"externalPath":  fmt.Sprintf("/job/Vienna/Job-%d", i),
				"locationsText": "Vienna, Austria",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"total": 25, "jobPostings": postings})
	}))
	defer srv.Close()

	s := NewTenantAPIScraper(newTestClient(), "Workday Org",
		"https://wde.wd3.myworkdayjobs.com", srv.URL+"/wday/cxs/wde/Careers/jobs")

	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)

	assert.Len(t, jobs, 25)
	assert.Equal(t, []int{0, 20}, offsets)
	//externalPath is rebuilt under the site segment from the api url
	assert.Equal(t, "https://wde.wd3.myworkdayjobs.com/Careers/job/Vienna/Job-0", jobs[0].URL)
	assert.Equal(t, "Vienna, Austria", jobs[0].Location)
}

func TestTenantAPIScraperKeepsSitePrefixedPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total": 1, "jobPostings": [
			{"title": "Job", "externalPath": "/Careers/job/Remote/Job-1"}
		]}`)
	}))
	defer srv.Close()

	s := NewTenantAPIScraper(newTestClient(), "Workday Org",
		"https://wde.wd3.myworkdayjobs.com", srv.URL+"/wday/cxs/wde/Careers/jobs")

	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://wde.wd3.myworkdayjobs.com/Careers/job/Remote/Job-1", jobs[0].URL)
}

func TestTenantAPIScraperEmptyTenant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total": 0, "jobPostings": []}`)
	}))
	defer srv.Close()

	s := NewTenantAPIScraper(newTestClient(), "Workday Org",
		"https://wde.wd3.myworkdayjobs.com", srv.URL+"/wday/cxs/wde/Careers/jobs")

	jobs, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
