package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func TestPlatformAExtract(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobPostingInfo": {"jobDescription": "<p>Designs data pipelines for the analytics platform.</p>"}}`))
	}))
	defer srv.Close()

	e := NewPlatformA(newTestClient(), mapset.NewSet("127.0.0.1"), 50_000)

	got := e.TryExtract(context.Background(), srv.URL+"/Careers/job/Vienna/Data-Engineer_JR-1001/apply")

	assert.Equal(t, "Designs data pipelines for the analytics platform.", got)
	//tenant comes from the host, /apply is stripped from the slug
	assert.True(t, strings.HasPrefix(gotPath, "/wday/cxs/127/Careers/job/Vienna/Data-Engineer_JR-1001"), "unexpected api path %q", gotPath)
}

func TestPlatformALocaleSegment(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobPostingInfo": {"description": "<p>Coordinates translation workflows.</p>"}}`))
	}))
	defer srv.Close()

	e := NewPlatformA(newTestClient(), mapset.NewSet("127.0.0.1"), 50_000)

	got := e.TryExtract(context.Background(), srv.URL+"/External/en-us/job/Linguist_JR-2002")

	assert.Equal(t, "Coordinates translation workflows.", got)
	//the locale segment between the site and "job" is skipped
	assert.Equal(t, "/wday/cxs/127/External/job/Linguist_JR-2002", gotPath)
}

func TestPlatformANoJobSegment(t *testing.T) {
	e := NewPlatformA(newTestClient(), mapset.NewSet("127.0.0.1"), 50_000)

	assert.Equal(t, "", e.TryExtract(context.Background(), "http://127.0.0.1/Careers/openings"))
}
