package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func nextJSPage(t *testing.T, props map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"props": map[string]any{"pageProps": props}})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return fmt.Sprintf(`<html><body><div id="__next">Loading...</div>
		<script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`, payload)
}

func TestExtractNextJSPicksDescriptionLeaf(t *testing.T) {
	platforms := mapset.NewSet("jobs.ashbyhq.com")
	description := "<p>" + strings.Repeat("Own the data platform roadmap and mentor the engineering team. ", 6) + "</p>"
	noise := strings.Repeat("Privacy policy and imprint, cookie consent details for every visitor of the site. ", 6)

	html := nextJSPage(t, map[string]any{
		"jobPosting": map[string]any{"description": description},
		"footer":     noise,
	})

	got := ExtractNextJS("https://jobs.ashbyhq.com/acme/123", html, platforms, 50_000)

	assert.Contains(t, got, "Own the data platform roadmap")
	assert.NotContains(t, got, "Privacy policy")
	//html in the leaf is stripped
	assert.NotContains(t, got, "<p>")
}

func TestExtractNextJSUnknownPlatform(t *testing.T) {
	platforms := mapset.NewSet("jobs.ashbyhq.com")
	html := nextJSPage(t, map[string]any{
		"jobPosting": map[string]any{"description": strings.Repeat("Long enough description text for a candidate leaf here. ", 10)},
	})

	assert.Equal(t, "", ExtractNextJS("https://careers.other.org/123", html, platforms, 50_000))
}

func TestExtractNextJSRejectsWeakCandidates(t *testing.T) {
	platforms := mapset.NewSet("jobs.ashbyhq.com")

	//no payload script at all
	assert.Equal(t, "", ExtractNextJS("https://jobs.ashbyhq.com/acme/1", "<html><body></body></html>", platforms, 50_000))

	//only a short leaf under a description key
	html := nextJSPage(t, map[string]any{"description": "Too short."})
	assert.Equal(t, "", ExtractNextJS("https://jobs.ashbyhq.com/acme/1", html, platforms, 50_000))
}
