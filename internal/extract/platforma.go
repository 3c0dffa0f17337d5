package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
)

var localeSegment = regexp.MustCompile(`(?i)^[a-z]{2}-[a-z]{2}$`)

// PlatformA extracts descriptions from enterprise HR suite career sites.
// Their detail URLs are /{site}/job/{slug} and the posting is served as
// JSON at /wday/cxs/{tenant}/{site}/job/{slug}.
type PlatformA struct {
	client   *fetch.Client
	domains  mapset.Set[string]
	maxChars int
}

func NewPlatformA(client *fetch.Client, domains mapset.Set[string], maxChars int) *PlatformA {
	return &PlatformA{client: client, domains: domains, maxChars: maxChars}
}

func (e *PlatformA) Name() string { return "platform_a" }

func (e *PlatformA) TryExtract(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if !config.HostIn(e.domains, host) {
		return ""
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/apply")

	parts := splitPath(path)
	jobIdx := -1
	for i, p := range parts {
		if p == "job" {
			jobIdx = i
			break
		}
	}
	if jobIdx <= 0 {
		return ""
	}

	site := parts[jobIdx-1]
	// Some tenants insert a locale segment (e.g. en-us) before "job".
	if localeSegment.MatchString(site) && jobIdx >= 2 {
		site = parts[jobIdx-2]
	}
	slug := strings.Join(parts[jobIdx+1:], "/")
	if slug == "" {
		return ""
	}

	tenant := strings.SplitN(host, ".", 2)[0]
	apiURL := fmt.Sprintf("%s://%s/wday/cxs/%s/%s/job/%s", parsed.Scheme, parsed.Host, tenant, site, slug)

	var payload struct {
		JobPostingInfo struct {
			JobDescription string `json:"jobDescription"`
			Description    string `json:"description"`
		} `json:"jobPostingInfo"`
	}
	if err := e.client.GetJSON(ctx, apiURL, "application/json", &payload); err != nil {
		return ""
	}

	descHTML := payload.JobPostingInfo.JobDescription
	if descHTML == "" {
		descHTML = payload.JobPostingInfo.Description
	}
	if descHTML == "" {
		return ""
	}
	return Truncate(StripHTML(descHTML), e.maxChars)
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
