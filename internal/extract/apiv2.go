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

var vacancyUUIDPath = regexp.MustCompile(`(?i)/vacancy/([0-9a-f]{16,32})`)

// APIBasedV2 handles REST recruitment systems with per-vacancy endpoints:
// /vacancy/{hex-id} detail pages backed by /api/Vacancy/{hex-id}.
type APIBasedV2 struct {
	client   *fetch.Client
	domains  mapset.Set[string]
	maxChars int
}

func NewAPIBasedV2(client *fetch.Client, domains mapset.Set[string], maxChars int) *APIBasedV2 {
	return &APIBasedV2{client: client, domains: domains, maxChars: maxChars}
}

func (e *APIBasedV2) Name() string { return "api_based_v2" }

type apiV2Payload struct {
	Title          string `json:"title"`
	Reference      string `json:"reference"`
	Description    string `json:"description"`
	Qualifications string `json:"qualifications"`
	Skills         string `json:"skills"`
	Requirements   string `json:"requirements"`
	Conditions     string `json:"conditions"`
}

func (e *APIBasedV2) TryExtract(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !config.HostIn(e.domains, strings.ToLower(parsed.Host)) {
		return ""
	}
	m := vacancyUUIDPath.FindStringSubmatch(parsed.Path)
	if m == nil {
		return ""
	}

	apiURL := fmt.Sprintf("%s://%s/api/Vacancy/%s", parsed.Scheme, parsed.Host, m[1])

	var payload apiV2Payload
	if err := e.client.GetJSON(ctx, apiURL, "application/json, text/plain, */*", &payload); err != nil {
		return ""
	}
	return Truncate(apiV2PayloadToText(payload), e.maxChars)
}

// apiV2PayloadToText builds a titled multi-section document from the
// payload's named fields, each HTML-stripped.
func apiV2PayloadToText(payload apiV2Payload) string {
	sections := []struct {
		heading string
		raw     string
	}{
		{"Description", payload.Description},
		{"Qualifications", payload.Qualifications},
		{"Skills", payload.Skills},
		{"Requirements", payload.Requirements},
		{"Conditions", payload.Conditions},
	}

	var parts []string
	for _, s := range sections {
		if strings.TrimSpace(s.raw) == "" {
			continue
		}
		if body := StripHTML(s.raw); body != "" {
			parts = append(parts, s.heading+"\n"+body)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	var header []string
	if t := strings.TrimSpace(payload.Title); t != "" {
		header = append(header, t)
	}
	if r := strings.TrimSpace(payload.Reference); r != "" {
		header = append(header, r)
	}
	if len(header) > 0 {
		parts = append([]string{strings.Join(header, "\n")}, parts...)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
