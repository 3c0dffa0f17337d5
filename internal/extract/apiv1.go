package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
)

var vacancyIDPath = regexp.MustCompile(`/vacancies/(\d+)`)

// APIBasedV1 handles recruitment systems that publish a single JSON list
// endpoint. The detail URL carries a numeric ID under /vacancies/{id} and
// the matching row holds several HTML-bearing fields.
type APIBasedV1 struct {
	client   *fetch.Client
	domains  mapset.Set[string]
	maxChars int
}

func NewAPIBasedV1(client *fetch.Client, domains mapset.Set[string], maxChars int) *APIBasedV1 {
	return &APIBasedV1{client: client, domains: domains, maxChars: maxChars}
}

func (e *APIBasedV1) Name() string { return "api_based_v1" }

func (e *APIBasedV1) TryExtract(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !config.HostIn(e.domains, strings.ToLower(parsed.Host)) {
		return ""
	}
	m := vacancyIDPath.FindStringSubmatch(parsed.Path)
	if m == nil {
		return ""
	}
	jobID, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}

	apiURL := fmt.Sprintf("%s://%s/api/CurrentJobVacancies", parsed.Scheme, parsed.Host)

	var rows []struct {
		JobVacancyID         int    `json:"jobVacancyId"`
		JobDescription       string `json:"jobDescription"`
		PurposeForThePost    string `json:"purposeforthepost"`
		RequiredCompetencies string `json:"requiredcompetencies"`
		MainDuties           string `json:"maindutiesandresponsibilities"`
	}
	if err := e.client.GetJSON(ctx, apiURL, "application/json, text/plain, */*", &rows); err != nil {
		return ""
	}

	for _, row := range rows {
		if row.JobVacancyID != jobID {
			continue
		}
		var fields []string
		for _, f := range []string{row.JobDescription, row.PurposeForThePost, row.RequiredCompetencies, row.MainDuties} {
			if strings.TrimSpace(f) != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) == 0 {
			return ""
		}
		return Truncate(StripHTML(strings.Join(fields, "\n")), e.maxChars)
	}
	return ""
}
