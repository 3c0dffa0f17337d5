// Standardized enriched-job schema and helpers for enrichment output.

package schema

import (
	"regexp"
	"strings"
	"time"

	"go-vacancy-enricher/internal/resolver"
	"go-vacancy-enricher/internal/scraper"
)

// EnrichedJob is one job's persisted enrichment record.
type EnrichedJob struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Location     string  `json:"location,omitempty"`
	OrgName      string  `json:"org_name"`
	OrgAbbrev    string  `json:"org_abbrev"`
	ContentType  string  `json:"content_type"`
	Description  string  `json:"description"`
	PDFPath      string  `json:"pdf_path"`
	EnrichedAt   string  `json:"enriched_at"`
	EnrichError  string  `json:"enrich_error"`
	EnrichStatus string  `json:"enrich_status"`
	StatusReason string  `json:"status_reason"`
	FetchMethod  string  `json:"fetch_method"`
	FetchSeconds float64 `json:"fetch_seconds"`
}

// OrgOutput is the per-organization document, overwritten wholesale on
// each save.
type OrgOutput struct {
	OrgName    string        `json:"org_name"`
	OrgAbbrev  string        `json:"org_abbrev"`
	EnrichedAt string        `json:"enriched_at"`
	JobCount   int           `json:"job_count"`
	Jobs       []EnrichedJob `json:"jobs"`
}

var abbrevPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// ExtractAbbrev pulls the abbreviation out of an org name like
// "Full Name [ABBREV]", falling back to the first word uppercased.
func ExtractAbbrev(orgName string) string {
	if m := abbrevPattern.FindStringSubmatch(orgName); m != nil {
		return m[1]
	}
	fields := strings.Fields(orgName)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// NewEnrichedJob seeds an enrichment record from a scraped listing.
func NewEnrichedJob(raw scraper.JobRecord, orgName, orgAbbrev string) EnrichedJob {
	return EnrichedJob{
		Title:     strings.TrimSpace(raw.Title),
		URL:       strings.TrimSpace(raw.URL),
		Location:  raw.Location,
		OrgName:   orgName,
		OrgAbbrev: orgAbbrev,
	}
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// MarkEnriched records a successful resolution. Terminal for this run.
func (j *EnrichedJob) MarkEnriched(res resolver.Result) {
	j.ContentType = res.ContentType
	j.Description = res.Description
	j.PDFPath = res.PDFPath
	j.EnrichStatus = res.EnrichStatus
	j.StatusReason = res.StatusReason
	j.FetchMethod = res.FetchMethod
	j.EnrichedAt = nowUTC()
	j.EnrichError = ""
}

// MarkError records a failed resolution. Terminal for this run.
func (j *EnrichedJob) MarkError(errMsg, enrichStatus, statusReason, fetchMethod string) {
	j.ContentType = "error"
	j.EnrichStatus = enrichStatus
	j.StatusReason = statusReason
	j.FetchMethod = fetchMethod
	j.EnrichError = errMsg
	j.EnrichedAt = nowUTC()
}

// IsEnriched reports whether a prior record succeeded and can be reused.
// Records written before status fields existed are judged by content type.
func (j *EnrichedJob) IsEnriched() bool {
	if j.EnrichStatus != "" {
		return j.EnrichStatus == resolver.StatusOK || j.EnrichStatus == resolver.StatusPDF
	}
	return j.ContentType == "html" || j.ContentType == "pdf"
}
