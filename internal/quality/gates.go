// Per-org quality gates over enrichment output. Overrides are temporary
// by construction: each one carries an expiry, and an expired override is
// itself a violation rather than silently continuing to apply.

package quality

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go-vacancy-enricher/internal/resolver"
	"go-vacancy-enricher/internal/schema"
	"go-vacancy-enricher/internal/text"
)

// Thresholds a single org's output must satisfy.
type Thresholds struct {
	MinJobsPerOrg         int     `yaml:"min_jobs_per_org"`
	MinWords              int     `yaml:"min_words"`
	MaxWords              int     `yaml:"max_words"`
	MaxFetchSecondsPerJob float64 `yaml:"max_fetch_seconds_per_job"`
	AllowEmpty            bool    `yaml:"allow_empty"`
}

// Override relaxes thresholds for one org, with a mandatory paper trail.
type Override struct {
	MinJobsPerOrg         *int     `yaml:"min_jobs_per_org"`
	MinWords              *int     `yaml:"min_words"`
	MaxWords              *int     `yaml:"max_words"`
	MaxFetchSecondsPerJob *float64 `yaml:"max_fetch_seconds_per_job"`
	AllowEmpty            *bool    `yaml:"allow_empty"`
	ExpiresOn             string   `yaml:"expires_on"`
	Reason                string   `yaml:"reason"`
}

type Gates struct {
	Defaults     Thresholds          `yaml:"defaults"`
	OrgOverrides map[string]Override `yaml:"org_overrides"`
}

func LoadGates(path string) (*Gates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quality gates %s: %w", path, err)
	}
	gates := &Gates{}
	if err := yaml.Unmarshal(data, gates); err != nil {
		return nil, fmt.Errorf("parse quality gates %s: %w", path, err)
	}
	if gates.Defaults.MinJobsPerOrg == 0 {
		gates.Defaults.MinJobsPerOrg = 1
	}
	if gates.Defaults.MinWords == 0 {
		gates.Defaults.MinWords = 50
	}
	if gates.Defaults.MaxWords == 0 {
		gates.Defaults.MaxWords = 10000
	}
	if gates.Defaults.MaxFetchSecondsPerJob == 0 {
		gates.Defaults.MaxFetchSecondsPerJob = 20.0
	}
	return gates, nil
}

func (g *Gates) effective(orgAbbrev string) (Thresholds, Override, bool) {
	eff := g.Defaults
	override, has := g.OrgOverrides[orgAbbrev]
	if !has {
		return eff, Override{}, false
	}
	if override.MinJobsPerOrg != nil {
		eff.MinJobsPerOrg = *override.MinJobsPerOrg
	}
	if override.MinWords != nil {
		eff.MinWords = *override.MinWords
	}
	if override.MaxWords != nil {
		eff.MaxWords = *override.MaxWords
	}
	if override.MaxFetchSecondsPerJob != nil {
		eff.MaxFetchSecondsPerJob = *override.MaxFetchSecondsPerJob
	}
	if override.AllowEmpty != nil {
		eff.AllowEmpty = *override.AllowEmpty
	}
	return eff, override, true
}

func isSuccessfulDescription(job schema.EnrichedJob) bool {
	status := strings.ToLower(strings.TrimSpace(job.EnrichStatus))
	description := strings.TrimSpace(job.Description)
	return description != "" && (status == resolver.StatusOK || status == resolver.StatusShortContent)
}

func hasPDFJobs(jobs []schema.EnrichedJob) bool {
	for _, job := range jobs {
		if strings.EqualFold(strings.TrimSpace(job.ContentType), "pdf") || strings.TrimSpace(job.PDFPath) != "" {
			return true
		}
	}
	return false
}

// ValidateOrg checks one org's output against its effective thresholds
// and returns human-readable violations.
func (g *Gates) ValidateOrg(output *schema.OrgOutput, today time.Time) []string {
	var violations []string
	abbrev := output.OrgAbbrev
	jobs := output.Jobs

	thresholds, override, hasOverride := g.effective(abbrev)

	if hasOverride && override.ExpiresOn != "" {
		expires, err := time.Parse("2006-01-02", override.ExpiresOn)
		if err != nil {
			violations = append(violations,
				fmt.Sprintf("%s: invalid override expires_on %q", abbrev, override.ExpiresOn))
		} else if today.After(expires) {
			violations = append(violations,
				fmt.Sprintf("%s: override expired on %s (reason=%s)",
					abbrev, expires.Format("2006-01-02"), override.Reason))
		}
	}

	if len(jobs) < thresholds.MinJobsPerOrg && !thresholds.AllowEmpty {
		violations = append(violations,
			fmt.Sprintf("%s: returned %d jobs (< %d)", abbrev, len(jobs), thresholds.MinJobsPerOrg))
	}

	// PDF orgs have no meaningful word counts; skip word-based checks.
	skipWordChecks := hasPDFJobs(jobs)

	var successful []schema.EnrichedJob
	var wordCounts []int
	for _, job := range jobs {
		if isSuccessfulDescription(job) {
			successful = append(successful, job)
			wordCounts = append(wordCounts, text.WordCount(job.Description))
		}
	}

	if !skipWordChecks {
		if len(jobs) > 2 && len(successful) >= 3 && allEqual(wordCounts) {
			violations = append(violations,
				fmt.Sprintf("%s: all successful descriptions share identical length (%d words)",
					abbrev, wordCounts[0]))
		}
		for _, job := range successful {
			wc := text.WordCount(job.Description)
			if wc < thresholds.MinWords || wc > thresholds.MaxWords {
				violations = append(violations,
					fmt.Sprintf("%s: job word_count=%d out of bounds [%d, %d] url=%s",
						abbrev, wc, thresholds.MinWords, thresholds.MaxWords, job.URL))
			}
		}
	}

	for _, job := range jobs {
		if strings.TrimSpace(job.URL) == "" {
			continue
		}
		if job.FetchSeconds > thresholds.MaxFetchSecondsPerJob {
			violations = append(violations,
				fmt.Sprintf("%s: job fetch_seconds=%.3f > %.3f url=%s",
					abbrev, job.FetchSeconds, thresholds.MaxFetchSecondsPerJob, job.URL))
		}
	}

	return violations
}

func allEqual(counts []int) bool {
	for _, c := range counts[1:] {
		if c != counts[0] {
			return false
		}
	}
	return true
}

// FormatViolations renders a violation list for console output.
func FormatViolations(violations []string) string {
	var b strings.Builder
	for _, v := range violations {
		b.WriteString("- ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
