package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
user_agent: "test-agent"
runs_dir: /tmp/enricher-runs
request_delay_ms: 500
job_timeout_seconds: 12.5
pdf_score_threshold: 90

playwright_orgs: [ECB]
table_interface_domains: [erecruit.example-agency.int]
prefer_embedded_pdf_orgs: [UNIDO]

orgs:
  - abbrev: IAEA
    name: "International Atomic Energy Agency [IAEA]"
    base_url: https://iaea.org
    scraper: links
    href_pattern: "/vacancies/"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	assert.Equal(t, 12500*time.Millisecond, cfg.JobTimeout)
	//unset timeouts keep their defaults
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, 90, cfg.PDFScoreThreshold)
	assert.Equal(t, 30, cfg.PDFScoreThresholdPreferred)

	assert.True(t, cfg.Sites.PlaywrightOrgs.Contains("ECB"))
	assert.True(t, cfg.Sites.PreferEmbeddedPDFOrgs.Contains("UNIDO"))
	assert.True(t, cfg.Sites.NextJSPlatforms.IsEmpty())

	require.Len(t, cfg.Orgs, 1)
	assert.Equal(t, "IAEA", cfg.Orgs[0].Abbrev)
	assert.Equal(t, "links", cfg.Orgs[0].Scraper)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "orgs: []\n"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.UserAgent)
	assert.Equal(t, DefaultRequestDelay, cfg.RequestDelay)
	assert.Equal(t, DefaultJobTimeout, cfg.JobTimeout)
	assert.Equal(t, DefaultMaxDescriptionChars, cfg.MaxDescriptionChars)
	assert.Equal(t, filepath.Join("ops", "runs"), cfg.RunsDir)
	assert.Equal(t, filepath.Join("ops", "runs", "output"), cfg.OutputDir)
}

func TestLoadRejectsIncompleteOrg(t *testing.T) {
	_, err := Load(writeConfig(t, "orgs:\n  - abbrev: X\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRunPaths(t *testing.T) {
	cfg := &Config{RunsDir: "ops/runs"}

	assert.Equal(t, filepath.Join("ops", "runs", "run-1"), cfg.RunDir("run-1"))
	assert.Equal(t, filepath.Join("ops", "runs", "run-1", "logs.ndjson"), cfg.LogsPath("run-1"))
	assert.Equal(t, filepath.Join("ops", "runs", "run-1", "pdfs"), cfg.PDFDir("run-1"))
}

func TestHostIn(t *testing.T) {
	domains := mapset.NewSet("myworkdayjobs.com", "oraclecloud.com")

	assert.True(t, HostIn(domains, "acme.wd3.myworkdayjobs.com"))
	assert.True(t, HostIn(domains, "careers.oraclecloud.com:443"))
	assert.False(t, HostIn(domains, "careers.example.int"))
	assert.False(t, HostIn(mapset.NewSet[string](), "anything.test"))
}
