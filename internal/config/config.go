// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults shared across the fetch/extract/runner layers.
const (
	DefaultRequestDelay        = 1500 * time.Millisecond
	DefaultRequestTimeout      = 30 * time.Second
	DefaultJobTimeout          = 30 * time.Second
	DefaultPlaywrightTimeout   = 45 * time.Second
	DefaultMaxDescriptionChars = 50_000
)

// OrgConfig declares one organization handled by the static scraper registry.
type OrgConfig struct {
	Abbrev  string `yaml:"abbrev"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	// Scraper selects the toolkit implementation: "links" or "tenant_api".
	Scraper     string `yaml:"scraper"`
	HrefPattern string `yaml:"href_pattern"`
	APIURL      string `yaml:"api_url"`
	// PlaywrightDetail forces browser rendering for this org's detail pages.
	PlaywrightDetail        bool `yaml:"playwright_detail"`
	ProvidesFullDescription bool `yaml:"provides_full_description"`
}

type fileConfig struct {
	UserAgent      string  `yaml:"user_agent"`
	RunsDir        string  `yaml:"runs_dir"`
	OutputDir      string  `yaml:"output_dir"`
	TelegramToken  string  `yaml:"telegram_token"`
	TelegramChatID int64   `yaml:"telegram_chat_id"`
	RequestDelayMS int     `yaml:"request_delay_ms"`
	RequestTimeout int     `yaml:"request_timeout_seconds"`
	JobTimeout     float64 `yaml:"job_timeout_seconds"`

	PDFScoreThreshold          int `yaml:"pdf_score_threshold"`
	PDFScoreThresholdPreferred int `yaml:"pdf_score_threshold_preferred"`

	PlaywrightOrgs        []string `yaml:"playwright_orgs"`
	PlaywrightDomains     []string `yaml:"playwright_domains"`
	NextJSPlatforms       []string `yaml:"nextjs_platforms"`
	PlatformADomains      []string `yaml:"platform_a_domains"`
	APIBasedV1Domains     []string `yaml:"api_based_v1_domains"`
	APIBasedV2Domains     []string `yaml:"api_based_v2_domains"`
	TableInterfaceDomains []string `yaml:"table_interface_domains"`
	PreferEmbeddedPDFOrgs []string `yaml:"prefer_embedded_pdf_orgs"`
	SSLInsecureDomains    []string `yaml:"ssl_insecure_domains"`

	Orgs []OrgConfig `yaml:"orgs"`
}

// SiteSets holds the site-class membership tables. They are built once at
// load time and injected read-only into the resolver.
type SiteSets struct {
	PlaywrightOrgs        mapset.Set[string]
	PlaywrightDomains     mapset.Set[string]
	NextJSPlatforms       mapset.Set[string]
	PlatformADomains      mapset.Set[string]
	APIBasedV1Domains     mapset.Set[string]
	APIBasedV2Domains     mapset.Set[string]
	TableInterfaceDomains mapset.Set[string]
	PreferEmbeddedPDFOrgs mapset.Set[string]
	SSLInsecureDomains    mapset.Set[string]
}

type Config struct {
	UserAgent      string
	RunsDir        string
	OutputDir      string
	TelegramToken  string
	TelegramChatID int64

	RequestDelay   time.Duration
	RequestTimeout time.Duration
	JobTimeout     time.Duration

	PDFScoreThreshold          int
	PDFScoreThresholdPreferred int
	MaxDescriptionChars        int

	Sites SiteSets
	Orgs  []OrgConfig
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	fc := &fileConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		fc.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		fc.TelegramChatID = id
	}
	if ua := os.Getenv("ENRICH_USER_AGENT"); ua != "" {
		fc.UserAgent = ua
	}

	cfg := &Config{
		UserAgent:      fc.UserAgent,
		RunsDir:        fc.RunsDir,
		OutputDir:      fc.OutputDir,
		TelegramToken:  fc.TelegramToken,
		TelegramChatID: fc.TelegramChatID,

		RequestDelay:   DefaultRequestDelay,
		RequestTimeout: DefaultRequestTimeout,
		JobTimeout:     DefaultJobTimeout,

		PDFScoreThreshold:          60,
		PDFScoreThresholdPreferred: 30,
		MaxDescriptionChars:        DefaultMaxDescriptionChars,

		Sites: SiteSets{
			PlaywrightOrgs:        setOf(fc.PlaywrightOrgs),
			PlaywrightDomains:     setOf(fc.PlaywrightDomains),
			NextJSPlatforms:       setOf(fc.NextJSPlatforms),
			PlatformADomains:      setOf(fc.PlatformADomains),
			APIBasedV1Domains:     setOf(fc.APIBasedV1Domains),
			APIBasedV2Domains:     setOf(fc.APIBasedV2Domains),
			TableInterfaceDomains: setOf(fc.TableInterfaceDomains),
			PreferEmbeddedPDFOrgs: setOf(fc.PreferEmbeddedPDFOrgs),
			SSLInsecureDomains:    setOf(fc.SSLInsecureDomains),
		},
		Orgs: fc.Orgs,
	}

	if fc.RequestDelayMS > 0 {
		cfg.RequestDelay = time.Duration(fc.RequestDelayMS) * time.Millisecond
	}
	if fc.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeout) * time.Second
	}
	if fc.JobTimeout > 0 {
		cfg.JobTimeout = time.Duration(fc.JobTimeout * float64(time.Second))
	}
	if fc.PDFScoreThreshold > 0 {
		cfg.PDFScoreThreshold = fc.PDFScoreThreshold
	}
	if fc.PDFScoreThresholdPreferred > 0 {
		cfg.PDFScoreThresholdPreferred = fc.PDFScoreThresholdPreferred
	}

	//Set default values if not set
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	if cfg.RunsDir == "" {
		cfg.RunsDir = filepath.Join("ops", "runs")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.RunsDir, "output")
	}

	//Validate required fields
	for _, org := range cfg.Orgs {
		if org.Abbrev == "" || org.Name == "" {
			return nil, fmt.Errorf("org entry missing abbrev or name: %+v", org)
		}
	}

	return cfg, nil
}

func setOf(values []string) mapset.Set[string] {
	s := mapset.NewSet[string]()
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// RunDir is the directory holding one run's artifacts.
func (c *Config) RunDir(runID string) string {
	return filepath.Join(c.RunsDir, runID)
}

// LogsPath is the NDJSON event log file for a run.
func (c *Config) LogsPath(runID string) string {
	return filepath.Join(c.RunDir(runID), "logs.ndjson")
}

// PDFDir is the per-run directory PDF artifacts are saved under.
func (c *Config) PDFDir(runID string) string {
	return filepath.Join(c.RunDir(runID), "pdfs")
}

// HostIn reports whether any member of set is a substring of host.
// Site-class tables list bare domains; hosts carry ports and subdomains.
func HostIn(set mapset.Set[string], host string) bool {
	for domain := range set.Iter() {
		if domain != "" && strings.Contains(host, domain) {
			return true
		}
	}
	return false
}
