// Run orchestration: drives the resolver over each org's job list with
// caching, a per-org rate-limit circuit breaker, timeout enforcement and
// structured event emission.

package runner

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/resolver"
	"go-vacancy-enricher/internal/schema"
	"go-vacancy-enricher/internal/scraper"
	"go-vacancy-enricher/internal/text"
)

// Consecutive http_429 classifications that open the org's breaker.
const BreakerThreshold = 3

// Minimum chars a playwright-fallback description must reach to be kept.
const fallbackMinChars = 100

// Fetcher is the content-resolution dependency. resolver.Resolver
// implements it; tests substitute stubs.
type Fetcher interface {
	FetchJobContent(ctx context.Context, rawURL, orgAbbrev, title string, usePlaywright bool, runID string) (resolver.Result, error)
	Describe(ctx context.Context, rawURL string, usePlaywright bool) (string, error)
}

type Runner struct {
	cfg     *config.Config
	fetcher Fetcher
	store   *schema.Store
	events  *EventLogger
	runID   string
}

func New(cfg *config.Config, fetcher Fetcher, store *schema.Store, events *EventLogger, runID string) *Runner {
	return &Runner{cfg: cfg, fetcher: fetcher, store: store, events: events, runID: runID}
}

// OrgOptions tune one organization's enrichment pass.
type OrgOptions struct {
	// Force ignores the cache and re-fetches every job.
	Force bool
	// MaxJobs truncates the job list when positive.
	MaxJobs int
	// PlaywrightDetail forces browser rendering for detail pages,
	// in addition to per-org and registry flags.
	PlaywrightDetail bool
}

// OrgResult summarizes one organization's pass.
type OrgResult struct {
	OrgName    string
	OrgAbbrev  string
	JobCount   int
	OutputPath string
	Err        error
}

type fetchOutcome struct {
	res     resolver.Result
	seconds float64
	errMsg  string
}

// EnrichOrg runs the scraper and enriches every job, in order. Jobs in an
// org are strictly sequential: the breaker and pacing are stateful.
func (r *Runner) EnrichOrg(ctx context.Context, entry scraper.Entry, opts OrgOptions) OrgResult {
	result := OrgResult{OrgName: entry.Name, OrgAbbrev: entry.Abbrev}

	r.events.Emit("org_start", map[string]any{
		"org_abbrev": entry.Abbrev,
		"org_name":   entry.Name,
		"scraper":    entry.Scraper.Name(),
	})
	r.events.Info("scraper start", "org", entry.Abbrev, "scraper", entry.Scraper.Name())

	started := nowMonotonic()
	rawJobs, err := entry.Scraper.Scrape(ctx)
	if err != nil {
		result.Err = fmt.Errorf("scraper %s: %w", entry.Abbrev, err)
		r.events.Emit("org_done", map[string]any{
			"org_abbrev":    entry.Abbrev,
			"org_name":      entry.Name,
			"job_count":     0,
			"scraper_error": err.Error(),
		})
		r.events.Warn("scraper failed", "org", entry.Abbrev, "error", err)
		return result
	}
	r.events.Emit("scraper_done", map[string]any{
		"org_abbrev":       entry.Abbrev,
		"org_name":         entry.Name,
		"job_count":        len(rawJobs),
		"duration_seconds": secondsSince(started),
	})
	r.events.Info("scraper done", "org", entry.Abbrev, "jobs", len(rawJobs))

	cached := map[string]schema.EnrichedJob{}
	if !opts.Force {
		cached, err = r.store.SuccessfulByURL(entry.Abbrev)
		if err != nil {
			result.Err = err
			return result
		}
	}

	selected := rawJobs
	if opts.MaxJobs > 0 && len(selected) > opts.MaxJobs {
		selected = selected[:opts.MaxJobs]
	}

	usePlaywright := opts.PlaywrightDetail ||
		entry.PlaywrightDetail ||
		r.cfg.Sites.PlaywrightOrgs.Contains(entry.Abbrev)

	limiter := rate.NewLimiter(rate.Every(r.cfg.RequestDelay), 1)
	consecutive429 := 0
	breakerOpen := false

	enriched := make([]schema.EnrichedJob, 0, len(selected))
	for i, raw := range selected {
		idx := i + 1
		job := schema.NewEnrichedJob(raw, entry.Name, entry.Abbrev)

		if prior, ok := cached[job.URL]; ok && job.URL != "" {
			enriched = append(enriched, prior)
			r.emitJobResult(entry, idx, job.Title, job.URL, fetchOutcome{
				res: resolver.Result{
					ContentType:  prior.ContentType,
					Description:  prior.Description,
					EnrichStatus: prior.EnrichStatus,
					StatusReason: resolver.ReasonCached,
				},
			})
			r.events.Info("job cached", "org", entry.Abbrev, "index", idx, "total", len(selected),
				"words", text.WordCount(prior.Description))
			continue
		}

		var outcome fetchOutcome
		switch {
		case breakerOpen:
			outcome = rateLimitedSkip()
			r.emitJobResult(entry, idx, job.Title, job.URL, outcome)
			r.events.Info("job skipped, breaker open", "org", entry.Abbrev, "index", idx, "total", len(selected))
		default:
			if detail, ok := scraperDetailResult(entry, raw); ok {
				outcome = detail
				consecutive429 = 0
				r.emitJobResult(entry, idx, job.Title, job.URL, outcome)
				r.events.Info("job from scraper detail", "org", entry.Abbrev, "index", idx,
					"words", text.WordCount(outcome.res.Description))
			} else {
				if err := limiter.Wait(ctx); err != nil {
					result.Err = err
					return result
				}
				outcome = r.fetchOne(ctx, entry, idx, len(selected), job.Title, job.URL, usePlaywright)
				if outcome.res.EnrichStatus == resolver.StatusBlockedSource &&
					outcome.res.StatusReason == resolver.ReasonHTTP429 {
					consecutive429++
					if consecutive429 >= BreakerThreshold && !breakerOpen {
						breakerOpen = true
						r.events.Emit("org_rate_limited", map[string]any{
							"org_abbrev":      entry.Abbrev,
							"org_name":        entry.Name,
							"consecutive_429": consecutive429,
							"threshold":       BreakerThreshold,
						})
						r.events.Warn("rate limit breaker open", "org", entry.Abbrev,
							"consecutive_429", consecutive429)
					}
				} else {
					consecutive429 = 0
				}
			}
		}

		if outcome.errMsg != "" {
			job.MarkError(outcome.errMsg, outcome.res.EnrichStatus, outcome.res.StatusReason, outcome.res.FetchMethod)
		} else {
			job.MarkEnriched(outcome.res)
		}
		job.FetchSeconds = outcome.seconds
		enriched = append(enriched, job)
	}

	outputPath, err := r.store.Save(entry.Name, entry.Abbrev, enriched)
	if err != nil {
		result.Err = err
		return result
	}

	result.JobCount = len(enriched)
	result.OutputPath = outputPath
	r.events.Emit("org_done", map[string]any{
		"org_abbrev":  entry.Abbrev,
		"org_name":    entry.Name,
		"job_count":   len(enriched),
		"output_path": outputPath,
	})
	r.events.Info("org done", "org", entry.Abbrev, "jobs", len(enriched), "output", outputPath)
	return result
}

// fetchOne resolves a single job under the hard wall-clock timeout and
// classifies failures. Playwright-designated jobs get one direct browser
// fallback: some sites reject plain HTTP but serve a real browser.
func (r *Runner) fetchOne(ctx context.Context, entry scraper.Entry, idx, total int, title, url string, usePlaywright bool) fetchOutcome {
	r.events.Emit("job_start", map[string]any{
		"org_abbrev": entry.Abbrev,
		"org_name":   entry.Name,
		"job_index":  idx,
		"total_jobs": total,
		"job_title":  title,
		"job_url":    url,
	})
	r.events.Info("job start", "org", entry.Abbrev, "index", idx, "total", total, "url", url)

	if url == "" {
		outcome := fetchOutcome{res: resolver.Result{
			ContentType:  "error",
			EnrichStatus: resolver.StatusNoDetailURL,
			StatusReason: resolver.ReasonMissingURL,
			FetchMethod:  "none",
		}}
		r.emitJobResult(entry, idx, title, url, outcome)
		return outcome
	}

	fetchTitle := title
	if fetchTitle == "" {
		fetchTitle = fmt.Sprintf("job-%d", idx)
	}

	started := nowMonotonic()
	res, err := r.withJobTimeout(ctx, func(tctx context.Context) (resolver.Result, error) {
		return r.fetcher.FetchJobContent(tctx, url, entry.Abbrev, fetchTitle, usePlaywright, r.runID)
	})
	if err == nil {
		outcome := fetchOutcome{res: res, seconds: secondsSince(started)}
		r.emitJobResult(entry, idx, title, url, outcome)
		r.events.Info("job done", "org", entry.Abbrev, "index", idx, "total", total,
			"status", res.EnrichStatus, "type", res.ContentType,
			"words", text.WordCount(res.Description), "seconds", outcome.seconds)
		return outcome
	}

	seconds := secondsSince(started)
	status, reason := resolver.ClassifyFetchError(err)

	if usePlaywright {
		if outcome, ok := r.playwrightFallback(ctx, entry, idx, total, title, url); ok {
			return outcome
		}
	}

	outcome := fetchOutcome{
		res: resolver.Result{
			ContentType:  "error",
			EnrichStatus: status,
			StatusReason: reason,
			FetchMethod:  "http",
		},
		seconds: seconds,
		errMsg:  err.Error(),
	}
	r.events.Emit("job_error", map[string]any{
		"org_abbrev":       entry.Abbrev,
		"org_name":         entry.Name,
		"job_index":        idx,
		"job_title":        title,
		"job_url":          url,
		"duration_seconds": seconds,
		"enrich_status":    status,
		"content_type":     "error",
		"word_count":       0,
		"status_reason":    reason,
		"error":            err.Error(),
	})
	r.events.Warn("job failed", "org", entry.Abbrev, "index", idx, "total", total,
		"status", status, "reason", reason, "error", err)
	return outcome
}

func (r *Runner) playwrightFallback(ctx context.Context, entry scraper.Entry, idx, total int, title, url string) (fetchOutcome, bool) {
	started := nowMonotonic()
	desc, err := r.withDescribeTimeout(ctx, url)
	if err != nil || len(desc) <= fallbackMinChars {
		return fetchOutcome{}, false
	}
	outcome := fetchOutcome{
		res: resolver.Result{
			ContentType:  "html",
			Description:  desc,
			EnrichStatus: resolver.StatusOK,
			StatusReason: resolver.ReasonPlaywrightFallback,
			FetchMethod:  "playwright",
		},
		seconds: secondsSince(started),
	}
	r.emitJobResult(entry, idx, title, url, outcome)
	r.events.Info("job done via playwright fallback", "org", entry.Abbrev, "index", idx, "total", total,
		"words", text.WordCount(desc), "seconds", outcome.seconds)
	return outcome, true
}

func (r *Runner) withJobTimeout(ctx context.Context, fn func(context.Context) (resolver.Result, error)) (resolver.Result, error) {
	tctx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()

	type out struct {
		res resolver.Result
		err error
	}
	done := make(chan out, 1)
	go func() {
		res, err := fn(tctx)
		done <- out{res, err}
	}()
	select {
	case o := <-done:
		return o.res, o.err
	case <-tctx.Done():
		return resolver.Result{}, fmt.Errorf("fetch timed out after %.1fs", r.cfg.JobTimeout.Seconds())
	}
}

func (r *Runner) withDescribeTimeout(ctx context.Context, url string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()

	type out struct {
		desc string
		err  error
	}
	done := make(chan out, 1)
	go func() {
		desc, err := r.fetcher.Describe(tctx, url, true)
		done <- out{desc, err}
	}()
	select {
	case o := <-done:
		return o.desc, o.err
	case <-tctx.Done():
		return "", fmt.Errorf("fetch timed out after %.1fs", r.cfg.JobTimeout.Seconds())
	}
}

func (r *Runner) emitJobResult(entry scraper.Entry, idx int, title, url string, outcome fetchOutcome) {
	r.events.Emit("job_result", map[string]any{
		"org_abbrev":       entry.Abbrev,
		"org_name":         entry.Name,
		"job_index":        idx,
		"job_title":        title,
		"job_url":          url,
		"duration_seconds": outcome.seconds,
		"enrich_status":    outcome.res.EnrichStatus,
		"content_type":     outcome.res.ContentType,
		"word_count":       text.WordCount(outcome.res.Description),
		"status_reason":    outcome.res.StatusReason,
		"error":            outcome.errMsg,
	})
}

// rateLimitedSkip synthesizes a breaker-open result without any network.
func rateLimitedSkip() fetchOutcome {
	return fetchOutcome{res: resolver.Result{
		ContentType:  "error",
		EnrichStatus: resolver.StatusBlockedSource,
		StatusReason: resolver.ReasonOrgRateLimitedSkip,
		FetchMethod:  "http",
	}}
}

// scraperDetailResult applies the provides-full-description capability:
// the listing already embeds a validated description, so no fetch runs.
func scraperDetailResult(entry scraper.Entry, raw scraper.JobRecord) (fetchOutcome, bool) {
	if !entry.ProvidesFullDescription {
		return fetchOutcome{}, false
	}
	description := strings.TrimSpace(raw.Description)
	if text.WordCount(description) < 50 || len(description) < 120 {
		return fetchOutcome{}, false
	}
	return fetchOutcome{res: resolver.Result{
		ContentType:  "html",
		Description:  description,
		PDFPath:      raw.PDFPath,
		EnrichStatus: resolver.StatusOK,
		StatusReason: resolver.ReasonScraperDetail,
		FetchMethod:  "scraper",
	}}, true
}
