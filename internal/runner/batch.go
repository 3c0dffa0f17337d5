package runner

import (
	"context"
	"math"
	"sync"
	"time"

	"go-vacancy-enricher/internal/scraper"
)

func nowMonotonic() time.Time { return time.Now() }

func secondsSince(started time.Time) float64 {
	return math.Round(time.Since(started).Seconds()*1000) / 1000
}

// BatchOptions tune a multi-org run.
type BatchOptions struct {
	OrgOptions
	// MaxOrgs truncates the org list when positive.
	MaxOrgs int
	// Concurrency > 1 runs orgs in parallel. Orgs own independent breaker
	// state and output files; the event sink serializes internally.
	Concurrency int
}

// RunBatch enriches every registry entry. A failing org is recorded and
// the batch continues; nothing aborts the loop.
func (r *Runner) RunBatch(ctx context.Context, entries []scraper.Entry, opts BatchOptions) []OrgResult {
	if opts.MaxOrgs > 0 && len(entries) > opts.MaxOrgs {
		entries = entries[:opts.MaxOrgs]
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]OrgResult, len(entries))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, entry scraper.Entry) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.EnrichOrg(ctx, entry, opts.OrgOptions)
			if results[i].Err != nil {
				r.events.Warn("org failed", "org", entry.Abbrev, "error", results[i].Err)
			}
		}(i, entry)
	}
	wg.Wait()
	return results
}
