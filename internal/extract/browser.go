package extract

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"go-vacancy-enricher/internal/browser"
)

const (
	navTimeoutMS  = 45000
	idleTimeoutMS = 12000
	settleDelayMS = 4500
)

// BrowserExtractor renders JS-heavy pages in a real browser and feeds the
// resulting HTML through the generic extractor. Cancellation is checked
// between steps; a mid-flight navigation itself cannot be preempted.
type BrowserExtractor struct {
	manager  *browser.Manager
	maxChars int
}

func NewBrowserExtractor(manager *browser.Manager, maxChars int) *BrowserExtractor {
	return &BrowserExtractor{manager: manager, maxChars: maxChars}
}

func (e *BrowserExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	page, cleanup, err := e.manager.NewPage()
	if err != nil {
		return "", err
	}
	defer cleanup()

	if _, err := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navTimeoutMS),
	}); err != nil {
		return "", fmt.Errorf("goto %s: %w", rawURL, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Network idleness is best-effort; slow third-party beacons should
	// not fail the extraction.
	_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(idleTimeoutMS),
	})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	page.WaitForTimeout(settleDelayMS)

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("capture %s: %w", rawURL, err)
	}
	return ParseHTML(html, e.maxChars), nil
}
