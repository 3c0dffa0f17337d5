// Shared Playwright lifecycle. Browser launch is lazy: most runs never
// touch a JS-heavy page and should not pay the startup cost.

package browser

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

type Manager struct {
	mu        sync.Mutex
	pw        *playwright.Playwright
	browser   playwright.Browser
	userAgent string
}

func NewManager(userAgent string) *Manager {
	return &Manager{userAgent: userAgent}
}

func (m *Manager) launchLocked() error {
	if m.browser != nil {
		return nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch browser: %w", err)
	}
	m.pw = pw
	m.browser = b
	return nil
}

// NewPage opens a fresh isolated context and returns its page plus a
// cleanup closing the context. Pages are not shared across jobs.
func (m *Manager) NewPage() (playwright.Page, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.launchLocked(); err != nil {
		return nil, nil, err
	}
	ctx, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(m.userAgent),
		IgnoreHttpsErrors: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("new browser context: %w", err)
	}
	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, nil, fmt.Errorf("new page: %w", err)
	}
	return page, func() { ctx.Close() }, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			return err
		}
		m.browser = nil
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return err
		}
		m.pw = nil
	}
	return nil
}
