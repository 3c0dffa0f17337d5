// Table-interface downloads: some legacy HR portals render vacancies as a
// server-side grid where each row exposes a download button. The job URL
// only differs by a #row-N fragment, so the PDF has to be pulled by
// driving the button inside the right frame.

package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/playwright-community/playwright-go"

	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/fetch"
)

var rowFragment = regexp.MustCompile(`row-(\d+)$`)

var (
	ErrTableFrameNotFound = errors.New("table_frame_not_found")
	ErrTablePDFDownload   = errors.New("table_pdf_download_failed")
	ErrMissingTableRowIdx = errors.New("missing_table_row_index")
)

// IsTableRowURL reports whether url addresses a grid row on a known
// table-interface host.
func IsTableRowURL(domains mapset.Set[string], rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !config.HostIn(domains, strings.ToLower(u.Host)) {
		return false
	}
	return rowFragment.MatchString(u.Fragment)
}

// TableRowIndex extracts the row index from the URL fragment.
func TableRowIndex(rawURL string) (int, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, false
	}
	m := rowFragment.FindStringSubmatch(u.Fragment)
	if m == nil {
		return 0, false
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return idx, true
}

// DownloadTableRowPDF navigates the grid page, finds the frame containing
// the row profile marker, clicks its download button and saves the file
// under destDir. This path has no soft-fail: any missing frame or empty
// file is a hard error.
func (m *Manager) DownloadTableRowPDF(ctx context.Context, rawURL, destDir, title string) (string, error) {
	idx, ok := TableRowIndex(rawURL)
	if !ok {
		return "", ErrMissingTableRowIdx
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create pdf dir %s: %w", destDir, err)
	}
	path := filepath.Join(destDir, fetch.PDFFilename(title))

	page, cleanup, err := m.NewPage()
	if err != nil {
		return "", err
	}
	defer cleanup()

	baseURL := strings.SplitN(rawURL, "#", 2)[0]
	if _, err := page.Goto(baseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		return "", fmt.Errorf("goto %s: %w", baseURL, err)
	}
	page.WaitForTimeout(2500)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	frameMarker := fmt.Sprintf("PROFILEGPAST$%d", idx)
	var target playwright.Frame
	for _, frame := range page.Frames() {
		html, err := frame.Content()
		if err != nil {
			continue
		}
		if strings.Contains(html, frameMarker) {
			target = frame
			break
		}
	}
	if target == nil {
		return "", ErrTableFrameNotFound
	}

	buttonSelector := fmt.Sprintf(`#VACANCYNTGPAST\$%d`, idx)
	download, err := page.ExpectDownload(func() error {
		return target.Locator(buttonSelector).Click()
	}, playwright.PageExpectDownloadOptions{Timeout: playwright.Float(45000)})
	if err != nil {
		return "", fmt.Errorf("trigger download: %w", err)
	}
	if err := download.SaveAs(path); err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		os.Remove(path)
		return "", ErrTablePDFDownload
	}
	return path, nil
}
