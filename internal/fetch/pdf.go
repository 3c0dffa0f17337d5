package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go-vacancy-enricher/internal/text"
)

// PDFFilename builds the artifact name {slug-of-title}-{iso-date}.pdf.
func PDFFilename(title string) string {
	return fmt.Sprintf("%s-%s.pdf", text.Slugify(title, 80), time.Now().UTC().Format("2006-01-02"))
}

// DownloadPDF streams a PDF into destDir/{slug}-{date}.pdf and returns the
// written path. Partial files are deleted on any failure before the error
// is returned, so no corrupt artifacts are left behind.
func (c *Client) DownloadPDF(ctx context.Context, rawURL, destDir, title string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create pdf dir %s: %w", destDir, err)
	}
	path := filepath.Join(destDir, PDFFilename(title))

	resp, err := c.Do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
