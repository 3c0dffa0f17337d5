// Content resolution: one per-URL decision producing a normalized result.

package resolver

import (
	"context"
	"path/filepath"

	"go-vacancy-enricher/internal/browser"
	"go-vacancy-enricher/internal/config"
	"go-vacancy-enricher/internal/extract"
	"go-vacancy-enricher/internal/fetch"
	"go-vacancy-enricher/internal/pdflink"
)

// Result is the normalized outcome of resolving one job URL. Exactly one
// of Description or PDFPath is populated on success; both are empty on
// error. Never mutated after construction.
type Result struct {
	ContentType  string `json:"content_type"`
	Description  string `json:"description"`
	PDFPath      string `json:"pdf_path"`
	EnrichStatus string `json:"enrich_status"`
	StatusReason string `json:"status_reason"`
	FetchMethod  string `json:"fetch_method"`
}

type Resolver struct {
	cfg      *config.Config
	client   *fetch.Client
	pipeline *extract.Pipeline
	selector *pdflink.Selector
	browser  *browser.Manager
}

func New(cfg *config.Config) *Resolver {
	client := fetch.NewClient(cfg)
	mgr := browser.NewManager(cfg.UserAgent)
	return &Resolver{
		cfg:      cfg,
		client:   client,
		pipeline: extract.NewPipeline(cfg, client, extract.NewBrowserExtractor(mgr, cfg.MaxDescriptionChars)),
		selector: pdflink.NewSelector(client, cfg.Sites.PreferEmbeddedPDFOrgs, cfg.PDFScoreThreshold, cfg.PDFScoreThresholdPreferred),
		browser:  mgr,
	}
}

// Describe runs only the HTML description pipeline. The runner uses it as
// a direct browser fallback for playwright-designated jobs whose HTTP
// preflight failed.
func (r *Resolver) Describe(ctx context.Context, rawURL string, usePlaywright bool) (string, error) {
	return r.pipeline.Describe(ctx, rawURL, usePlaywright)
}

func (r *Resolver) Close() error {
	return r.browser.Close()
}

func (r *Resolver) orgPDFDir(runID, orgAbbrev string) string {
	return filepath.Join(r.cfg.PDFDir(runID), orgAbbrev)
}

// FetchJobContent decides the content strategy for one job URL and
// extracts the best description text or PDF artifact.
func (r *Resolver) FetchJobContent(ctx context.Context, rawURL, orgAbbrev, title string, usePlaywright bool, runID string) (Result, error) {
	if rawURL == "" {
		return Result{
			ContentType:  "error",
			EnrichStatus: StatusNoDetailURL,
			StatusReason: ReasonMissingURL,
			FetchMethod:  "none",
		}, nil
	}

	if browser.IsTableRowURL(r.cfg.Sites.TableInterfaceDomains, rawURL) {
		pdfPath, err := r.browser.DownloadTableRowPDF(ctx, rawURL, r.orgPDFDir(runID, orgAbbrev), title)
		if err != nil {
			return Result{}, err
		}
		return Result{
			ContentType:  "pdf",
			PDFPath:      pdfPath,
			EnrichStatus: StatusPDF,
			StatusReason: ReasonTableDownload,
			FetchMethod:  "playwright",
		}, nil
	}

	if r.client.DetectContentType(ctx, rawURL) == "pdf" {
		pdfPath, err := r.client.DownloadPDF(ctx, rawURL, r.orgPDFDir(runID, orgAbbrev), title)
		if err != nil {
			return Result{}, err
		}
		return Result{
			ContentType:  "pdf",
			PDFPath:      pdfPath,
			EnrichStatus: StatusPDF,
			FetchMethod:  "http",
		}, nil
	}

	html, err := r.client.FetchText(ctx, rawURL)
	if err != nil {
		return Result{}, err
	}
	pdfLink := r.selector.Select(ctx, html, rawURL, title, orgAbbrev)

	if r.selector.Prefers(orgAbbrev) && pdfLink != "" {
		pdfPath, err := r.client.DownloadPDF(ctx, pdfLink, r.orgPDFDir(runID, orgAbbrev), title)
		if err != nil {
			return Result{}, err
		}
		return Result{
			ContentType:  "pdf",
			PDFPath:      pdfPath,
			EnrichStatus: StatusPDF,
			StatusReason: ReasonEmbeddedPDFPref,
			FetchMethod:  "http",
		}, nil
	}

	description, err := r.pipeline.Describe(ctx, rawURL, usePlaywright)
	if err != nil {
		return Result{}, err
	}

	if extract.IsShortOrPlaceholder(description) && pdfLink != "" {
		pdfPath, err := r.client.DownloadPDF(ctx, pdfLink, r.orgPDFDir(runID, orgAbbrev), title)
		if err != nil {
			return Result{}, err
		}
		return Result{
			ContentType:  "pdf",
			PDFPath:      pdfPath,
			EnrichStatus: StatusPDF,
			StatusReason: ReasonEmbeddedPDF,
			FetchMethod:  "http",
		}, nil
	}

	if extract.IsShortOrPlaceholder(description) {
		status, reason := StatusShortContent, ReasonShortDescription
		if extract.HasJSMarker(description) {
			status, reason = StatusJSRequired, StatusJSRequired
		}
		return Result{
			ContentType:  "html",
			Description:  description,
			EnrichStatus: status,
			StatusReason: reason,
			FetchMethod:  "http",
		}, nil
	}

	return Result{
		ContentType:  "html",
		Description:  description,
		EnrichStatus: StatusOK,
		FetchMethod:  "http",
	}, nil
}
