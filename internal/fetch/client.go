// HTTP transport shared by the extractors and the resolver: retrying
// requests with 429-aware backoff, content-type detection, and JSON helpers.

package fetch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-vacancy-enricher/internal/config"
)

const maxAttempts = 3

type Client struct {
	httpClient     *http.Client
	insecureClient *http.Client
	userAgent      string
	sites          config.SiteSets
	// sleep is swappable so tests do not wait out real backoff delays.
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config) *Client {
	insecureTransport := http.DefaultTransport.(*http.Transport).Clone()
	insecureTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		insecureClient: &http.Client{Timeout: cfg.RequestTimeout, Transport: insecureTransport},
		userAgent:      cfg.UserAgent,
		sites:          cfg.Sites,
		sleep:          time.Sleep,
	}
}

// StatusError is a non-2xx response, surfaced with the status line so the
// error classifier can match on it.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	RetryAfter string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s: %s", e.URL, e.Status)
}

func URLHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

func (c *Client) clientFor(rawURL string) *http.Client {
	if config.HostIn(c.sites.SSLInsecureDomains, URLHost(rawURL)) {
		return c.insecureClient
	}
	return c.httpClient
}

// Do issues an HTTP request with up to three attempts. Backoff is
// exponential, except for 429 responses carrying a Retry-After header,
// which is honored (seconds or HTTP-date form).
func (c *Client) Do(ctx context.Context, method, rawURL string, headers map[string]string) (*http.Response, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.clientFor(rawURL).Do(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}
		if err != nil {
			lastErr = fmt.Errorf("request %s: %w", rawURL, err)
		} else {
			statusErr := &StatusError{
				URL:        rawURL,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				RetryAfter: resp.Header.Get("Retry-After"),
			}
			resp.Body.Close()
			lastErr = statusErr
		}

		if attempt == maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c.sleep(retryDelay(lastErr, attempt))
	}
	return nil, lastErr
}

// retryDelay honors Retry-After for 429 responses, else backs off 2^attempt.
func retryDelay(err error, attempt int) time.Duration {
	backoff := time.Duration(1<<attempt) * time.Second
	statusErr, ok := err.(*StatusError)
	if !ok || statusErr.StatusCode != http.StatusTooManyRequests || statusErr.RetryAfter == "" {
		return backoff
	}
	if secs, err := strconv.ParseFloat(statusErr.RetryAfter, 64); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs * float64(time.Second))
	}
	if t, err := mail.ParseDate(statusErr.RetryAfter); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d
	}
	return backoff
}

// FetchText GETs a page and returns its body as a string.
func (c *Client) FetchText(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.Do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return string(body), nil
}

// GetJSON fetches a JSON endpoint into v. Extractor callers treat any
// failure as "strategy does not apply", so errors stay coarse.
func (c *Client) GetJSON(ctx context.Context, rawURL, accept string, v any) error {
	if accept == "" {
		accept = "application/json"
	}
	resp, err := c.Do(ctx, http.MethodGet, rawURL, map[string]string{"Accept": accept})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// PostJSON posts a JSON payload and decodes the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body, v any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", rawURL, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(string(encoded)))
		if err != nil {
			return fmt.Errorf("invalid url %q: %w", rawURL, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.clientFor(rawURL).Do(req)
		if err == nil && resp.StatusCode < 400 {
			defer resp.Body.Close()
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return fmt.Errorf("decode %s: %w", rawURL, err)
			}
			return nil
		}
		if err != nil {
			lastErr = fmt.Errorf("request %s: %w", rawURL, err)
		} else {
			statusErr := &StatusError{
				URL:        rawURL,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				RetryAfter: resp.Header.Get("Retry-After"),
			}
			resp.Body.Close()
			lastErr = statusErr
		}
		if attempt == maxAttempts-1 {
			break
		}
		c.sleep(retryDelay(lastErr, attempt))
	}
	return lastErr
}

// DetectContentType decides pdf vs html for a URL. A .pdf path suffix
// decides without network; otherwise a HEAD request checks Content-Type,
// and any failure falls back to html.
func (c *Client) DetectContentType(ctx context.Context, rawURL string) string {
	if strings.HasSuffix(strings.ToLower(rawURL), ".pdf") {
		return "pdf"
	}
	resp, err := c.Do(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "html"
	}
	defer resp.Body.Close()
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/pdf") {
		return "pdf"
	}
	return "html"
}
