package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"

	"go-vacancy-enricher/internal/config"
)

// newTestClient returns a client whose backoff sleeps are recorded
// instead of slept.
func newTestClient() (*Client, *[]time.Duration) {
	cfg := &config.Config{
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
		Sites:          config.SiteSets{SSLInsecureDomains: mapset.NewSet[string]()},
	}
	c := NewClient(cfg)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "finally")
	}))
	defer srv.Close()

	c, slept := newTestClient()
	body, err := c.FetchText(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Equal(t, "finally", body)
	assert.Equal(t, 3, attempts)
	//exponential backoff between attempts
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestDoGivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, _ := newTestClient()
	_, err := c.FetchText(context.Background(), srv.URL+"/gone")

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	//the status line is preserved for the error classifier
	assert.Contains(t, err.Error(), "404")
}

func TestDoHonorsRetryAfterSeconds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c, slept := newTestClient()
	body, err := c.FetchText(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, []time.Duration{7 * time.Second}, *slept)
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		attempt  int
		expected time.Duration
	}{
		{
			name:     "Plain error backs off",
			err:      fmt.Errorf("connection refused"),
			attempt:  1,
			expected: 2 * time.Second,
		},
		{
			name:     "Non-429 status ignores header",
			err:      &StatusError{StatusCode: 503, RetryAfter: "30"},
			attempt:  0,
			expected: 1 * time.Second,
		},
		{
			name:     "429 with seconds",
			err:      &StatusError{StatusCode: 429, RetryAfter: "2.5"},
			attempt:  0,
			expected: 2500 * time.Millisecond,
		},
		{
			name:     "429 with negative seconds",
			err:      &StatusError{StatusCode: 429, RetryAfter: "-3"},
			attempt:  0,
			expected: 0,
		},
		{
			name:     "429 with past http date",
			err:      &StatusError{StatusCode: 429, RetryAfter: "Mon, 02 Jan 2006 15:04:05 GMT"},
			attempt:  0,
			expected: 0,
		},
		{
			name:     "429 with garbage header",
			err:      &StatusError{StatusCode: 429, RetryAfter: "soon"},
			attempt:  2,
			expected: 4 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryDelay(tt.err, tt.attempt); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDetectContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inline-pdf":
			w.Header().Set("Content-Type", "application/pdf")
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, _ := newTestClient()
	ctx := context.Background()

	//.pdf suffix decides without a request
	assert.Equal(t, "pdf", c.DetectContentType(ctx, "https://unreachable.test/file.PDF"))
	assert.Equal(t, "pdf", c.DetectContentType(ctx, srv.URL+"/inline-pdf"))
	assert.Equal(t, "html", c.DetectContentType(ctx, srv.URL+"/page"))
	//failures fall back to html
	assert.Equal(t, "html", c.DetectContentType(ctx, srv.URL+"/missing"))
}

func TestDownloadPDF(t *testing.T) {
	payload := "%PDF-1.4 test payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	c, _ := newTestClient()
	dir := t.TempDir()

	path, err := c.DownloadPDF(context.Background(), srv.URL+"/notice.pdf", dir, "Senior Legal Officer")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.Contains(t, path, "senior-legal-officer-")

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestDownloadPDFCleansUpOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := newTestClient()
	dir := t.TempDir()

	_, err := c.DownloadPDF(context.Background(), srv.URL+"/notice.pdf", dir, "Officer")

	assert.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	assert.NoError(t, readErr)
	assert.Empty(t, entries, "no partial file should remain")
}
