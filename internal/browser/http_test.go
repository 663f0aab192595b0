package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"review_spider/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherFetch(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><body><div data-testid="serp-ia-card"><h3>Chez Janou</h3></div></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.BrowserConfig{UserAgent: "test-agent", NavTimeoutSec: 5})
	doc, err := f.Fetch(context.Background(), Request{
		URL:          srv.URL,
		WaitSelector: "[data-testid='serp-ia-card']",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-agent", gotUserAgent)
	assert.Equal(t, 1, doc.Find("[data-testid='serp-ia-card']").Length())
}

func TestHTTPFetcherMissingSelector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.BrowserConfig{NavTimeoutSec: 5})
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL, WaitSelector: "li.y-css-1sqelp2"})

	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestHTTPFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.BrowserConfig{NavTimeoutSec: 5})
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL})

	assert.Error(t, err)
}

func TestHTTPFetcherCaptchaPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="captcha">prove you are human</div></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.BrowserConfig{NavTimeoutSec: 5})
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "captcha")
}
