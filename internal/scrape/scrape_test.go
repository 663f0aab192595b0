package scrape

import (
	"context"
	"strings"
	"testing"

	"review_spider/internal/browser"
	"review_spider/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned documents instead of driving a browser.
type fakeFetcher struct {
	fetchFn func(req browser.Request) (*goquery.Document, error)
}

func (f *fakeFetcher) Fetch(_ context.Context, req browser.Request) (*goquery.Document, error) {
	return f.fetchFn(req)
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newTestScraper(fetcher browser.Fetcher) *Scraper {
	return NewScraper(fetcher, config.ScrapeConfig{BaseURL: "https://www.yelp.fr"}, config.BrowserConfig{})
}
