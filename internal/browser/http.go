package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"review_spider/internal/config"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const maxRedirectHops = 15

// HTTPFetcher is the scriptless fallback. It cannot execute the page's
// javascript, so WaitSelector is checked against the static markup: if the
// selector matches nothing the fetch reports ErrWaitTimeout just like the
// browser would.
type HTTPFetcher struct {
	cfg    config.BrowserConfig
	client *http.Client
}

func NewHTTPFetcher(cfg config.BrowserConfig) *HTTPFetcher {
	jar, _ := cookiejar.New(nil)
	return &HTTPFetcher{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
				MaxIdleConns:      0,
			},
			Jar:     jar,
			Timeout: time.Duration(cfg.NavTimeoutSec) * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirectHops {
					return fmt.Errorf("stopped after %d redirects", maxRedirectHops)
				}
				return nil
			},
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", f.cfg.UserAgent)
	httpReq.Header.Set("Referer", "https://www.google.com/")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, req.URL)
	}

	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		utf8Reader = resp.Body
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, err
	}

	if strings.Contains(strings.ToLower(string(body)), "captcha") {
		return nil, fmt.Errorf("captcha detected on %s", req.URL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	if req.WaitSelector != "" && doc.Find(req.WaitSelector).Length() == 0 {
		return nil, fmt.Errorf("%w: %q on %s", ErrWaitTimeout, req.WaitSelector, req.URL)
	}

	return doc, nil
}
