package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"review_spider/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// ErrWaitTimeout reports that the awaited selector never became visible
// within the budget. Stages treat it as a per-scope skip, never a retry.
var ErrWaitTimeout = errors.New("awaited element did not appear before deadline")

// Request describes one page load. WaitSelector is the element whose
// visibility signals that the page is usable; ConsentSelector, when set, is
// clicked best-effort before waiting.
type Request struct {
	URL             string
	WaitSelector    string
	WaitTimeout     time.Duration
	ConsentSelector string
	ConsentTimeout  time.Duration
}

// Fetcher loads a page and returns a parsed snapshot of its DOM.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*goquery.Document, error)
}

// ChromeFetcher drives a headless Chrome session. Every Fetch owns exactly
// one browser process for its duration; the deferred cancels release it on
// every exit path.
type ChromeFetcher struct {
	cfg config.BrowserConfig
}

func NewChromeFetcher(cfg config.BrowserConfig) *ChromeFetcher {
	return &ChromeFetcher{cfg: cfg}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", f.cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.cfg.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelNav := context.WithTimeout(taskCtx, time.Duration(f.cfg.NavTimeoutSec)*time.Second)
	defer cancelNav()

	if err := chromedp.Run(taskCtx, chromedp.Navigate(req.URL)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	if req.ConsentSelector != "" {
		f.dismissConsent(taskCtx, req.ConsentSelector, req.ConsentTimeout)
	}

	if req.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(taskCtx, req.WaitTimeout)
		defer cancelWait()

		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(req.WaitSelector, chromedp.ByQuery)); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %q on %s", ErrWaitTimeout, req.WaitSelector, req.URL)
			}
			return nil, fmt.Errorf("wait for %q: %w", req.WaitSelector, err)
		}
	}

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", req.URL, err)
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// dismissConsent clicks the cookie banner if one shows up. Its absence is a
// normal outcome, so any error here is swallowed.
func (f *ChromeFetcher) dismissConsent(ctx context.Context, selector string, timeout time.Duration) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(cctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		log.Println("🍪 No cookie banner, or already accepted")
	}
}
