package scrape

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"review_spider/internal/browser"
	"review_spider/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
)

// Selectors for the target site's current markup. Any change on their side
// is a breaking interface change, not a bug here.
const (
	selResultCard      = "[data-testid='serp-ia-card']"
	selCardLink        = "h3 a"
	selCardStars       = "[aria-label*='étoiles']"
	selCardReviewCount = "[data-font-weight='semibold'] + span"
	selCardLocation    = "[class*='css-4p5f5z']"

	selConsentButton = "button#onetrust-accept-btn-handler"
	selReviewItem    = "li.y-css-1sqelp2"
	selUserPassport  = ".user-passport-info"
	selUserLocation  = "[data-testid='UserPassportInfoTextContainer'] span"
	selReviewStars   = ".y-css-dnttlc"
	selReviewDate    = ".y-css-1d8mpv1"
	selReviewText    = ".comment__09f24__D0cxf"
	selReactionBtn   = ".y-css-4u1w9w"
)

// Scraper runs the discovery and harvest stages over one fetcher, strictly
// sequentially. The target site is fragile under concurrent automated
// sessions, so there is exactly one in-flight fetch at any time.
type Scraper struct {
	fetcher    browser.Fetcher
	cfg        config.ScrapeConfig
	browserCfg config.BrowserConfig

	robotsGroup *robotstxt.Group
}

func NewScraper(fetcher browser.Fetcher, cfg config.ScrapeConfig, browserCfg config.BrowserConfig) *Scraper {
	s := &Scraper{
		fetcher:    fetcher,
		cfg:        cfg,
		browserCfg: browserCfg,
	}
	if cfg.RespectRobots {
		s.initRobots()
	}
	return s
}

// initRobots loads the site's robots.txt once, best-effort. Failure to load
// it never blocks the crawl.
func (s *Scraper) initRobots() {
	robotsURL := s.cfg.BaseURL + "/robots.txt"
	log.Printf("🤖 Loading robots.txt: %s", robotsURL)

	req, err := http.NewRequest(http.MethodGet, robotsURL, nil)
	if err != nil {
		log.Printf("⚠️ Could not build robots.txt request: %v", err)
		return
	}
	// The group we test against must be the one the site applies to our
	// own traffic, so the lookup uses the crawl user agent.
	req.Header.Set("User-Agent", s.browserCfg.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("⚠️ Could not load robots.txt (ignored): %v", err)
		return
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.Printf("⚠️ Could not parse robots.txt: %v", err)
		return
	}

	s.robotsGroup = data.FindGroup(s.browserCfg.UserAgent)
}

func (s *Scraper) allowed(rawURL string) bool {
	if s.robotsGroup == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return s.robotsGroup.Test(u.Path)
}

// fetch applies the politeness delay and robots check, then loads the page
// and waits for waitSelector. withConsent adds the best-effort cookie
// banner dismissal before the wait.
func (s *Scraper) fetch(ctx context.Context, pageURL, waitSelector string, withConsent bool) (*goquery.Document, error) {
	if !s.allowed(pageURL) {
		return nil, fmt.Errorf("blocked by robots.txt: %s", pageURL)
	}

	time.Sleep(s.cfg.Delay())

	req := browser.Request{
		URL:          pageURL,
		WaitSelector: waitSelector,
		WaitTimeout:  s.browserCfg.WaitTimeout(),
	}
	if withConsent {
		req.ConsentSelector = selConsentButton
		req.ConsentTimeout = s.browserCfg.ConsentTimeout()
	}

	return s.fetcher.Fetch(ctx, req)
}
