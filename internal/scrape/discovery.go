package scrape

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"review_spider/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// maxDiscovered caps a discovery run regardless of the page budget.
const maxDiscovered = 10

// DiscoverRestaurants walks the paginated search results for a location and
// extracts up to ten restaurant summaries in display order. A failing page
// fails the stage; a failing card is logged and skipped, because any single
// listing's markup can be malformed or half-loaded.
func (s *Scraper) DiscoverRestaurants(ctx context.Context, location string, maxPages int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant

	for page := 1; page <= maxPages && len(restaurants) < maxDiscovered; page++ {
		log.Printf("🔍 Scraping search results page %d...", page)

		doc, err := s.fetch(ctx, SearchURL(s.cfg.BaseURL, location, page), selResultCard, false)
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}

		cards := doc.Find(selResultCard)
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= resultsPerPage || len(restaurants) >= maxDiscovered {
				return false
			}

			resto, err := s.parseResultCard(card)
			if err != nil {
				log.Printf("⚠️ Skipping result card: %v", err)
				return true
			}

			restaurants = append(restaurants, resto)
			return true
		})
	}

	if len(restaurants) > maxDiscovered {
		restaurants = restaurants[:maxDiscovered]
	}
	return restaurants, nil
}

func (s *Scraper) parseResultCard(card *goquery.Selection) (models.Restaurant, error) {
	link := card.Find(selCardLink).First()
	if link.Length() == 0 {
		return models.Restaurant{}, fmt.Errorf("no title link in card")
	}

	name := strings.TrimSpace(link.Text())
	if name == "" {
		return models.Restaurant{}, fmt.Errorf("empty restaurant name")
	}

	href, ok := link.Attr("href")
	if !ok || href == "" {
		return models.Restaurant{}, fmt.Errorf("restaurant %q has no URL", name)
	}
	if strings.HasPrefix(href, "/") {
		href = s.cfg.BaseURL + href
	}
	// Same page, same string: variants with www, fragments or a missing
	// scheme must all yield one identifier.
	href = NormalizeURL(href)

	starsLabel, ok := card.Find(selCardStars).First().Attr("aria-label")
	if !ok {
		return models.Restaurant{}, fmt.Errorf("restaurant %q has no rating label", name)
	}
	rating, err := parseLeadingFloat(starsLabel)
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("restaurant %q rating: %v", name, err)
	}

	return models.Restaurant{
		ID:           models.RestaurantIDFromURL(href),
		Name:         name,
		URL:          href,
		Rating:       rating,
		ReviewsCount: strings.TrimSpace(card.Find(selCardReviewCount).First().Text()),
		Location:     strings.TrimSpace(card.Find(selCardLocation).First().Text()),
		LastUpdated:  time.Now().Format(time.RFC3339),
	}, nil
}

// parseLeadingFloat reads the number that opens an ARIA label like
// "4,5 étoiles". The site uses comma decimals.
func parseLeadingFloat(label string) (float64, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty label")
	}
	return strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64)
}
