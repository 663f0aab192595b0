package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"review_spider/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// HarvestReviews reads reviews for one restaurant twice, best-rated first
// and worst-rated first, taking maxReviews/2 from each ordering. Failures
// are contained at the narrowest scope: a bad review skips that review, a
// sort order whose list never appears skips that order, and the other one
// is still attempted. An empty slice is a valid outcome.
func (s *Scraper) HarvestReviews(ctx context.Context, restaurantURL string, maxReviews int) []models.Review {
	restaurantID := models.RestaurantIDFromURL(restaurantURL)

	perSort := maxReviews / 2
	if perSort < 1 {
		perSort = 1
	}

	var reviews []models.Review
	for _, sortOrder := range []string{SortBestFirst, SortWorstFirst} {
		doc, err := s.fetch(ctx, SortedReviewURL(restaurantURL, sortOrder), selReviewItem, true)
		if err != nil {
			log.Printf("⚠️ Skipping sort order %s for %s: %v", sortOrder, restaurantID, err)
			continue
		}

		collected := 0
		doc.Find(selReviewItem).EachWithBreak(func(i int, item *goquery.Selection) bool {
			if collected >= perSort {
				return false
			}

			review, err := s.parseReview(item, restaurantID)
			if err != nil {
				log.Printf("⚠️ Skipping %s review: %v", sortOrder, err)
				return true
			}

			reviews = append(reviews, review)
			collected++
			return true
		})

		log.Printf("📄 Collected %d reviews sorted %s for %s", collected, sortOrder, restaurantID)
	}

	return reviews
}

func (s *Scraper) parseReview(item *goquery.Selection, restaurantID string) (models.Review, error) {
	userInfo := item.Find(selUserPassport).First()
	if userInfo.Length() == 0 {
		return models.Review{}, fmt.Errorf("no user passport block")
	}

	userLink := userInfo.Find("a").First()
	userName := strings.TrimSpace(userLink.Text())
	if userName == "" {
		return models.Review{}, fmt.Errorf("empty user name")
	}

	// Profile id is optional, read from the link's query parameter.
	var userID string
	if href, ok := userLink.Attr("href"); ok {
		userID = extractUserID(href)
	}

	userLocation := strings.TrimSpace(userInfo.Find(selUserLocation).First().Text())

	ratingLabel, ok := item.Find(selReviewStars).First().Attr("aria-label")
	if !ok {
		return models.Review{}, fmt.Errorf("no rating label")
	}
	rating, err := parseLeadingInt(ratingLabel)
	if err != nil {
		return models.Review{}, fmt.Errorf("rating label %q: %v", ratingLabel, err)
	}

	dateEl := item.Find(selReviewDate).First()
	if dateEl.Length() == 0 {
		return models.Review{}, fmt.Errorf("no date element")
	}
	date := strings.TrimSpace(dateEl.Text())

	textEl := item.Find(selReviewText).First()
	if textEl.Length() == 0 {
		return models.Review{}, fmt.Errorf("no comment element")
	}
	text := strings.TrimSpace(textEl.Text())

	reactions := parseReactions(item)
	reactionsJSON, _ := json.Marshal(reactions)

	return models.Review{
		ID:           models.ReviewID(restaurantID, userName, date),
		RestaurantID: restaurantID,
		UserID:       userID,
		UserName:     userName,
		UserLocation: userLocation,
		Rating:       rating,
		Date:         date,
		Text:         text,
		Reactions:    string(reactionsJSON),
		ReviewType:   models.ReviewTypeForRating(rating),
		PageNumber:   1,
		ScrapedAt:    time.Now().Format(time.RFC3339),
	}, nil
}

// parseReactions reads every reaction control's ARIA label, formatted
// "<Type> (<count> ...)". Labels that don't match are ignored.
func parseReactions(item *goquery.Selection) map[string]int {
	reactions := make(map[string]int)

	item.Find(selReactionBtn).Each(func(_ int, btn *goquery.Selection) {
		label, ok := btn.Attr("aria-label")
		if !ok || label == "" {
			return
		}

		open := strings.Index(label, "(")
		if open == -1 {
			return
		}
		close := strings.Index(label[open:], ")")
		if close == -1 {
			return
		}

		inner := strings.Fields(label[open+1 : open+close])
		if len(inner) == 0 {
			return
		}
		count, err := strconv.Atoi(inner[0])
		if err != nil {
			return
		}

		reactionType := strings.TrimSpace(label[:open])
		reactionType = strings.ReplaceAll(strings.ToLower(reactionType), " ", "_")
		reactions[reactionType] = count
	})

	return reactions
}

func extractUserID(href string) string {
	const marker = "userid="
	i := strings.Index(href, marker)
	if i == -1 {
		return ""
	}
	id := href[i+len(marker):]
	if amp := strings.Index(id, "&"); amp != -1 {
		id = id[:amp]
	}
	return id
}

func parseLeadingInt(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty label")
	}
	return strconv.Atoi(fields[0])
}
