package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Review type and sentiment labels. The crawl-time label derived from the
// star rating is unaccented, the text-derived sentiment label is accented;
// both spellings come from the source data and are kept distinct.
const (
	ReviewTypeNegative = "negatif"
	ReviewTypeNeutral  = "neutre"
	ReviewTypePositive = "positif"

	SentimentNegative = "négatif"
	SentimentNeutral  = "neutre"
	SentimentPositive = "positif"
)

const OperationRestaurantsAndReviews = "restaurants_and_reviews"

type Restaurant struct {
	ID           string  `bson:"_id" json:"id"`
	Name         string  `bson:"name" json:"name"`
	URL          string  `bson:"url" json:"url"`
	Rating       float64 `bson:"rating" json:"rating"`
	ReviewsCount string  `bson:"reviews_count" json:"reviews_count"`
	Location     string  `bson:"location" json:"location"`
	LastUpdated  string  `bson:"last_updated" json:"last_updated"`
}

type Review struct {
	ID           string `bson:"_id" json:"id"`
	RestaurantID string `bson:"restaurant_id" json:"restaurant_id"`
	UserID       string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserName     string `bson:"user_name" json:"user_name"`
	UserLocation string `bson:"user_location,omitempty" json:"user_location,omitempty"`
	Rating       int    `bson:"rating" json:"rating"`
	Date         string `bson:"date" json:"date"`
	Text         string `bson:"text" json:"text"`
	Reactions    string `bson:"reactions" json:"reactions"`
	ReviewType   string `bson:"review_type" json:"review_type"`
	PageNumber   int    `bson:"page_number" json:"page_number"`
	ScrapedAt    string `bson:"scraped_at" json:"scraped_at"`

	// Set by the enrichment pass, absent until then.
	Sentiment         string          `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	SentimentKeywords []KeywordWeight `bson:"sentiment_keywords,omitempty" json:"sentiment_keywords,omitempty"`
}

// KeywordWeight is one ranked entry of a review's keyword map. An ordered
// array is stored instead of a map because the ranking order matters.
type KeywordWeight struct {
	Word  string  `bson:"word" json:"word"`
	Score float64 `bson:"score" json:"score"`
}

type IngestRequest struct {
	Operation      string `json:"operation"`
	Location       string `json:"location"`
	MaxRestaurants int    `json:"max_restaurants"`
	MaxReviews     int    `json:"max_reviews_per_restaurant"`
}

type IngestResult struct {
	RunID            string `json:"run_id"`
	RestaurantsCount int    `json:"restaurants_count"`
	TotalReviews     int    `json:"total_reviews"`
}

// ReviewTypeForRating maps a 1-5 star rating to its crawl-time label:
// 1-2 negatif, 3 neutre, 4-5 positif.
func ReviewTypeForRating(rating int) string {
	switch {
	case rating <= 2:
		return ReviewTypeNegative
	case rating == 3:
		return ReviewTypeNeutral
	default:
		return ReviewTypePositive
	}
}

// RestaurantIDFromURL derives the stable identifier from a restaurant page
// URL: the last path segment, query stripped, URL-decoded. The same URL
// always yields the same id so re-ingestion overwrites instead of
// duplicating.
func RestaurantIDFromURL(rawURL string) string {
	trimmed := rawURL
	if i := strings.Index(trimmed, "?"); i != -1 {
		trimmed = trimmed[:i]
	}
	slug := trimmed
	if i := strings.LastIndex(trimmed, "/"); i != -1 {
		slug = trimmed[i+1:]
	}
	if decoded, err := url.QueryUnescape(slug); err == nil {
		return decoded
	}
	return slug
}

// ReviewID builds the best-effort composite review key. Collisions (same
// user and date on one restaurant) overwrite, which is acceptable for this
// source.
func ReviewID(restaurantID, userName, date string) string {
	cleanName := strings.ReplaceAll(userName, " ", "_")
	cleanDate := strings.ReplaceAll(date, " ", "_")
	return fmt.Sprintf("%s_%s_%s", restaurantID, cleanName, cleanDate)
}
