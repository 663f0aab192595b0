package sentiment

import (
	"log"
	"strings"

	"review_spider/internal/models"
)

// ReviewStore is the slice of the persistence gateway the enrichment pass
// needs: a full scan plus the targeted two-field update.
type ReviewStore interface {
	ListReviews(restaurantID string) ([]models.Review, error)
	SetReviewSentiment(id, sentiment string, keywords []models.KeywordWeight) error
}

// Enricher runs the sentiment pass over every persisted review.
type Enricher struct {
	store    ReviewStore
	analyzer *Analyzer
}

func NewEnricher(store ReviewStore) *Enricher {
	return &Enricher{store: store, analyzer: NewAnalyzer()}
}

// Run scans all reviews, scores each one's text and writes the label and
// keyword weights back. Reviews with empty or whitespace-only text are left
// untouched: writing a meaningless neutral label over missing data helps
// nobody. Returns the number of reviews enriched.
func (e *Enricher) Run() (int, error) {
	reviews, err := e.store.ListReviews("")
	if err != nil {
		return 0, err
	}

	enriched := 0
	for _, review := range reviews {
		if strings.TrimSpace(review.Text) == "" {
			continue
		}

		label, keywords := e.analyzer.Analyze(review.Text)

		if err := e.store.SetReviewSentiment(review.ID, label, keywords); err != nil {
			log.Printf("❌ Could not update sentiment for %s: %v", review.ID, err)
			continue
		}
		enriched++
	}

	log.Printf("💬 Enriched %d of %d reviews", enriched, len(reviews))
	return enriched, nil
}
