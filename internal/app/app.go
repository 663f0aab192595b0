package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"review_spider/internal/models"

	"github.com/google/uuid"
)

// ErrUnsupportedOperation is returned before any work starts when the
// request names an operation this pipeline does not implement.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// Discoverer is the restaurant discovery stage.
type Discoverer interface {
	DiscoverRestaurants(ctx context.Context, location string, maxPages int) ([]models.Restaurant, error)
}

// Harvester is the review harvest stage. It never fails as a whole; an
// empty slice is a valid result.
type Harvester interface {
	HarvestReviews(ctx context.Context, restaurantURL string, maxReviews int) []models.Review
}

// IngestStore is the slice of the persistence gateway the ingest run needs.
type IngestStore interface {
	SaveRestaurant(r *models.Restaurant) error
	SaveReview(rv *models.Review) error
}

// Ingestor sequences discovery, per-restaurant harvest and persistence.
// Stages run strictly one after another; one restaurant's failure never
// aborts the batch.
type Ingestor struct {
	discoverer Discoverer
	harvester  Harvester
	store      IngestStore
	maxPages   int
}

func NewIngestor(discoverer Discoverer, harvester Harvester, store IngestStore, maxPages int) *Ingestor {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Ingestor{
		discoverer: discoverer,
		harvester:  harvester,
		store:      store,
		maxPages:   maxPages,
	}
}

// Run executes one ingestion. Only a discovery failure (or an unsupported
// operation, which fails before any work) can fail the run; everything else
// degrades to a partial result with honest counters.
func (ing *Ingestor) Run(ctx context.Context, req models.IngestRequest) (*models.IngestResult, error) {
	applyDefaults(&req)

	if req.Operation != models.OperationRestaurantsAndReviews {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, req.Operation)
	}

	runID := uuid.NewString()
	log.Printf("🚀 Ingest run %s: location=%q max_restaurants=%d max_reviews=%d",
		runID, req.Location, req.MaxRestaurants, req.MaxReviews)

	restaurants, err := ing.discoverer.DiscoverRestaurants(ctx, req.Location, ing.maxPages)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	batch := restaurants
	if len(batch) > req.MaxRestaurants {
		batch = batch[:req.MaxRestaurants]
	}

	totalReviews := 0
	for _, resto := range batch {
		persisted, err := ing.ingestRestaurant(ctx, resto, req.MaxReviews)
		totalReviews += persisted
		if err != nil {
			log.Printf("❌ Skipping restaurant %s: %v", resto.ID, err)
			continue
		}
		log.Printf("✅ Saved %d reviews for %s", persisted, resto.Name)
	}

	return &models.IngestResult{
		RunID:            runID,
		RestaurantsCount: len(restaurants),
		TotalReviews:     totalReviews,
	}, nil
}

// ingestRestaurant persists one restaurant and its harvested reviews. It
// returns how many reviews actually made it to the store, even when it also
// returns an error, so the run counters stay honest.
func (ing *Ingestor) ingestRestaurant(ctx context.Context, resto models.Restaurant, maxReviews int) (int, error) {
	if err := ing.store.SaveRestaurant(&resto); err != nil {
		return 0, fmt.Errorf("save restaurant: %w", err)
	}
	log.Printf("🍽  Restaurant saved: %s", resto.Name)

	reviews := ing.harvester.HarvestReviews(ctx, resto.URL, maxReviews)

	persisted := 0
	for i := range reviews {
		if err := ing.store.SaveReview(&reviews[i]); err != nil {
			return persisted, fmt.Errorf("save review %s: %w", reviews[i].ID, err)
		}
		persisted++
	}

	return persisted, nil
}

func applyDefaults(req *models.IngestRequest) {
	if req.Operation == "" {
		req.Operation = models.OperationRestaurantsAndReviews
	}
	if req.Location == "" {
		req.Location = "Paris"
	}
	// Zero and negative limits both fall back to the defaults; a negative
	// value must never reach the batch slicing.
	if req.MaxRestaurants <= 0 {
		req.MaxRestaurants = 10
	}
	if req.MaxReviews <= 0 {
		req.MaxReviews = 10
	}
}
