package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"review_spider/internal/config"
	"review_spider/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence gateway: upsert by id, filtered scans and a
// targeted sentiment update. No transactions, no range queries.
type Store struct {
	client      *mongo.Client
	database    *mongo.Database
	restaurants *mongo.Collection
	reviews     *mongo.Collection
}

func NewStore(cfg config.DBConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Connection))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("can't ping MongoDB: %v", err)
	}

	database := client.Database(cfg.Database)

	s := &Store{
		client:      client,
		database:    database,
		restaurants: database.Collection(cfg.Collections.Restaurants),
		reviews:     database.Collection(cfg.Collections.Reviews),
	}

	if err := s.createIndexes(); err != nil {
		return nil, fmt.Errorf("can't create indexes: %v", err)
	}

	return s, nil
}

func (s *Store) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "restaurant_id", Value: 1}},
	}
	_, err := s.reviews.Indexes().CreateOne(ctx, indexModel)
	if err != nil && err.Error() != "index already exists" {
		log.Printf("⚠️ Could not create restaurant_id index: %v", err)
	}

	return nil
}

// SaveRestaurant upserts by the URL-derived id, so re-ingesting the same
// restaurant overwrites instead of duplicating.
func (s *Store) SaveRestaurant(r *models.Restaurant) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := s.restaurants.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, opts)
	return err
}

func (s *Store) SaveReview(rv *models.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := s.reviews.ReplaceOne(ctx, bson.M{"_id": rv.ID}, rv, opts)
	return err
}

// ListRestaurantIDs scans the restaurant collection and returns only ids.
func (s *Store) ListRestaurantIDs() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := s.restaurants.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err == nil {
			ids = append(ids, row.ID)
		}
	}
	return ids, cursor.Err()
}

// ListReviews scans reviews with an optional equality filter on
// restaurant_id; pass "" for a full scan.
func (s *Store) ListReviews(restaurantID string) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := bson.M{}
	if restaurantID != "" {
		filter["restaurant_id"] = restaurantID
	}

	cursor, err := s.reviews.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// SetReviewSentiment attaches the two enrichment fields to an existing
// review without touching the rest of the record.
func (s *Store) SetReviewSentiment(id, sentiment string, keywords []models.KeywordWeight) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"sentiment":          sentiment,
		"sentiment_keywords": keywords,
	}}

	_, err := s.reviews.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
