package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"review_spider/internal/app"
	"review_spider/internal/models"
	"review_spider/internal/render"

	"github.com/gorilla/mux"
)

// IngestRunner triggers one crawl-and-persist run.
type IngestRunner interface {
	Run(ctx context.Context, req models.IngestRequest) (*models.IngestResult, error)
}

// EnrichRunner runs the sentiment pass over persisted reviews.
type EnrichRunner interface {
	Run() (int, error)
}

// SummaryStore is the read side of the persistence gateway.
type SummaryStore interface {
	ListRestaurantIDs() ([]string, error)
	ListReviews(restaurantID string) ([]models.Review, error)
}

// Uploader stores a rendered image and returns a time-limited URL.
type Uploader interface {
	UploadPNG(ctx context.Context, key string, data []byte) (string, error)
}

// Cache holds finished summary payloads for a short TTL. May be nil.
type Cache interface {
	Key(restaurantID string) string
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte) error
}

type Handler struct {
	ingestor IngestRunner
	enricher EnrichRunner
	store    SummaryStore
	objects  Uploader
	cache    Cache
}

func NewHandler(ingestor IngestRunner, enricher EnrichRunner, store SummaryStore, objects Uploader, cache Cache) *Handler {
	return &Handler{
		ingestor: ingestor,
		enricher: enricher,
		store:    store,
		objects:  objects,
		cache:    cache,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/ingest", h.ingest).Methods("POST")
	r.HandleFunc("/api/enrich", h.enrich).Methods("POST")
	r.HandleFunc("/api/restaurants", h.listRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/summary", h.restaurantSummary).Methods("GET")
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req models.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ingestor.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrUnsupportedOperation) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) enrich(w http.ResponseWriter, r *http.Request) {
	enriched, err := h.enricher.Run()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"enriched": enriched})
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.ListRestaurantIDs()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

type summaryResponse struct {
	RestaurantID string          `json:"restaurant_id"`
	WordcloudURL string          `json:"wordcloud_url"`
	HistogramURL string          `json:"histogram_url"`
	Reviews      []models.Review `json:"reviews"`
}

// restaurantSummary renders the word cloud and sentiment histogram for one
// restaurant's reviews and responds with presigned image URLs. Finished
// payloads are cached so a page refresh does not redraw and re-upload.
func (h *Handler) restaurantSummary(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	if decoded, err := url.PathUnescape(restaurantID); err == nil {
		restaurantID = decoded
	}

	ctx := r.Context()

	if h.cache != nil {
		if payload, ok := h.cache.Get(ctx, h.cache.Key(restaurantID)); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	reviews, err := h.store.ListReviews(restaurantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(reviews) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "restaurant not found"})
		return
	}

	keywords := make(map[string]float64)
	var sentiments []string
	for _, review := range reviews {
		for _, kw := range review.SentimentKeywords {
			keywords[kw.Word] += kw.Score
		}
		if review.Sentiment != "" {
			sentiments = append(sentiments, review.Sentiment)
		}
	}

	cloudPNG, err := render.Wordcloud(keywords)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("wordcloud: %v", err)})
		return
	}
	histPNG, err := render.Histogram(sentiments)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("histogram: %v", err)})
		return
	}

	cloudURL, err := h.objects.UploadPNG(ctx, restaurantID+"_wordcloud.png", cloudPNG)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	histURL, err := h.objects.UploadPNG(ctx, restaurantID+"_histogram.png", histPNG)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := summaryResponse{
		RestaurantID: restaurantID,
		WordcloudURL: cloudURL,
		HistogramURL: histURL,
		Reviews:      reviews,
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, h.cache.Key(restaurantID), payload); err != nil {
			log.Printf("⚠️ Could not cache summary for %s: %v", restaurantID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
