package main

import (
	"context"
	"flag"
	"log"
	"time"

	"review_spider/internal/api"
	"review_spider/internal/app"
	"review_spider/internal/browser"
	"review_spider/internal/config"
	"review_spider/internal/db"
	"review_spider/internal/models"
	"review_spider/internal/scrape"
	"review_spider/internal/sentiment"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the yaml config")
	ingest := flag.Bool("ingest", false, "Crawl restaurants and reviews once, then exit")
	enrich := flag.Bool("enrich", false, "Run the sentiment pass over stored reviews")
	serve := flag.Bool("serve", false, "Start the HTTP API")
	flag.Parse()

	if !*ingest && !*enrich && !*serve {
		log.Println("No step selected. Use -ingest, -enrich or -serve.")
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	store, err := db.NewStore(cfg.DB)
	if err != nil {
		log.Fatalf("could not connect to store: %v", err)
	}
	defer store.Close()

	var fetcher browser.Fetcher = browser.NewChromeFetcher(cfg.Browser)
	if cfg.Browser.Disabled {
		fetcher = browser.NewHTTPFetcher(cfg.Browser)
	}

	scraper := scrape.NewScraper(fetcher, cfg.Scrape, cfg.Browser)
	ingestor := app.NewIngestor(scraper, scraper, store, cfg.Scrape.MaxPages)
	enricher := sentiment.NewEnricher(store)

	ctx := context.Background()

	if *ingest {
		result, err := ingestor.Run(ctx, models.IngestRequest{
			Operation:      models.OperationRestaurantsAndReviews,
			Location:       cfg.Scrape.Location,
			MaxRestaurants: cfg.Scrape.MaxRestaurants,
			MaxReviews:     cfg.Scrape.MaxReviews,
		})
		if err != nil {
			log.Fatalf("ingest failed: %v", err)
		}
		log.Printf("✅ Ingest %s done: %d restaurants, %d reviews",
			result.RunID, result.RestaurantsCount, result.TotalReviews)
	}

	if *enrich {
		enrichedCount, err := enricher.Run()
		if err != nil {
			log.Fatalf("enrich failed: %v", err)
		}
		log.Printf("✅ Enriched %d reviews", enrichedCount)
	}

	if *serve {
		objects, err := db.NewObjectStore(cfg.Objects)
		if err != nil {
			log.Fatalf("could not create object store client: %v", err)
		}

		var cache api.Cache
		if cfg.Cache.Enabled {
			cache = db.NewSummaryCache(cfg.Cache.Addr, time.Duration(cfg.Cache.TTLMin)*time.Minute)
		}

		handler := api.NewHandler(ingestor, enricher, store, objects, cache)
		api.StartServer(cfg.Server.Addr, api.NewRouter(handler))
	}
}
