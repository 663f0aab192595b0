package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
db:
  connection: mongodb://localhost:27017
  database: reviews
  collections:
    restaurants: restaurants
    reviews: reviews
browser:
  headless: true
  wait_timeout_sec: 20
scrape:
  location: Lyon
  max_reviews_per_restaurant: 6
  respect_robots: true
cache:
  enabled: true
  addr: localhost:6379
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.DB.Connection)
	assert.Equal(t, "reviews", cfg.DB.Database)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 20*time.Second, cfg.Browser.WaitTimeout())
	assert.Equal(t, "Lyon", cfg.Scrape.Location)
	assert.Equal(t, 6, cfg.Scrape.MaxReviews)
	assert.True(t, cfg.Scrape.RespectRobots)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
db:
  connection: mongodb://localhost:27017
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.yelp.fr", cfg.Scrape.BaseURL)
	assert.Equal(t, "Paris", cfg.Scrape.Location)
	assert.Equal(t, 1, cfg.Scrape.MaxPages)
	assert.Equal(t, 10, cfg.Scrape.MaxRestaurants)
	assert.Equal(t, 10, cfg.Scrape.MaxReviews)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scrape.Delay())
	assert.Equal(t, 10*time.Second, cfg.Browser.WaitTimeout())
	assert.Equal(t, 5*time.Second, cfg.Browser.ConsentTimeout())
	assert.NotEmpty(t, cfg.Browser.UserAgent)
	assert.Equal(t, 60, cfg.Objects.URLExpiryMin)
	assert.Equal(t, 15, cfg.Cache.TTLMin)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfigMissingConnection(t *testing.T) {
	path := writeConfig(t, `
scrape:
  location: Paris
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
