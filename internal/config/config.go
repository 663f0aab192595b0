package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Connection  string `yaml:"connection"`
	Database    string `yaml:"database"`
	Collections struct {
		Restaurants string `yaml:"restaurants"`
		Reviews     string `yaml:"reviews"`
	} `yaml:"collections"`
}

type BrowserConfig struct {
	// Disabled switches to the plain-HTTP fetcher. Only useful against
	// mirrors or fixtures; the live site needs a scripted session.
	Disabled          bool   `yaml:"disabled"`
	Headless          bool   `yaml:"headless"`
	NoSandbox         bool   `yaml:"no_sandbox"`
	UserAgent         string `yaml:"user_agent"`
	WaitTimeoutSec    int    `yaml:"wait_timeout_sec"`
	ConsentTimeoutSec int    `yaml:"consent_timeout_sec"`
	NavTimeoutSec     int    `yaml:"nav_timeout_sec"`
}

type ScrapeConfig struct {
	BaseURL        string `yaml:"base_url"`
	Location       string `yaml:"location"`
	MaxPages       int    `yaml:"max_pages"`
	MaxRestaurants int    `yaml:"max_restaurants"`
	MaxReviews     int    `yaml:"max_reviews_per_restaurant"`
	DelayMS        int    `yaml:"delay_ms"`
	RespectRobots  bool   `yaml:"respect_robots"`
}

type ObjectsConfig struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Bucket       string `yaml:"bucket"`
	UseSSL       bool   `yaml:"use_ssl"`
	URLExpiryMin int    `yaml:"url_expiry_min"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	TTLMin  int    `yaml:"ttl_min"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	DB      DBConfig      `yaml:"db"`
	Browser BrowserConfig `yaml:"browser"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Objects ObjectsConfig `yaml:"objects"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if cfg.DB.Connection == "" {
		return nil, fmt.Errorf("db.connection is required")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	}
	if c.Browser.WaitTimeoutSec == 0 {
		c.Browser.WaitTimeoutSec = 10
	}
	if c.Browser.ConsentTimeoutSec == 0 {
		c.Browser.ConsentTimeoutSec = 5
	}
	if c.Browser.NavTimeoutSec == 0 {
		c.Browser.NavTimeoutSec = 60
	}
	if c.Scrape.BaseURL == "" {
		c.Scrape.BaseURL = "https://www.yelp.fr"
	}
	if c.Scrape.Location == "" {
		c.Scrape.Location = "Paris"
	}
	if c.Scrape.MaxPages == 0 {
		c.Scrape.MaxPages = 1
	}
	if c.Scrape.MaxRestaurants == 0 {
		c.Scrape.MaxRestaurants = 10
	}
	if c.Scrape.MaxReviews == 0 {
		c.Scrape.MaxReviews = 10
	}
	if c.Scrape.DelayMS == 0 {
		c.Scrape.DelayMS = 1500
	}
	if c.Objects.URLExpiryMin == 0 {
		c.Objects.URLExpiryMin = 60
	}
	if c.Cache.TTLMin == 0 {
		c.Cache.TTLMin = 15
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

func (c *BrowserConfig) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSec) * time.Second
}

func (c *BrowserConfig) ConsentTimeout() time.Duration {
	return time.Duration(c.ConsentTimeoutSec) * time.Second
}

func (c *ScrapeConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}
