package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pf_scrooper/models"
)

var ErrInvalidSite = errors.New("invalid site config")

type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	LogPath string
	// LogMaxBytes is the size at which the log file is rotated.
	LogMaxBytes int64
	SitePath    string
	Site        *SiteConfig
}

type ServerConfig struct {
	Port string
}

type FetchConfig struct {
	Timeout     time.Duration
	UserAgent   string
	RateLimitMS int
}

// SiteConfig describes the one property portal the pipeline reads from.
type SiteConfig struct {
	ID                    string                  `yaml:"id"`
	Name                  string                  `yaml:"name"`
	Origin                string                  `yaml:"origin"`
	UserAgent             string                  `yaml:"user_agent"`
	RateLimitMS           int                     `yaml:"rate_limit_ms"`
	DefaultListingURL     string                  `yaml:"default_listing_url"`
	DefaultTransactionURL string                  `yaml:"default_transaction_url"`
	TransactionShape      models.TransactionShape `yaml:"transaction_shape"`
	Limits                models.Limits           `yaml:"limits"`
}

const (
	defaultSitePath  = "config/sites/propertyfinder.yaml"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

// DefaultSite is used when no site file is present.
func DefaultSite() *SiteConfig {
	return &SiteConfig{
		ID:                    "propertyfinder_ae",
		Name:                  "Property Finder UAE",
		Origin:                "https://www.propertyfinder.ae",
		UserAgent:             defaultUserAgent,
		DefaultListingURL:     "https://www.propertyfinder.ae/en/search?l=10493&c=2&fu=0&rp=y&ob=mr",
		DefaultTransactionURL: "https://www.propertyfinder.ae/en/transactions/buy/dubai/jumeirah-lake-towers-uptown-dubai-uptown-tower?period=1y&fu=0&ob=mr&sort=sqa",
		TransactionShape:      models.ShapeList,
		Limits:                models.DefaultLimits,
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Fetch: FetchConfig{
			Timeout:     getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			UserAgent:   os.Getenv("FETCH_USER_AGENT"),
			RateLimitMS: getEnvInt("FETCH_RATE_LIMIT_MS", -1),
		},
		LogPath:     getEnv("LOG_PATH", "scrooper.log"),
		LogMaxBytes: int64(getEnvInt("LOG_MAX_BYTES", 2*1024*1024)),
		SitePath:    getEnv("SITE_CONFIG", defaultSitePath),
	}

	site, err := LoadSite(cfg.SitePath)
	if err != nil {
		return nil, err
	}
	cfg.Site = site

	// Env overrides win over the site file's hints.
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = site.UserAgent
	}
	if cfg.Fetch.RateLimitMS < 0 {
		cfg.Fetch.RateLimitMS = site.RateLimitMS
	}

	return cfg, nil
}

// LoadSite reads a site file. A missing file yields DefaultSite; fields the
// file leaves empty fall back to the defaults as well.
func LoadSite(path string) (*SiteConfig, error) {
	site := DefaultSite()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return site, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := site.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

func (s *SiteConfig) validate() error {
	s.Origin = strings.TrimRight(s.Origin, "/")
	if !strings.HasPrefix(s.Origin, "http://") && !strings.HasPrefix(s.Origin, "https://") {
		return fmt.Errorf("%w: origin %q must be an absolute http(s) URL", ErrInvalidSite, s.Origin)
	}
	switch s.TransactionShape {
	case models.ShapeList, models.ShapeSearch:
	case "":
		s.TransactionShape = models.ShapeList
	default:
		return fmt.Errorf("%w: unknown transaction_shape %q", ErrInvalidSite, s.TransactionShape)
	}
	if s.RateLimitMS < 0 {
		return fmt.Errorf("%w: rate_limit_ms must be non-negative", ErrInvalidSite)
	}
	if s.Limits.MaxListingPages < 1 || s.Limits.MaxTransactionPages < 1 {
		return fmt.Errorf("%w: page limits must be at least 1", ErrInvalidSite)
	}
	if s.Limits.MinThresholdPct <= 0 || s.Limits.MinThresholdPct > s.Limits.MaxThresholdPct {
		return fmt.Errorf("%w: threshold range is empty", ErrInvalidSite)
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
