package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr            string
	DatabaseURL     string
	CatalogBaseURL  string
	CatalogTimeout  time.Duration
	JWTSecret       string
	TaxonomyRefresh string
	CartCookieDays  int
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("STOREFRONT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	catalogURL := os.Getenv("CATALOG_BASE_URL")
	if catalogURL == "" {
		catalogURL = "http://localhost:9000"
	}

	timeout := 10 * time.Second
	if v := os.Getenv("CATALOG_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	refresh := os.Getenv("TAXONOMY_REFRESH")
	if refresh == "" {
		refresh = "@every 10m"
	}

	cookieDays := 7
	if v := os.Getenv("CART_COOKIE_DAYS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			cookieDays = d
		}
	}

	return Config{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CatalogBaseURL:  catalogURL,
		CatalogTimeout:  timeout,
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TaxonomyRefresh: refresh,
		CartCookieDays:  cookieDays,
	}
}
