// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"AURA_DB_PATH" envDefault:"./data/aurevra.db"`
	SessionSecret string `env:"AURA_SESSION_SECRET,required"`
	ServerHost    string `env:"AURA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AURA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AURA_ENV" envDefault:"development"`
	LogLevel      string `env:"AURA_LOG_LEVEL" envDefault:"info"`

	// Shop API configuration
	ShopAPIURL     string `env:"AURA_SHOP_API_URL,required"`            // Base URL of the shop REST API
	ShopAPITimeout int    `env:"AURA_SHOP_API_TIMEOUT" envDefault:"10"` // Request timeout in seconds

	// Cache configuration
	RedisURL     string `env:"AURA_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"AURA_CACHE_PREFIX" envDefault:"aura:"`   // Redis key prefix
	CacheTTL     int    `env:"AURA_CACHE_TTL" envDefault:"600"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"AURA_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// CatalogRefreshMinutes is how often the scheduler refreshes the
	// product catalog snapshot used for search suggestions.
	CatalogRefreshMinutes int `env:"AURA_CATALOG_REFRESH_MINUTES" envDefault:"10"`

	// PageViewRetentionDays is how long page-view analytics rows are kept.
	PageViewRetentionDays int `env:"AURA_PAGEVIEW_RETENTION_DAYS" envDefault:"90"`

	// GeoIP configuration
	GeoIPDBPath string `env:"AURA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// MaxImageDimension bounds uploaded product images; larger images are
	// downscaled before being forwarded to the shop API.
	MaxImageDimension int `env:"AURA_MAX_IMAGE_DIMENSION" envDefault:"1600"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("AURA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("AURA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !strings.HasPrefix(cfg.ShopAPIURL, "http://") && !strings.HasPrefix(cfg.ShopAPIURL, "https://") {
		return nil, fmt.Errorf("AURA_SHOP_API_URL must be an absolute http(s) URL, got %q", cfg.ShopAPIURL)
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("AURA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
