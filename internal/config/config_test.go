// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "Xk7#mP2$vQ9zL4nR8wT3yB6jC1dF5hG0"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AURA_SESSION_SECRET", testSecret)
	t.Setenv("AURA_SHOP_API_URL", "http://localhost:5000")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if cfg.CatalogRefreshMinutes != 10 {
		t.Errorf("CatalogRefreshMinutes = %d, want 10", cfg.CatalogRefreshMinutes)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true, want false")
	}
	if cfg.GeoIPEnabled() {
		t.Error("GeoIPEnabled() = true, want false")
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("AURA_SESSION_SECRET", "")
	t.Setenv("AURA_SHOP_API_URL", "http://localhost:5000")

	if _, err := Load(); err == nil {
		t.Error("Load() with empty secret should fail")
	}
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("AURA_SESSION_SECRET", "too-short")
	t.Setenv("AURA_SHOP_API_URL", "http://localhost:5000")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with short secret should fail")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("error = %v, want mention of minimum length", err)
	}
}

func TestLoadWeakSecret(t *testing.T) {
	t.Setenv("AURA_SESSION_SECRET", "change-me-to-32-byte-secret-key!")
	t.Setenv("AURA_SHOP_API_URL", "http://localhost:5000")

	if _, err := Load(); err == nil {
		t.Error("Load() with known weak secret should fail")
	}
}

func TestLoadInvalidAPIURL(t *testing.T) {
	t.Setenv("AURA_SESSION_SECRET", testSecret)
	t.Setenv("AURA_SHOP_API_URL", "localhost:5000")

	if _, err := Load(); err == nil {
		t.Error("Load() with scheme-less API URL should fail")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"all lowercase", strings.Repeat("a", 32), false},
		{"two classes", "abcdefgh12345678abcdefgh12345678", false},
		{"three classes", "Abcdefgh12345678Abcdefgh12345678", true},
		{"four classes", testSecret, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.secret); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
