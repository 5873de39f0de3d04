// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net/http/httptest"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Collier Doré", "collier dore"},
		{"PEARL Necklace", "pearl necklace"},
		{"Émeraude", "emeraude"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldContains(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"Gold Ring", "ring", true},
		{"Gold Ring", "RING", true},
		{"Collier Doré", "dore", true},
		{"Gold Ring", "necklace", false},
		{"Gold Ring", "", false},
	}

	for _, tt := range tests {
		if got := FoldContains(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("FoldContains(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gold Ring", "gold-ring"},
		{"Collier Doré", "collier-dore"},
		{"  Pearl -- Necklace  ", "pearl-necklace"},
		{"Émeraude & Saphir!", "emeraude-saphir"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUploadFileName(t *testing.T) {
	tests := []struct {
		original string
		mimeType string
		want     string
	}{
		{"Gold Ring (final).JPG", "image/jpeg", "gold-ring-final.jpg"},
		{"Collier Doré.png", "image/png", "collier-dore.png"},
		{"C:\\Photos\\émeraude.webp", "image/webp", "c-photos-emeraude.webp"},
		{"....", "image/gif", "upload.gif"},
		{"ring.jpg", "application/octet-stream", "ring"},
	}

	for _, tt := range tests {
		if got := UploadFileName(tt.original, tt.mimeType); got != tt.want {
			t.Errorf("UploadFileName(%q, %q) = %q, want %q", tt.original, tt.mimeType, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	t.Run("x-real-ip", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "203.0.113.7")
		if got := ClientIP(r); got != "203.0.113.7" {
			t.Errorf("ClientIP() = %q", got)
		}
	})

	t.Run("x-forwarded-for first entry", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		if got := ClientIP(r); got != "203.0.113.7" {
			t.Errorf("ClientIP() = %q", got)
		}
	})

	t.Run("remote addr fallback strips port", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:54321"
		if got := ClientIP(r); got != "192.0.2.1" {
			t.Errorf("ClientIP() = %q", got)
		}
	})
}
