// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aurevra/storefront-go/internal/testutil"
)

const (
	chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	botUA    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestRecordAndStats(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	tracker := NewTracker(db, nil)
	tracker.Start()

	r := httptest.NewRequest(http.MethodGet, "/shop", nil)
	r.Header.Set("User-Agent", chromeUA)
	tracker.Record(r, "u1")
	tracker.Record(r, "")

	tracker.Stop()

	stats, err := tracker.StatsSince(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("StatsSince: %v", err)
	}
	if stats.Views != 2 {
		t.Errorf("Views = %d, want 2", stats.Views)
	}
	if len(stats.TopPages) != 1 || stats.TopPages[0].Path != "/shop" {
		t.Errorf("TopPages = %v", stats.TopPages)
	}
}

func TestRecordSkipsBots(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	tracker := NewTracker(db, nil)
	tracker.Start()

	r := httptest.NewRequest(http.MethodGet, "/shop", nil)
	r.Header.Set("User-Agent", botUA)
	tracker.Record(r, "")

	tracker.Stop()

	stats, err := tracker.StatsSince(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("StatsSince: %v", err)
	}
	if stats.Views != 0 {
		t.Errorf("Views = %d, want 0 for bot traffic", stats.Views)
	}
}

func TestShouldTrack(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/home", true},
		{http.MethodGet, "/product/p1", true},
		{http.MethodPost, "/cart/add", false},
		{http.MethodGet, "/static/dist/css/app.css", false},
		{http.MethodGet, "/admin/dashboard", false},
		{http.MethodGet, "/health", false},
		{http.MethodGet, "/search/suggest", false},
		{http.MethodGet, "/favicon.ico", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		if got := shouldTrack(r); got != tt.want {
			t.Errorf("shouldTrack(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestMiddlewareTracksSuccessfulGET(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	tracker := NewTracker(db, nil)
	tracker.Start()

	handler := tracker.Middleware(func(*http.Request) string { return "" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))

	for _, path := range []string{"/home", "/missing"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("User-Agent", chromeUA)
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}

	tracker.Stop()

	stats, err := tracker.StatsSince(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("StatsSince: %v", err)
	}
	// Only the 200 response is tracked.
	if stats.Views != 1 {
		t.Errorf("Views = %d, want 1", stats.Views)
	}
}
