// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records storefront page views for the admin dashboard.
// Views are queued on a channel and written by a background worker so
// tracking never slows a page render.
package analytics

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/aurevra/storefront-go/internal/geoip"
	"github.com/aurevra/storefront-go/internal/store"
	"github.com/aurevra/storefront-go/internal/util"
)

// queueSize bounds the pending view buffer. When full, views are dropped
// rather than blocking the request.
const queueSize = 256

// Tracker queues page views and writes them to the local database.
type Tracker struct {
	queries *store.Queries
	geo     *geoip.Lookup // optional, nil disables country resolution

	queue chan store.InsertPageViewParams
	done  chan struct{}
}

// NewTracker creates a tracker writing to the given database.
func NewTracker(db *sql.DB, geo *geoip.Lookup) *Tracker {
	return &Tracker{
		queries: store.New(db),
		geo:     geo,
		queue:   make(chan store.InsertPageViewParams, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the background writer.
func (t *Tracker) Start() {
	go func() {
		defer close(t.done)
		for view := range t.queue {
			if err := t.queries.InsertPageView(context.Background(), view); err != nil {
				slog.Debug("page view insert failed", "error", err)
			}
		}
	}()
}

// Stop drains the queue and waits for the writer to finish.
func (t *Tracker) Stop() {
	close(t.queue)
	<-t.done
}

// Record queues a page view for the request. Bots are skipped; a full
// queue drops the view.
func (t *Tracker) Record(r *http.Request, accountRef string) {
	ua := useragent.Parse(r.UserAgent())
	if ua.Bot {
		return
	}

	view := store.InsertPageViewParams{
		Path:      r.URL.Path,
		Browser:   orUnknown(ua.Name),
		OS:        orUnknown(ua.OS),
		Device:    deviceType(ua),
		CreatedAt: time.Now(),
	}
	if accountRef != "" {
		view.AccountRef = sql.NullString{String: accountRef, Valid: true}
	}
	if t.geo != nil {
		view.Country = t.geo.LookupCountry(util.ClientIP(r))
	}

	select {
	case t.queue <- view:
	default:
		slog.Debug("page view queue full, dropping view", "path", view.Path)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.status = http.StatusOK
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}

// Middleware tracks successful GET page loads. accountRef extracts the
// signed-in account ID from the request, or "" for anonymous visitors.
func (t *Tracker) Middleware(accountRef func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !shouldTrack(r) {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			if sw.status == http.StatusOK {
				t.Record(r, accountRef(r))
			}
		})
	}
}

// shouldTrack determines if a request should be tracked.
func shouldTrack(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	path := r.URL.Path

	skipPrefixes := []string{
		"/static/",
		"/favicon.",
		"/robots.txt",
		"/health",
		"/admin",
		"/search/suggest",
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	skipExtensions := []string{
		".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
		".woff", ".woff2", ".ttf", ".map", ".txt", ".xml",
	}
	pathLower := strings.ToLower(path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return false
		}
	}

	return true
}

// Stats is the traffic summary shown on the admin dashboard.
type Stats struct {
	Views        int64
	TopPages     []store.PathCount
	TopCountries []store.CountryCount
}

// StatsSince aggregates traffic since the cutoff.
func (t *Tracker) StatsSince(ctx context.Context, since time.Time, limit int64) (Stats, error) {
	views, err := t.queries.CountPageViewsSince(ctx, since)
	if err != nil {
		return Stats{}, err
	}

	pages, err := t.queries.TopPagesSince(ctx, store.TopPagesSinceParams{Since: since, Limit: limit})
	if err != nil {
		return Stats{}, err
	}

	countries, err := t.queries.TopCountriesSince(ctx, store.TopCountriesSinceParams{Since: since, Limit: limit})
	if err != nil {
		return Stats{}, err
	}

	return Stats{Views: views, TopPages: pages, TopCountries: countries}, nil
}

// Purge removes page views older than the retention window.
func (t *Tracker) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return t.queries.PurgePageViewsBefore(ctx, time.Now().Add(-retention))
}
