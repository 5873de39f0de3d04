// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/aurevra/storefront-go/internal/store"
	"github.com/aurevra/storefront-go/internal/testutil"
)

func TestMigrateCreatesTables(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	for _, table := range []string{"sessions", "events", "page_views"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}
}

func TestCreateAndListEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()

	first, err := queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     "warning",
		Category:  "cart",
		Message:   "cart fetch failed",
		Metadata:  "{}",
		CreatedAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if first.ID == 0 {
		t.Error("CreateEvent returned zero ID")
	}

	_, err = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     "error",
		Category:  "system",
		Message:   "shop api unreachable",
		UserRef:   sql.NullString{String: "u1", Valid: true},
		Metadata:  `{"endpoint":"/api/products"}`,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := queries.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	// Newest first.
	if events[0].Message != "shop api unreachable" {
		t.Errorf("events[0].Message = %q", events[0].Message)
	}
	if !events[0].UserRef.Valid || events[0].UserRef.String != "u1" {
		t.Errorf("events[0].UserRef = %+v, want u1", events[0].UserRef)
	}
}

func TestCountEventsByLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()

	for _, level := range []string{"warning", "warning", "error"} {
		_, err := queries.CreateEvent(ctx, store.CreateEventParams{
			Level: level, Category: "system", Message: "m", Metadata: "{}", CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	counts, err := queries.CountEventsByLevel(ctx)
	if err != nil {
		t.Fatalf("CountEventsByLevel: %v", err)
	}

	got := make(map[string]int64)
	for _, c := range counts {
		got[c.Level] = c.Count
	}
	if got["warning"] != 2 || got["error"] != 1 {
		t.Errorf("counts = %v, want warning=2 error=1", got)
	}
}

func TestPageViewsRoundTrip(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()
	now := time.Now()

	views := []store.InsertPageViewParams{
		{Path: "/home", Country: "PH", Browser: "Chrome", OS: "Android", Device: "mobile", CreatedAt: now},
		{Path: "/home", Country: "PH", Browser: "Safari", OS: "iOS", Device: "mobile", CreatedAt: now},
		{Path: "/shop", Country: "SG", Browser: "Firefox", OS: "Linux", Device: "desktop", CreatedAt: now},
		{Path: "/shop", Country: "", Browser: "Chrome", OS: "Windows", Device: "desktop", CreatedAt: now.Add(-48 * time.Hour)},
	}
	for _, v := range views {
		if err := queries.InsertPageView(ctx, v); err != nil {
			t.Fatalf("InsertPageView: %v", err)
		}
	}

	since := now.Add(-time.Hour)

	count, err := queries.CountPageViewsSince(ctx, since)
	if err != nil {
		t.Fatalf("CountPageViewsSince: %v", err)
	}
	if count != 3 {
		t.Errorf("CountPageViewsSince = %d, want 3", count)
	}

	pages, err := queries.TopPagesSince(ctx, store.TopPagesSinceParams{Since: since, Limit: 10})
	if err != nil {
		t.Fatalf("TopPagesSince: %v", err)
	}
	if len(pages) != 2 || pages[0].Path != "/home" || pages[0].Count != 2 {
		t.Errorf("TopPagesSince = %v", pages)
	}

	countries, err := queries.TopCountriesSince(ctx, store.TopCountriesSinceParams{Since: since, Limit: 10})
	if err != nil {
		t.Fatalf("TopCountriesSince: %v", err)
	}
	// Blank countries are excluded.
	if len(countries) != 2 || countries[0].Country != "PH" || countries[0].Count != 2 {
		t.Errorf("TopCountriesSince = %v", countries)
	}
}

func TestPurgePageViewsBefore(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()
	now := time.Now()

	_ = queries.InsertPageView(ctx, store.InsertPageViewParams{Path: "/old", CreatedAt: now.Add(-100 * 24 * time.Hour)})
	_ = queries.InsertPageView(ctx, store.InsertPageViewParams{Path: "/new", CreatedAt: now})

	deleted, err := queries.PurgePageViewsBefore(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("PurgePageViewsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, _ := queries.CountPageViewsSince(ctx, time.Time{})
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
}
