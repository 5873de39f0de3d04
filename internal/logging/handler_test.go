// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aurevra/storefront-go/internal/model"
	"github.com/aurevra/storefront-go/internal/store"
	"github.com/aurevra/storefront-go/internal/testutil"
)

func newTestHandler(t *testing.T) (*EventLogHandler, *store.Queries, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewEventLogHandler(inner, db), store.New(db), cleanup
}

func TestWarnRecordLandsInEventLog(t *testing.T) {
	h, queries, cleanup := newTestHandler(t)
	defer cleanup()

	logger := slog.New(h)
	logger.Warn("checkout failed", "order_total", 4999)

	events, err := queries.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	e := events[0]
	if e.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want %q", e.Level, model.EventLevelWarning)
	}
	if e.Category != model.EventCategoryCart {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategoryCart)
	}
	if e.Message != "checkout failed" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestInfoRecordSkipsEventLog(t *testing.T) {
	h, queries, cleanup := newTestHandler(t)
	defer cleanup()

	logger := slog.New(h)
	logger.Info("catalog snapshot refreshed")

	events, err := queries.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestExplicitCategoryAttr(t *testing.T) {
	h, queries, cleanup := newTestHandler(t)
	defer cleanup()

	logger := slog.New(h)
	logger.Error("something broke", "category", model.EventCategoryAdmin)

	events, _ := queries.ListRecentEvents(context.Background(), 10)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryAdmin {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryAdmin)
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelError)
	}
}
