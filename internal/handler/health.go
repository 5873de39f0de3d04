// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
	"github.com/aurevra/storefront-go/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	shop      *shop.Client
	sessions  *session.Store
	info      version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, client *shop.Client, sessions *session.Store, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		shop:      client,
		sessions:  sessions,
		info:      info,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the full health response for signed-in admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health. Anonymous callers get a bare status;
// admins get the per-dependency breakdown.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.sessions.Get(r.Context())
	if !ok || !acct.User.IsAdmin() {
		status := http.StatusOK
		public := HealthStatusPublic{Status: "ok"}
		if err := h.db.PingContext(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			public.Status = "unhealthy"
		}
		writeJSON(w, status, public)
		return
	}

	checks := map[string]Check{
		"database": h.checkDatabase(r),
		"shop_api": h.checkShopAPI(r),
	}

	overall := "ok"
	status := http.StatusOK
	for _, c := range checks {
		if c.Status != "ok" {
			overall = "degraded"
		}
	}
	if checks["database"].Status != "ok" {
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.info.String(),
		Checks:    checks,
	})
}

func (h *HealthHandler) checkDatabase(r *http.Request) Check {
	start := time.Now()
	if err := h.db.PingContext(r.Context()); err != nil {
		return Check{Status: "error", Message: err.Error()}
	}
	return Check{Status: "ok", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkShopAPI(r *http.Request) Check {
	start := time.Now()
	if _, err := h.shop.Products(r.Context()); err != nil {
		return Check{Status: "error", Message: err.Error()}
	}
	return Check{Status: "ok", Latency: time.Since(start).String()}
}
