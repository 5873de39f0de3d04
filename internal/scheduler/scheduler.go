// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs of the storefront:
// catalog snapshot refreshes, analytics retention purges and GeoIP
// database reloads.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// CatalogRefresher reloads the cached product catalog snapshot.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// AnalyticsPurger drops page-view rows older than the retention window.
type AnalyticsPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// GeoReloader re-reads the GeoIP database when the file on disk changed.
type GeoReloader interface {
	Reload() error
	IsEnabled() bool
}

// Config controls job cadence.
type Config struct {
	CatalogRefreshMinutes int
	PageViewRetention     time.Duration
}

// Scheduler owns the cron instance and the background jobs attached to it.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	catalog CatalogRefresher
	purger  AnalyticsPurger
	geo     GeoReloader
	cfg     Config
}

// New creates a scheduler. Any of catalog, purger and geo may be nil;
// the corresponding job is simply not registered.
func New(cfg Config, catalog CatalogRefresher, purger AnalyticsPurger, geo GeoReloader, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		catalog: catalog,
		purger:  purger,
		geo:     geo,
		cfg:     cfg,
	}
}

// Start registers the jobs and begins running them.
func (s *Scheduler) Start() error {
	if s.catalog != nil {
		minutes := s.cfg.CatalogRefreshMinutes
		if minutes <= 0 {
			minutes = 10
		}
		spec := fmt.Sprintf("@every %dm", minutes)
		if _, err := s.cron.AddFunc(spec, s.refreshCatalog); err != nil {
			return fmt.Errorf("registering catalog refresh job: %w", err)
		}
	}

	if s.purger != nil {
		// Quiet hour, well outside store traffic peaks.
		if _, err := s.cron.AddFunc("30 3 * * *", s.purgePageViews); err != nil {
			return fmt.Errorf("registering page-view purge job: %w", err)
		}
	}

	if s.geo != nil && s.geo.IsEnabled() {
		if _, err := s.cron.AddFunc("0 4 * * *", s.reloadGeoIP); err != nil {
			return fmt.Errorf("registering geoip reload job: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh failed", "category", "catalog", "error", err)
		return
	}
	s.logger.Debug("catalog snapshot refreshed")
}

func (s *Scheduler) purgePageViews() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	retention := s.cfg.PageViewRetention
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	removed, err := s.purger.Purge(ctx, retention)
	if err != nil {
		s.logger.Error("page-view purge failed", "category", "system", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("purged old page views", "removed", removed, "retention", retention)
	}
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("geoip reload failed", "category", "system", "error", err)
	}
}
