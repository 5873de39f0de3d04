// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/aurevra/storefront-go/internal/shop"
)

// catalogKey is the cache key for the full product catalog snapshot.
const catalogKey = "catalog:products"

// CatalogLoader fetches the current product catalog from its source of truth.
type CatalogLoader func(ctx context.Context) ([]shop.Product, error)

// CatalogCache keeps a snapshot of the shop's product catalog so browsing
// and search suggestions do not hit the shop API on every request.
type CatalogCache struct {
	cache  *TypedCache[[]shop.Product]
	loader CatalogLoader
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache over the given backend.
func NewCatalogCache(backend Cacher, loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		cache:  NewTypedCache[[]shop.Product](backend, ttl),
		loader: loader,
		ttl:    ttl,
	}
}

// Products returns the catalog snapshot, loading it from the shop API when
// the cache is cold or expired.
func (c *CatalogCache) Products(ctx context.Context) ([]shop.Product, error) {
	products, err := c.cache.GetOrSet(ctx, catalogKey, func() (*[]shop.Product, error) {
		loaded, err := c.loader(ctx)
		if err != nil {
			return nil, err
		}
		return &loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return *products, nil
}

// Refresh forces a reload of the catalog snapshot. A failed reload keeps
// the previous snapshot in place.
func (c *CatalogCache) Refresh(ctx context.Context) error {
	loaded, err := c.loader(ctx)
	if err != nil {
		slog.Warn("catalog refresh failed, keeping previous snapshot", "error", err)
		return err
	}

	if err := c.cache.SetWithTTL(ctx, catalogKey, &loaded, c.ttl); err != nil {
		return err
	}

	slog.Debug("catalog snapshot refreshed", "products", len(loaded))
	return nil
}

// Invalidate drops the snapshot so the next read reloads it.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, catalogKey)
}
