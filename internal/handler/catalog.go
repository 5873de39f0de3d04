// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aurevra/storefront-go/internal/cache"
	"github.com/aurevra/storefront-go/internal/shop"
)

// CatalogHandler serves the product grid, search and product detail pages.
type CatalogHandler struct {
	*Base
	catalog *cache.CatalogCache
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(base *Base, catalog *cache.CatalogCache) *CatalogHandler {
	return &CatalogHandler{Base: base, catalog: catalog}
}

// ShopData is the view model for the product grid.
type ShopData struct {
	Products   []shop.Product
	Categories []string
	Category   string
	Query      string
	Failed     bool
}

// Shop renders the full product grid, optionally filtered by category.
func (h *CatalogHandler) Shop(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		slog.Warn("loading catalog failed", "category", "catalog", "error", err)
		h.render(w, r, "shop/shop", "Shop", ShopData{Failed: true})
		return
	}

	data := ShopData{
		Categories: categoriesOf(products),
		Category:   category,
	}
	if category == "" {
		data.Products = products
	} else {
		for _, p := range products {
			if strings.EqualFold(p.Category, category) {
				data.Products = append(data.Products, p)
			}
		}
	}

	h.render(w, r, "shop/shop", "Shop", data)
}

// categoriesOf collects the distinct categories in catalog order.
func categoriesOf(products []shop.Product) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Search renders the full search results page.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := ShopData{Query: query}
	if query != "" {
		results, err := h.nav.Search(r.Context(), query)
		if err != nil {
			slog.Warn("search failed", "category", "catalog", "query", query, "error", err)
			data.Failed = true
		} else {
			data.Products = results
		}
	}

	h.render(w, r, "shop/search", "Search", data)
}

// suggestion is one autocomplete entry.
type suggestion struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// Suggest returns autocomplete suggestions as JSON for the navbar
// search box. The response is always an array, empty when nothing
// matches or the catalog is unavailable.
func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	matches := h.nav.Suggest(r.Context(), r.URL.Query().Get("q"))

	out := make([]suggestion, 0, len(matches))
	for _, p := range matches {
		out = append(out, suggestion{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image})
	}
	writeJSON(w, http.StatusOK, out)
}

// ProductData is the view model for the product detail page.
type ProductData struct {
	Product shop.Product
	Related []shop.Product
}

// ProductDetail renders a single product page. An unknown ID gets a
// product-specific not-found page, distinct from the site 404.
func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.shop.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			h.renderPage(w, r, "shop/product_notfound", "Product Not Found", nil, http.StatusNotFound)
			return
		}
		slog.Error("loading product failed", "category", "catalog", "product_id", id, "error", err)
		h.renderPage(w, r, "shop/unavailable", "Temporarily Unavailable", nil, http.StatusServiceUnavailable)
		return
	}

	h.render(w, r, "shop/product", product.Name, ProductData{
		Product: product,
		Related: h.related(r, product),
	})
}

// related picks up to four other products from the same category.
func (h *CatalogHandler) related(r *http.Request, product shop.Product) []shop.Product {
	if product.Category == "" {
		return nil
	}
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		return nil
	}

	var related []shop.Product
	for _, p := range products {
		if p.ID == product.ID || !strings.EqualFold(p.Category, product.Category) {
			continue
		}
		related = append(related, p)
		if len(related) == 4 {
			break
		}
	}
	return related
}
