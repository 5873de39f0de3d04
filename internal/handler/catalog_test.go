// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/aurevra/storefront-go/internal/shop"
)

func TestShopGridFiltersByCategory(t *testing.T) {
	e := newTestEnv(t)
	h := NewCatalogHandler(e.base, e.catalog)

	req := httptest.NewRequest("GET", RouteShop+"?category=rings", nil)
	w := e.request(t, h.Shop, req, nil)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "shop/shop") {
		t.Errorf("wrong template rendered: %q", w.Body.String())
	}
}

func TestSuggestReturnsJSONArray(t *testing.T) {
	e := newTestEnv(t)
	h := NewCatalogHandler(e.base, e.catalog)

	req := httptest.NewRequest("GET", RouteSearchSuggest+"?q=ring", nil)
	w := e.request(t, h.Suggest, req, nil)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got []suggestion
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(got))
	}
	if got[0].ID != "p1" || got[1].ID != "p2" {
		t.Errorf("suggestion order = %v", got)
	}
}

func TestSuggestCapsAtFive(t *testing.T) {
	e := newTestEnv(t)
	e.api.mu.Lock()
	e.api.products = nil
	for i := 0; i < 8; i++ {
		e.api.products = append(e.api.products, shop.Product{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Ring %d", i),
		})
	}
	e.api.mu.Unlock()

	h := NewCatalogHandler(e.base, e.catalog)
	req := httptest.NewRequest("GET", RouteSearchSuggest+"?q=ring", nil)
	w := e.request(t, h.Suggest, req, nil)

	var got []suggestion
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Errorf("suggestions = %d, want 5", len(got))
	}
}

func TestSuggestEmptyQueryIsEmptyArray(t *testing.T) {
	e := newTestEnv(t)
	h := NewCatalogHandler(e.base, e.catalog)

	req := httptest.NewRequest("GET", RouteSearchSuggest+"?q=%20%20", nil)
	w := e.request(t, h.Suggest, req, nil)

	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestProductDetail(t *testing.T) {
	e := newTestEnv(t)
	h := NewCatalogHandler(e.base, e.catalog)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "p3")
	req := httptest.NewRequest("GET", "/product/p3", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := e.request(t, h.ProductDetail, req, nil)
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Pearl Necklace") {
		t.Errorf("body missing product name: %q", w.Body.String())
	}
}

func TestProductDetailUnknownID(t *testing.T) {
	e := newTestEnv(t)
	h := NewCatalogHandler(e.base, e.catalog)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "ghost")
	req := httptest.NewRequest("GET", "/product/ghost", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := e.request(t, h.ProductDetail, req, nil)
	if w.Code != 404 {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	// The product page 404 is distinct from the site-wide one.
	if !strings.Contains(w.Body.String(), "shop/product_notfound") {
		t.Errorf("wrong template: %q", w.Body.String())
	}
}
