// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestCartAddRefreshesBadge(t *testing.T) {
	e := newTestEnv(t)
	h := NewCartHandler(e.base, e.catalog)
	acct := customerAccount()

	// Prime the badge cache at zero.
	if got := e.nav.CartCount(context.Background(), acct.Token); got != 0 {
		t.Fatalf("initial badge = %d, want 0", got)
	}

	form := url.Values{"product_id": {"p1"}, "quantity": {"2"}}
	req := httptest.NewRequest("POST", RouteCartAdd, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := e.request(t, h.Add, req, acct)
	if w.Code != 303 {
		t.Fatalf("status = %d, want 303", w.Code)
	}

	if got := e.nav.CartCount(context.Background(), acct.Token); got != 2 {
		t.Errorf("badge after add = %d, want 2", got)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	e := newTestEnv(t)
	h := NewCartHandler(e.base, e.catalog)

	form := url.Values{"quantity": {"1"}}
	req := httptest.NewRequest("POST", RouteCartAdd, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := e.request(t, h.Add, req, customerAccount())
	if got := w.Header().Get("Location"); got != RouteShop {
		t.Errorf("redirect = %q, want %q", got, RouteShop)
	}
}

func TestCartPageJoinsCatalog(t *testing.T) {
	e := newTestEnv(t)
	h := NewCartHandler(e.base, e.catalog)
	acct := customerAccount()

	if err := e.client.CartAdd(context.Background(), acct.Token, "p1", 3); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", RouteCart, nil)
	w := e.request(t, h.Cart, req, acct)

	if w.Code != 200 || !strings.Contains(w.Body.String(), "shop/cart") {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	e := newTestEnv(t)
	h := NewCartHandler(e.base, e.catalog)

	form := url.Values{
		"full_name": {"Ana Cruz"},
		"address":   {"12 Mabini St"},
		"payment":   {"cod"},
	}
	req := httptest.NewRequest("POST", RouteCheckout, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := e.request(t, h.Checkout, req, customerAccount())
	if got := w.Header().Get("Location"); got != RouteCart {
		t.Errorf("redirect = %q, want %q", got, RouteCart)
	}
}

func TestCheckoutPlacesOrder(t *testing.T) {
	e := newTestEnv(t)
	h := NewCartHandler(e.base, e.catalog)
	acct := customerAccount()

	if err := e.client.CartAdd(context.Background(), acct.Token, "p2", 1); err != nil {
		t.Fatal(err)
	}

	form := url.Values{
		"full_name": {"Ana Cruz"},
		"address":   {"12 Mabini St"},
		"payment":   {"card"},
	}
	req := httptest.NewRequest("POST", RouteCheckout, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := e.request(t, h.Checkout, req, acct)
	if w.Code != 303 {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if got := w.Header().Get("Location"); !strings.HasPrefix(got, RouteSuccess+"?order=") {
		t.Errorf("redirect = %q, want success page with order id", got)
	}

	// Badge reflects the emptied cart.
	if got := e.nav.CartCount(context.Background(), acct.Token); got != 0 {
		t.Errorf("badge after checkout = %d, want 0", got)
	}
}

func TestCheckoutMissingFields(t *testing.T) {
	e := newTestEnv(t)
	h := NewCartHandler(e.base, e.catalog)

	form := url.Values{"full_name": {"Ana"}}
	req := httptest.NewRequest("POST", RouteCheckout, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := e.request(t, h.Checkout, req, customerAccount())
	if got := w.Header().Get("Location"); got != RouteCheckout {
		t.Errorf("redirect = %q, want back to checkout", got)
	}
}
