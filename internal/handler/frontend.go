// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aurevra/storefront-go/internal/cache"
	"github.com/aurevra/storefront-go/internal/navbar"
	"github.com/aurevra/storefront-go/internal/shop"
)

// featuredCount is how many products the landing and home pages show.
const featuredCount = 6

// FrontendHandler serves the public pages and the signed-in home page.
type FrontendHandler struct {
	*Base
	catalog *cache.CatalogCache
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(base *Base, catalog *cache.CatalogCache) *FrontendHandler {
	return &FrontendHandler{Base: base, catalog: catalog}
}

// HomeData is the view model for the landing and home pages.
type HomeData struct {
	Featured []shop.Product
}

// Landing renders the public landing page. Signed-in users are steered
// to their area instead.
func (h *FrontendHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RouteRoot {
		h.NotFound(w, r)
		return
	}
	if acct := h.account(r); acct != nil {
		if acct.User.IsAdmin() {
			http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
		} else {
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
		}
		return
	}
	h.render(w, r, "shop/landing", "Aurevra Jewelry", HomeData{Featured: h.featured(r)})
}

// Home renders the signed-in customer home page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "shop/home", "Home", HomeData{Featured: h.featured(r)})
}

func (h *FrontendHandler) featured(r *http.Request) []shop.Product {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		slog.Warn("loading featured products failed", "category", "catalog", "error", err)
		return nil
	}
	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	return products
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "shop/about", "About Aurevra", nil)
}

// ContactForm renders the contact page.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "shop/contact", "Contact Us", nil)
}

// Contact accepts a contact form submission.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || message == "" {
		h.flashAndRedirect(w, r, "Please fill in all fields.", FlashError, RouteContact)
		return
	}

	slog.Info("contact form submitted", "category", "system", "from", email)
	h.flashAndRedirect(w, r, "Thank you for reaching out. We will get back to you soon.", FlashSuccess, RouteContact)
}

// ThemeToggle flips the dark-mode cookie and sends the user back.
func (h *FrontendHandler) ThemeToggle(w http.ResponseWriter, r *http.Request) {
	navbar.ToggleDarkMode(w, r)

	back := r.Header.Get("Referer")
	if !isLocalPath(back) {
		back = RouteHome
		if h.account(r) == nil {
			back = RouteRoot
		}
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// NotFound renders the storefront 404 page for unknown paths.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "shop/notfound", "Page Not Found", nil, http.StatusNotFound)
}
