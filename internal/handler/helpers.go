// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aurevra/storefront-go/internal/middleware"
	"github.com/aurevra/storefront-go/internal/navbar"
	"github.com/aurevra/storefront-go/internal/render"
	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
)

// Base carries the dependencies every area handler needs.
type Base struct {
	shop     *shop.Client
	sessions *session.Store
	renderer *render.Renderer
	nav      *navbar.Controller
}

// NewBase bundles shared handler dependencies.
func NewBase(client *shop.Client, sessions *session.Store, renderer *render.Renderer, nav *navbar.Controller) *Base {
	return &Base{
		shop:     client,
		sessions: sessions,
		renderer: renderer,
		nav:      nav,
	}
}

// account returns the signed-in account, preferring the one the route
// guard placed in the context.
func (b *Base) account(r *http.Request) *session.Account {
	if acct := middleware.GetAccount(r); acct != nil {
		return acct
	}
	if acct, ok := b.sessions.Get(r.Context()); ok {
		return &acct
	}
	return nil
}

// token returns the bearer token for the request, or "" when anonymous.
func (b *Base) token(r *http.Request) string {
	if acct := b.account(r); acct != nil {
		return acct.Token
	}
	return ""
}

// render executes a page template with the navbar state filled in.
func (b *Base) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	b.renderPage(w, r, name, title, data, http.StatusOK)
}

func (b *Base) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	td := render.TemplateData{
		Title: title,
		Data:  data,
		Nav:   b.nav.View(r, b.account(r)),
	}
	if err := b.renderer.RenderStatus(w, r, name, td, status); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// flashAndRedirect stores a flash message and redirects with 303.
func (b *Base) flashAndRedirect(w http.ResponseWriter, r *http.Request, message, flashType, to string) {
	b.renderer.SetFlash(r, message, flashType)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// isLocalPath reports whether p is a same-site path safe to redirect to.
// Absolute URLs and protocol-relative "//host" forms are rejected.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

// formQuantity parses a quantity form field, defaulting to 1 and
// clamping to at least 1.
func formQuantity(r *http.Request, field string) int {
	qty, err := strconv.Atoi(r.FormValue(field))
	if err != nil || qty < 1 {
		return 1
	}
	return qty
}
