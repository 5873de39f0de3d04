// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session-based access
// control, security headers, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aurevra/storefront-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyAccount     ContextKey = "account"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Redirect targets used by access decisions.
const (
	PathLogin          = "/user/login"
	PathHome           = "/home"
	PathAdminDashboard = "/admin/dashboard"
)

// AccessClass describes what kind of visitor a route is meant for.
type AccessClass int

const (
	// Public routes are reachable by anyone.
	Public AccessClass = iota
	// CustomerArea routes are for signed-in shoppers. Admins are steered
	// to their own dashboard instead.
	CustomerArea
	// AdminArea routes require the admin role.
	AdminArea
)

// Decision is the outcome of an access check: either the request may
// proceed, or it is redirected to RedirectTo.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide applies the access rules for a route class to a session state.
// It is a pure function of its inputs so the full rule table can be
// tested without HTTP plumbing.
func Decide(acct session.Account, present bool, class AccessClass) Decision {
	switch class {
	case CustomerArea:
		if !present {
			return Decision{RedirectTo: PathLogin}
		}
		// Admin accounts never browse the shopper area; send them home.
		if acct.User.IsAdmin() {
			return Decision{RedirectTo: PathAdminDashboard}
		}
		return Decision{Allow: true}

	case AdminArea:
		if !present {
			return Decision{RedirectTo: PathLogin}
		}
		if !acct.User.IsAdmin() {
			return Decision{RedirectTo: PathHome}
		}
		return Decision{Allow: true}

	default:
		return Decision{Allow: true}
	}
}

// Protect creates middleware enforcing an access class. Allowed requests
// carry the account in their context; everything else is redirected per
// the decision.
func Protect(store *session.Store, class AccessClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct, present := store.Get(r.Context())

			decision := Decide(acct, present, class)
			if !decision.Allow {
				slog.Debug("access redirect",
					"path", r.URL.Path,
					"target", decision.RedirectTo,
					"signed_in", present,
				)
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}

			if present {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyAccount, acct))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCustomer enforces the shopper area rules.
func RequireCustomer(store *session.Store) func(http.Handler) http.Handler {
	return Protect(store, CustomerArea)
}

// RequireAdmin enforces the admin area rules.
func RequireAdmin(store *session.Store) func(http.Handler) http.Handler {
	return Protect(store, AdminArea)
}

// LoadAccount creates middleware that loads the account into context when
// present, without restricting access. Use on public routes so the navbar
// can reflect sign-in state.
func LoadAccount(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if acct, present := store.Get(r.Context()); present {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyAccount, acct))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAccount retrieves the signed-in account from the request context.
// Returns nil when the visitor is anonymous.
func GetAccount(r *http.Request) *session.Account {
	acct, ok := r.Context().Value(ContextKeyAccount).(session.Account)
	if !ok {
		return nil
	}
	return &acct
}

// GetToken returns the API token for the signed-in account, or "" for
// anonymous visitors.
func GetToken(r *http.Request) string {
	if acct := GetAccount(r); acct != nil {
		return acct.Token
	}
	return ""
}

// RequestPath creates middleware that stores the request path in the
// context. The logging handler includes it in error records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
