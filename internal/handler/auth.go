// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aurevra/storefront-go/internal/middleware"
	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
)

// AuthHandler handles sign-in, registration and sign-out.
type AuthHandler struct {
	*Base
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Base, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{Base: base, loginProtection: lp}
}

// steerSignedIn redirects an already-authenticated user away from the
// auth pages: admins to the dashboard, customers to the storefront.
func (h *AuthHandler) steerSignedIn(w http.ResponseWriter, r *http.Request) bool {
	acct := h.account(r)
	if acct == nil {
		return false
	}
	if acct.User.IsAdmin() {
		http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
	return true
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.steerSignedIn(w, r) {
		return
	}
	h.render(w, r, "auth/login", "Sign In", nil)
}

// Login authenticates against the shop API and stores the account in
// the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.steerSignedIn(w, r) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.flashAndRedirect(w, r, "Email and password are required.", FlashError, RouteLogin)
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		h.flashAndRedirect(w, r,
			fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)),
			FlashError, RouteLogin)
		return
	}

	result, err := h.shop.Login(r.Context(), shop.Credentials{Email: email, Password: password})
	if err != nil {
		switch {
		case errors.Is(err, shop.ErrUnauthorized), errors.Is(err, shop.ErrBadRequest):
			if lockedNow, duration := h.loginProtection.RecordFailedAttempt(email); lockedNow {
				slog.Warn("account locked after repeated sign-in failures",
					"category", "auth", "email", email, "duration", duration)
			}
			h.flashAndRedirect(w, r, "Invalid email or password.", FlashError, RouteLogin)
		default:
			slog.Error("login request to shop api failed", "category", "auth", "error", err)
			h.flashAndRedirect(w, r, "Sign-in is temporarily unavailable. Please try again.", FlashError, RouteLogin)
		}
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)

	if err := h.sessions.Set(r.Context(), session.Account{Token: result.Token, User: result.User}); err != nil {
		slog.Error("storing session account failed", "category", "auth", "error", err)
		h.flashAndRedirect(w, r, "Could not start your session. Please try again.", FlashError, RouteLogin)
		return
	}

	slog.Info("user signed in", "category", "auth", "user", result.User.Email, "role", result.User.Role)

	if result.User.IsAdmin() {
		http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.steerSignedIn(w, r) {
		return
	}
	h.render(w, r, "auth/register", "Create Account", nil)
}

// Register creates a new customer account through the shop API.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.steerSignedIn(w, r) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	switch {
	case name == "" || email == "" || password == "":
		h.flashAndRedirect(w, r, "All fields are required.", FlashError, RouteRegister)
		return
	case len(password) < 8:
		h.flashAndRedirect(w, r, "Password must be at least 8 characters.", FlashError, RouteRegister)
		return
	case password != confirm:
		h.flashAndRedirect(w, r, "Passwords do not match.", FlashError, RouteRegister)
		return
	}

	err := h.shop.Register(r.Context(), shop.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		if errors.Is(err, shop.ErrBadRequest) {
			h.flashAndRedirect(w, r, "That email is already registered.", FlashError, RouteRegister)
			return
		}
		slog.Error("registration request failed", "category", "auth", "error", err)
		h.flashAndRedirect(w, r, "Registration is temporarily unavailable. Please try again.", FlashError, RouteRegister)
		return
	}

	slog.Info("account registered", "category", "auth", "email", email)
	h.flashAndRedirect(w, r, "Account created. Please sign in.", FlashSuccess, RouteLogin)
}

// ForgotPasswordForm renders the password reset request page.
func (h *AuthHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	if h.steerSignedIn(w, r) {
		return
	}
	h.render(w, r, "auth/forgot_password", "Forgot Password", nil)
}

// ForgotPassword asks the shop API to start a password reset. The
// response is the same whether or not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	if email == "" {
		h.flashAndRedirect(w, r, "Please enter your email address.", FlashError, RouteForgotPassword)
		return
	}

	if err := h.shop.ForgotPassword(r.Context(), email); err != nil && !errors.Is(err, shop.ErrNotFound) {
		slog.Warn("forgot-password request failed", "category", "auth", "error", err)
	}

	h.flashAndRedirect(w, r,
		"If that email is registered, a reset link is on its way.", FlashInfo, RouteLogin)
}

// Logout clears the session and the cached cart badge for the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if acct := h.account(r); acct != nil {
		h.nav.ForgetCart(acct.Token)
		slog.Info("user signed out", "category", "auth", "user", acct.User.Email)
	}
	if err := h.sessions.Clear(r.Context()); err != nil {
		slog.Warn("clearing session failed", "category", "auth", "error", err)
	}
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}
