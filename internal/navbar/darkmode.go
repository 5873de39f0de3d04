// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package navbar

import (
	"net/http"
	"time"
)

// Dark mode is a per-browser preference, so it lives in its own cookie
// rather than the session.
const (
	darkModeCookie   = "dark_mode"
	darkModeEnabled  = "enabled"
	darkModeDisabled = "disabled"
)

// DarkModeEnabled reports whether the visitor has dark mode turned on.
// A missing or unrecognized cookie reads as light mode.
func DarkModeEnabled(r *http.Request) bool {
	cookie, err := r.Cookie(darkModeCookie)
	if err != nil {
		return false
	}
	return cookie.Value == darkModeEnabled
}

// SetDarkMode persists the visitor's dark mode preference.
func SetDarkMode(w http.ResponseWriter, enabled bool) {
	value := darkModeDisabled
	if enabled {
		value = darkModeEnabled
	}
	http.SetCookie(w, &http.Cookie{
		Name:     darkModeCookie,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: false, // templates toggle the class client-side too
		SameSite: http.SameSiteLaxMode,
	})
}

// ToggleDarkMode flips the preference and returns the new state.
func ToggleDarkMode(w http.ResponseWriter, r *http.Request) bool {
	enabled := !DarkModeEnabled(r)
	SetDarkMode(w, enabled)
	return enabled
}
