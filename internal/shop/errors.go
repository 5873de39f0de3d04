// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package shop

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client. Callers match with errors.Is and
// decide whether a failure degrades silently (cart badge, suggestions) or
// is surfaced to the user (add-to-cart, product detail).
var (
	// ErrUnauthorized indicates the API rejected the bearer token or the
	// credentials were wrong.
	ErrUnauthorized = errors.New("shop: unauthorized")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("shop: not found")

	// ErrUnavailable indicates a transport failure or a 5xx from the API.
	ErrUnavailable = errors.New("shop: service unavailable")

	// ErrBadRequest indicates the API rejected the request payload.
	ErrBadRequest = errors.New("shop: bad request")
)

// statusError wraps a sentinel with the HTTP status and endpoint for logs.
type statusError struct {
	sentinel error
	status   int
	endpoint string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v (status %d from %s)", e.sentinel, e.status, e.endpoint)
}

func (e *statusError) Unwrap() error {
	return e.sentinel
}

// errFromStatus maps an HTTP status code to a sentinel error.
func errFromStatus(status int, endpoint string) error {
	var sentinel error
	switch {
	case status == 401 || status == 403:
		sentinel = ErrUnauthorized
	case status == 404:
		sentinel = ErrNotFound
	case status >= 400 && status < 500:
		sentinel = ErrBadRequest
	default:
		sentinel = ErrUnavailable
	}
	return &statusError{sentinel: sentinel, status: status, endpoint: endpoint}
}
