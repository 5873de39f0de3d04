// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package navbar drives the storefront's navigation bar: the cart badge,
// live search suggestions, and the dark mode preference.
package navbar

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
	"github.com/aurevra/storefront-go/internal/util"
)

// MaxSuggestions caps the autocomplete dropdown.
const MaxSuggestions = 5

const (
	// badgeTTL bounds how long a fetched badge count is served without a
	// refetch. Cart changes made by other API clients become visible
	// within this window even if this process never mutated the cart.
	badgeTTL = 10 * time.Second

	// badgeIdleAfter is how long an untouched badge entry survives before
	// the sweep drops it. Tokens of expired sessions stop being read, so
	// this is what reclaims their entries.
	badgeIdleAfter = time.Hour

	badgeSweepEvery = 10 * time.Minute
)

// CartSource fetches the signed-in shopper's cart.
type CartSource interface {
	CartMe(ctx context.Context, token string) (shop.CartSnapshot, error)
}

// CatalogSource returns the product catalog snapshot.
type CatalogSource interface {
	Products(ctx context.Context) ([]shop.Product, error)
}

// badgeState is a cached cart badge count for one shopper.
// gen increments whenever the cart is mutated; a refresh that started
// before the mutation carries the old gen and its result is not cached.
type badgeState struct {
	count    int
	gen      uint64
	fetched  time.Time
	lastSeen time.Time
}

// Controller computes navbar state.
type Controller struct {
	catalog CatalogSource
	carts   CartSource
	now     func() time.Time

	mu        sync.Mutex
	badges    map[string]*badgeState
	lastSweep time.Time
}

// New creates a navbar controller.
func New(catalog CatalogSource, carts CartSource) *Controller {
	return &Controller{
		catalog: catalog,
		carts:   carts,
		now:     time.Now,
		badges:  make(map[string]*badgeState),
	}
}

// CartCount returns the total quantity across the shopper's cart items.
// Anonymous visitors and fetch failures both read as zero so the badge
// never blocks a page render.
func (c *Controller) CartCount(ctx context.Context, token string) int {
	if token == "" {
		return 0
	}

	now := c.now()

	c.mu.Lock()
	c.sweepLocked(now)
	state, ok := c.badges[token]
	if ok {
		state.lastSeen = now
		if !state.fetched.IsZero() && now.Sub(state.fetched) < badgeTTL {
			count := state.count
			c.mu.Unlock()
			return count
		}
	} else {
		state = &badgeState{lastSeen: now}
		c.badges[token] = state
	}
	gen := state.gen
	c.mu.Unlock()

	snap, err := c.carts.CartMe(ctx, token)
	if err != nil {
		slog.Debug("cart badge fetch failed", "error", err)
		return 0
	}
	count := snap.TotalQuantity()

	c.mu.Lock()
	defer c.mu.Unlock()

	// The cart changed while this fetch was in flight. Show the fetched
	// value for this render but leave the cache stale so the next render
	// refetches.
	if cur, ok := c.badges[token]; ok && cur.gen == gen {
		cur.count = count
		cur.fetched = c.now()
	}
	return count
}

// sweepLocked drops badge entries that have not been read or invalidated
// for badgeIdleAfter. Caller holds c.mu.
func (c *Controller) sweepLocked(now time.Time) {
	if now.Sub(c.lastSweep) < badgeSweepEvery {
		return
	}
	c.lastSweep = now
	for token, state := range c.badges {
		if now.Sub(state.lastSeen) > badgeIdleAfter {
			delete(c.badges, token)
		}
	}
}

// InvalidateCart marks the shopper's badge stale after a cart mutation.
func (c *Controller) InvalidateCart(token string) {
	if token == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.badges[token]
	if !ok {
		state = &badgeState{}
		c.badges[token] = state
	}
	state.gen++
	state.fetched = time.Time{}
	state.lastSeen = c.now()
}

// ForgetCart drops the badge entirely, for logout.
func (c *Controller) ForgetCart(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.badges, token)
}

// Suggest returns up to MaxSuggestions products whose names contain the
// query, matched case-insensitively and accent-insensitively. Results keep
// catalog order. An empty or unavailable catalog yields no suggestions.
func (c *Controller) Suggest(ctx context.Context, query string) []shop.Product {
	folded := util.Fold(strings.TrimSpace(query))
	if folded == "" {
		return nil
	}

	products, err := c.catalog.Products(ctx)
	if err != nil {
		slog.Debug("suggestion lookup failed", "error", err)
		return nil
	}

	var matches []shop.Product
	for _, p := range products {
		if util.FoldContains(p.Name, folded) {
			matches = append(matches, p)
			if len(matches) == MaxSuggestions {
				break
			}
		}
	}
	return matches
}

// Search returns every catalog product matching the query, for the full
// results page.
func (c *Controller) Search(ctx context.Context, query string) ([]shop.Product, error) {
	products, err := c.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}

	folded := util.Fold(strings.TrimSpace(query))
	if folded == "" {
		return nil, nil
	}

	var matches []shop.Product
	for _, p := range products {
		if util.FoldContains(p.Name, folded) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// NavData is the navbar state handed to templates.
type NavData struct {
	SignedIn  bool
	IsAdmin   bool
	UserName  string
	CartCount int
	DarkMode  bool
}

// View assembles the navbar state for a request.
func (c *Controller) View(r *http.Request, acct *session.Account) NavData {
	data := NavData{
		DarkMode: DarkModeEnabled(r),
	}
	if acct == nil {
		return data
	}

	data.SignedIn = true
	data.IsAdmin = acct.User.IsAdmin()
	data.UserName = acct.User.Name

	// The back office has no cart badge.
	if !data.IsAdmin {
		data.CartCount = c.CartCount(r.Context(), acct.Token)
	}
	return data
}
