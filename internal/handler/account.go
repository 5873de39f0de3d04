// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aurevra/storefront-go/internal/shop"
)

// AccountHandler serves the signed-in customer's account pages.
type AccountHandler struct {
	*Base
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(base *Base) *AccountHandler {
	return &AccountHandler{Base: base}
}

// AccountData is the view model for the account overview page.
type AccountData struct {
	User shop.Profile
}

// Account renders the account overview.
func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	acct := h.account(r)
	if acct == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}
	h.render(w, r, "shop/account", "My Account", AccountData{User: acct.User})
}

// PurchasesData is the view model for the purchase history page.
type PurchasesData struct {
	Orders []shop.Order
	Failed bool
}

// Purchases renders the customer's order history.
func (h *AccountHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	orders, err := h.shop.OrdersMe(r.Context(), h.token(r))
	data := PurchasesData{Orders: orders}
	if err != nil {
		slog.Warn("loading purchase history failed", "category", "order", "error", err)
		data.Failed = true
	}
	h.render(w, r, "shop/purchases", "My Purchases", data)
}

// WishlistData is the view model for the wishlist page.
type WishlistData struct {
	Items  []shop.WishlistItem
	Failed bool
}

// Wishlist renders the customer's saved items.
func (h *AccountHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.shop.Wishlist(r.Context(), h.token(r))
	data := WishlistData{Items: items}
	if err != nil {
		slog.Warn("loading wishlist failed", "category", "catalog", "error", err)
		data.Failed = true
	}
	h.render(w, r, "shop/wishlist", "My Wishlist", data)
}

// WishlistAdd saves a product to the wishlist.
func (h *AccountHandler) WishlistAdd(w http.ResponseWriter, r *http.Request) {
	productID := r.FormValue("product_id")
	if productID == "" {
		h.flashAndRedirect(w, r, "Missing product.", FlashError, RouteShop)
		return
	}

	err := h.shop.WishlistAdd(r.Context(), h.token(r), productID)
	switch {
	case err == nil:
		h.flashAndRedirect(w, r, "Saved to your wishlist.", FlashSuccess, h.backTo(r))
	case errors.Is(err, shop.ErrBadRequest):
		// Already saved.
		h.flashAndRedirect(w, r, "Already in your wishlist.", FlashInfo, h.backTo(r))
	default:
		slog.Error("adding to wishlist failed", "category", "catalog", "product_id", productID, "error", err)
		h.flashAndRedirect(w, r, "Could not save the item. Please try again.", FlashError, h.backTo(r))
	}
}

// WishlistRemove drops a product from the wishlist.
func (h *AccountHandler) WishlistRemove(w http.ResponseWriter, r *http.Request) {
	productID := r.FormValue("product_id")

	if err := h.shop.WishlistRemove(r.Context(), h.token(r), productID); err != nil && !errors.Is(err, shop.ErrNotFound) {
		slog.Error("removing from wishlist failed", "category", "catalog", "product_id", productID, "error", err)
		h.flashAndRedirect(w, r, "Could not remove the item.", FlashError, RouteWishlist)
		return
	}
	http.Redirect(w, r, RouteWishlist, http.StatusSeeOther)
}

func (h *AccountHandler) backTo(r *http.Request) string {
	if back := r.Header.Get("Referer"); isLocalPath(back) {
		return back
	}
	return RouteWishlist
}
