// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aurevra/storefront-go/internal/cache"
	"github.com/aurevra/storefront-go/internal/shop"
)

// CartHandler serves the cart and checkout flow.
type CartHandler struct {
	*Base
	catalog *cache.CatalogCache
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(base *Base, catalog *cache.CatalogCache) *CartHandler {
	return &CartHandler{Base: base, catalog: catalog}
}

// CartLine is one cart row joined with its catalog entry.
type CartLine struct {
	Product  shop.Product
	Quantity int
	Subtotal float64
}

// CartData is the view model for the cart and checkout pages.
type CartData struct {
	Lines  []CartLine
	Total  float64
	Failed bool
}

// buildCart fetches the live cart and resolves each line against the
// catalog snapshot. Lines whose product vanished from the catalog keep
// the ID so the row can still be removed.
func (h *CartHandler) buildCart(r *http.Request) (CartData, error) {
	snapshot, err := h.shop.CartMe(r.Context(), h.token(r))
	if err != nil {
		return CartData{Failed: true}, err
	}

	byID := make(map[string]shop.Product)
	if products, err := h.catalog.Products(r.Context()); err == nil {
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	var data CartData
	for _, item := range snapshot.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			product = shop.Product{ID: item.ProductID, Name: "Unavailable item"}
		}
		line := CartLine{
			Product:  product,
			Quantity: item.Quantity,
			Subtotal: product.Price * float64(item.Quantity),
		}
		data.Lines = append(data.Lines, line)
		data.Total += line.Subtotal
	}
	return data, nil
}

// Cart renders the cart page.
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	data, err := h.buildCart(r)
	if err != nil {
		slog.Warn("loading cart failed", "category", "cart", "error", err)
	}
	h.render(w, r, "shop/cart", "Your Cart", data)
}

// Add puts a product in the cart and refreshes the badge.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	productID := r.FormValue("product_id")
	if productID == "" {
		h.flashAndRedirect(w, r, "Missing product.", FlashError, RouteShop)
		return
	}
	quantity := formQuantity(r, "quantity")
	token := h.token(r)

	if err := h.shop.CartAdd(r.Context(), token, productID, quantity); err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			h.flashAndRedirect(w, r, "That product is no longer available.", FlashError, RouteShop)
			return
		}
		slog.Error("adding to cart failed", "category", "cart", "product_id", productID, "error", err)
		h.flashAndRedirect(w, r, "Could not add to cart. Please try again.", FlashError, h.backTo(r, RouteShop))
		return
	}

	h.nav.InvalidateCart(token)
	h.flashAndRedirect(w, r, "Added to cart.", FlashSuccess, h.backTo(r, RouteCart))
}

// Update changes a line quantity; zero removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID := r.FormValue("product_id")
	quantity := formQuantity(r, "quantity")
	token := h.token(r)

	if err := h.shop.CartUpdate(r.Context(), token, productID, quantity); err != nil {
		slog.Error("updating cart failed", "category", "cart", "product_id", productID, "error", err)
		h.flashAndRedirect(w, r, "Could not update the cart.", FlashError, RouteCart)
		return
	}

	h.nav.InvalidateCart(token)
	http.Redirect(w, r, RouteCart, http.StatusSeeOther)
}

// Remove deletes a line from the cart.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := r.FormValue("product_id")
	token := h.token(r)

	if err := h.shop.CartRemove(r.Context(), token, productID); err != nil && !errors.Is(err, shop.ErrNotFound) {
		slog.Error("removing from cart failed", "category", "cart", "product_id", productID, "error", err)
		h.flashAndRedirect(w, r, "Could not remove the item.", FlashError, RouteCart)
		return
	}

	h.nav.InvalidateCart(token)
	http.Redirect(w, r, RouteCart, http.StatusSeeOther)
}

// CheckoutForm renders the checkout page with the current cart summary.
func (h *CartHandler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.buildCart(r)
	if err != nil {
		slog.Warn("loading cart for checkout failed", "category", "cart", "error", err)
	}
	if len(data.Lines) == 0 && !data.Failed {
		h.flashAndRedirect(w, r, "Your cart is empty.", FlashInfo, RouteShop)
		return
	}
	h.render(w, r, "shop/checkout", "Checkout", data)
}

// Checkout places the order through the shop API.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	req := shop.CheckoutRequest{
		FullName: strings.TrimSpace(r.FormValue("full_name")),
		Address:  strings.TrimSpace(r.FormValue("address")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Payment:  r.FormValue("payment"),
	}
	if req.FullName == "" || req.Address == "" || req.Payment == "" {
		h.flashAndRedirect(w, r, "Name, address and payment method are required.", FlashError, RouteCheckout)
		return
	}

	token := h.token(r)
	order, err := h.shop.Checkout(r.Context(), token, req)
	if err != nil {
		if errors.Is(err, shop.ErrBadRequest) {
			h.flashAndRedirect(w, r, "Your cart is empty.", FlashError, RouteCart)
			return
		}
		slog.Error("checkout failed", "category", "order", "error", err)
		h.flashAndRedirect(w, r, "Checkout failed. Your cart was not charged.", FlashError, RouteCheckout)
		return
	}

	h.nav.InvalidateCart(token)
	slog.Info("order placed", "category", "order", "order_id", order.ID, "total", order.Total)
	http.Redirect(w, r, RouteSuccess+"?order="+order.ID, http.StatusSeeOther)
}

// SuccessData is the view model for the order confirmation page.
type SuccessData struct {
	OrderID string
}

// Success renders the order confirmation page.
func (h *CartHandler) Success(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "shop/success", "Order Confirmed", SuccessData{
		OrderID: r.URL.Query().Get("order"),
	})
}

// backTo returns the referring path when it is local, else fallback.
func (h *CartHandler) backTo(r *http.Request, fallback string) string {
	if back := r.Header.Get("Referer"); isLocalPath(back) {
		return back
	}
	return fallback
}
