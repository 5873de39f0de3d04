// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shop provides a typed client for the Aurevra shop REST API.
// The storefront owns no catalog, cart, or order data of its own; every
// domain read and write goes through this client.
package shop

import "time"

// Product is a catalog entry as returned by the shop API.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Stock       int       `json:"stock,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Profile is the user record the API returns on login. Role is an exact
// string; anything other than "admin" is treated as a customer.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RoleAdmin is the admin role string. Comparison is exact; malformed role
// values silently fall through to the customer branch.
const RoleAdmin = "admin"

// IsAdmin returns true if the profile has exactly the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CartItem is a single line in a user's cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartSnapshot is the cart as returned by GET /api/cart/me. It is refetched,
// never cached, and goes stale between refreshes.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
}

// TotalQuantity returns the sum of item quantities, which is what the
// navbar badge displays.
func (c CartSnapshot) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// OrderItem is a purchased line within an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a completed purchase.
type Order struct {
	ID        string      `json:"_id"`
	UserID    string      `json:"userId,omitempty"`
	UserEmail string      `json:"userEmail,omitempty"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// WishlistItem is a saved product reference.
type WishlistItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the API response to a successful login.
type AuthResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// ProductInput is the create/update payload for admin product management.
type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
	// Image is the base64-encoded processed image, empty to keep the
	// existing one on update.
	Image     string `json:"image,omitempty"`
	ImageName string `json:"imageName,omitempty"`
}

// ProductEvent is an admin history entry (product created/updated/deleted).
type ProductEvent struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRecord is an admin view of a registered account.
type UserRecord struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutRequest is the checkout payload posted on order placement.
type CheckoutRequest struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone,omitempty"`
	Payment  string `json:"payment"`
}
