// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the shop REST API. Authenticated calls carry the bearer
// token held in the caller's session; the client never stores tokens itself.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do performs a request and returns the raw response body. A nil body sends
// no payload; a non-nil body is JSON-encoded. Non-2xx statuses map to the
// sentinel errors in errors.go.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errFromStatus(resp.StatusCode, path)
	}

	return data, nil
}

// doJSON performs a request and decodes the response into out (unless nil).
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	data, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// Login exchanges credentials for a bearer token and user profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var result AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login", "", creds, &result); err != nil {
		return AuthResult{}, err
	}
	if result.Token == "" {
		return AuthResult{}, fmt.Errorf("%w: login response missing token", ErrUnavailable)
	}
	return result, nil
}

// Register creates a new customer account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/register", "", reg, nil)
}

// ForgotPassword requests a password reset email for the account.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/users/forgot-password", "", body, nil)
}

// Products fetches the full catalog. The API historically returned either a
// bare array or a {products: [...]} wrapper; both are accepted.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/products", "", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Product](data, "products")
}

// ProductByID fetches a single product. The response is either the product
// object itself or a {product: {...}} wrapper.
func (c *Client) ProductByID(ctx context.Context, id string) (Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/products/"+id, "", nil)
	if err != nil {
		return Product{}, err
	}
	return decodeObject[Product](data, "product")
}

// CartMe fetches the current user's cart.
func (c *Client) CartMe(ctx context.Context, token string) (CartSnapshot, error) {
	var snap CartSnapshot
	if err := c.doJSON(ctx, http.MethodGet, "/api/cart/me", token, nil, &snap); err != nil {
		return CartSnapshot{}, err
	}
	return snap, nil
}

// CartAdd adds quantity of a product to the current user's cart.
func (c *Client) CartAdd(ctx context.Context, token, productID string, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.doJSON(ctx, http.MethodPost, "/api/cart/add", token, body, nil)
}

// CartUpdate sets the quantity of a cart line.
func (c *Client) CartUpdate(ctx context.Context, token, productID string, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.doJSON(ctx, http.MethodPost, "/api/cart/update", token, body, nil)
}

// CartRemove deletes a line from the cart.
func (c *Client) CartRemove(ctx context.Context, token, productID string) error {
	body := map[string]any{"productId": productID}
	return c.doJSON(ctx, http.MethodPost, "/api/cart/remove", token, body, nil)
}

// Checkout places an order from the current cart contents.
func (c *Client) Checkout(ctx context.Context, token string, req CheckoutRequest) (Order, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/orders/checkout", token, req)
	if err != nil {
		return Order{}, err
	}
	return decodeObject[Order](data, "order")
}

// OrdersMe fetches the current user's purchase history.
func (c *Client) OrdersMe(ctx context.Context, token string) ([]Order, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/orders/me", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Order](data, "orders")
}

// Wishlist fetches the current user's wishlist.
func (c *Client) Wishlist(ctx context.Context, token string) ([]WishlistItem, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/wishlist/me", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[WishlistItem](data, "items")
}

// WishlistAdd saves a product to the wishlist.
func (c *Client) WishlistAdd(ctx context.Context, token, productID string) error {
	body := map[string]string{"productId": productID}
	return c.doJSON(ctx, http.MethodPost, "/api/wishlist/add", token, body, nil)
}

// WishlistRemove drops a product from the wishlist.
func (c *Client) WishlistRemove(ctx context.Context, token, productID string) error {
	body := map[string]string{"productId": productID}
	return c.doJSON(ctx, http.MethodPost, "/api/wishlist/remove", token, body, nil)
}

// CreateProduct creates a catalog entry (admin only).
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (Product, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/products", token, input)
	if err != nil {
		return Product{}, err
	}
	return decodeObject[Product](data, "product")
}

// UpdateProduct updates a catalog entry (admin only).
func (c *Client) UpdateProduct(ctx context.Context, token, id string, input ProductInput) (Product, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/products/"+id, token, input)
	if err != nil {
		return Product{}, err
	}
	return decodeObject[Product](data, "product")
}

// DeleteProduct removes a catalog entry (admin only).
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/products/"+id, token, nil)
	return err
}

// ProductHistory fetches the admin product change log.
func (c *Client) ProductHistory(ctx context.Context, token string) ([]ProductEvent, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/products/history", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[ProductEvent](data, "history")
}

// PurchaseHistory fetches all orders across customers (admin only).
func (c *Client) PurchaseHistory(ctx context.Context, token string) ([]Order, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/purchases", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Order](data, "orders")
}

// Users fetches all registered accounts (admin only).
func (c *Client) Users(ctx context.Context, token string) ([]UserRecord, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/users", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[UserRecord](data, "users")
}
