// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aurevra/storefront-go/internal/analytics"
	"github.com/aurevra/storefront-go/internal/cache"
	"github.com/aurevra/storefront-go/internal/imaging"
	"github.com/aurevra/storefront-go/internal/shop"
	"github.com/aurevra/storefront-go/internal/store"
	"github.com/aurevra/storefront-go/internal/util"
)

// maxUploadBytes bounds product image uploads.
const maxUploadBytes = 10 << 20

// AdminHandler serves the back office.
type AdminHandler struct {
	*Base
	catalog   *cache.CatalogCache
	queries   *store.Queries
	tracker   *analytics.Tracker
	processor *imaging.Processor
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(base *Base, catalog *cache.CatalogCache, queries *store.Queries, tracker *analytics.Tracker, processor *imaging.Processor) *AdminHandler {
	return &AdminHandler{
		Base:      base,
		catalog:   catalog,
		queries:   queries,
		tracker:   tracker,
		processor: processor,
	}
}

// DashboardData is the view model for the admin dashboard.
type DashboardData struct {
	ProductCount int
	OrderCount   int
	UserCount    int
	Revenue      float64
	Traffic      analytics.Stats
	Events       []store.Event
}

// Dashboard renders the back-office overview: store totals from the
// shop API, a week of local traffic stats and the recent event log.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := h.token(r)
	var data DashboardData

	if products, err := h.shop.Products(ctx); err == nil {
		data.ProductCount = len(products)
	}
	if orders, err := h.shop.PurchaseHistory(ctx, token); err == nil {
		data.OrderCount = len(orders)
		for _, o := range orders {
			data.Revenue += o.Total
		}
	}
	if users, err := h.shop.Users(ctx, token); err == nil {
		data.UserCount = len(users)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if traffic, err := h.tracker.StatsSince(ctx, weekAgo, 5); err == nil {
		data.Traffic = traffic
	} else {
		slog.Warn("loading traffic stats failed", "category", "admin", "error", err)
	}

	if events, err := h.queries.ListRecentEvents(ctx, 20); err == nil {
		data.Events = events
	} else {
		slog.Warn("loading recent events failed", "category", "admin", "error", err)
	}

	h.render(w, r, "admin/dashboard", "Dashboard", data)
}

// AdminProductsData is the view model for the product management list.
type AdminProductsData struct {
	Products []shop.Product
	Failed   bool
}

// Products lists the catalog for management. Reads go straight to the
// shop API so edits made elsewhere show immediately.
func (h *AdminHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.shop.Products(r.Context())
	data := AdminProductsData{Products: products}
	if err != nil {
		slog.Error("loading products for admin failed", "category", "admin", "error", err)
		data.Failed = true
	}
	h.render(w, r, "admin/products", "Products", data)
}

// ProductFormData is the view model for the create and edit forms.
type ProductFormData struct {
	Product shop.Product
	IsEdit  bool
}

// ProductNew renders the create-product form.
func (h *AdminHandler) ProductNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/product_form", "New Product", ProductFormData{})
}

// ProductCreate creates a product through the shop API.
func (h *AdminHandler) ProductCreate(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseProductForm(r, true)
	if err != nil {
		h.flashAndRedirect(w, r, err.Error(), FlashError, RouteAdminProductNew)
		return
	}

	product, err := h.shop.CreateProduct(r.Context(), h.token(r), input)
	if err != nil {
		slog.Error("creating product failed", "category", "admin", "error", err)
		h.flashAndRedirect(w, r, "Could not create the product.", FlashError, RouteAdminProductNew)
		return
	}

	h.invalidateCatalog(r)
	slog.Info("product created", "category", "admin", "product_id", product.ID, "name", product.Name)
	h.flashAndRedirect(w, r, "Product created.", FlashSuccess, RouteAdminProducts)
}

// ProductEdit renders the edit form for an existing product.
func (h *AdminHandler) ProductEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.shop.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			h.flashAndRedirect(w, r, "Product not found.", FlashError, RouteAdminProducts)
			return
		}
		slog.Error("loading product for edit failed", "category", "admin", "product_id", id, "error", err)
		h.flashAndRedirect(w, r, "Could not load the product.", FlashError, RouteAdminProducts)
		return
	}

	h.render(w, r, "admin/product_form", "Edit "+product.Name, ProductFormData{Product: product, IsEdit: true})
}

// ProductUpdate updates a product through the shop API. An empty image
// field keeps the existing image.
func (h *AdminHandler) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := RouteAdminProducts + "/edit/" + id

	input, err := h.parseProductForm(r, false)
	if err != nil {
		h.flashAndRedirect(w, r, err.Error(), FlashError, editURL)
		return
	}

	if _, err := h.shop.UpdateProduct(r.Context(), h.token(r), id, input); err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			h.flashAndRedirect(w, r, "Product not found.", FlashError, RouteAdminProducts)
			return
		}
		slog.Error("updating product failed", "category", "admin", "product_id", id, "error", err)
		h.flashAndRedirect(w, r, "Could not update the product.", FlashError, editURL)
		return
	}

	h.invalidateCatalog(r)
	slog.Info("product updated", "category", "admin", "product_id", id)
	h.flashAndRedirect(w, r, "Product updated.", FlashSuccess, RouteAdminProducts)
}

// ProductDelete removes a product through the shop API.
func (h *AdminHandler) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.shop.DeleteProduct(r.Context(), h.token(r), id); err != nil && !errors.Is(err, shop.ErrNotFound) {
		slog.Error("deleting product failed", "category", "admin", "product_id", id, "error", err)
		h.flashAndRedirect(w, r, "Could not delete the product.", FlashError, RouteAdminProducts)
		return
	}

	h.invalidateCatalog(r)
	slog.Info("product deleted", "category", "admin", "product_id", id)
	h.flashAndRedirect(w, r, "Product deleted.", FlashSuccess, RouteAdminProducts)
}

// parseProductForm reads the product fields and the optional image
// upload. requireImage applies to creation only.
func (h *AdminHandler) parseProductForm(r *http.Request, isCreate bool) (shop.ProductInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return shop.ProductInput{}, errors.New("The upload is too large or malformed.")
	}

	input := shop.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
	}
	if input.Name == "" {
		return shop.ProductInput{}, errors.New("Product name is required.")
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		return shop.ProductInput{}, errors.New("Price must be a non-negative number.")
	}
	input.Price = price

	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil || stock < 0 {
		return shop.ProductInput{}, errors.New("Stock must be a non-negative whole number.")
	}
	input.Stock = stock

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if isCreate {
			return shop.ProductInput{}, errors.New("A product image is required.")
		}
		return input, nil
	case err != nil:
		return shop.ProductInput{}, errors.New("Could not read the image upload.")
	}
	defer file.Close()

	processed, err := h.processor.Process(file)
	if err != nil {
		slog.Warn("processing product image failed", "category", "admin", "filename", header.Filename, "error", err)
		return shop.ProductInput{}, errors.New("The image could not be processed. Use JPEG, PNG, GIF or WebP.")
	}

	input.Image = processed.DataURI()
	input.ImageName = util.UploadFileName(header.Filename, processed.MimeType)
	return input, nil
}

// invalidateCatalog drops the cached catalog snapshot after a mutation.
func (h *AdminHandler) invalidateCatalog(r *http.Request) {
	if err := h.catalog.Invalidate(r.Context()); err != nil {
		slog.Warn("invalidating catalog cache failed", "category", "cache", "error", err)
	}
}

// AdminHistoryData is the view model for the product change history.
type AdminHistoryData struct {
	Events []shop.ProductEvent
	Failed bool
}

// History shows the product change log from the shop API.
func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.shop.ProductHistory(r.Context(), h.token(r))
	data := AdminHistoryData{Events: events}
	if err != nil {
		slog.Error("loading product history failed", "category", "admin", "error", err)
		data.Failed = true
	}
	h.render(w, r, "admin/history", "Product History", data)
}

// AdminPurchasesData is the view model for the store-wide order list.
type AdminPurchasesData struct {
	Orders []shop.Order
	Total  float64
	Failed bool
}

// Purchases shows every order placed in the store.
func (h *AdminHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	orders, err := h.shop.PurchaseHistory(r.Context(), h.token(r))
	data := AdminPurchasesData{Orders: orders}
	if err != nil {
		slog.Error("loading purchase history failed", "category", "admin", "error", err)
		data.Failed = true
	}
	for _, o := range orders {
		data.Total += o.Total
	}
	h.render(w, r, "admin/purchases", "Purchases", data)
}

// AdminUsersData is the view model for the registered users list.
type AdminUsersData struct {
	Users  []shop.UserRecord
	Failed bool
}

// Users lists the registered accounts.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.shop.Users(r.Context(), h.token(r))
	data := AdminUsersData{Users: users}
	if err != nil {
		slog.Error("loading users failed", "category", "admin", "error", err)
		data.Failed = true
	}
	h.render(w, r, "admin/users", "Users", data)
}
