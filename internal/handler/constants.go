// Package handler contains the HTTP handlers for the storefront and the
// back office. Handlers talk to the shop API for all domain data and keep
// only session, cache and analytics state locally.
package handler

// Storefront routes.
const (
	RouteRoot           = "/"
	RouteHome           = "/home"
	RouteAbout          = "/about"
	RouteContact        = "/contact"
	RouteShop           = "/shop"
	RouteProduct        = "/product/{id}"
	RouteSearch         = "/search"
	RouteSearchSuggest  = "/search/suggest"
	RouteCart           = "/cart"
	RouteCartAdd        = "/cart/add"
	RouteCartUpdate     = "/cart/update"
	RouteCartRemove     = "/cart/remove"
	RouteCheckout       = "/checkout"
	RouteSuccess        = "/success"
	RouteAccount        = "/account"
	RoutePurchase       = "/purchase"
	RoutePurchases      = "/purchases"
	RouteWishlist       = "/wishlist"
	RouteWishlistAdd    = "/wishlist/add"
	RouteWishlistRemove = "/wishlist/remove"
	RouteThemeToggle    = "/theme/toggle"
	RouteHealth         = "/health"
)

// Auth routes.
const (
	RouteLogin          = "/user/login"
	RouteRegister       = "/user/register"
	RouteForgotPassword = "/user/forgot-password"
	RouteLogout         = "/user/logout"
)

// Back-office routes.
const (
	RouteAdminDashboard     = "/admin/dashboard"
	RouteAdminProducts      = "/admin/products"
	RouteAdminProductNew    = "/admin/products/add"
	RouteAdminProductEdit   = "/admin/products/edit/{id}"
	RouteAdminProductDelete = "/admin/products/delete/{id}"
	RouteAdminHistory       = "/admin/products/history"
	RouteAdminPurchases     = "/admin/purchase-history"
	RouteAdminUsers         = "/admin/users-created"
)

// Flash message types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)
