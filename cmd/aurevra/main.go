// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Command aurevra runs the Aurevra Jewelry storefront: a server-rendered
// web shop backed by the shop REST API, with local session, cache and
// analytics state in SQLite.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/aurevra/storefront-go/internal/analytics"
	"github.com/aurevra/storefront-go/internal/cache"
	"github.com/aurevra/storefront-go/internal/config"
	"github.com/aurevra/storefront-go/internal/geoip"
	"github.com/aurevra/storefront-go/internal/handler"
	"github.com/aurevra/storefront-go/internal/imaging"
	"github.com/aurevra/storefront-go/internal/logging"
	"github.com/aurevra/storefront-go/internal/middleware"
	"github.com/aurevra/storefront-go/internal/navbar"
	"github.com/aurevra/storefront-go/internal/render"
	"github.com/aurevra/storefront-go/internal/scheduler"
	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
	"github.com/aurevra/storefront-go/internal/store"
	"github.com/aurevra/storefront-go/internal/version"
	"github.com/aurevra/storefront-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Aurevra Jewelry storefront\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_SHOP_API_URL      Base URL of the shop REST API (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_DB_PATH           SQLite database path (default: ./data/aurevra.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AURA_GEOIP_DB_PATH     Path to GeoLite2-Country.mmdb (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("aurevra %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR records to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Session manager backed by the sessions table
	sessionManager := session.New(db, cfg.IsDevelopment())
	sessions := session.NewStore(sessionManager)
	slog.Info("session manager initialized")

	// Shop API client
	shopClient := shop.NewClient(cfg.ShopAPIURL, time.Duration(cfg.ShopAPITimeout)*time.Second)
	slog.Info("shop api client initialized", "base_url", cfg.ShopAPIURL)

	// Cache backend: Redis when configured, in-process memory otherwise
	backend, err := cache.NewCache(cache.CacheConfig{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Warn("closing cache backend", "error", err)
		}
	}()

	catalogTTL := time.Duration(cfg.CatalogRefreshMinutes) * time.Minute
	catalog := cache.NewCatalogCache(backend, shopClient.Products, catalogTTL)
	if err := catalog.Refresh(context.Background()); err != nil {
		slog.Warn("initial catalog load failed", "category", "catalog", "error", err)
	}

	// Navbar state: cart badge and search suggestions
	nav := navbar.New(catalog, shopClient)

	// GeoIP country lookups for page-view analytics (optional)
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip init failed", "path", cfg.GeoIPDBPath, "error", err)
		}
	}
	defer func() { _ = geo.Close() }()

	// Page-view tracker
	tracker := analytics.NewTracker(db, geo)
	tracker.Start()
	defer tracker.Stop()

	// Background jobs
	sched := scheduler.New(scheduler.Config{
		CatalogRefreshMinutes: cfg.CatalogRefreshMinutes,
		PageViewRetention:     time.Duration(cfg.PageViewRetentionDays) * 24 * time.Hour,
	}, catalog, tracker, geo, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Handlers
	base := handler.NewBase(shopClient, sessions, renderer, nav)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	authHandler := handler.NewAuthHandler(base, loginProtection)
	frontendHandler := handler.NewFrontendHandler(base, catalog)
	catalogHandler := handler.NewCatalogHandler(base, catalog)
	cartHandler := handler.NewCartHandler(base, catalog)
	accountHandler := handler.NewAccountHandler(base)
	adminHandler := handler.NewAdminHandler(base, catalog, store.New(db), tracker,
		imaging.NewProcessor(cfg.MaxImageDimension))
	healthHandler := handler.NewHealthHandler(db, shopClient, sessions, versionInfo)

	// Middleware
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	suggestRateLimiter := middleware.NewGlobalRateLimiter(20.0, 40)

	r := chi.NewRouter()
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)

	// Health check (public, richer output for signed-in admins)
	r.Get(handler.RouteHealth, healthHandler.Health)

	// Public routes: landing page and theme toggle
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadAccount(sessions))
		r.Use(tracker.Middleware(func(req *http.Request) string {
			if acct := middleware.GetAccount(req); acct != nil {
				return acct.User.ID
			}
			return ""
		}))
		r.Use(csrfMiddleware)

		r.Post(handler.RouteThemeToggle, frontendHandler.ThemeToggle)
		r.Get(handler.RouteRoot, frontendHandler.Landing)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadAccount(sessions))
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.Post(handler.RouteRegister, authHandler.Register)
		r.Get(handler.RouteForgotPassword, authHandler.ForgotPasswordForm)
		r.Post(handler.RouteForgotPassword, authHandler.ForgotPassword)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Customer area
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCustomer(sessions))
		r.Use(tracker.Middleware(func(req *http.Request) string {
			if acct := middleware.GetAccount(req); acct != nil {
				return acct.User.ID
			}
			return ""
		}))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteHome, frontendHandler.Home)
		r.Get(handler.RouteAbout, frontendHandler.About)
		r.Get(handler.RouteContact, frontendHandler.ContactForm)
		r.Post(handler.RouteContact, frontendHandler.Contact)
		r.Get(handler.RouteShop, catalogHandler.Shop)
		r.Get(handler.RouteSearch, catalogHandler.Search)
		r.With(suggestRateLimiter.JSONMiddleware()).Get(handler.RouteSearchSuggest, catalogHandler.Suggest)
		r.Get(handler.RouteProduct, catalogHandler.ProductDetail)
		r.Get(handler.RouteCart, cartHandler.Cart)
		r.Post(handler.RouteCartAdd, cartHandler.Add)
		r.Post(handler.RouteCartUpdate, cartHandler.Update)
		r.Post(handler.RouteCartRemove, cartHandler.Remove)
		r.Get(handler.RouteCheckout, cartHandler.CheckoutForm)
		r.Post(handler.RouteCheckout, cartHandler.Checkout)
		r.Get(handler.RouteSuccess, cartHandler.Success)
		r.Get(handler.RouteAccount, accountHandler.Account)
		r.Get(handler.RoutePurchase, accountHandler.Purchases)
		r.Get(handler.RoutePurchases, accountHandler.Purchases)
		r.Get(handler.RouteWishlist, accountHandler.Wishlist)
		r.Post(handler.RouteWishlistAdd, accountHandler.WishlistAdd)
		r.Post(handler.RouteWishlistRemove, accountHandler.WishlistRemove)
	})

	// Back office
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessions))
		r.Use(csrfMiddleware)

		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/products", adminHandler.Products)
		r.Get("/products/add", adminHandler.ProductNew)
		r.Post("/products/add", adminHandler.ProductCreate)
		r.Get("/products/edit/{id}", adminHandler.ProductEdit)
		r.Post("/products/edit/{id}", adminHandler.ProductUpdate)
		r.Post("/products/delete/{id}", adminHandler.ProductDelete)
		r.Get("/products/history", adminHandler.History)
		r.Get("/purchase-history", adminHandler.Purchases)
		r.Get("/users-created", adminHandler.Users)
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Storefront 404 for everything else
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		frontendHandler.NotFound(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
